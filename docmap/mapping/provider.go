package mapping

import (
	"fmt"
	"reflect"
	"sync"
)

// Provider resolves and caches entity metadata by type. Metadata is computed
// at most once per type, including under racing first access: concurrent
// callers for the same type block on the same computation and receive the
// identical Entity (or the identical error, which is cached permanently).
type Provider struct {
	cache sync.Map // reflect.Type -> *cacheEntry
}

type cacheEntry struct {
	once   sync.Once
	entity *Entity
	err    error
}

// NewProvider creates an empty metadata provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Entity resolves metadata for the type of v. v may be an instance, a
// pointer to one, or a reflect.Type.
func (p *Provider) Entity(v any) (*Entity, error) {
	if v == nil {
		return nil, fmt.Errorf("cannot resolve entity metadata for nil")
	}
	if t, ok := v.(reflect.Type); ok {
		return p.EntityOf(t)
	}
	return p.EntityOf(reflect.TypeOf(v))
}

// EntityOf resolves metadata for a type.
func (p *Provider) EntityOf(t reflect.Type) (*Entity, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	v, _ := p.cache.LoadOrStore(t, &cacheEntry{})
	entry := v.(*cacheEntry)
	entry.once.Do(func() {
		entry.entity, entry.err = buildEntity(t, p)
	})
	return entry.entity, entry.err
}
