// Package docmap translates object-oriented query, projection, sort and
// update structures into MongoDB wire documents, using entity metadata to
// rewrite property paths and literal values. Inputs are never mutated; every
// mapping call allocates a new structure.
package docmap

import (
	"github.com/docmap/docmap/docmap/mapping"
)

const (
	// DefaultTypeKey is the default type-discriminator field name. A key
	// matching it passes through every mapping operation verbatim.
	DefaultTypeKey = "_class"

	// DefaultMaxDepth bounds structure nesting. Exceeding it fails the
	// mapping call instead of overflowing the stack.
	DefaultMaxDepth = 128
)

// Mapper rewrites query, field, sort and update documents into their
// persisted form. A Mapper is immutable after construction and safe for
// concurrent use.
type Mapper struct {
	provider  *mapping.Provider
	converter Converter
	typeKey   string
	maxDepth  int
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithProvider sets the entity metadata provider. Mappers sharing a
// provider share its metadata cache.
func WithProvider(p *mapping.Provider) Option {
	return func(m *Mapper) { m.provider = p }
}

// WithConverter replaces the general domain-to-wire value converter used
// for values with no special query-mapping rule.
func WithConverter(c Converter) Option {
	return func(m *Mapper) { m.converter = c }
}

// WithTypeKey sets the type-discriminator field name.
func WithTypeKey(key string) Option {
	return func(m *Mapper) { m.typeKey = key }
}

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(depth int) Option {
	return func(m *Mapper) { m.maxDepth = depth }
}

// New creates a Mapper.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		typeKey:  DefaultTypeKey,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.provider == nil {
		m.provider = mapping.NewProvider()
	}
	if m.converter == nil {
		m.converter = NewConverter(m.provider)
	}
	return m
}

// Provider returns the mapper's metadata provider.
func (m *Mapper) Provider() *mapping.Provider { return m.provider }
