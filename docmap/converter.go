package docmap

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/docmap/docmap/docmap/mapping"
	"github.com/docmap/docmap/geo"
	"github.com/docmap/docmap/types"
)

// Converter is the general domain-to-wire value conversion delegated to for
// values with no special query-mapping rule.
type Converter interface {
	// Convert returns the wire representation of v. The input is never
	// mutated.
	Convert(v any) (any, error)
}

// converter is the default Converter. It passes wire-native values through,
// renders enumerated (named string) constants by name, flattens domain
// structs into documents using entity metadata, and recurses into
// collections and maps. It never injects type discriminators: documents it
// produces are destined for criteria, not for storage.
type converter struct {
	provider *mapping.Provider
}

// NewConverter creates the default domain-to-wire converter backed by the
// given metadata provider.
func NewConverter(p *mapping.Provider) Converter {
	return &converter{provider: p}
}

func (c *converter) Convert(v any) (any, error) {
	return c.convert(v, 0)
}

func (c *converter) convert(v any, depth int) (any, error) {
	if depth > DefaultMaxDepth {
		return nil, fmt.Errorf("converting value: %w", types.ErrTooDeep)
	}
	if v == nil {
		return nil, nil
	}

	switch val := v.(type) {
	case bson.Raw, bson.RawValue, bson.ObjectID, bson.JavaScript, bson.DateTime,
		bson.Decimal128, bson.Binary, bson.Regex, bson.Timestamp, bson.Null:
		return val, nil
	case types.DBRef:
		return val, nil
	case geo.Point:
		return val.Document(), nil
	case geo.Shape:
		return val.Document(), nil
	case time.Time, uuid.UUID:
		return val, nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val, nil
	case bson.D:
		out := make(bson.D, 0, len(val))
		for _, e := range val {
			cv, err := c.convert(e.Value, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, bson.E{Key: e.Key, Value: cv})
		}
		return out, nil
	case bson.M:
		return c.convertMap(val, depth)
	case map[string]any:
		return c.convertMap(val, depth)
	case bson.A:
		return c.convertSlice(val, depth)
	case []any:
		return c.convertSlice(val, depth)
	}

	return c.convertReflect(reflect.ValueOf(v), depth)
}

func (c *converter) convertMap(m map[string]any, depth int) (any, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(bson.D, 0, len(keys))
	for _, k := range keys {
		cv, err := c.convert(m[k], depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, bson.E{Key: k, Value: cv})
	}
	return out, nil
}

func (c *converter) convertSlice(s []any, depth int) (any, error) {
	out := make(bson.A, 0, len(s))
	for _, elem := range s {
		cv, err := c.convert(elem, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, cv)
	}
	return out, nil
}

func (c *converter) convertReflect(rv reflect.Value, depth int) (any, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return c.convert(rv.Elem().Interface(), depth)
	case reflect.String:
		// enumerated constants persist by their stable string name
		return rv.String(), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface(), nil
		}
		out := make(bson.A, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			cv, err := c.convert(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, cv)
		}
		return out, nil
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprintf("%v", iter.Key().Interface())] = iter.Value().Interface()
		}
		return c.convertMap(out, depth)
	case reflect.Struct:
		if tm, ok := rv.Interface().(encoding.TextMarshaler); ok {
			text, err := tm.MarshalText()
			if err != nil {
				return nil, fmt.Errorf("marshaling %T: %w", rv.Interface(), err)
			}
			return string(text), nil
		}
		return c.convertStruct(rv, depth)
	}

	return rv.Interface(), nil
}

// convertStruct flattens a domain struct into a document using its entity
// metadata, keeping the declared shape: every mapped field is emitted, zero
// values included, so the document matches embedded documents by equality.
func (c *converter) convertStruct(rv reflect.Value, depth int) (any, error) {
	entity, err := c.provider.EntityOf(rv.Type())
	if err != nil {
		return nil, err
	}

	out := bson.D{}
	for _, f := range entity.Fields() {
		fv := fieldValue(rv, f)
		if !fv.IsValid() {
			continue
		}
		raw := fv.Interface()
		var cv any
		if f.IsID {
			if coerced, ok := coerceID(raw); ok {
				cv = coerced
			} else {
				cv = raw
			}
		} else {
			cv, err = c.convert(raw, depth+1)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, bson.E{Key: f.MappedName, Value: cv})
	}
	return out, nil
}

// fieldValue finds the struct field backing a metadata record, searching
// embedded structs the same way metadata collection does.
func fieldValue(rv reflect.Value, f *mapping.Field) reflect.Value {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if nested := fieldValue(rv.Field(i), f); nested.IsValid() {
				return nested
			}
			continue
		}
		if sf.Type == f.Type && mapping.LogicalName(sf.Name) == f.Name {
			return rv.Field(i)
		}
	}
	return reflect.Value{}
}
