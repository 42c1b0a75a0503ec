package docmap

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/docmap/docmap/docmap/mapping"
	"github.com/docmap/docmap/geo"
)

// MapExample flattens a probe object's set properties into equality
// criteria on their mapped dotted paths and maps the result like a query.
// Zero-valued fields state nothing and are skipped; nested composite values
// flatten into dotted paths; legacy points flatten into their x/y
// components.
func (m *Mapper) MapExample(probe any) (bson.D, error) {
	if probe == nil {
		return nil, fmt.Errorf("cannot build example criteria from nil")
	}
	entity, err := m.provider.Entity(probe)
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(probe)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("cannot build example criteria from nil")
		}
		rv = rv.Elem()
	}

	var flat bson.D
	if err := flattenExample(rv, entity, "", &flat); err != nil {
		return nil, err
	}
	return m.MapQuery(flat, entity)
}

// flattenExample appends "path: value" equality pairs for every set field
// of the probe, using logical names so the subsequent query mapping applies
// the full resolution and conversion rules.
func flattenExample(rv reflect.Value, entity *mapping.Entity, prefix string, out *bson.D) error {
	for _, f := range entity.Fields() {
		fv := fieldValue(rv, f)
		if !fv.IsValid() || fv.IsZero() {
			continue
		}
		for fv.Kind() == reflect.Pointer {
			fv = fv.Elem()
		}
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}

		if p, ok := fv.Interface().(geo.Point); ok {
			*out = append(*out,
				bson.E{Key: path + ".x", Value: p.X},
				bson.E{Key: path + ".y", Value: p.Y})
			continue
		}

		if nested, ok := f.Entity(); ok && fv.Kind() == reflect.Struct && !f.IsRef {
			if err := flattenExample(fv, nested, path, out); err != nil {
				return err
			}
			continue
		}

		*out = append(*out, bson.E{Key: path, Value: fv.Interface()})
	}
	return nil
}
