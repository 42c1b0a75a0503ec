package docmap

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/docmap/docmap/docmap/mapping"
	"github.com/docmap/docmap/geo"
	"github.com/docmap/docmap/types"
)

// mapContext selects the per-context rules: projections and sorts carry
// markers and directions rather than criteria values, so association
// wrapping does not apply and text-score fields render as $meta
// expressions.
type mapContext int

const (
	ctxQuery mapContext = iota
	ctxFields
	ctxSort
	ctxUpdate
)

// MapQuery maps a query-criteria document into its persisted form. entity
// may be nil, in which case only structural rules apply: no identifier
// coercion, no association handling, no path rewriting.
func (m *Mapper) MapQuery(query any, entity *mapping.Entity) (bson.D, error) {
	return m.mapDocument(query, entity, ctxQuery, 0)
}

// MapFields maps a projection document. When the entity declares a
// text-score field, the score projection is appended if the caller did not
// ask for it, and replaced by the $meta expression if it did.
func (m *Mapper) MapFields(fields any, entity *mapping.Entity) (bson.D, error) {
	mapped, err := m.mapDocument(fields, entity, ctxFields, 0)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return mapped, nil
	}
	if ts := entity.TextScoreField(); ts != nil && !containsKey(mapped, ts.MappedName) {
		mapped = append(mapped, bson.E{Key: ts.MappedName, Value: metaTextScore()})
	}
	return mapped, nil
}

// MapSort maps a sort-specification document. Sorting by a text-score field
// replaces the direction with the $meta score expression; all other
// directions pass through untouched.
func (m *Mapper) MapSort(sortDoc any, entity *mapping.Entity) (bson.D, error) {
	return m.mapDocument(sortDoc, entity, ctxSort, 0)
}

// MapUpdate maps an update document. Bodies of update operators ($set,
// $inc, ...) are field-path maps and are mapped per key; positional path
// segments and discriminator keys pass through verbatim.
func (m *Mapper) MapUpdate(update any, entity *mapping.Entity) (bson.D, error) {
	return m.mapDocument(update, entity, ctxUpdate, 0)
}

func (m *Mapper) mapDocument(doc any, entity *mapping.Entity, ctx mapContext, depth int) (bson.D, error) {
	if depth > m.maxDepth {
		return nil, fmt.Errorf("mapping document: %w", types.ErrTooDeep)
	}
	elems, ok := docElems(doc)
	if !ok {
		return nil, fmt.Errorf("cannot map %T as a document", doc)
	}

	out := make(bson.D, 0, len(elems))
	for _, e := range elems {
		// type discriminators are polymorphism hints, never field paths
		if e.Key == m.typeKey {
			out = append(out, bson.E{Key: e.Key, Value: deepCopy(e.Value)})
			continue
		}

		if isKeyword(e.Key) {
			mapped, err := m.mapTopKeyword(e.Key, e.Value, entity, ctx, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, bson.E{Key: e.Key, Value: mapped})
			continue
		}

		p := mapping.Resolve(entity, e.Key)
		if p.Target != nil && p.Target.IsTextScore && (ctx == ctxFields || ctx == ctxSort) {
			out = append(out, bson.E{Key: p.Mapped, Value: metaTextScore()})
			continue
		}

		var mapped any
		var err error
		if p.Target != nil && p.Target.IsRef && (ctx == ctxQuery || ctx == ctxUpdate) {
			mapped, err = m.mapAssociation(p.Target, e.Value, depth+1)
		} else {
			mapped, err = m.mapValue(p.Target, e.Value, ctx, depth+1)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, bson.E{Key: p.Mapped, Value: mapped})
	}
	return out, nil
}

// mapTopKeyword handles an operator in key position of a document. Logical
// operators map each branch as a nested query against the same metadata;
// update operators map their bodies as field-path documents; anything else
// is an operator body mapped without path semantics.
func (m *Mapper) mapTopKeyword(key string, v any, entity *mapping.Entity, ctx mapContext, depth int) (any, error) {
	if logicalKeywords[key] {
		seq, ok := asSequence(v)
		if !ok {
			return nil, fmt.Errorf("operator %s requires an array, got %T", key, v)
		}
		out := make(bson.A, 0, len(seq))
		for _, branch := range seq {
			mapped, err := m.mapDocument(branch, entity, ctxQuery, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, mapped)
		}
		return out, nil
	}

	if ctx == ctxUpdate && updateKeywords[key] {
		if _, ok := docElems(v); ok {
			return m.mapDocument(v, entity, ctxUpdate, depth+1)
		}
	}

	return m.mapValue(nil, v, ctx, depth+1)
}

// mapValue applies the value conversion rules for a field's value,
// dispatching on the value's shape.
func (m *Mapper) mapValue(f *mapping.Field, v any, ctx mapContext, depth int) (any, error) {
	if depth > m.maxDepth {
		return nil, fmt.Errorf("mapping value: %w", types.ErrTooDeep)
	}

	switch shapeOf(v) {
	case shapeRaw:
		return v, nil

	case shapeOperatorDocument:
		return m.mapOperatorBody(f, v, ctx, depth)

	case shapeDocument:
		if f != nil {
			if nested, ok := f.Entity(); ok {
				return m.mapDocument(v, nested, ctx, depth+1)
			}
		}
		return m.converter.Convert(v)

	case shapeSequence:
		seq, _ := asSequence(v)
		out := make(bson.A, 0, len(seq))
		for _, elem := range seq {
			mapped, err := m.mapValue(f, elem, ctx, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, mapped)
		}
		return out, nil
	}

	// typed slices supplied by callers map element-wise like bson.A
	if seq, ok := asSequence(v); ok {
		out := make(bson.A, 0, len(seq))
		for _, elem := range seq {
			mapped, err := m.mapValue(f, elem, ctx, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, mapped)
		}
		return out, nil
	}

	if f != nil && f.Target != types.TargetNone {
		return m.coerceTarget(f, v)
	}
	if f != nil && f.IsID && ctx != ctxFields && ctx != ctxSort {
		if coerced, ok := coerceID(v); ok {
			return coerced, nil
		}
	}
	return m.converter.Convert(v)
}

// mapOperatorBody maps an operator-keyed structure appearing in value
// position. Operator bodies are not field paths; each operator selects its
// own rule for the associated value.
func (m *Mapper) mapOperatorBody(f *mapping.Field, v any, ctx mapContext, depth int) (any, error) {
	elems, _ := docElems(v)
	out := make(bson.D, 0, len(elems))
	for _, e := range elems {
		var mapped any
		var err error
		switch {
		case geoKeywords[e.Key]:
			mapped, err = m.mapGeoValue(f, e.Value, depth+1)

		case inKeywords[e.Key] || e.Key == "$each" || e.Key == "$all":
			mapped, err = m.mapElements(f, e.Value, ctx, depth+1)

		case passthroughKeywords[e.Key]:
			mapped = deepCopy(e.Value)

		case e.Key == "$elemMatch":
			var nested *mapping.Entity
			if f != nil {
				nested, _ = f.Entity()
			}
			if _, ok := docElems(e.Value); ok {
				mapped, err = m.mapDocument(e.Value, nested, ctxQuery, depth+1)
			} else {
				mapped = deepCopy(e.Value)
			}

		default:
			mapped, err = m.mapValue(f, e.Value, ctx, depth+1)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, bson.E{Key: e.Key, Value: mapped})
	}
	return out, nil
}

// mapElements maps each element of a sequence with the field's value rules,
// preserving order.
func (m *Mapper) mapElements(f *mapping.Field, v any, ctx mapContext, depth int) (any, error) {
	seq, ok := asSequence(v)
	if !ok {
		return m.mapValue(f, v, ctx, depth)
	}
	out := make(bson.A, 0, len(seq))
	for _, elem := range seq {
		mapped, err := m.mapValue(f, elem, ctx, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

// mapGeoValue renders the argument of a geo operator. The field's declared
// type picks the rendering: GeoJSON-flavored fields wrap shapes under
// $geometry, legacy fields render flat coordinate pairs, and without
// metadata the value's own type decides. Document arguments keep their
// structure with shape values rendered in place and distance peers passed
// through as plain numerics.
func (m *Mapper) mapGeoValue(f *mapping.Field, v any, depth int) (any, error) {
	switch shape := v.(type) {
	case geo.Point:
		if f != nil && f.IsGeoJSON() {
			point := geo.GeoJSONPoint{X: shape.X, Y: shape.Y}
			return bson.D{{Key: "$geometry", Value: point.Document()}}, nil
		}
		return shape.Coordinates(), nil
	case geo.Shape:
		if f == nil || f.IsGeoJSON() {
			return bson.D{{Key: "$geometry", Value: shape.Document()}}, nil
		}
		if point, ok := shape.(geo.GeoJSONPoint); ok {
			return bson.A{point.X, point.Y}, nil
		}
		return shape.Document(), nil
	}

	if elems, ok := docElems(v); ok {
		out := make(bson.D, 0, len(elems))
		for _, e := range elems {
			switch val := e.Value.(type) {
			case geo.Shape:
				out = append(out, bson.E{Key: e.Key, Value: val.Document()})
			case geo.Point:
				out = append(out, bson.E{Key: e.Key, Value: val.Coordinates()})
			default:
				out = append(out, bson.E{Key: e.Key, Value: deepCopy(e.Value)})
			}
		}
		return out, nil
	}
	return deepCopy(v), nil
}

// mapAssociation maps the value of an association-flagged field. Scalars,
// domain objects and id-carrying documents become reference handles;
// inclusion operators convert each element; every other operator body passes
// through verbatim, since a reference handle has no mappable interior.
func (m *Mapper) mapAssociation(f *mapping.Field, v any, depth int) (any, error) {
	if depth > m.maxDepth {
		return nil, fmt.Errorf("mapping association %q: %w", f.Name, types.ErrTooDeep)
	}
	if v == nil {
		return nil, nil
	}

	switch shapeOf(v) {
	case shapeRaw:
		return v, nil

	case shapeDocument:
		// a plain document stands in for the referenced object; its id
		// entry carries the handle's identifier
		elems, _ := docElems(v)
		for _, e := range elems {
			if e.Key == "id" || e.Key == "_id" {
				return m.toDBRef(f, e.Value)
			}
		}
		return deepCopy(v), nil

	case shapeOperatorDocument:
		elems, _ := docElems(v)
		out := make(bson.D, 0, len(elems))
		for _, e := range elems {
			if inKeywords[e.Key] || e.Key == "$each" || e.Key == "$all" {
				seq, ok := asSequence(e.Value)
				if !ok {
					return nil, fmt.Errorf("operator %s on association %q requires an array, got %T", e.Key, f.Name, e.Value)
				}
				refs := make(bson.A, 0, len(seq))
				for _, elem := range seq {
					ref, err := m.toDBRef(f, elem)
					if err != nil {
						return nil, err
					}
					refs = append(refs, ref)
				}
				out = append(out, bson.E{Key: e.Key, Value: refs})
				continue
			}
			out = append(out, bson.E{Key: e.Key, Value: deepCopy(e.Value)})
		}
		return out, nil

	case shapeSequence:
		seq, _ := asSequence(v)
		out := make(bson.A, 0, len(seq))
		for _, elem := range seq {
			ref, err := m.toDBRef(f, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, ref)
		}
		return out, nil
	}

	return m.toDBRef(f, v)
}

// toDBRef converts a domain object or bare identifier into a reference
// handle for the field's collection.
func (m *Mapper) toDBRef(f *mapping.Field, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if ref, ok := v.(types.DBRef); ok {
		if coerced, ok := coerceID(ref.ID); ok {
			ref.ID = coerced
		}
		return ref, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Struct && !mapping.IsTerminalValueType(rv.Type()) {
		entity, err := m.provider.EntityOf(rv.Type())
		if err != nil {
			return nil, fmt.Errorf("association %q: %w", f.Name, err)
		}
		idField := entity.ID()
		if idField == nil {
			return nil, fmt.Errorf("association %q: referenced type %s has no identifier", f.Name, rv.Type())
		}
		idValue := fieldValue(rv, idField)
		if !idValue.IsValid() || idValue.IsZero() {
			return nil, fmt.Errorf("association %q: referenced %s has no identifier value", f.Name, rv.Type())
		}
		id, err := m.refID(idValue.Interface())
		if err != nil {
			return nil, err
		}
		return types.NewDBRef(f.RefCollection, id), nil
	}

	id, err := m.refID(v)
	if err != nil {
		return nil, err
	}
	return types.NewDBRef(f.RefCollection, id), nil
}

// refID converts an identifier value for embedding in a reference handle.
func (m *Mapper) refID(v any) (any, error) {
	if coerced, ok := coerceID(v); ok {
		return coerced, nil
	}
	return m.converter.Convert(v)
}

// coerceTarget forces a scalar into the field's explicit target type, or
// fails the mapping call when it cannot.
func (m *Mapper) coerceTarget(f *mapping.Field, v any) (any, error) {
	switch f.Target {
	case types.TargetObjectID:
		switch val := v.(type) {
		case bson.ObjectID:
			return val, nil
		case string:
			if oid, err := bson.ObjectIDFromHex(val); err == nil {
				return oid, nil
			}
		}
	case types.TargetScript:
		switch val := v.(type) {
		case bson.JavaScript:
			return val, nil
		case string:
			return bson.JavaScript(val), nil
		}
	case types.TargetUUID:
		switch val := v.(type) {
		case uuid.UUID:
			return val, nil
		case string:
			if u, err := uuid.Parse(val); err == nil {
				return u, nil
			}
		}
	}
	return nil, &types.ConversionError{Field: f.Name, Target: f.Target, Value: v}
}

// coerceID converts a string spelling the native id format into an
// ObjectID. Everything else is reported unconverted.
func coerceID(v any) (any, bool) {
	if s, ok := v.(string); ok && len(s) == 24 {
		if oid, err := bson.ObjectIDFromHex(s); err == nil {
			return oid, true
		}
	}
	if oid, ok := v.(bson.ObjectID); ok {
		return oid, true
	}
	return nil, false
}

func metaTextScore() bson.D {
	return bson.D{{Key: "$meta", Value: "textScore"}}
}

func containsKey(doc bson.D, key string) bool {
	for _, e := range doc {
		if e.Key == key {
			return true
		}
	}
	return false
}
