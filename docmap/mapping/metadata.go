// Package mapping provides entity metadata for the document mapper: field
// name mappings, identifier typing, association and target-type flags. It
// resolves metadata from struct tags via reflection or from descriptors, and
// resolves dotted property paths against it.
package mapping

import (
	"reflect"

	"github.com/docmap/docmap/geo"
	"github.com/docmap/docmap/types"
)

// Entity is the persistent-field map of a single type. Entities are built
// once per type, cached by the Provider and immutable afterwards.
type Entity struct {
	typ        reflect.Type // nil for descriptor-built entities
	name       string
	collection string
	fields     []*Field
	byLogical  map[string]*Field
	id         *Field
}

// Name returns the entity name.
func (e *Entity) Name() string { return e.name }

// Collection returns the collection the entity is stored in.
func (e *Entity) Collection() string { return e.collection }

// Type returns the Go type the entity was derived from, or nil when the
// entity was built from a descriptor.
func (e *Entity) Type() reflect.Type { return e.typ }

// Fields returns the entity's fields in declaration order.
func (e *Entity) Fields() []*Field { return e.fields }

// ID returns the identifier field, or nil when the entity has none.
func (e *Entity) ID() *Field { return e.id }

// TextScoreField returns the relevance-score field, or nil.
func (e *Entity) TextScoreField() *Field {
	for _, f := range e.fields {
		if f.IsTextScore {
			return f
		}
	}
	return nil
}

// Field looks up a field by logical name. A name that matches no declared
// field but spells one of the identifier fallback names ("id", "_id")
// resolves to the identifier field; an exact declaration always shadows the
// fallback.
func (e *Entity) Field(name string) (*Field, bool) {
	if f, ok := e.byLogical[name]; ok {
		return f, true
	}
	if e.id != nil && (name == "id" || name == "_id") {
		return e.id, true
	}
	return nil, false
}

// Field is the metadata record of a single persistent field.
type Field struct {
	// Name is the logical property name used in queries.
	Name string

	// MappedName is the persisted field name.
	MappedName string

	// ExplicitName reports whether MappedName was declared explicitly
	// rather than derived from Name.
	ExplicitName bool

	// Type is the declared Go type, nil for descriptor-built fields.
	Type reflect.Type

	// TypeName carries the descriptor type spelling when Type is nil.
	TypeName string

	IsID        bool
	IsRef       bool
	IsTextScore bool

	// RefCollection is the collection a reference field points at.
	RefCollection string

	// Target is the explicit persisted-type hint, TargetNone if absent.
	Target types.TargetType

	provider *Provider
	nested   *Entity // set for descriptor-built composite fields
}

// Entity returns the metadata of the field's composite value type, allowing
// path resolution to descend through the field. It returns false for scalar,
// terminal and unresolvable field types.
func (f *Field) Entity() (*Entity, bool) {
	if f.nested != nil {
		return f.nested, true
	}
	if f.provider == nil || f.Type == nil {
		return nil, false
	}
	t := elementType(f.Type)
	if t.Kind() != reflect.Struct || isTerminalStruct(t) {
		return nil, false
	}
	e, err := f.provider.EntityOf(t)
	if err != nil {
		return nil, false
	}
	return e, true
}

// IsGeoJSON reports whether the field's declared type is GeoJSON-flavored,
// selecting the {$geometry: ...} rendering for geo operators.
func (f *Field) IsGeoJSON() bool {
	if f.Type != nil {
		t := elementType(f.Type)
		return t.Implements(shapeType) || reflect.PointerTo(t).Implements(shapeType)
	}
	return f.TypeName == "geojson"
}

var shapeType = reflect.TypeOf((*geo.Shape)(nil)).Elem()

// elementType strips pointers and container types down to the value type a
// dotted path would descend into.
func elementType(t reflect.Type) reflect.Type {
	for {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
		default:
			return t
		}
	}
}
