package types

// Descriptor describes an entity's persistent fields without requiring a Go
// type, e.g. when metadata is loaded from a YAML schema file. It carries the
// same information the reflection-based provider derives from struct tags.
type Descriptor struct {
	// Name is the entity name used for lookups and diagnostics.
	Name string `yaml:"name"`

	// Collection is the collection the entity is stored in. Defaults to the
	// entity name when empty.
	Collection string `yaml:"collection,omitempty"`

	Fields []FieldDescriptor `yaml:"fields"`
}

// FieldDescriptor describes a single persistent field.
type FieldDescriptor struct {
	// Name is the logical property name used in queries.
	Name string `yaml:"name"`

	// MappedName is the persisted field name. Defaults to Name when empty.
	// Setting it counts as an explicit declaration: it shadows the
	// identifier fallback for that name.
	MappedName string `yaml:"mapped,omitempty"`

	// Type optionally names the declared type. The value "geojson" marks the
	// field as GeoJSON-flavored for geo operator mapping.
	Type string `yaml:"type,omitempty"`

	// ID marks the identifier field. At most one field per entity may set it.
	ID bool `yaml:"id,omitempty"`

	// Ref marks an association stored as a reference handle.
	Ref bool `yaml:"ref,omitempty"`

	// RefCollection is the collection a Ref field points at.
	RefCollection string `yaml:"refCollection,omitempty"`

	// Target optionally forces a persisted type: objectid, script or uuid.
	Target string `yaml:"target,omitempty"`

	// TextScore marks the relevance-score projection field.
	TextScore bool `yaml:"textScore,omitempty"`

	// Fields describes a nested composite type, enabling dotted-path
	// resolution through this field.
	Fields []FieldDescriptor `yaml:"fields,omitempty"`
}
