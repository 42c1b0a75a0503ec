package mapping

import (
	"fmt"

	"github.com/docmap/docmap/internal/validation"
	"github.com/docmap/docmap/types"
)

// FromDescriptor builds entity metadata from a descriptor instead of a Go
// type, e.g. when the schema is loaded from YAML. The resulting Entity
// behaves exactly like a reflection-derived one for path resolution and
// value conversion; declared types are unavailable, so only descriptor flags
// drive conversion.
func FromDescriptor(d types.Descriptor) (*Entity, error) {
	if err := validation.ValidateDescriptor(d); err != nil {
		return nil, fmt.Errorf("descriptor %s: %w", d.Name, err)
	}
	return entityFromDescriptor(d.Name, d.Collection, d.Fields), nil
}

func entityFromDescriptor(name, collection string, fields []types.FieldDescriptor) *Entity {
	if collection == "" {
		collection = name
	}
	e := &Entity{
		name:       name,
		collection: collection,
		byLogical:  make(map[string]*Field),
	}

	for _, fd := range fields {
		f := &Field{
			Name:          fd.Name,
			MappedName:    fd.MappedName,
			ExplicitName:  fd.MappedName != "",
			TypeName:      fd.Type,
			IsID:          fd.ID,
			IsRef:         fd.Ref,
			IsTextScore:   fd.TextScore,
			RefCollection: fd.RefCollection,
		}
		if f.MappedName == "" {
			f.MappedName = f.Name
		}
		if f.IsID {
			f.MappedName = "_id"
			e.id = f
		}
		if f.IsRef && f.RefCollection == "" {
			f.RefCollection = f.Name
		}
		f.Target, _ = types.ParseTargetType(fd.Target)
		if len(fd.Fields) > 0 {
			f.nested = entityFromDescriptor(fd.Name, "", fd.Fields)
		}
		e.byLogical[f.Name] = f
		e.fields = append(e.fields, f)
	}

	// Identifier fallback, matching the reflection path: an undeclared "id"
	// or "_id" field resolves to the identifier.
	if e.id == nil {
		for _, name := range []string{"id", "_id"} {
			if f, ok := e.byLogical[name]; ok && !f.ExplicitName && !f.IsRef {
				f.IsID = true
				f.MappedName = "_id"
				e.id = f
				break
			}
		}
	}

	return e
}
