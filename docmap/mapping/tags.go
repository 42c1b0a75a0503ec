package mapping

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docmap/docmap/geo"
	"github.com/docmap/docmap/types"
)

// Collectioner lets an entity type name its own collection. Types that do
// not implement it are stored in a collection named after the type.
type Collectioner interface {
	Collection() string
}

// buildEntity derives an Entity from a struct type's fields and tags.
//
// The persisted name comes from the `bson` tag when present, otherwise from
// the lower-camel logical name. The `docmap` tag carries mapper-specific
// flags as comma-separated parts: "id", "ref", "textscore", "-",
// "collection=NAME" and "target=TYPE".
func buildEntity(t reflect.Type, p *Provider) (*Entity, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct type, got %s", t.Kind())
	}

	e := &Entity{
		typ:       t,
		name:      t.Name(),
		byLogical: make(map[string]*Field),
	}
	e.collection = collectionFor(t)

	if err := collectFields(t, p, e); err != nil {
		return nil, fmt.Errorf("entity %s: %w", t.Name(), err)
	}

	// The identifier fallback: an untagged field logically named "id" or
	// "_id" acts as the identifier unless one was declared explicitly.
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

	return e, nil
}

// collectFields walks the struct fields, inlining anonymous embedded structs.
func collectFields(t reflect.Type, p *Provider, e *Entity) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous {
			at := sf.Type
			if at.Kind() == reflect.Pointer {
				at = at.Elem()
			}
			if at.Kind() == reflect.Struct && sf.Tag.Get("bson") == "" && sf.Tag.Get("docmap") == "" {
				if err := collectFields(at, p, e); err != nil {
					return err
				}
				continue
			}
		}

		f, err := parseField(sf, p)
		if err != nil {
			return err
		}
		if f == nil {
			continue
		}
		if _, dup := e.byLogical[f.Name]; dup {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		if f.IsID {
			if e.id != nil {
				return fmt.Errorf("fields %q and %q: %w", e.id.Name, f.Name, types.ErrAmbiguousIdentifier)
			}
			e.id = f
		}
		e.byLogical[f.Name] = f
		e.fields = append(e.fields, f)
	}
	return nil
}

// parseField builds the metadata record for one struct field. A nil result
// means the field is excluded from mapping.
func parseField(sf reflect.StructField, p *Provider) (*Field, error) {
	f := &Field{
		Name:     lowerCamel(sf.Name),
		Type:     sf.Type,
		provider: p,
	}

	if tag := sf.Tag.Get("bson"); tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		switch name {
		case "-":
			return nil, nil
		case "":
			// options only, e.g. `bson:",omitempty"`
		default:
			f.MappedName = name
			f.ExplicitName = true
		}
	}

	for _, part := range strings.Split(sf.Tag.Get("docmap"), ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case part == "-":
			return nil, nil
		case part == "id":
			f.IsID = true
		case part == "ref":
			f.IsRef = true
		case part == "textscore":
			f.IsTextScore = true
		case strings.HasPrefix(part, "collection="):
			f.RefCollection = strings.TrimPrefix(part, "collection=")
		case strings.HasPrefix(part, "target="):
			target, err := types.ParseTargetType(strings.TrimPrefix(part, "target="))
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", sf.Name, err)
			}
			f.Target = target
		default:
			return nil, fmt.Errorf("field %s: unknown docmap tag part %q", sf.Name, part)
		}
	}

	if f.MappedName == "" {
		f.MappedName = f.Name
	}
	if f.IsID {
		// Identifiers always persist under the reserved key.
		f.MappedName = "_id"
	}
	if f.IsRef && f.RefCollection == "" {
		f.RefCollection = collectionFor(elementType(sf.Type))
	}
	return f, nil
}

// collectionFor names the collection for a type: its own Collection() if it
// implements Collectioner, the lower-camel type name otherwise.
func collectionFor(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Implements(collectionerType) {
		return reflect.New(t).Elem().Interface().(Collectioner).Collection()
	}
	if reflect.PointerTo(t).Implements(collectionerType) {
		return reflect.New(t).Interface().(Collectioner).Collection()
	}
	return lowerCamel(t.Name())
}

var collectionerType = reflect.TypeOf((*Collectioner)(nil)).Elem()

// IsTerminalValueType reports struct types that map to single wire values
// rather than sub-documents, such as timestamps, UUIDs and geo shapes.
func IsTerminalValueType(t reflect.Type) bool {
	return isTerminalStruct(t)
}

// isTerminalStruct reports struct types that path resolution must not
// descend into: they map to single wire values, not sub-documents.
func isTerminalStruct(t reflect.Type) bool {
	switch t {
	case timeType, uuidType, dbRefType, pointType, geoPointType, geoPolygonType:
		return true
	}
	return false
}

var (
	timeType       = reflect.TypeOf(time.Time{})
	uuidType       = reflect.TypeOf(uuid.UUID{})
	dbRefType      = reflect.TypeOf(types.DBRef{})
	pointType      = reflect.TypeOf(geo.Point{})
	geoPointType   = reflect.TypeOf(geo.GeoJSONPoint{})
	geoPolygonType = reflect.TypeOf(geo.GeoJSONPolygon{})
)

// LogicalName returns the logical property name derived from a Go struct
// field name.
func LogicalName(fieldName string) string {
	return lowerCamel(fieldName)
}

// lowerCamel lowercases the leading upper-case run of a Go field name,
// keeping acronym boundaries intact: "ID" -> "id", "URLPath" -> "urlPath",
// "SomeString" -> "someString".
func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	upper := 0
	for upper < len(runes) && isUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return s
	case upper == len(runes):
		// whole name is an acronym
		return strings.ToLower(s)
	case upper == 1:
		runes[0] = toLower(runes[0])
	default:
		// lowercase the acronym run except the letter starting the next word
		for i := 0; i < upper-1; i++ {
			runes[i] = toLower(runes[i])
		}
	}
	return string(runes)
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func toLower(r rune) rune {
	if isUpper(r) {
		return r + ('a' - 'A')
	}
	return r
}
