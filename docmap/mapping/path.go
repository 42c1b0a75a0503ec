package mapping

import (
	"strings"
)

// Path is the result of resolving a dotted property path against entity
// metadata.
type Path struct {
	// Mapped is the persisted form of the path, with every resolvable
	// segment rewritten to its persisted name and every other segment kept
	// literally.
	Mapped string

	// Target is the metadata of the final resolved segment. It is nil when
	// the path ends in unmapped territory: an unknown name, or anything
	// following one.
	Target *Field
}

// Resolve maps a dotted property path to its persisted form.
//
// Segments are walked left to right against the entity's field map. A
// resolvable segment contributes its persisted name and descends into the
// field's composite type. Numeric indices and positional operators ($, $[],
// $[ident]) contribute literally without leaving the current type context,
// so "list.1.stringProperty" still maps the final segment. Any other
// unresolvable segment ends metadata resolution: it and all remaining
// segments pass through literally and Target is nil.
//
// A path descending into an association resolves to the association field
// itself when the remainder is the referenced id; deeper remainders pass
// through literally since a reference handle has no other addressable parts.
func Resolve(entity *Entity, path string) Path {
	if entity == nil {
		return Path{Mapped: path}
	}

	segments := strings.Split(path, ".")
	out := make([]string, 0, len(segments))
	cur := entity
	var target *Field

	for i := 0; i < len(segments); i++ {
		seg := segments[i]

		if isPositional(seg) {
			out = append(out, seg)
			continue
		}

		var f *Field
		if cur != nil {
			f, _ = cur.Field(seg)
		}
		if f == nil {
			out = append(out, segments[i:]...)
			return Path{Mapped: strings.Join(out, "."), Target: nil}
		}

		if f.IsRef && i < len(segments)-1 {
			rest := segments[i+1:]
			if len(rest) == 1 && (rest[0] == "id" || rest[0] == "_id") {
				out = append(out, f.MappedName)
				return Path{Mapped: strings.Join(out, "."), Target: f}
			}
			out = append(out, f.MappedName)
			out = append(out, rest...)
			return Path{Mapped: strings.Join(out, "."), Target: nil}
		}

		out = append(out, f.MappedName)
		target = f
		cur, _ = f.Entity()
	}

	return Path{Mapped: strings.Join(out, "."), Target: target}
}

// isPositional reports path segments that address positions rather than
// fields: numeric indices and the positional update operators.
func isPositional(seg string) bool {
	if seg == "$" || seg == "$[]" {
		return true
	}
	if strings.HasPrefix(seg, "$[") && strings.HasSuffix(seg, "]") {
		return true
	}
	if seg == "" {
		return false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
