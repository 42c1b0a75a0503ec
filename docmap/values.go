package docmap

import (
	"reflect"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// valueShape is the closed enumeration of source-value shapes the mapper
// dispatches on. Each value is classified exactly once per visit and handled
// by the branch for its shape.
type valueShape int

const (
	// shapeScalar covers everything with no internal structure to map.
	shapeScalar valueShape = iota

	// shapeSequence covers ordered collections mapped element-wise.
	shapeSequence

	// shapeDocument covers nested key-value structures whose keys are field
	// paths or plain map keys.
	shapeDocument

	// shapeOperatorDocument covers nested structures whose first key is an
	// operator; their bodies follow operator-specific rules, never path
	// rules.
	shapeOperatorDocument

	// shapeRaw covers pre-built wire fragments passed through untouched.
	shapeRaw
)

func shapeOf(v any) valueShape {
	switch val := v.(type) {
	case bson.Raw, bson.RawValue:
		return shapeRaw
	case bson.D:
		return docShape(val)
	case bson.M:
		return docShape(sortedElems(val))
	case map[string]any:
		return docShape(sortedElems(val))
	case bson.A, []any:
		return shapeSequence
	}
	return shapeScalar
}

// docShape classifies a document by the first key of its canonical element
// order, the same order the mapper will walk it in.
func docShape(elems []bson.E) valueShape {
	if len(elems) > 0 && isKeyword(elems[0].Key) {
		return shapeOperatorDocument
	}
	return shapeDocument
}

// isKeyword reports operator keys. Only keys carry operator semantics;
// values with a leading sigil stay literal.
func isKeyword(key string) bool {
	return strings.HasPrefix(key, "$")
}

// docElems normalizes a document-shaped value into an ordered element list.
// Unordered map forms are sorted by key so mapping output is deterministic.
func docElems(v any) ([]bson.E, bool) {
	switch doc := v.(type) {
	case bson.D:
		return doc, true
	case bson.M:
		return sortedElems(doc), true
	case map[string]any:
		return sortedElems(doc), true
	}
	return nil, false
}

func sortedElems[M ~map[string]any](m M) []bson.E {
	keys := mapKeys(m)
	sort.Strings(keys)
	elems := make([]bson.E, 0, len(keys))
	for _, k := range keys {
		elems = append(elems, bson.E{Key: k, Value: m[k]})
	}
	return elems
}

func mapKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// asSequence normalizes sequence-shaped values, including typed slices
// supplied by callers, into []any.
func asSequence(v any) ([]any, bool) {
	switch seq := v.(type) {
	case bson.A:
		return seq, true
	case []any:
		return seq, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if _, isRaw := v.(bson.Raw); isRaw {
			return nil, false
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// byte slices are scalar blobs
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// deepCopy returns a structurally independent copy of a value that is
// passed through without remapping, so output documents never alias
// caller-owned structures.
func deepCopy(v any) any {
	switch val := v.(type) {
	case bson.D:
		out := make(bson.D, len(val))
		for i, e := range val {
			out[i] = bson.E{Key: e.Key, Value: deepCopy(e.Value)}
		}
		return out
	case bson.M:
		out := make(bson.M, len(val))
		for k, elem := range val {
			out[k] = deepCopy(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = deepCopy(elem)
		}
		return out
	case bson.A:
		out := make(bson.A, len(val))
		for i, elem := range val {
			out[i] = deepCopy(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = deepCopy(elem)
		}
		return out
	}
	return v
}
