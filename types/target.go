package types

import "fmt"

// TargetType is an explicit persisted-type hint on a field. A field carrying
// a hint forces its query and update values into that wire type; values that
// cannot be coerced abort the mapping call.
type TargetType int

const (
	// TargetNone means no explicit hint; the general conversion rules apply.
	TargetNone TargetType = iota

	// TargetObjectID forces values into the native ObjectID type.
	TargetObjectID

	// TargetScript forces string values into the BSON JavaScript code type.
	TargetScript

	// TargetUUID forces string values into UUIDs (stored as BSON binary).
	TargetUUID
)

// ParseTargetType parses the tag/descriptor spelling of a target type.
func ParseTargetType(s string) (TargetType, error) {
	switch s {
	case "", "none":
		return TargetNone, nil
	case "objectid":
		return TargetObjectID, nil
	case "script":
		return TargetScript, nil
	case "uuid":
		return TargetUUID, nil
	}
	return TargetNone, fmt.Errorf("unknown target type %q", s)
}

func (t TargetType) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetObjectID:
		return "objectid"
	case TargetScript:
		return "script"
	case TargetUUID:
		return "uuid"
	}
	return fmt.Sprintf("TargetType(%d)", int(t))
}
