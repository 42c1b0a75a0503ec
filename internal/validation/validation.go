// Package validation checks entity descriptors for structural consistency
// before they are turned into metadata.
package validation

import (
	"fmt"

	"github.com/docmap/docmap/types"
)

// ValidateDescriptor checks an entity descriptor for consistency: it must
// declare at least one field, names must be unique, at most one identifier
// may be declared, and flags must not contradict each other. Nested field
// sets are validated recursively.
func ValidateDescriptor(d types.Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("descriptor name cannot be empty")
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("at least one field must be declared")
	}
	return validateFields(d.Fields)
}

func validateFields(fields []types.FieldDescriptor) error {
	seen := make(map[string]bool)
	idSeen := ""

	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("field name cannot be empty")
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = true

		if f.ID {
			if idSeen != "" {
				return fmt.Errorf("fields %q and %q: %w", idSeen, f.Name, types.ErrAmbiguousIdentifier)
			}
			idSeen = f.Name
		}

		if err := validateField(f); err != nil {
			return err
		}
	}
	return nil
}

func validateField(f types.FieldDescriptor) error {
	if f.ID && f.Ref {
		return fmt.Errorf("field %q: cannot be both id and ref", f.Name)
	}
	if f.ID && f.TextScore {
		return fmt.Errorf("field %q: cannot be both id and textScore", f.Name)
	}
	if f.Ref && len(f.Fields) > 0 {
		return fmt.Errorf("field %q: ref fields cannot declare nested fields", f.Name)
	}
	if _, err := types.ParseTargetType(f.Target); err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}
	if len(f.Fields) > 0 {
		if err := validateFields(f.Fields); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}
