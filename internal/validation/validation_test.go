package validation_test

import (
	"errors"
	"testing"

	"github.com/docmap/docmap/internal/validation"
	"github.com/docmap/docmap/types"
)

func TestValidateDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		d       types.Descriptor
		wantErr bool
	}{
		{
			name: "valid descriptor",
			d: types.Descriptor{Name: "X", Fields: []types.FieldDescriptor{
				{Name: "id", ID: true},
				{Name: "name"},
				{Name: "nested", Fields: []types.FieldDescriptor{{Name: "inner"}}},
			}},
		},
		{
			name:    "empty name",
			d:       types.Descriptor{Fields: []types.FieldDescriptor{{Name: "a"}}},
			wantErr: true,
		},
		{
			name:    "no fields",
			d:       types.Descriptor{Name: "X"},
			wantErr: true,
		},
		{
			name: "empty field name",
			d: types.Descriptor{Name: "X", Fields: []types.FieldDescriptor{
				{Name: ""},
			}},
			wantErr: true,
		},
		{
			name: "duplicate field names",
			d: types.Descriptor{Name: "X", Fields: []types.FieldDescriptor{
				{Name: "a"}, {Name: "a"},
			}},
			wantErr: true,
		},
		{
			name: "id and ref on one field",
			d: types.Descriptor{Name: "X", Fields: []types.FieldDescriptor{
				{Name: "a", ID: true, Ref: true},
			}},
			wantErr: true,
		},
		{
			name: "id and textScore on one field",
			d: types.Descriptor{Name: "X", Fields: []types.FieldDescriptor{
				{Name: "a", ID: true, TextScore: true},
			}},
			wantErr: true,
		},
		{
			name: "ref with nested fields",
			d: types.Descriptor{Name: "X", Fields: []types.FieldDescriptor{
				{Name: "a", Ref: true, Fields: []types.FieldDescriptor{{Name: "b"}}},
			}},
			wantErr: true,
		},
		{
			name: "unknown target",
			d: types.Descriptor{Name: "X", Fields: []types.FieldDescriptor{
				{Name: "a", Target: "float"},
			}},
			wantErr: true,
		},
		{
			name: "invalid nested field",
			d: types.Descriptor{Name: "X", Fields: []types.FieldDescriptor{
				{Name: "a", Fields: []types.FieldDescriptor{{Name: ""}}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.ValidateDescriptor(tt.d)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDescriptor() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDescriptorAmbiguousIdentifier(t *testing.T) {
	err := validation.ValidateDescriptor(types.Descriptor{
		Name: "X",
		Fields: []types.FieldDescriptor{
			{Name: "a", ID: true},
			{Name: "b", ID: true},
		},
	})
	if !errors.Is(err, types.ErrAmbiguousIdentifier) {
		t.Errorf("ValidateDescriptor() error = %v, want ErrAmbiguousIdentifier", err)
	}
}
