package mapping_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/docmap/docmap/docmap/mapping"
	"github.com/docmap/docmap/types"
)

type tagged struct {
	ID       string
	Renamed  string  `bson:"persisted_name"`
	Options  string  `bson:",omitempty"`
	Excluded string  `bson:"-"`
	Hidden   string  `docmap:"-"`
	Score    float64 `docmap:"textscore"`
	Target   string  `docmap:"target=objectid"`
	internal string
}

type customCollection struct {
	ID string
}

func (customCollection) Collection() string { return "custom" }

type declaredID struct {
	Key string `docmap:"id"`
	ID  string
}

type explicitIDName struct {
	ID string `bson:"id"`
}

type twoIDs struct {
	A string `docmap:"id"`
	B string `docmap:"id"`
}

type badTag struct {
	Field string `docmap:"bogus"`
}

type embeddedBase struct {
	Created string
}

type withEmbedded struct {
	embeddedBase
	ID string
}

type refTarget struct {
	ID string
}

type withRefs struct {
	Plain    refTarget `docmap:"ref"`
	Override refTarget `docmap:"ref,collection=elsewhere"`
}

func TestEntityFromTags(t *testing.T) {
	p := mapping.NewProvider()
	e, err := p.Entity(tagged{})
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}

	if e.Name() != "tagged" {
		t.Errorf("Name() = %q, want %q", e.Name(), "tagged")
	}
	if e.Collection() != "tagged" {
		t.Errorf("Collection() = %q, want %q", e.Collection(), "tagged")
	}

	id := e.ID()
	if id == nil {
		t.Fatal("ID() = nil, want the fallback identifier")
	}
	if id.Name != "id" || id.MappedName != "_id" || !id.IsID {
		t.Errorf("ID() = %+v, want logical id mapped to _id", id)
	}

	tests := []struct {
		logical string
		mapped  string
		ok      bool
	}{
		{logical: "renamed", mapped: "persisted_name", ok: true},
		{logical: "options", mapped: "options", ok: true},
		{logical: "score", mapped: "score", ok: true},
		{logical: "target", mapped: "target", ok: true},
		{logical: "excluded", ok: false},
		{logical: "hidden", ok: false},
		{logical: "internal", ok: false},
	}
	for _, tt := range tests {
		f, ok := e.Field(tt.logical)
		if ok != tt.ok {
			t.Errorf("Field(%q) ok = %v, want %v", tt.logical, ok, tt.ok)
			continue
		}
		if ok && f.MappedName != tt.mapped {
			t.Errorf("Field(%q).MappedName = %q, want %q", tt.logical, f.MappedName, tt.mapped)
		}
	}

	if f, _ := e.Field("score"); !f.IsTextScore {
		t.Error("Field(score).IsTextScore = false, want true")
	}
	if f, _ := e.Field("target"); f.Target != types.TargetObjectID {
		t.Errorf("Field(target).Target = %v, want objectid", f.Target)
	}
	if f, _ := e.Field("renamed"); !f.ExplicitName {
		t.Error("Field(renamed).ExplicitName = false, want true")
	}
}

func TestEntityCollectionNaming(t *testing.T) {
	p := mapping.NewProvider()
	e, err := p.Entity(customCollection{})
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}
	if e.Collection() != "custom" {
		t.Errorf("Collection() = %q, want %q", e.Collection(), "custom")
	}
}

func TestEntityDeclaredIdentifierWins(t *testing.T) {
	p := mapping.NewProvider()
	e, err := p.Entity(declaredID{})
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}

	if e.ID().Name != "key" {
		t.Errorf("ID().Name = %q, want %q", e.ID().Name, "key")
	}
	// The fallback name resolves to the plain field, not the identifier.
	f, ok := e.Field("id")
	if !ok || f.IsID {
		t.Errorf("Field(id) = %+v, want the plain id-named field", f)
	}
}

func TestEntityExplicitNameShadowsFallback(t *testing.T) {
	p := mapping.NewProvider()
	e, err := p.Entity(explicitIDName{})
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}

	// An explicit persisted name counts as a declaration: the field is not
	// promoted to identifier and the entity has none.
	if e.ID() != nil {
		t.Errorf("ID() = %+v, want nil", e.ID())
	}
	f, ok := e.Field("id")
	if !ok || f.MappedName != "id" {
		t.Errorf("Field(id) = %+v, want mapped name %q", f, "id")
	}
}

func TestEntityAmbiguousIdentifier(t *testing.T) {
	p := mapping.NewProvider()
	_, err := p.Entity(twoIDs{})
	if !errors.Is(err, types.ErrAmbiguousIdentifier) {
		t.Errorf("Entity() error = %v, want ErrAmbiguousIdentifier", err)
	}
}

func TestEntityUnknownTagPart(t *testing.T) {
	p := mapping.NewProvider()
	if _, err := p.Entity(badTag{}); err == nil {
		t.Error("Entity() with unknown tag part, want error")
	}
}

func TestEntityInlinesEmbeddedStructs(t *testing.T) {
	p := mapping.NewProvider()
	e, err := p.Entity(withEmbedded{})
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}

	if _, ok := e.Field("created"); !ok {
		t.Error("Field(created) not found, want embedded field inlined")
	}
	if e.ID() == nil || e.ID().MappedName != "_id" {
		t.Errorf("ID() = %+v, want fallback identifier", e.ID())
	}
}

func TestEntityReferenceCollections(t *testing.T) {
	p := mapping.NewProvider()
	e, err := p.Entity(withRefs{})
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}

	plain, _ := e.Field("plain")
	if !plain.IsRef || plain.RefCollection != "refTarget" {
		t.Errorf("Field(plain) = %+v, want ref into refTarget", plain)
	}
	override, _ := e.Field("override")
	if override.RefCollection != "elsewhere" {
		t.Errorf("Field(override).RefCollection = %q, want %q", override.RefCollection, "elsewhere")
	}
}

func TestEntityRejectsNonStructs(t *testing.T) {
	p := mapping.NewProvider()
	if _, err := p.Entity("not a struct"); err == nil {
		t.Error("Entity(string), want error")
	}
	if _, err := p.Entity(bson.A{}); err == nil {
		t.Error("Entity(slice), want error")
	}
}

func TestLogicalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "SomeString", want: "someString"},
		{in: "ID", want: "id"},
		{in: "URLPath", want: "urlPath"},
		{in: "Name", want: "name"},
		{in: "lower", want: "lower"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := mapping.LogicalName(tt.in); got != tt.want {
			t.Errorf("LogicalName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
