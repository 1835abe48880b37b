package catalog

import (
	"errors"
	"testing"
)

func validRecord() Record {
	return Record{
		Title:           "Studio Jacket",
		CollectionTitle: "Outerwear",
		Price:           189,
		Taxonomy: Taxonomy{
			Department:  "women",
			Category:    "clothing",
			Subcategory: "jackets",
		},
	}
}

func TestNewRecordDerivesSlugFromTitle(t *testing.T) {
	rec, err := NewRecord(validRecord())
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if rec.Slug != "studio-jacket" {
		t.Fatalf("slug = %q", rec.Slug)
	}
}

func TestNewRecordPrefersExplicitSlug(t *testing.T) {
	in := validRecord()
	in.Slug = "Atelier Jacket"
	rec, err := NewRecord(in)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if rec.Slug != "atelier-jacket" {
		t.Fatalf("slug = %q", rec.Slug)
	}
}

func TestNewRecordRequiresCollection(t *testing.T) {
	in := validRecord()
	in.CollectionTitle = ""
	in.CollectionHandle = ""
	_, err := NewRecord(in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "collectionHandle" {
		t.Fatalf("unexpected fields: %+v", verr.Fields)
	}
}

func TestNewRecordCollectsAllViolations(t *testing.T) {
	in := Record{
		Price:      -1,
		Stock:      -2,
		ImageAlts:  []string{"a", "b"},
		ImagePaths: []string{"shots/a.png"},
		Taxonomy:   Taxonomy{Department: "pets", Category: "clothing"},
	}
	_, err := NewRecord(in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]bool{
		"title":               true,
		"slug":                true,
		"collectionHandle":    true,
		"taxonomy.department": true,
		"price":               true,
		"stock":               true,
		"imageAlts":           true,
	}
	for _, field := range verr.Fields {
		if !want[field.Field] {
			t.Fatalf("unexpected field error %q: %s", field.Field, field.Message)
		}
		delete(want, field.Field)
	}
	if len(want) != 0 {
		t.Fatalf("missing field errors: %v", want)
	}
}

func TestNewRecordRejectsUnknownAttribute(t *testing.T) {
	in := validRecord()
	in.Taxonomy.Attributes = map[string]string{"heel_height": "low"}
	if _, err := NewRecord(in); err == nil {
		t.Fatal("expected error for unknown attribute")
	}
}

func TestNewRecordRejectsBadTimestamp(t *testing.T) {
	in := validRecord()
	in.CreatedAt = "yesterday"
	if _, err := NewRecord(in); err == nil {
		t.Fatal("expected error for unparsable createdAt")
	}
}

func TestNewRecordLeavesInputSlicesUntouched(t *testing.T) {
	in := validRecord()
	in.ImagePaths = []string{" shots/front.png "}
	in.ImageAlts = []string{" Front "}

	rec, err := NewRecord(in)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if rec.ImagePaths[0] != "shots/front.png" || rec.ImageAlts[0] != "Front" {
		t.Fatalf("output not trimmed: %v %v", rec.ImagePaths, rec.ImageAlts)
	}
	if in.ImagePaths[0] != " shots/front.png " || in.ImageAlts[0] != " Front " {
		t.Fatalf("input slices mutated: %v %v", in.ImagePaths, in.ImageAlts)
	}
}

func TestValidateRecordRejectsDenormalizedSlug(t *testing.T) {
	rec, err := NewRecord(validRecord())
	if err != nil {
		t.Fatal(err)
	}
	rec.Slug = "Studio Jacket"
	if err := ValidateRecord(rec); err == nil {
		t.Fatal("expected error for non-normalized slug")
	}
}
