package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"stockroom/internal/slugs"
)

// NewRecord normalizes and validates a draft record. String fields are
// trimmed, the slug is derived from slug-or-title, and every schema
// violation is reported through a single ValidationError.
func NewRecord(in Record) (Record, error) {
	rec := in
	trimFields(&rec)
	rec.Slug = slugs.Slugify(firstNonEmpty(rec.Slug, rec.Title))

	verr := &ValidationError{}

	if rec.Title == "" {
		verr.add("title", "is required")
	}
	if rec.Slug == "" {
		verr.add("slug", "could not be derived from slug or title")
	}
	if rec.CollectionHandle == "" && rec.CollectionTitle == "" {
		verr.add("collectionHandle", "collection handle or title is required")
	}
	if !slices.Contains(Departments, rec.Taxonomy.Department) {
		verr.add("taxonomy.department", fmt.Sprintf("must be one of %s", strings.Join(Departments, ", ")))
	}
	if !slices.Contains(Categories, rec.Taxonomy.Category) {
		verr.add("taxonomy.category", fmt.Sprintf("must be one of %s", strings.Join(Categories, ", ")))
	}

	checkNonNegative(verr, "price", rec.Price)
	checkNonNegative(verr, "deposit", rec.Deposit)
	checkNonNegative(verr, "stock", rec.Stock)
	checkNonNegative(verr, "popularity", rec.Popularity)
	if rec.CompareAtPrice != nil {
		checkNonNegative(verr, "compareAtPrice", *rec.CompareAtPrice)
	}

	if rec.CreatedAt != "" {
		if _, err := time.Parse(time.RFC3339, rec.CreatedAt); err != nil {
			verr.add("createdAt", "must be an RFC 3339 timestamp")
		}
	}

	if len(rec.ImageAlts) > len(rec.ImagePaths) {
		verr.add("imageAlts", "more alt texts than image paths")
	}
	if len(rec.ImageRoles) > len(rec.ImagePaths) {
		verr.add("imageRoles", "more roles than image paths")
	}

	for key := range rec.Taxonomy.Attributes {
		if !slices.Contains(AttributeKeys, key) {
			verr.add("taxonomy."+key, "unknown attribute")
		}
	}

	if err := verr.orNil(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ValidateRecord reports whether rec already satisfies the schema without
// re-deriving identifiers.
func ValidateRecord(rec Record) error {
	normalized, err := NewRecord(rec)
	if err != nil {
		return err
	}
	if normalized.Slug != rec.Slug {
		return &ValidationError{Fields: []FieldError{{
			Field:   "slug",
			Message: fmt.Sprintf("not in normalized form, expected %q", normalized.Slug),
		}}}
	}
	return nil
}

func checkNonNegative(verr *ValidationError, field string, value float64) {
	if value < 0 {
		verr.add(field, "must not be negative")
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func trimFields(rec *Record) {
	rec.ID = strings.TrimSpace(rec.ID)
	rec.Slug = strings.TrimSpace(rec.Slug)
	rec.Title = strings.TrimSpace(rec.Title)
	rec.Description = strings.TrimSpace(rec.Description)
	rec.BrandHandle = strings.TrimSpace(rec.BrandHandle)
	rec.BrandName = strings.TrimSpace(rec.BrandName)
	rec.CollectionHandle = strings.TrimSpace(rec.CollectionHandle)
	rec.CollectionTitle = strings.TrimSpace(rec.CollectionTitle)
	rec.CollectionDescription = strings.TrimSpace(rec.CollectionDescription)
	rec.CreatedAt = strings.TrimSpace(rec.CreatedAt)
	rec.Taxonomy.Department = strings.ToLower(strings.TrimSpace(rec.Taxonomy.Department))
	rec.Taxonomy.Category = strings.ToLower(strings.TrimSpace(rec.Taxonomy.Category))
	rec.Taxonomy.Subcategory = strings.TrimSpace(rec.Taxonomy.Subcategory)
	rec.Sizes = trimmedClone(rec.Sizes)
	rec.Taxonomy.Color = trimmedClone(rec.Taxonomy.Color)
	rec.Taxonomy.Material = trimmedClone(rec.Taxonomy.Material)
	rec.ImagePaths = trimmedClone(rec.ImagePaths)
	rec.ImageAlts = trimmedClone(rec.ImageAlts)
	rec.ImageRoles = trimmedClone(rec.ImageRoles)
}

// trimmedClone trims each element into a fresh slice so the caller's input
// is never mutated.
func trimmedClone(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = strings.TrimSpace(value)
	}
	return out
}
