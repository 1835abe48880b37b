package rowmap

import (
	"maps"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"stockroom/internal/catalog"
	"stockroom/internal/slugs"
)

// FromRow coerces a table row into a record. Unparsable numerics fall back
// to 0, unparsable booleans keep their documented defaults (for_sale true,
// for_rental false). No schema validation happens here; rows read from disk
// are surfaced as-is and checked again on write.
func FromRow(row Row) catalog.Record {
	rec := catalog.Record{
		ID:                    strings.TrimSpace(row["id"]),
		Slug:                  strings.TrimSpace(row["slug"]),
		Title:                 strings.TrimSpace(row["title"]),
		Description:           strings.TrimSpace(row["description"]),
		BrandHandle:           strings.TrimSpace(row["brand_handle"]),
		BrandName:             strings.TrimSpace(row["brand_name"]),
		CollectionHandle:      strings.TrimSpace(row["collection_handle"]),
		CollectionTitle:       strings.TrimSpace(row["collection_title"]),
		CollectionDescription: strings.TrimSpace(row["collection_description"]),
		Price:                 toNumber(row["price"]),
		CompareAtPrice:        toOptionalNumber(row["compare_at_price"]),
		Deposit:               toNumber(row["deposit"]),
		Stock:                 toNumber(row["stock"]),
		Popularity:            toNumber(row["popularity"]),
		ForSale:               ParseBool(row["for_sale"], true),
		ForRental:             ParseBool(row["for_rental"], false),
		CreatedAt:             strings.TrimSpace(row["created_at"]),
		Sizes:                 slugs.SplitList(row["sizes"]),
		Taxonomy: catalog.Taxonomy{
			Department:  strings.ToLower(strings.TrimSpace(row["department"])),
			Category:    strings.ToLower(strings.TrimSpace(row["category"])),
			Subcategory: strings.TrimSpace(row["subcategory"]),
			Color:       slugs.SplitList(row["color"]),
			Material:    slugs.SplitList(row["material"]),
			Attributes:  attributesFromRow(row),
		},
		Details: catalog.Details{
			ModelHeight: strings.TrimSpace(row["model_height"]),
			ModelSize:   strings.TrimSpace(row["model_size"]),
			FitNote:     strings.TrimSpace(row["fit_note"]),
			FabricFeel:  strings.TrimSpace(row["fabric_feel"]),
			Care:        strings.TrimSpace(row["care"]),
			Dimensions:  strings.TrimSpace(row["dimensions"]),
			StrapDrop:   strings.TrimSpace(row["strap_drop"]),
			WhatFits:    slugs.SplitList(row["what_fits"]),
			Interior:    slugs.SplitList(row["interior"]),
			SizeGuide:   strings.TrimSpace(row["size_guide"]),
			Warranty:    strings.TrimSpace(row["warranty"]),
		},
		ImagePaths: slugs.SplitAligned(row["image_paths"]),
		ImageAlts:  slugs.SplitAligned(row["image_alts"]),
		ImageRoles: slugs.SplitAligned(row["image_roles"]),
	}
	return rec
}

// ToRow renders a record into row form. The record must satisfy the schema;
// otherwise the catalog.ValidationError is returned and existing is left
// untouched. Columns outside the canonical set present in existing are
// preserved in the result.
func ToRow(rec catalog.Record, existing Row) (Row, error) {
	normalized, err := catalog.NewRecord(rec)
	if err != nil {
		return nil, err
	}

	row := Row{}
	if existing != nil {
		maps.Copy(row, existing)
	}

	row["id"] = normalized.ID
	row["slug"] = normalized.Slug
	row["title"] = normalized.Title
	row["description"] = normalized.Description
	row["brand_handle"] = slugs.Slugify(normalized.BrandHandle)
	row["brand_name"] = normalized.BrandName
	row["collection_handle"] = slugs.Slugify(normalized.CollectionHandle)
	row["collection_title"] = normalized.CollectionTitle
	row["collection_description"] = normalized.CollectionDescription
	row["price"] = formatNumber(normalized.Price)
	row["compare_at_price"] = formatOptionalNumber(normalized.CompareAtPrice)
	row["deposit"] = formatNumber(normalized.Deposit)
	row["stock"] = formatNumber(normalized.Stock)
	row["popularity"] = formatNumber(normalized.Popularity)
	row["for_sale"] = strconv.FormatBool(normalized.ForSale)
	row["for_rental"] = strconv.FormatBool(normalized.ForRental)
	row["created_at"] = normalized.CreatedAt
	row["sizes"] = slugs.JoinList(normalized.Sizes)
	row["department"] = normalized.Taxonomy.Department
	row["category"] = normalized.Taxonomy.Category
	row["subcategory"] = normalized.Taxonomy.Subcategory
	row["color"] = slugs.JoinList(normalized.Taxonomy.Color)
	row["material"] = slugs.JoinList(normalized.Taxonomy.Material)
	for _, key := range catalog.AttributeKeys {
		row[key] = strings.TrimSpace(normalized.Taxonomy.Attributes[key])
	}
	row["model_height"] = normalized.Details.ModelHeight
	row["model_size"] = normalized.Details.ModelSize
	row["fit_note"] = normalized.Details.FitNote
	row["fabric_feel"] = normalized.Details.FabricFeel
	row["care"] = normalized.Details.Care
	row["dimensions"] = normalized.Details.Dimensions
	row["strap_drop"] = normalized.Details.StrapDrop
	row["what_fits"] = slugs.JoinList(normalized.Details.WhatFits)
	row["interior"] = slugs.JoinList(normalized.Details.Interior)
	row["size_guide"] = normalized.Details.SizeGuide
	row["warranty"] = normalized.Details.Warranty
	row["image_paths"] = slugs.JoinAligned(normalized.ImagePaths)
	row["image_alts"] = slugs.JoinAligned(normalized.ImageAlts)
	row["image_roles"] = slugs.JoinAligned(normalized.ImageRoles)
	return row, nil
}

// ParseBool parses the accepted boolean tokens, keeping fallback when the
// cell holds anything else.
func ParseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func attributesFromRow(row Row) map[string]string {
	var attrs map[string]string
	for _, key := range catalog.AttributeKeys {
		value := strings.TrimSpace(row[key])
		if value == "" {
			continue
		}
		if attrs == nil {
			attrs = map[string]string{}
		}
		attrs[key] = value
	}
	return attrs
}

func toNumber(value string) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	parsed, err := cast.ToFloat64E(trimmed)
	if err != nil {
		return 0
	}
	return parsed
}

func toOptionalNumber(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parsed, err := cast.ToFloat64E(trimmed)
	if err != nil {
		return nil
	}
	return &parsed
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatOptionalNumber(value *float64) string {
	if value == nil {
		return ""
	}
	return formatNumber(*value)
}
