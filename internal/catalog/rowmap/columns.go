// Package rowmap converts between flat table rows and structured catalog
// records. Rows are string maps keyed by column name; unknown columns pass
// through writes untouched so external tooling can annotate the table.
package rowmap

import (
	"slices"

	"stockroom/internal/catalog"
)

// Row is one table row keyed by header column.
type Row = map[string]string

// Canonical column order. Unknown columns discovered in a table are appended
// after these, sorted, so output stays deterministic.
var canonicalColumns = buildCanonicalColumns()

func buildCanonicalColumns() []string {
	cols := []string{
		"id",
		"slug",
		"title",
		"description",
		"brand_handle",
		"brand_name",
		"collection_handle",
		"collection_title",
		"collection_description",
		"price",
		"compare_at_price",
		"deposit",
		"stock",
		"popularity",
		"for_sale",
		"for_rental",
		"created_at",
		"sizes",
		"department",
		"category",
		"subcategory",
		"color",
		"material",
	}
	cols = append(cols, catalog.AttributeKeys...)
	cols = append(cols,
		"model_height",
		"model_size",
		"fit_note",
		"fabric_feel",
		"care",
		"dimensions",
		"strap_drop",
		"what_fits",
		"interior",
		"size_guide",
		"warranty",
		"image_paths",
		"image_alts",
		"image_roles",
	)
	return cols
}

// Columns returns the canonical column order.
func Columns() []string {
	return slices.Clone(canonicalColumns)
}

// HeaderFor builds the header for a set of rows: the canonical columns plus
// any unknown columns present in the rows, appended in sorted order.
func HeaderFor(rows []Row) []string {
	known := make(map[string]bool, len(canonicalColumns))
	for _, col := range canonicalColumns {
		known[col] = true
	}

	var extra []string
	seen := map[string]bool{}
	for _, row := range rows {
		for col := range row {
			if col == "" || known[col] || seen[col] {
				continue
			}
			seen[col] = true
			extra = append(extra, col)
		}
	}
	slices.Sort(extra)
	return append(Columns(), extra...)
}
