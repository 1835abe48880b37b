// Package artifact derives the publish-ready catalog payload and media
// index from a set of draft records.
//
// Build is pure: same records and options in, same payload out. It never
// touches the filesystem or network; image paths are carried through as
// normalized references for the sync layer to resolve.
package artifact

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"stockroom/internal/catalog"
	"stockroom/internal/slugs"
)

// Options configures one build.
type Options struct {
	// Rates maps a currency code to the multiplier applied to the base
	// amount. Unset or non-positive rates fall back to 1.0 with a warning.
	Rates map[string]float64
	// Strict fails the build when a record resolves zero images instead of
	// recording a warning.
	Strict bool
	// Source labels the media index with where the records came from.
	Source string
	// Now supplies the generation timestamp; defaults to time.Now.
	Now func() time.Time
}

// Build derives {payload, media index, warnings} from records. The first
// schema violation, empty slug, or slug/id duplicate fails the build with
// its row number; row numbers are 1-based in input order.
func Build(records []catalog.Record, opts Options) (Result, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var warnings []string
	rates := sanitizeRates(opts.Rates, &warnings)

	seenSlugs := map[string]bool{}
	seenIDs := map[string]bool{}
	brandsByHandle := map[string]Brand{}
	collectionsByHandle := map[string]Collection{}
	products := make([]Product, 0, len(records))
	var mediaItems []MediaItem

	for i, input := range records {
		rowNumber := i + 1
		rec, err := catalog.NewRecord(input)
		if err != nil {
			return Result{}, fmt.Errorf("row %d: %w", rowNumber, err)
		}

		if seenSlugs[rec.Slug] {
			return Result{}, fmt.Errorf("row %d: duplicate slug %q", rowNumber, rec.Slug)
		}
		seenSlugs[rec.Slug] = true

		productID := rec.ID
		if productID == "" {
			productID = "draft-" + rec.Slug
		}
		if seenIDs[productID] {
			return Result{}, fmt.Errorf("row %d: duplicate id %q", rowNumber, productID)
		}
		seenIDs[productID] = true

		brandHandle := sanitizeHandle(rec.BrandHandle, "brand")
		brandName := rec.BrandName
		if brandName == "" {
			brandName = slugs.HandleToTitle(brandHandle)
		}
		brandsByHandle[brandHandle] = Brand{Handle: brandHandle, Name: brandName}

		collectionHandle := sanitizeHandle(
			firstNonEmpty(rec.CollectionHandle, rec.CollectionTitle, rec.Taxonomy.Subcategory),
			rec.Taxonomy.Category+"-"+rec.Taxonomy.Subcategory,
		)
		if _, ok := collectionsByHandle[collectionHandle]; !ok {
			title := rec.CollectionTitle
			if title == "" {
				title = slugs.HandleToTitle(collectionHandle)
			}
			collectionsByHandle[collectionHandle] = Collection{
				Handle:      collectionHandle,
				Title:       title,
				Description: rec.CollectionDescription,
			}
		}

		media, err := buildMedia(rowNumber, rec, opts.Strict, &warnings, &mediaItems)
		if err != nil {
			return Result{}, err
		}

		price := roundAmount(rec.Price)
		product := Product{
			ID:          productID,
			Slug:        rec.Slug,
			Title:       rec.Title,
			Brand:       brandHandle,
			Collection:  collectionHandle,
			Price:       price,
			Prices:      applyRates(price, rates),
			Deposit:     roundAmount(rec.Deposit),
			Stock:       roundAmount(rec.Stock),
			ForSale:     rec.ForSale,
			ForRental:   rec.ForRental,
			Media:       media,
			Sizes:       emptyAsList(rec.Sizes),
			Description: rec.Description,
			CreatedAt:   rec.CreatedAt,
			Popularity:  roundAmount(rec.Popularity),
			Taxonomy:    buildTaxonomy(rec.Taxonomy),
			Details:     buildDetails(rec.Details),
		}
		if rec.CompareAtPrice != nil {
			compareAt := roundAmount(*rec.CompareAtPrice)
			product.CompareAtPrice = &compareAt
			product.CompareAtPrices = applyRates(compareAt, rates)
		}
		products = append(products, product)
	}

	sort.Slice(products, func(a, b int) bool { return products[a].Slug < products[b].Slug })
	sort.Slice(mediaItems, func(a, b int) bool { return mediaItems[a].CatalogPath < mediaItems[b].CatalogPath })

	return Result{
		Catalog: Payload{
			Collections: sortedCollections(collectionsByHandle),
			Brands:      sortedBrands(brandsByHandle),
			Products:    products,
		},
		MediaIndex: MediaIndex{
			GeneratedAt: now().UTC().Format(time.RFC3339),
			Source:      opts.Source,
			Totals: MediaTotals{
				Products: len(products),
				Media:    len(mediaItems),
				Warnings: len(warnings),
			},
			Items: mediaItems,
		},
		Warnings: warnings,
	}, nil
}

func buildMedia(rowNumber int, rec catalog.Record, strict bool, warnings *[]string, items *[]MediaItem) ([]MediaEntry, error) {
	if strict && len(rec.ImagePaths) == 0 {
		return nil, fmt.Errorf("row %d: %q has no image paths", rowNumber, rec.Slug)
	}

	media := []MediaEntry{}
	for index, rawPath := range rec.ImagePaths {
		catalogPath := normalizeCatalogPath(rawPath)
		if catalogPath == "" {
			*warnings = append(*warnings, fmt.Sprintf("row %d: %q has an empty image path entry", rowNumber, rec.Slug))
			continue
		}
		altText := rec.Slug
		if rec.Title != "" {
			altText = rec.Title
		}
		if index < len(rec.ImageAlts) && rec.ImageAlts[index] != "" {
			altText = rec.ImageAlts[index]
		}
		media = append(media, MediaEntry{Type: "image", Path: catalogPath, AltText: altText})
		*items = append(*items, MediaItem{
			ProductSlug: rec.Slug,
			SourcePath:  catalogPath,
			CatalogPath: catalogPath,
			AltText:     altText,
		})
	}

	if strict && len(media) == 0 {
		return nil, fmt.Errorf("row %d: %q produced no media entries", rowNumber, rec.Slug)
	}
	if !strict && len(media) == 0 {
		*warnings = append(*warnings, fmt.Sprintf("row %d: %q has no resolvable images", rowNumber, rec.Slug))
	}
	return media, nil
}

func buildTaxonomy(tax catalog.Taxonomy) ProductTaxonomy {
	out := ProductTaxonomy{
		Department:  tax.Department,
		Category:    tax.Category,
		Subcategory: tax.Subcategory,
		Color:       emptyAsList(tax.Color),
		Material:    emptyAsList(tax.Material),
	}
	if out.Subcategory == "" {
		out.Subcategory = "unknown"
	}
	for _, key := range catalog.AttributeKeys {
		value := strings.TrimSpace(tax.Attributes[key])
		if value == "" {
			continue
		}
		if out.Attributes == nil {
			out.Attributes = map[string]any{}
		}
		if catalog.ListAttributeKeys[key] {
			out.Attributes[key] = slugs.SplitList(value)
		} else {
			out.Attributes[key] = value
		}
	}
	return out
}

func buildDetails(details catalog.Details) *ProductDetails {
	out := ProductDetails{
		ModelHeight: details.ModelHeight,
		ModelSize:   details.ModelSize,
		FitNote:     details.FitNote,
		FabricFeel:  details.FabricFeel,
		Care:        details.Care,
		Dimensions:  details.Dimensions,
		StrapDrop:   details.StrapDrop,
		WhatFits:    details.WhatFits,
		Interior:    details.Interior,
		SizeGuide:   details.SizeGuide,
		Warranty:    details.Warranty,
	}
	if out.ModelHeight == "" && out.ModelSize == "" && out.FitNote == "" &&
		out.FabricFeel == "" && out.Care == "" && out.Dimensions == "" &&
		out.StrapDrop == "" && len(out.WhatFits) == 0 && len(out.Interior) == 0 &&
		out.SizeGuide == "" && out.Warranty == "" {
		return nil
	}
	return &out
}

func sanitizeRates(rates map[string]float64, warnings *[]string) map[string]float64 {
	out := make(map[string]float64, len(rates))
	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		rate := rates[code]
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
			*warnings = append(*warnings, fmt.Sprintf("currency rate %s is invalid, using 1.0", code))
			rate = 1.0
		}
		out[strings.ToUpper(code)] = rate
	}
	return out
}

func applyRates(amount float64, rates map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(rates)+1)
	out["USD"] = amount
	for code, rate := range rates {
		if code == "USD" {
			continue
		}
		out[code] = roundAmount(amount * rate)
	}
	return out
}

func sanitizeHandle(input, fallback string) string {
	if handle := slugs.Slugify(input); handle != "" {
		return handle
	}
	if handle := slugs.Slugify(fallback); handle != "" {
		return handle
	}
	return "unknown"
}

func normalizeCatalogPath(rawPath string) string {
	path := strings.ReplaceAll(strings.TrimSpace(rawPath), "\\", "/")
	return strings.TrimLeft(path, "/")
}

func roundAmount(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return math.Round(value)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func emptyAsList(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func sortedBrands(byHandle map[string]Brand) []Brand {
	out := make([]Brand, 0, len(byHandle))
	for _, brand := range byHandle {
		out = append(out, brand)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Handle < out[b].Handle })
	return out
}

func sortedCollections(byHandle map[string]Collection) []Collection {
	out := make([]Collection, 0, len(byHandle))
	for _, collection := range byHandle {
		out = append(out, collection)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Handle < out[b].Handle })
	return out
}
