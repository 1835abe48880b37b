package artifact

// Brand is one deduplicated brand registry entry, keyed by handle.
type Brand struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

// Collection is one deduplicated collection registry entry.
type Collection struct {
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// MediaEntry is one normalized product image reference.
type MediaEntry struct {
	Type    string `json:"type"`
	Path    string `json:"path"`
	AltText string `json:"altText"`
}

// ProductTaxonomy is the derived taxonomy shape: list-valued attributes are
// split out of their delimited cell form.
type ProductTaxonomy struct {
	Department  string         `json:"department"`
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory"`
	Color       []string       `json:"color"`
	Material    []string       `json:"material"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// ProductDetails mirrors the draft details, lists already split.
type ProductDetails struct {
	ModelHeight string   `json:"modelHeight,omitempty"`
	ModelSize   string   `json:"modelSize,omitempty"`
	FitNote     string   `json:"fitNote,omitempty"`
	FabricFeel  string   `json:"fabricFeel,omitempty"`
	Care        string   `json:"care,omitempty"`
	Dimensions  string   `json:"dimensions,omitempty"`
	StrapDrop   string   `json:"strapDrop,omitempty"`
	WhatFits    []string `json:"whatFits,omitempty"`
	Interior    []string `json:"interior,omitempty"`
	SizeGuide   string   `json:"sizeGuide,omitempty"`
	Warranty    string   `json:"warranty,omitempty"`
}

// Product is one normalized publish-ready product.
type Product struct {
	ID              string             `json:"id"`
	Slug            string             `json:"slug"`
	Title           string             `json:"title"`
	Brand           string             `json:"brand"`
	Collection      string             `json:"collection"`
	Price           float64            `json:"price"`
	CompareAtPrice  *float64           `json:"compareAtPrice,omitempty"`
	Prices          map[string]float64 `json:"prices"`
	CompareAtPrices map[string]float64 `json:"compareAtPrices,omitempty"`
	Deposit         float64            `json:"deposit"`
	Stock           float64            `json:"stock"`
	ForSale         bool               `json:"forSale"`
	ForRental       bool               `json:"forRental"`
	Media           []MediaEntry       `json:"media"`
	Sizes           []string           `json:"sizes"`
	Description     string             `json:"description"`
	CreatedAt       string             `json:"createdAt"`
	Popularity      float64            `json:"popularity"`
	Taxonomy        ProductTaxonomy    `json:"taxonomy"`
	Details         *ProductDetails    `json:"details,omitempty"`
}

// Payload is the normalized catalog: products sorted by slug, brands and
// collections sorted by handle.
type Payload struct {
	Collections []Collection `json:"collections"`
	Brands      []Brand      `json:"brands"`
	Products    []Product    `json:"products"`
}

// MediaItem maps one source image path to its catalog path and alt text.
type MediaItem struct {
	ProductSlug string `json:"productSlug"`
	SourcePath  string `json:"sourcePath"`
	CatalogPath string `json:"catalogPath"`
	AltText     string `json:"altText"`
}

// MediaIndex is the flat media listing derived alongside the payload.
type MediaIndex struct {
	GeneratedAt string      `json:"generatedAt"`
	Source      string      `json:"source"`
	Totals      MediaTotals `json:"totals"`
	Items       []MediaItem `json:"items"`
}

// MediaTotals summarizes one build.
type MediaTotals struct {
	Products int `json:"products"`
	Media    int `json:"media"`
	Warnings int `json:"warnings"`
}

// Result bundles one build's outputs. Warnings are always returned
// explicitly, never dropped.
type Result struct {
	Catalog    Payload
	MediaIndex MediaIndex
	Warnings   []string
}
