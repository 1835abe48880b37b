package catalog

// Departments and categories accepted by the record schema.
var (
	Departments = []string{"women", "men", "kids"}
	Categories  = []string{"clothing", "bags", "jewelry"}
)

// AttributeKeys is the canonical set of category-specific taxonomy
// attributes. List-valued attributes keep their delimited cell form inside
// Taxonomy.Attributes; the artifact builder splits them on output.
var AttributeKeys = []string{
	"fit",
	"length",
	"neckline",
	"sleeve_length",
	"pattern",
	"occasion",
	"size_class",
	"strap_style",
	"hardware_color",
	"closure_type",
	"fits",
	"metal",
	"gemstone",
	"jewelry_size",
	"jewelry_style",
	"jewelry_tier",
}

// ListAttributeKeys are the attribute keys whose values are delimited lists.
var ListAttributeKeys = map[string]bool{
	"occasion": true,
	"fits":     true,
}

// Taxonomy classifies a record within the catalog tree.
type Taxonomy struct {
	Department  string            `json:"department"`
	Category    string            `json:"category"`
	Subcategory string            `json:"subcategory"`
	Color       []string          `json:"color,omitempty"`
	Material    []string          `json:"material,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Details carries free-form merchandising copy. All fields are optional.
type Details struct {
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

// Record is one product draft. The three image lists are positionally
// aligned: alt text and role at index i describe the path at index i.
type Record struct {
	ID                    string   `json:"id,omitempty"`
	Slug                  string   `json:"slug"`
	Title                 string   `json:"title"`
	Description           string   `json:"description,omitempty"`
	BrandHandle           string   `json:"brandHandle,omitempty"`
	BrandName             string   `json:"brandName,omitempty"`
	CollectionHandle      string   `json:"collectionHandle,omitempty"`
	CollectionTitle       string   `json:"collectionTitle,omitempty"`
	CollectionDescription string   `json:"collectionDescription,omitempty"`
	Price                 float64  `json:"price"`
	CompareAtPrice        *float64 `json:"compareAtPrice,omitempty"`
	Deposit               float64  `json:"deposit"`
	Stock                 float64  `json:"stock"`
	Popularity            float64  `json:"popularity"`
	ForSale               bool     `json:"forSale"`
	ForRental             bool     `json:"forRental"`
	CreatedAt             string   `json:"createdAt,omitempty"`
	Sizes                 []string `json:"sizes,omitempty"`
	Taxonomy              Taxonomy `json:"taxonomy"`
	Details               Details  `json:"details,omitempty"`
	ImagePaths            []string `json:"imagePaths,omitempty"`
	ImageAlts             []string `json:"imageAlts,omitempty"`
	ImageRoles            []string `json:"imageRoles,omitempty"`
}
