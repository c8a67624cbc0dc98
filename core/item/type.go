package item

// ItemTypeName is the universal base type every indexed document inherits.
const ItemTypeName = "Item"

// Aggregation kinds supported by a schema facet.
const (
	AggregationTerms = "terms"
	AggregationStats = "stats"
)

// Type is a registered document type and the parts of its schema
// the search layer depends on.
type Type struct {
	Name     string   `yaml:"name" validate:"required"`
	ItemType string   `yaml:"item_type"`
	Aliases  []string `yaml:"aliases"`
	Title    string   `yaml:"title"`
	Schema   Schema   `yaml:"schema"`
}

type Schema struct {
	Facets  []Facet   `yaml:"facets" validate:"dive"`
	Columns []Column  `yaml:"columns" validate:"dive"`
	SortBy  []SortKey `yaml:"sort_by" validate:"dive"`
}

// Facet declares a field that should be offered as a search facet
// when the type is the only one requested.
type Facet struct {
	Field       string `yaml:"field" validate:"required"`
	Title       string `yaml:"title"`
	Aggregation string `yaml:"aggregation_type" validate:"omitempty,oneof=terms stats"`
}

// AggregationKind returns the aggregation used for the facet,
// defaulting to terms.
func (f Facet) AggregationKind() string {
	if f.Aggregation == "" {
		return AggregationTerms
	}
	return f.Aggregation
}

type Column struct {
	Field string `yaml:"field" json:"field" validate:"required"`
	Title string `yaml:"title" json:"title"`
}

type SortKey struct {
	Field string `yaml:"field" validate:"required"`
	Order string `yaml:"order" validate:"omitempty,oneof=asc desc"`
}

// Desc reports whether the key sorts in descending order.
func (k SortKey) Desc() bool {
	return k.Order == "desc"
}
