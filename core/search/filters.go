package search

import "strings"

const (
	paramType       = "type"
	paramLimit      = "limit"
	paramSort       = "sort"
	paramFrame      = "frame"
	paramFormat     = "format"
	paramField      = "field"
	paramFrom       = "from"
	paramQuery      = "q"
	paramSearchTerm = "searchTerm"

	negationSuffix = "!"

	// NoValue selects documents where the field is missing.
	NoValue = "No value"
)

// reservedParams never become field filters.
var reservedParams = map[string]bool{
	paramType:       true,
	paramLimit:      true,
	paramSort:       true,
	paramFrame:      true,
	paramFormat:     true,
	paramField:      true,
	"region":        true,
	"genome":        true,
	"datastore":     true,
	"referrer":      true,
	paramFrom:       true,
	"mode":          true,
	"annotation":    true,
	paramSearchTerm: true,
	paramQuery:      true,
}

// FieldFilter is every selected value of one field. Values of the
// same filter are OR'd; distinct filters are AND'd.
type FieldFilter struct {
	Field   string
	Negated bool
	Values  []string
}

// Key is the query-string key of the filter, with the trailing '!'
// for negated filters.
func (f FieldFilter) Key() string {
	if f.Negated {
		return f.Field + negationSuffix
	}
	return f.Field
}

// Filters is the field -> values multimap derived from a request.
// It is built once and never mutated; clauses are rendered from it.
type Filters []FieldFilter

// NewFilters groups all non-reserved params by field, keeping the
// order of first appearance and dropping repeated and empty values.
func NewFilters(params Params) Filters {
	var (
		filters Filters
		index   = map[string]int{}
		seen    = map[string]map[string]bool{}
	)
	for _, param := range params {
		if reservedParams[param.Key] || param.Value == "" {
			continue
		}
		field := param.Key
		negated := false
		if len(field) > 1 && strings.HasSuffix(field, negationSuffix) {
			field = strings.TrimSuffix(field, negationSuffix)
			negated = true
		}

		key := param.Key
		i, ok := index[key]
		if !ok {
			i = len(filters)
			index[key] = i
			seen[key] = map[string]bool{}
			filters = append(filters, FieldFilter{Field: field, Negated: negated})
		}
		if seen[key][param.Value] {
			continue
		}
		seen[key][param.Value] = true
		filters[i].Values = append(filters[i].Values, param.Value)
	}
	return filters
}

// Except returns the filters that constrain a facet on field: every
// filter other than the positive selection on field itself.
func (fs Filters) Except(field string) Filters {
	out := make(Filters, 0, len(fs))
	for _, f := range fs {
		if f.Field == field && !f.Negated {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Keys returns the query-string key of every filter.
func (fs Filters) Keys() []string {
	keys := make([]string, len(fs))
	for i, f := range fs {
		keys[i] = f.Key()
	}
	return keys
}
