package search

import (
	"context"
	"net/http"

	"github.com/goto/encoded/core/item"
)

const (
	resultContext = "/terms/"

	NotificationSuccess   = "Success"
	NotificationNoResults = "No results found"
)

// Result is the JSON-LD search result document.
type Result struct {
	Context      string               `json:"@context"`
	ID           string               `json:"@id"`
	Type         []string             `json:"@type"`
	Title        string               `json:"title"`
	Filters      []Filter             `json:"filters"`
	Facets       []Facet              `json:"facets"`
	Graph        []Document           `json:"@graph"`
	Columns      []item.Column        `json:"columns,omitempty"`
	Sort         map[string]SortOrder `json:"sort,omitempty"`
	ClearFilters string               `json:"clear_filters"`
	Notification string               `json:"notification"`
	Total        int64                `json:"total"`

	// Status is the HTTP status the result is served with.
	Status int `json:"-"`
}

// Filter echoes an applied filter, with a link that removes it.
type Filter struct {
	Field  string `json:"field"`
	Term   string `json:"term"`
	Remove string `json:"remove"`
}

type Facet struct {
	Field       string `json:"field"`
	Title       string `json:"title"`
	Aggregation string `json:"aggregation_type"`
	Total       int64  `json:"total"`
	Terms       []Term `json:"terms,omitempty"`
	Stats       *Stats `json:"stats,omitempty"`
}

type SortOrder struct {
	Order        string `json:"order"`
	UnmappedType string `json:"unmapped_type,omitempty"`
}

type resultInput struct {
	route    Route
	params   Params
	docTypes []string
	reg      *item.Registry
	filters  Filters
	facets   []FacetSpec
	sort     []SortKey
	response Response
}

func formatResult(ctx context.Context, in resultInput) Result {
	res := Result{
		Context:      resultContext,
		ID:           withPath(in.route.Path, in.params),
		Type:         []string{in.route.Name},
		Title:        in.route.Name,
		Filters:      echoFilters(in.route, in.params),
		Facets:       formatFacets(in.facets, in.filters, in.response.Facets),
		Graph:        drain(ctx, in.response.Hits),
		Columns:      columns(in.reg, in.docTypes),
		Sort:         sortOrders(in.sort),
		ClearFilters: clearFilters(in.route, in.docTypes),
		Notification: NotificationSuccess,
		Total:        in.response.Total,
		Status:       http.StatusOK,
	}

	if res.Total == 0 {
		res.Status = http.StatusNotFound
		res.Graph = []Document{}
		res.Notification = NotificationNoResults
	}
	return res
}

// drain consumes hits once, preserving order.
func drain(ctx context.Context, hits Hits) []Document {
	graph := []Document{}
	if hits == nil {
		return graph
	}
	for {
		doc, ok := hits.Next(ctx)
		if !ok {
			return graph
		}
		graph = append(graph, doc)
	}
}

func echoFilters(route Route, params Params) []Filter {
	filters := []Filter{}
	for _, param := range params {
		if reservedParams[param.Key] && param.Key != paramType {
			continue
		}
		if param.Value == "" {
			continue
		}
		filters = append(filters, Filter{
			Field:  param.Key,
			Term:   param.Value,
			Remove: withPath(route.Path, params.Without(param.Key, param.Value)),
		})
	}
	return filters
}

// formatFacets drops facets with fewer than two non-empty buckets and
// adds a single-entry facet for every filter on an undeclared field,
// so the filter can still be shown and cleared.
func formatFacets(specs []FacetSpec, filters Filters, results map[string]FacetResult) []Facet {
	facets := []Facet{}
	declared := make(map[string]bool, len(specs))
	for _, spec := range specs {
		declared[spec.Field] = true

		fr, ok := results[spec.Field]
		if !ok {
			continue
		}

		if spec.Aggregation == item.AggregationStats {
			if fr.Stats == nil || fr.Stats.Count == 0 {
				continue
			}
			facets = append(facets, Facet{
				Field:       spec.Field,
				Title:       spec.Title,
				Aggregation: spec.Aggregation,
				Total:       fr.Total,
				Stats:       fr.Stats,
			})
			continue
		}

		if nonEmptyBuckets(fr.Terms) < 2 {
			continue
		}
		facets = append(facets, Facet{
			Field:       spec.Field,
			Title:       spec.Title,
			Aggregation: item.AggregationTerms,
			Total:       fr.Total,
			Terms:       fr.Terms,
		})
	}

	for _, f := range filters {
		key := f.Key()
		if declared[key] || f.Field == FacetFieldType {
			continue
		}
		terms := make([]Term, len(f.Values))
		for i, v := range f.Values {
			terms[i] = Term{Key: v}
		}
		facets = append(facets, Facet{
			Field:       key,
			Title:       key,
			Aggregation: item.AggregationTerms,
			Terms:       terms,
		})
	}
	return facets
}

func nonEmptyBuckets(terms []Term) int {
	n := 0
	for _, t := range terms {
		if t.Key != "" && t.DocCount > 0 {
			n++
		}
	}
	return n
}

func columns(reg *item.Registry, docTypes []string) []item.Column {
	if len(docTypes) != 1 {
		return nil
	}
	typ, ok := reg.Lookup(docTypes[0])
	if !ok {
		return nil
	}
	return typ.Schema.Columns
}

func sortOrders(keys []SortKey) map[string]SortOrder {
	if len(keys) == 0 {
		return nil
	}
	orders := make(map[string]SortOrder, len(keys))
	for _, k := range keys {
		o := SortOrder{Order: "asc"}
		if k.Desc {
			o.Order = "desc"
		}
		if k.Field != ScoreField {
			o.UnmappedType = "keyword"
		}
		orders[k.Field] = o
	}
	return orders
}

func clearFilters(route Route, docTypes []string) string {
	params := make(Params, 0, len(docTypes))
	for _, t := range docTypes {
		params = append(params, Param{Key: paramType, Value: t})
	}
	return withPath(route.Path, params)
}
