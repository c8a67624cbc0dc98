package elasticsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goto/encoded/core/item"
	"github.com/goto/encoded/core/search"
	"github.com/olivere/elastic/v7"
)

const (
	principalsField = "principals_allowed.view"
	typeField       = "embedded.@type.raw"
	auditPrefix     = "audit"

	facetTermsSize = 100
)

// fieldPath maps a filter or facet field to the indexed keyword
// field it is matched against.
func fieldPath(field string) string {
	switch {
	case field == search.FacetFieldType:
		return typeField
	case strings.HasPrefix(field, auditPrefix):
		return field
	default:
		return "embedded." + field + ".raw"
	}
}

// sortPath is the subfield that orders a field by its mapped type.
func sortPath(field string) string {
	return "embedded." + field + ".sort"
}

// aggregationName is the key a facet's aggregation is stored under.
func aggregationName(field string) string {
	return strings.ReplaceAll(field, ".", "-")
}

func buildSearchBody(q search.Query) (io.Reader, error) {
	src, err := buildSearchSource(q).Source()
	if err != nil {
		return nil, fmt.Errorf("build search source: %w", err)
	}

	payload := new(bytes.Buffer)
	if err := json.NewEncoder(payload).Encode(src); err != nil {
		return nil, fmt.Errorf("encode search source: %w", err)
	}
	return payload, nil
}

// buildSearchSource renders q. Field filters go to the post filter so
// that each facet aggregation can apply every filter but its own.
func buildSearchSource(q search.Query) *elastic.SearchSource {
	src := elastic.NewSearchSource().
		Query(buildBaseQuery(q)).
		TrackTotalHits(true).
		FetchSourceContext(elastic.NewFetchSourceContext(true).Include(sourceIncludes(q)...))

	if len(q.Filters) > 0 {
		src.PostFilter(buildFilterQuery(q.Filters))
	}

	for _, spec := range q.Facets {
		src.Aggregation(aggregationName(spec.Field), buildFacetAggregation(spec, q.Filters))
	}

	if sorters := buildSorters(q.Sort); len(sorters) > 0 {
		src.SortBy(sorters...)
	}
	return src
}

// buildBaseQuery matches the full text query among the documents the
// caller may view and that are of one of the requested types.
func buildBaseQuery(q search.Query) *elastic.BoolQuery {
	text := elastic.NewQueryStringQuery(q.Text).DefaultOperator("AND")
	for _, f := range q.TextFields {
		text.Field(f)
	}

	return elastic.NewBoolQuery().
		Must(text).
		Filter(
			elastic.NewTermsQuery(principalsField, toInterfaces(q.Principals)...),
			elastic.NewTermsQuery(typeField, toInterfaces(q.DocTypes)...),
		)
}

// buildFilterQuery ANDs every field filter.
func buildFilterQuery(filters search.Filters) *elastic.BoolQuery {
	bq := elastic.NewBoolQuery()
	for _, f := range filters {
		addFieldFilter(bq, f)
	}
	return bq
}

// addFieldFilter ORs the values of f into a single clause. The
// NoValue term matches documents missing the field.
func addFieldFilter(bq *elastic.BoolQuery, f search.FieldFilter) {
	path := fieldPath(f.Field)

	var (
		values  []interface{}
		noValue bool
	)
	for _, v := range f.Values {
		if v == search.NoValue {
			noValue = true
			continue
		}
		values = append(values, v)
	}

	if f.Negated {
		if len(values) > 0 {
			bq.MustNot(elastic.NewTermsQuery(path, values...))
		}
		if noValue {
			bq.Filter(elastic.NewExistsQuery(path))
		}
		return
	}

	missing := elastic.NewBoolQuery().MustNot(elastic.NewExistsQuery(path))
	switch {
	case len(values) > 0 && noValue:
		bq.Filter(elastic.NewBoolQuery().
			Should(elastic.NewTermsQuery(path, values...), missing).
			MinimumNumberShouldMatch(1))
	case noValue:
		bq.Filter(missing)
	default:
		bq.Filter(elastic.NewTermsQuery(path, values...))
	}
}

// buildFacetAggregation scopes the facet's aggregation by every
// active filter except the positive selection on the facet itself.
func buildFacetAggregation(spec search.FacetSpec, filters search.Filters) elastic.Aggregation {
	name := aggregationName(spec.Field)

	var inner elastic.Aggregation
	if spec.Aggregation == item.AggregationStats {
		inner = elastic.NewStatsAggregation().Field("embedded." + spec.Field)
	} else {
		terms := elastic.NewTermsAggregation().
			Field(fieldPath(spec.Field)).
			Size(facetTermsSize).
			MinDocCount(0).
			Missing(search.NoValue)
		if spec.Field == search.FacetFieldType {
			terms.ExcludeValues(item.ItemTypeName)
		}
		inner = terms
	}

	return elastic.NewFilterAggregation().
		Filter(buildFilterQuery(filters.Except(spec.Field))).
		SubAggregation(name, inner)
}

func buildSorters(keys []search.SortKey) []elastic.Sorter {
	sorters := make([]elastic.Sorter, 0, len(keys))
	for _, k := range keys {
		if k.Field == search.ScoreField {
			sorters = append(sorters, elastic.NewScoreSort().Desc())
			continue
		}
		sorters = append(sorters, elastic.NewFieldSort(sortPath(k.Field)).
			UnmappedType("keyword").
			Order(!k.Desc))
	}
	return sorters
}

// sourceIncludes selects the frame of the stored document, or only
// the requested embedded fields.
func sourceIncludes(q search.Query) []string {
	if len(q.Fields) == 0 {
		return []string{frameOf(q) + ".*"}
	}

	includes := []string{"embedded.@id", "embedded.@type"}
	for _, f := range q.Fields {
		includes = append(includes, "embedded."+f)
	}
	return includes
}

func frameOf(q search.Query) string {
	if q.Frame == search.FrameObject && len(q.Fields) == 0 {
		return search.FrameObject
	}
	return search.FrameEmbedded
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
