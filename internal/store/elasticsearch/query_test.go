package elasticsearch

import (
	"encoding/json"
	"testing"

	"github.com/goto/encoded/core/item"
	"github.com/goto/encoded/core/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderSource(t *testing.T, q search.Query) map[string]interface{} {
	t.Helper()
	src, err := buildSearchSource(q).Source()
	require.NoError(t, err)

	b, err := json.Marshal(src)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func jsonString(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func baseQuery() search.Query {
	return search.Query{
		Text:       "*",
		TextFields: []string{"uuid"},
		Principals: []string{"system.Everyone", "group.admin"},
		DocTypes:   []string{"ExperimentSetReplicate"},
		Frame:      search.FrameEmbedded,
		Size:       25,
	}
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "embedded.@type.raw", fieldPath("type"))
	assert.Equal(t, "embedded.lab.display_title.raw", fieldPath("lab.display_title"))
	assert.Equal(t, "audit.ERROR.category", fieldPath("audit.ERROR.category"))
}

func TestSortPath(t *testing.T) {
	assert.Equal(t, "embedded.date_created.sort", sortPath("date_created"))
	assert.Equal(t, "embedded.lab.display_title.sort", sortPath("lab.display_title"))
}

func TestAggregationName(t *testing.T) {
	assert.Equal(t, "lab-display_title", aggregationName("lab.display_title"))
	assert.Equal(t, "status", aggregationName("status"))
}

func TestBuildSearchSource(t *testing.T) {
	t.Run("should restrict the base query by principals and doc types", func(t *testing.T) {
		out := renderSource(t, baseQuery())
		query := jsonString(t, out["query"])

		assert.Contains(t, query, `"query_string":{"default_operator":"AND","fields":["uuid"],"query":"*"}`)
		assert.Contains(t, query, `{"terms":{"principals_allowed.view":["system.Everyone","group.admin"]}}`)
		assert.Contains(t, query, `{"terms":{"embedded.@type.raw":["ExperimentSetReplicate"]}}`)
		assert.NotContains(t, out, "post_filter")
		assert.Equal(t, true, out["track_total_hits"])
	})

	t.Run("should OR values of a field and AND distinct fields in the post filter", func(t *testing.T) {
		q := baseQuery()
		q.Filters = search.NewFilters(search.ParseParams("status=released&status=in+review&lab.display_title=4DN"))

		postFilter := jsonString(t, renderSource(t, q)["post_filter"])

		assert.Contains(t, postFilter, `{"terms":{"embedded.status.raw":["released","in review"]}}`)
		assert.Contains(t, postFilter, `{"terms":{"embedded.lab.display_title.raw":["4DN"]}}`)
	})

	t.Run("should render negated filters as must not", func(t *testing.T) {
		q := baseQuery()
		q.Filters = search.NewFilters(search.ParseParams("status!=deleted&audit.ERROR.category!=missing+file"))

		postFilter := jsonString(t, renderSource(t, q)["post_filter"])

		assert.Contains(t, postFilter, `"must_not":[`)
		assert.Contains(t, postFilter, `{"terms":{"embedded.status.raw":["deleted"]}}`)
		assert.Contains(t, postFilter, `{"terms":{"audit.ERROR.category":["missing file"]}}`)
		assert.NotContains(t, postFilter, `"filter"`)
	})

	t.Run("should match missing fields for No value", func(t *testing.T) {
		q := baseQuery()
		q.Filters = search.NewFilters(search.ParseParams("lab.title=No+value"))
		postFilter := jsonString(t, renderSource(t, q)["post_filter"])
		assert.Contains(t, postFilter, `"must_not":{"exists":{"field":"embedded.lab.title.raw"}}`)

		q.Filters = search.NewFilters(search.ParseParams("lab.title!=No+value"))
		postFilter = jsonString(t, renderSource(t, q)["post_filter"])
		assert.Contains(t, postFilter, `"filter":{"exists":{"field":"embedded.lab.title.raw"}}`)

		q.Filters = search.NewFilters(search.ParseParams("lab.title=No+value&lab.title=4DN"))
		postFilter = jsonString(t, renderSource(t, q)["post_filter"])
		assert.Contains(t, postFilter, `"minimum_should_match":"1"`)
		assert.Contains(t, postFilter, `{"terms":{"embedded.lab.title.raw":["4DN"]}}`)
	})

	t.Run("should scope each facet by every other filter", func(t *testing.T) {
		q := baseQuery()
		q.Filters = search.NewFilters(search.ParseParams("status=released&lab.display_title=4DN&lab.display_title!=Other"))
		q.Facets = []search.FacetSpec{
			{Field: "status", Aggregation: item.AggregationTerms},
			{Field: "lab.display_title", Aggregation: item.AggregationTerms},
		}

		aggs, ok := renderSource(t, q)["aggregations"].(map[string]interface{})
		require.True(t, ok)

		status := jsonString(t, aggs["status"])
		assert.NotContains(t, status, `"embedded.status.raw":["released"]`)
		assert.Contains(t, status, `"embedded.lab.display_title.raw":["4DN"]`)
		assert.Contains(t, status, `"embedded.lab.display_title.raw":["Other"]`)

		lab := jsonString(t, aggs["lab-display_title"])
		assert.Contains(t, lab, `"embedded.status.raw":["released"]`)
		assert.NotContains(t, lab, `"embedded.lab.display_title.raw":["4DN"]`)
		assert.Contains(t, lab, `"embedded.lab.display_title.raw":["Other"]`, "negation of the facet field still applies")
	})

	t.Run("should build terms and stats facet aggregations", func(t *testing.T) {
		q := baseQuery()
		q.Facets = []search.FacetSpec{
			{Field: "type", Aggregation: item.AggregationTerms},
			{Field: "number_of_experiments", Aggregation: item.AggregationStats},
		}

		aggs, ok := renderSource(t, q)["aggregations"].(map[string]interface{})
		require.True(t, ok)

		typ := jsonString(t, aggs["type"])
		assert.Contains(t, typ, `"filter":{"bool":{}}`)
		assert.Contains(t, typ, `"exclude":["Item"]`)
		assert.Contains(t, typ, `"field":"embedded.@type.raw"`)
		assert.Contains(t, typ, `"min_doc_count":0`)
		assert.Contains(t, typ, `"missing":"No value"`)
		assert.Contains(t, typ, `"size":100`)

		stats := jsonString(t, aggs["number_of_experiments"])
		assert.Contains(t, stats, `"number_of_experiments":{"stats":{"field":"embedded.number_of_experiments"}}`)
	})

	t.Run("should sort on sort subfields and score", func(t *testing.T) {
		q := baseQuery()
		q.Sort = []search.SortKey{
			{Field: "_score", Desc: true},
			{Field: "date_created", Desc: true},
			{Field: "label"},
		}

		sort := jsonString(t, renderSource(t, q)["sort"])

		assert.Equal(t, `[{"_score":{"order":"desc"}},`+
			`{"embedded.date_created.sort":{"order":"desc","unmapped_type":"keyword"}},`+
			`{"embedded.label.sort":{"order":"asc","unmapped_type":"keyword"}}]`, sort)
	})
}

func TestSourceIncludes(t *testing.T) {
	testCases := []struct {
		Description string
		Frame       string
		Fields      []string
		Expected    []string
	}{
		{Description: "embedded frame", Frame: search.FrameEmbedded, Expected: []string{"embedded.*"}},
		{Description: "object frame", Frame: search.FrameObject, Expected: []string{"object.*"}},
		{
			Description: "requested fields",
			Frame:       search.FrameObject,
			Fields:      []string{"name", "lab.title"},
			Expected:    []string{"embedded.@id", "embedded.@type", "embedded.name", "embedded.lab.title"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			q := search.Query{Frame: tc.Frame, Fields: tc.Fields}
			assert.Equal(t, tc.Expected, sourceIncludes(q))
		})
	}
}
