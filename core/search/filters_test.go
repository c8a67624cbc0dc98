package search_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goto/encoded/core/search"
	"github.com/stretchr/testify/assert"
)

func TestNewFilters(t *testing.T) {
	testCases := []struct {
		Description string
		Query       string
		Expected    search.Filters
	}{
		{
			Description: "should ignore reserved params",
			Query:       "type=Organism&limit=10&sort=name&frame=object&format=json&field=name&from=5&q=x&searchTerm=y&mode=picker",
			Expected:    nil,
		},
		{
			Description: "should merge repeated values of a field into one filter",
			Query:       "status=released&lab.title=a&status=in+review&status=released",
			Expected: search.Filters{
				{Field: "status", Values: []string{"released", "in review"}},
				{Field: "lab.title", Values: []string{"a"}},
			},
		},
		{
			Description: "should keep negated filters apart from positive ones",
			Query:       "status=released&status!=deleted&status!=replaced",
			Expected: search.Filters{
				{Field: "status", Values: []string{"released"}},
				{Field: "status", Negated: true, Values: []string{"deleted", "replaced"}},
			},
		},
		{
			Description: "should negate type",
			Query:       "type=Item&type!=Organism",
			Expected: search.Filters{
				{Field: "type", Negated: true, Values: []string{"Organism"}},
			},
		},
		{
			Description: "should drop empty values",
			Query:       "status=&lab=",
			Expected:    nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			got := search.NewFilters(search.ParseParams(tc.Query))
			if diff := cmp.Diff(tc.Expected, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFiltersExcept(t *testing.T) {
	filters := search.NewFilters(search.ParseParams("status=released&status!=deleted&lab=a"))

	got := filters.Except("status")

	assert.Equal(t, []string{"status!", "lab"}, got.Keys())
	assert.Equal(t, []string{"status", "status!", "lab"}, filters.Keys(), "receiver must not change")
}

func TestFieldFilterKey(t *testing.T) {
	assert.Equal(t, "status", search.FieldFilter{Field: "status"}.Key())
	assert.Equal(t, "status!", search.FieldFilter{Field: "status", Negated: true}.Key())
}
