package search_test

import (
	"testing"

	"github.com/goto/encoded/core/item"
	"github.com/goto/encoded/core/search"
	"github.com/goto/encoded/core/user"
	"github.com/stretchr/testify/assert"
)

func facetFields(facets []search.FacetSpec) []string {
	fields := make([]string, len(facets))
	for i, f := range facets {
		fields[i] = f.Field
	}
	return fields
}

func TestBuildFacets(t *testing.T) {
	reg := newRegistry(t)
	const userUUID = "0f6a2f4e-5e3c-4c2b-9f7a-1d1c7e7c1a11"

	testCases := []struct {
		Description string
		DocTypes    []string
		User        user.User
		Expected    []string
	}{
		{
			Description: "should always include type and status",
			DocTypes:    []string{"Biosource", "Organism"},
			Expected:    []string{"type", "status"},
		},
		{
			Description: "should append schema facets of a single type",
			DocTypes:    []string{"ExperimentSetReplicate"},
			Expected:    []string{"type", "status", "lab.display_title", "number_of_experiments"},
		},
		{
			Description: "should append audit facets for authenticated users",
			DocTypes:    []string{"Organism"},
			User:        user.User{UUID: userUUID},
			Expected: []string{
				"type", "status", "name",
				"audit.ERROR.category", "audit.NOT_COMPLIANT.category", "audit.WARNING.category",
			},
		},
		{
			Description: "should append internal action facet for submitters",
			DocTypes:    []string{"Item"},
			User:        user.User{UUID: userUUID, Groups: []string{"lab", "submitter"}},
			Expected: []string{
				"type", "status",
				"audit.ERROR.category", "audit.NOT_COMPLIANT.category", "audit.WARNING.category",
				"audit.INTERNAL_ACTION.category",
			},
		},
		{
			Description: "should ignore groups of anonymous users",
			DocTypes:    []string{"Item"},
			User:        user.User{Groups: []string{"admin"}},
			Expected:    []string{"type", "status"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			got := search.BuildFacets(reg, tc.DocTypes, tc.User)
			assert.Equal(t, tc.Expected, facetFields(got))
		})
	}

	t.Run("should carry aggregation kind of schema facets", func(t *testing.T) {
		got := search.BuildFacets(reg, []string{"ExperimentSetReplicate"}, user.User{})
		assert.Equal(t, item.AggregationStats, got[3].Aggregation)
		assert.Equal(t, "Experiments", got[3].Title)
		assert.Equal(t, item.AggregationTerms, got[0].Aggregation)
	})
}
