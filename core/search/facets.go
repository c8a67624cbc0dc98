package search

import (
	"github.com/goto/encoded/core/item"
	"github.com/goto/encoded/core/user"
)

const (
	FacetFieldType   = "type"
	FacetFieldStatus = "status"
)

// FacetSpec is a facet the search requests an aggregation for.
type FacetSpec struct {
	Field       string
	Title       string
	Aggregation string
}

var auditFacets = []FacetSpec{
	{Field: "audit.ERROR.category", Title: "Audit category: ERROR", Aggregation: item.AggregationTerms},
	{Field: "audit.NOT_COMPLIANT.category", Title: "Audit category: NOT COMPLIANT", Aggregation: item.AggregationTerms},
	{Field: "audit.WARNING.category", Title: "Audit category: WARNING", Aggregation: item.AggregationTerms},
}

var internalAuditFacet = FacetSpec{
	Field:       "audit.INTERNAL_ACTION.category",
	Title:       "Audit category: DCC ACTION",
	Aggregation: item.AggregationTerms,
}

// internalAuditGroups may see the internal action audit category.
var internalAuditGroups = []string{"admin", "submitter"}

// BuildFacets returns the facets for a search over docTypes. Type and
// status are always present, schema facets apply only when a single
// type is requested, and audit facets depend on the caller.
func BuildFacets(reg *item.Registry, docTypes []string, usr user.User) []FacetSpec {
	facets := []FacetSpec{
		{Field: FacetFieldType, Title: "Data Type", Aggregation: item.AggregationTerms},
		{Field: FacetFieldStatus, Title: "Status", Aggregation: item.AggregationTerms},
	}

	if len(docTypes) == 1 {
		if typ, ok := reg.Lookup(docTypes[0]); ok {
			for _, f := range typ.Schema.Facets {
				if f.Field == FacetFieldType || f.Field == FacetFieldStatus {
					continue
				}
				title := f.Title
				if title == "" {
					title = f.Field
				}
				facets = append(facets, FacetSpec{
					Field:       f.Field,
					Title:       title,
					Aggregation: f.AggregationKind(),
				})
			}
		}
	}

	if usr.HasPermission(user.PermissionSearchAudit) {
		facets = append(facets, auditFacets...)
		for _, g := range internalAuditGroups {
			if usr.InGroup(g) {
				facets = append(facets, internalAuditFacet)
				break
			}
		}
	}
	return facets
}
