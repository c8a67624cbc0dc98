package search

//go:generate mockery --name=Repository -r --case underscore --with-expecter --structname SearchRepository --filename search_repository.go --output=./mocks

import (
	"context"
)

// Frames a hit can be projected to.
const (
	FrameEmbedded = "embedded"
	FrameObject   = "object"
)

// Repository executes a search against the document index.
type Repository interface {
	Search(ctx context.Context, q Query) (Response, error)
}

// Query is a fully resolved search, independent of the query
// language of the backing store.
type Query struct {
	// Text is the full-text query, "*" when none was given.
	Text       string
	TextFields []string

	// Principals restricts hits to documents viewable by any of them.
	Principals []string

	// DocTypes restricts hits to documents of these types.
	DocTypes []string

	Filters Filters
	Facets  []FacetSpec
	Sort    []SortKey

	Frame  string
	Fields []string

	From int
	Size int
	// All requests every hit, paging through the index.
	All bool
}

// SortKey orders hits by a document field, or by relevance when
// Field is ScoreField.
type SortKey struct {
	Field string
	Desc  bool
}

const ScoreField = "_score"

// Document is a single hit projected to the requested frame.
type Document = map[string]interface{}

// Response is the outcome of a Repository search.
type Response struct {
	Total int64
	Hits  Hits
	// Facets is keyed by FacetSpec.Field.
	Facets map[string]FacetResult
}

// Hits is a lazy, finite sequence of documents that can be consumed
// exactly once.
type Hits interface {
	Next(ctx context.Context) (Document, bool)
}

type FacetResult struct {
	// Total is the number of documents the facet aggregated over.
	Total int64
	Terms []Term
	Stats *Stats
}

type Term struct {
	Key      string `json:"key"`
	DocCount int64  `json:"doc_count"`
}

type Stats struct {
	Count int64   `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Sum   float64 `json:"sum"`
}

type sliceHits struct {
	docs []Document
	pos  int
}

// NewSliceHits returns Hits over an in-memory page of documents.
func NewSliceHits(docs []Document) Hits {
	return &sliceHits{docs: docs}
}

func (h *sliceHits) Next(ctx context.Context) (Document, bool) {
	if h.pos >= len(h.docs) {
		return nil, false
	}
	doc := h.docs[h.pos]
	h.docs[h.pos] = nil
	h.pos++
	return doc, true
}
