package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/goto/encoded/core/item"
	"github.com/goto/encoded/core/search"
	"github.com/goto/salt/log"
	"github.com/olivere/elastic/v7"
)

const (
	scanPageSize  = 500
	scanKeepAlive = time.Minute
)

type searchHit struct {
	Index  string                     `json:"_index"`
	ID     string                     `json:"_id"`
	Source map[string]json.RawMessage `json:"_source"`
}

type searchResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Total elastic.TotalHits `json:"total"`
		Hits  []searchHit       `json:"hits"`
	} `json:"hits"`
	Aggregations elastic.Aggregations `json:"aggregations"`
}

// SearchRepository implements search.Repository
// with elasticsearch as the backing store.
type SearchRepository struct {
	cli    *Client
	logger log.Logger
}

func NewSearchRepository(cli *Client, logger log.Logger) *SearchRepository {
	return &SearchRepository{
		cli:    cli,
		logger: logger,
	}
}

// Search runs q. A query for all hits opens a scroll that the
// returned hits page through lazily.
func (repo *SearchRepository) Search(ctx context.Context, q search.Query) (resp search.Response, err error) {
	defer func(start time.Time) {
		repo.cli.instrumentOp(ctx, instrumentParams{
			op:    "search",
			start: start,
			err:   err,
		})
	}(time.Now())

	body, err := buildSearchBody(q)
	if err != nil {
		return search.Response{}, repo.storeError(fmt.Errorf("build query: %w", err), "")
	}

	reqCtx, cancel := repo.cli.withTimeout(ctx)
	defer cancel()

	es := repo.cli.client.Search
	opts := []func(*esapi.SearchRequest){
		es.WithContext(reqCtx),
		es.WithIndex(repo.cli.index),
		es.WithBody(body),
		es.WithIgnoreUnavailable(true),
	}
	if q.All {
		opts = append(opts, es.WithSize(scanPageSize), es.WithScroll(scanKeepAlive))
	} else {
		opts = append(opts, es.WithFrom(q.From), es.WithSize(q.Size))
	}

	res, err := es(opts...)
	if err != nil {
		return search.Response{}, repo.storeError(fmt.Errorf("execute search: %w", err), "")
	}
	defer drainBody(res)
	if res.IsError() {
		code, reason := errorCodeAndReason(res)
		return search.Response{}, repo.storeError(fmt.Errorf("execute search: %s", reason), code)
	}

	var response searchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return search.Response{}, repo.storeError(fmt.Errorf("decode search response: %w", err), "")
	}

	facets, err := toFacetResults(q.Facets, response.Aggregations)
	if err != nil {
		return search.Response{}, repo.storeError(fmt.Errorf("decode aggregations: %w", err), "")
	}

	resp = search.Response{
		Total:  response.Hits.Total.Value,
		Facets: facets,
	}

	frame := frameOf(q)
	if q.All {
		resp.Hits = newScanner(repo.cli, repo.logger, frame, response)
		return resp, nil
	}

	docs := make([]search.Document, 0, len(response.Hits.Hits))
	for _, hit := range response.Hits.Hits {
		doc, err := toDocument(hit, frame)
		if err != nil {
			return search.Response{}, repo.storeError(err, "")
		}
		docs = append(docs, doc)
	}
	resp.Hits = search.NewSliceHits(docs)
	return resp, nil
}

func (repo *SearchRepository) storeError(err error, code string) error {
	return search.StoreError{
		Op:     "Search",
		Index:  repo.cli.index,
		ESCode: code,
		Err:    err,
	}
}

// toDocument projects a hit to the stored frame. A hit without the
// frame yields an empty document so result order is kept.
func toDocument(hit searchHit, frame string) (search.Document, error) {
	doc := search.Document{}
	raw, ok := hit.Source[frame]
	if !ok {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s frame of hit %q: %w", frame, hit.ID, err)
	}
	return doc, nil
}

func toFacetResults(specs []search.FacetSpec, aggs elastic.Aggregations) (map[string]search.FacetResult, error) {
	results := make(map[string]search.FacetResult, len(specs))
	for _, spec := range specs {
		name := aggregationName(spec.Field)
		scope, ok := aggs.Filter(name)
		if !ok {
			continue
		}

		fr := search.FacetResult{Total: scope.DocCount}
		if spec.Aggregation == item.AggregationStats {
			stats, ok := scope.Stats(name)
			if !ok {
				return nil, fmt.Errorf("missing stats aggregation %q", name)
			}
			fr.Stats = toStats(stats)
		} else {
			terms, ok := scope.Terms(name)
			if !ok {
				return nil, fmt.Errorf("missing terms aggregation %q", name)
			}
			fr.Terms = toTerms(terms)
		}
		results[spec.Field] = fr
	}
	return results, nil
}

func toTerms(agg *elastic.AggregationBucketKeyItems) []search.Term {
	terms := make([]search.Term, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		key := fmt.Sprint(b.Key)
		if b.KeyAsString != nil {
			key = *b.KeyAsString
		}
		terms = append(terms, search.Term{Key: key, DocCount: b.DocCount})
	}
	return terms
}

func toStats(agg *elastic.AggregationStatsMetric) *search.Stats {
	return &search.Stats{
		Count: agg.Count,
		Min:   valueOrZero(agg.Min),
		Max:   valueOrZero(agg.Max),
		Avg:   valueOrZero(agg.Avg),
		Sum:   valueOrZero(agg.Sum),
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
