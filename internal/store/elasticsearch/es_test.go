package elasticsearch_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/goto/encoded/core/item"
	"github.com/goto/encoded/core/search"
	store "github.com/goto/encoded/internal/store/elasticsearch"
	"github.com/goto/encoded/internal/store/elasticsearch/testutil"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var esTestServer *testutil.ElasticsearchTestServer

func TestMain(m *testing.M) {
	var err error
	esTestServer, err = testutil.NewElasticsearchTestServer()
	if err != nil {
		fmt.Println("elasticsearch integration tests disabled:", err)
	}

	exitCode := m.Run()

	if esTestServer != nil {
		if err := esTestServer.Close(); err != nil {
			fmt.Println("Error closing elasticsearch test server:", err)
		}
	}
	os.Exit(exitCode)
}

// newTestClient returns a client for a freshly migrated index loaded
// with the search fixture.
func newTestClient(t *testing.T) *store.Client {
	t.Helper()
	if esTestServer == nil {
		t.Skip("elasticsearch test server is not available")
	}

	cli, err := esTestServer.NewClient()
	require.NoError(t, err)

	esClient, err := store.NewClient(log.NewNoop(), store.Config{Index: "encoded-test"},
		store.WithClient(cli),
		store.WithIndex(testIndexName(t)),
	)
	require.NoError(t, err)
	require.NoError(t, esClient.Migrate(context.Background()))

	docs, err := item.LoadDocuments("./testdata/search-fixture.json")
	require.NoError(t, err)
	require.NoError(t, store.NewItemRepository(esClient, log.NewNoop()).Upsert(context.Background(), docs...))

	return esClient
}

// testIndexName gives every test its own index so fixtures never leak
// between tests.
func testIndexName(t *testing.T) string {
	return "encoded-" + strings.ToLower(strings.ReplaceAll(t.Name(), "/", "-"))
}

func TestClientMigrate(t *testing.T) {
	esClient := newTestClient(t)

	info, err := esClient.Init()
	require.NoError(t, err)
	assert.Contains(t, info, "server version")
	assert.Equal(t, "encoded-testclientmigrate", esClient.Index())

	assert.NoError(t, esClient.Migrate(context.Background()), "migrating an existing index updates it")
}

func TestSearchRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	esClient := newTestClient(t)
	repo := store.NewSearchRepository(esClient, log.NewNoop())

	everyone := []string{"system.Everyone"}
	admin := []string{"system.Everyone", "system.Authenticated", "group.admin"}

	newQuery := func(principals []string, docTypes []string, rawFilters string) search.Query {
		return search.Query{
			Text:       "*",
			TextFields: []string{"uuid"},
			Principals: principals,
			DocTypes:   docTypes,
			Filters:    search.NewFilters(search.ParseParams(rawFilters)),
			Facets: []search.FacetSpec{
				{Field: "type", Aggregation: item.AggregationTerms},
				{Field: "status", Aggregation: item.AggregationTerms},
				{Field: "lab.display_title", Aggregation: item.AggregationTerms},
				{Field: "number_of_experiments", Aggregation: item.AggregationStats},
			},
			Sort:  []search.SortKey{{Field: "date_created", Desc: true}, {Field: "label"}},
			Frame: search.FrameEmbedded,
			Size:  25,
		}
	}

	ids := func(t *testing.T, hits search.Hits) []string {
		var out []string
		for {
			doc, ok := hits.Next(ctx)
			if !ok {
				return out
			}
			id, _ := doc["@id"].(string)
			out = append(out, id)
		}
	}

	t.Run("should only return documents the principals may view", func(t *testing.T) {
		resp, err := repo.Search(ctx, newQuery(everyone, []string{"ExperimentSetReplicate"}, ""))
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Total)

		resp, err = repo.Search(ctx, newQuery(admin, []string{"ExperimentSetReplicate"}, ""))
		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.Total)
	})

	t.Run("should exclude Item from type facet", func(t *testing.T) {
		resp, err := repo.Search(ctx, newQuery(everyone, []string{"Item"}, ""))
		require.NoError(t, err)
		assert.Equal(t, int64(6), resp.Total)

		for _, term := range resp.Facets["type"].Terms {
			assert.NotEqual(t, "Item", term.Key)
		}
	})

	t.Run("should keep facet counts sticky to other filters only", func(t *testing.T) {
		resp, err := repo.Search(ctx, newQuery(admin, []string{"ExperimentSetReplicate"}, "status=released&lab.display_title=Dekker+Lab"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)

		status := map[string]int64{}
		for _, term := range resp.Facets["status"].Terms {
			status[term.Key] = term.DocCount
		}
		assert.Equal(t, int64(1), status["released"])
		assert.Equal(t, int64(1), status["in review"], "status facet ignores the status filter")

		lab := map[string]int64{}
		for _, term := range resp.Facets["lab.display_title"].Terms {
			lab[term.Key] = term.DocCount
		}
		assert.Equal(t, int64(1), lab["4DN DCC"], "lab facet ignores the lab filter")
		assert.Equal(t, int64(1), lab["Dekker Lab"])
		assert.Zero(t, lab[search.NoValue], "the deleted set without lab is filtered by status")
		assert.GreaterOrEqual(t, lab["Dekker Lab"], resp.Total)
	})

	t.Run("should filter on missing values and negations", func(t *testing.T) {
		resp, err := repo.Search(ctx, newQuery(everyone, []string{"ExperimentSetReplicate"}, "lab.display_title=No+value"))
		require.NoError(t, err)
		assert.Equal(t, []string{"/experiment-set-replicates/4DNES0000004/"}, ids(t, resp.Hits))

		resp, err = repo.Search(ctx, newQuery(everyone, []string{"ExperimentSetReplicate"}, "status!=deleted&status!=in+review"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("should order hits by the default sort", func(t *testing.T) {
		resp, err := repo.Search(ctx, newQuery(everyone, []string{"Organism"}, ""))
		require.NoError(t, err)
		assert.Equal(t, []string{"/organisms/human/", "/organisms/mouse/"}, ids(t, resp.Hits))

		q := newQuery(everyone, []string{"Organism"}, "")
		q.Sort = []search.SortKey{{Field: "date_created"}}
		resp, err = repo.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"/organisms/mouse/", "/organisms/human/"}, ids(t, resp.Hits))
	})

	t.Run("should order numbers by value", func(t *testing.T) {
		q := newQuery(everyone, []string{"ExperimentSetReplicate"}, "")
		q.Sort = []search.SortKey{{Field: "number_of_experiments", Desc: true}}
		resp, err := repo.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"/experiment-set-replicates/4DNES0000002/",
			"/experiment-set-replicates/4DNES0000001/",
			"/experiment-set-replicates/4DNES0000004/",
		}, ids(t, resp.Hits))
	})

	t.Run("should filter on timestamps and numbers", func(t *testing.T) {
		resp, err := repo.Search(ctx, newQuery(everyone, []string{"Organism"}, "date_created=2017-01-02T00:00:00"))
		require.NoError(t, err)
		assert.Equal(t, []string{"/organisms/human/"}, ids(t, resp.Hits))

		resp, err = repo.Search(ctx, newQuery(everyone, []string{"ExperimentSetReplicate"}, "number_of_experiments=4"))
		require.NoError(t, err)
		assert.Equal(t, []string{"/experiment-set-replicates/4DNES0000002/"}, ids(t, resp.Hits))
	})

	t.Run("should aggregate stats facets", func(t *testing.T) {
		resp, err := repo.Search(ctx, newQuery(everyone, []string{"ExperimentSetReplicate"}, ""))
		require.NoError(t, err)

		stats := resp.Facets["number_of_experiments"].Stats
		require.NotNil(t, stats)
		assert.Equal(t, int64(3), stats.Count)
		assert.Equal(t, float64(1), stats.Min)
		assert.Equal(t, float64(4), stats.Max)
	})

	t.Run("should return narrower type results as subset of Item results", func(t *testing.T) {
		q := newQuery(everyone, []string{"Organism"}, "")
		q.Text = "mouse"
		q.TextFields = []string{"embedded.name"}
		narrow, err := repo.Search(ctx, q)
		require.NoError(t, err)

		q.DocTypes = []string{"Item"}
		broad, err := repo.Search(ctx, q)
		require.NoError(t, err)

		narrowIDs := ids(t, narrow.Hits)
		assert.Equal(t, []string{"/organisms/mouse/"}, narrowIDs)
		assert.Subset(t, ids(t, broad.Hits), narrowIDs)
	})

	t.Run("should scan every hit", func(t *testing.T) {
		q := newQuery(everyone, []string{"Item"}, "")
		q.All = true
		q.Frame = search.FrameObject

		resp, err := repo.Search(ctx, q)
		require.NoError(t, err)

		var n int64
		for {
			if _, ok := resp.Hits.Next(ctx); !ok {
				break
			}
			n++
		}
		assert.Equal(t, resp.Total, n)
	})
}
