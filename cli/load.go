package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/encoded/core/item"
	esStore "github.com/goto/encoded/internal/store/elasticsearch"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"
)

func loadCommand(cfg *Config) *cobra.Command {
	var batchSize int
	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Load indexed documents into the search index",
		Long: heredoc.Doc(`
			Load documents already shaped by the indexer into the search index.
			The file holds a JSON object with an "items" list. Existing
			documents with the same uuid are replaced.
		`),
		Example: heredoc.Doc(`
			$ encoded load ./inserts.json
			$ encoded load ./inserts.json --batch-size 200
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := overrideConfigFromFlag(cmd, cfg); err != nil {
				return err
			}
			logger := initLogger(cfg.LogLevel)

			docs, err := item.LoadDocuments(args[0])
			if err != nil {
				return err
			}

			esClient, err := initElasticsearch(logger, cfg.Elasticsearch)
			if err != nil {
				return err
			}
			if err := esClient.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("prepare index %q: %w", esClient.Index(), err)
			}

			repo := esStore.NewItemRepository(esClient, logger)
			for _, batch := range batches(docs, batchSize) {
				if err := repo.Upsert(cmd.Context(), batch...); err != nil {
					return fmt.Errorf("load %s: %w", args[0], err)
				}
			}

			fmt.Println(term.Greenf("loaded %d documents into %s", len(docs), esClient.Index()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 500, "number of documents per bulk request")
	return cmd
}

func batches(docs []item.Document, size int) [][]item.Document {
	if size <= 0 {
		size = len(docs)
	}
	var out [][]item.Document
	for start := 0; start < len(docs); start += size {
		end := start + size
		if end > len(docs) {
			end = len(docs)
		}
		out = append(out, docs[start:end])
	}
	return out
}
