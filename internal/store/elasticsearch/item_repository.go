package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goto/encoded/core/item"
	"github.com/goto/salt/log"
)

var ErrEmptyUUID = errors.New("document uuid cannot be empty")

// ItemRepository writes indexed documents to the search index.
type ItemRepository struct {
	cli    *Client
	logger log.Logger
}

func NewItemRepository(cli *Client, logger log.Logger) *ItemRepository {
	return &ItemRepository{
		cli:    cli,
		logger: logger,
	}
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// Upsert indexes docs by uuid in a single bulk request and refreshes
// the index so they are searchable on return.
func (repo *ItemRepository) Upsert(ctx context.Context, docs ...item.Document) (err error) {
	if len(docs) == 0 {
		return nil
	}

	defer func(start time.Time) {
		repo.cli.instrumentOp(ctx, instrumentParams{
			op:    "bulk",
			start: start,
			err:   err,
		})
	}(time.Now())

	body, err := repo.createUpsertBody(docs)
	if err != nil {
		return fmt.Errorf("error serialising payload: %w", err)
	}

	res, err := repo.cli.client.Bulk(
		body,
		repo.cli.client.Bulk.WithRefresh("true"),
		repo.cli.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return elasticSearchError(err)
	}
	defer drainBody(res)
	if res.IsError() {
		return fmt.Errorf("error response from elasticsearch: %s", errorReasonFromResponse(res))
	}

	var response bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if !response.Errors {
		return nil
	}

	var failed int
	for _, it := range response.Items {
		for _, result := range it {
			if result.Status < 300 {
				continue
			}
			failed++
			repo.logger.Warn("failed to index document", "uuid", result.ID, "type", result.Error.Type, "reason", result.Error.Reason)
		}
	}
	return fmt.Errorf("%d of %d documents failed to index", failed, len(docs))
}

func (repo *ItemRepository) createUpsertBody(docs []item.Document) (io.Reader, error) {
	payload := bytes.NewBuffer(nil)
	for _, doc := range docs {
		if doc.UUID == "" {
			return nil, ErrEmptyUUID
		}
		if err := repo.writeInsertAction(payload, doc); err != nil {
			return nil, fmt.Errorf("createBulkInsertPayload: %w", err)
		}
		if err := json.NewEncoder(payload).Encode(doc); err != nil {
			return nil, fmt.Errorf("error serialising document %q: %w", doc.UUID, err)
		}
	}
	return payload, nil
}

func (repo *ItemRepository) writeInsertAction(w io.Writer, doc item.Document) error {
	action := map[string]interface{}{
		"index": map[string]interface{}{
			"_index": repo.cli.index,
			"_id":    doc.UUID,
		},
	}

	return json.NewEncoder(w).Encode(action)
}
