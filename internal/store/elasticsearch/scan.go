package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goto/encoded/core/search"
	"github.com/goto/salt/log"
)

// scanner pages through every hit of a scroll. Paging failures end
// the sequence early instead of failing the search; the scroll is
// cleared once the sequence ends.
type scanner struct {
	cli    *Client
	logger log.Logger
	frame  string

	page     []searchHit
	pos      int
	scrollID string
	done     bool
}

func newScanner(cli *Client, logger log.Logger, frame string, first searchResponse) *scanner {
	return &scanner{
		cli:      cli,
		logger:   logger,
		frame:    frame,
		page:     first.Hits.Hits,
		scrollID: first.ScrollID,
		done:     len(first.Hits.Hits) == 0,
	}
}

func (s *scanner) Next(ctx context.Context) (search.Document, bool) {
	for s.pos >= len(s.page) {
		if s.done {
			s.close(ctx)
			return nil, false
		}
		if err := s.fetch(ctx); err != nil {
			s.logger.Warn("ending scan early", "index", s.cli.index, "err", err)
			s.done = true
		}
	}

	hit := s.page[s.pos]
	s.page[s.pos] = searchHit{}
	s.pos++

	doc, err := toDocument(hit, s.frame)
	if err != nil {
		s.logger.Warn("ending scan early", "index", s.cli.index, "err", err)
		s.page, s.pos, s.done = nil, 0, true
		s.close(ctx)
		return nil, false
	}
	return doc, true
}

func (s *scanner) fetch(ctx context.Context) error {
	if s.scrollID == "" {
		return errors.New("no scroll id")
	}

	reqCtx, cancel := s.cli.withTimeout(ctx)
	defer cancel()

	scroll := s.cli.client.Scroll
	res, err := scroll(
		scroll.WithContext(reqCtx),
		scroll.WithScrollID(s.scrollID),
		scroll.WithScroll(scanKeepAlive),
	)
	if err != nil {
		return fmt.Errorf("execute scroll: %w", err)
	}
	defer drainBody(res)
	if res.IsError() {
		code, reason := errorCodeAndReason(res)
		return fmt.Errorf("execute scroll: %s: %s", code, reason)
	}

	var response searchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return fmt.Errorf("decode scroll response: %w", err)
	}

	if response.ScrollID != "" {
		s.scrollID = response.ScrollID
	}
	s.page, s.pos = response.Hits.Hits, 0
	if len(s.page) == 0 {
		s.done = true
	}
	return nil
}

func (s *scanner) close(ctx context.Context) {
	if s.scrollID == "" {
		return
	}
	id := s.scrollID
	s.scrollID = ""

	clearScroll := s.cli.client.ClearScroll
	res, err := clearScroll(
		clearScroll.WithContext(ctx),
		clearScroll.WithScrollID(id),
	)
	if err != nil {
		s.logger.Debug("failed to clear scroll", "err", err)
		return
	}
	drainBody(res)
}
