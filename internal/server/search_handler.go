package server

//go:generate mockery --name=SearchService -r --case underscore --with-expecter --structname SearchService --filename search_service.go --output=./mocks

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/goto/encoded/core/search"
	"github.com/goto/salt/log"
)

type SearchService interface {
	Search(ctx context.Context, route search.Route, rawQuery string) (search.Result, error)
}

const (
	formatJSON = "json"
	formatHTML = "html"
)

type SearchHandler struct {
	logger  log.Logger
	service SearchService
	route   search.Route
}

func NewSearchHandler(logger log.Logger, service SearchService, route search.Route) *SearchHandler {
	return &SearchHandler{
		logger:  logger,
		service: service,
		route:   route,
	}
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Search(r.Context(), h.route, r.URL.RawQuery)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if wantsHTML(r) {
		if err := writeHTML(w, res.Status, res); err != nil {
			h.logger.Error("error rendering search page", "route", h.route.Path, "err", err)
		}
		return
	}
	if err := writeJSON(w, res.Status, res); err != nil {
		h.logger.Error("error encoding search result", "route", h.route.Path, "err", err)
	}
}

func (h *SearchHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var typeErr search.InvalidTypeError
	if errors.As(err, &typeErr) {
		if werr := writeJSONError(w, http.StatusBadRequest, typeErr.Error(), ""); werr != nil {
			h.logger.Error("error writing response", "err", werr)
		}
		return
	}

	ref := uuid.NewString()
	h.logger.Error("search failed", "route", h.route.Path, "query", r.URL.RawQuery, "ref", ref, "err", err)
	if werr := writeJSONError(w, http.StatusInternalServerError, "Internal error while searching", ref); werr != nil {
		h.logger.Error("error writing response", "err", werr)
	}
}

// wantsHTML picks the representation from the format param, and
// from the Accept header when the param is absent.
func wantsHTML(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case formatJSON:
		return false
	case formatHTML:
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
