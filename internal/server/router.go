package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/goto/encoded/core/search"
	"github.com/goto/encoded/pkg/statsd"
	"github.com/goto/salt/log"
	"github.com/newrelic/go-agent/v3/integrations/nrgorilla"
	"github.com/newrelic/go-agent/v3/newrelic"
)

type RouterConfig struct {
	Logger         log.Logger
	Identity       IdentityConfig
	NewRelic       *newrelic.Application
	StatsDReporter *statsd.Reporter
	SearchService  SearchService
	BrowseType     string
}

func NewRouter(config RouterConfig) *mux.Router {
	router := mux.NewRouter()

	if config.NewRelic != nil {
		router.Use(nrgorilla.Middleware(config.NewRelic))
	}
	router.Use(
		StatsD(config.StatsDReporter),
		UserHeaderCtx(config.Identity),
	)

	setupRoutes(router, config)

	return router
}

func setupRoutes(router *mux.Router, config RouterConfig) {
	searchHandler := NewSearchHandler(config.Logger, config.SearchService, search.SearchRoute())
	browseHandler := NewSearchHandler(config.Logger, config.SearchService, search.BrowseRoute(config.BrowseType))

	router.Path("/ping").Methods(http.MethodGet).HandlerFunc(heartbeat)
	router.Path("/search/").Methods(http.MethodGet).Handler(searchHandler)
	router.Path("/browse/").Methods(http.MethodGet).Handler(browseHandler)

	// redirect the bare paths so the canonical @id always carries the slash
	router.Path("/search").Methods(http.MethodGet).Handler(redirectWithQuery("/search/"))
	router.Path("/browse").Methods(http.MethodGet).Handler(redirectWithQuery("/browse/"))
}

func heartbeat(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("content-type", "text/plain")
	_, _ = w.Write([]byte("pong"))
}

func redirectWithQuery(path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}
