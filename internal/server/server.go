package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/goto/encoded/pkg/statsd"
	"github.com/goto/salt/log"
	"github.com/newrelic/go-agent/v3/newrelic"
)

type Config struct {
	Host    string `yaml:"host" mapstructure:"host" default:"0.0.0.0"`
	Port    int    `yaml:"port" mapstructure:"port" default:"8080"`
	BaseURL string `yaml:"baseurl" mapstructure:"baseurl" default:"localhost:8080"`

	// User Identity
	Identity IdentityConfig `yaml:"identity" mapstructure:"identity"`

	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period" mapstructure:"shutdown_grace_period" default:"5s"`
}

func (cfg Config) addr() string { return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port) }

type IdentityConfig struct {
	HeaderKeyUserUUID   string `yaml:"headerkey_uuid" mapstructure:"headerkey_uuid" default:"Encoded-User-UUID"`
	HeaderKeyUserEmail  string `yaml:"headerkey_email" mapstructure:"headerkey_email" default:"Encoded-User-Email"`
	HeaderKeyUserGroups string `yaml:"headerkey_groups" mapstructure:"headerkey_groups" default:"Encoded-User-Groups"`
}

func Serve(
	ctx context.Context,
	config Config,
	logger log.Logger,
	nrApp *newrelic.Application,
	statsdReporter *statsd.Reporter,
	searchService SearchService,
	browseType string,
) error {
	router := NewRouter(RouterConfig{
		Logger:         logger,
		Identity:       config.Identity,
		NewRelic:       nrApp,
		StatsDReporter: statsdReporter,
		SearchService:  searchService,
		BrowseType:     browseType,
	})

	srv := &http.Server{
		Addr:         config.addr(),
		Handler:      handlers.CompressHandler(router),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "http_port", config.addr(), "base_url", config.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		grace := config.ShutdownGracePeriod
		if grace <= 0 {
			grace = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()

		logger.Warn("shutting down server", "grace_period", grace.String())
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
