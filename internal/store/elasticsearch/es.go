package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/goto/encoded/core/search"
	"github.com/goto/salt/log"
	"github.com/newrelic/go-agent/v3/integrations/nrelasticsearch-v7"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Config struct {
	Brokers        string        `yaml:"brokers" mapstructure:"brokers" default:"http://localhost:9200"`
	Index          string        `yaml:"index" mapstructure:"index" default:"encoded"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout" default:"10s"`
}

const defaultIndex = "encoded"

// extract error reason from an elasticsearch response
// returns the raw message in case it fails
func errorReasonFromResponse(res *esapi.Response) string {
	_, reason := errorCodeAndReason(res)
	return reason
}

// errorCodeAndReason returns the error type and reason of an
// elasticsearch error response, or the raw body when it cannot
// be decoded.
func errorCodeAndReason(res *esapi.Response) (code, reason string) {
	var (
		response struct {
			Error struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		}
		copy bytes.Buffer
	)
	reader := io.TeeReader(res.Body, &copy)
	if err := json.NewDecoder(reader).Decode(&response); err != nil || response.Error.Reason == "" {
		return "", fmt.Sprintf("status = %s, raw response = %s", res.Status(), copy.String())
	}
	return response.Error.Type, response.Error.Reason
}

// drainBody drains and closes the response body so the underlying
// connection can be reused.
func drainBody(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}

// helper for decorating unsuccesful invocations of the es REST API
// (transport errors)
func elasticSearchError(err error) error {
	return fmt.Errorf("elasticsearch error: %w", err)
}

type Client struct {
	client  *elasticsearch.Client
	logger  log.Logger
	index   string
	timeout time.Duration

	opHistogram metric.Int64Histogram
}

func NewClient(logger log.Logger, config Config, opts ...ClientOption) (*Client, error) {
	opHistogram, err := otel.Meter("github.com/goto/encoded/internal/store/elasticsearch").
		Int64Histogram("encoded.es.client.duration", metric.WithUnit("ms"))
	if err != nil {
		otel.Handle(err)
	}

	c := &Client{
		logger:      logger,
		index:       config.Index,
		timeout:     config.RequestTimeout,
		opHistogram: opHistogram,
	}
	if c.index == "" {
		c.index = defaultIndex
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client != nil {
		return c, nil
	}

	brokers := strings.Split(config.Brokers, ",")
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: brokers,
		Transport: nrelasticsearch.NewRoundTripper(nil),
		// uncomment below code to debug request and response to elasticsearch
		// Logger: &estransport.ColorLogger{
		//	Output:             os.Stdout,
		//	EnableRequestBody:  true,
		//	EnableResponseBody: true,
		// },
	})
	if err != nil {
		return nil, err
	}
	c.client = esClient

	return c, nil
}

// Index is the name of the index searched and loaded into.
func (c *Client) Index() string {
	return c.index
}

func (c *Client) Init() (string, error) {
	res, err := c.client.Info()
	if err != nil {
		return "", err
	}
	defer drainBody(res)
	if res.IsError() {
		return "", errors.New(res.Status())
	}
	var info = struct {
		ClusterName string `json:"cluster_name"`
		Version     struct {
			Number string `json:"number"`
		} `json:"version"`
	}{}

	err = json.NewDecoder(res.Body).Decode(&info)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%q (server version %s)", info.ClusterName, info.Version.Number), nil
}

// Migrate creates the search index, or updates its mapping when it
// already exists.
func (c *Client) Migrate(ctx context.Context) error {
	idxExists, err := c.indexExists(ctx, c.index)
	if err != nil {
		return fmt.Errorf("error checking index existence: %w", err)
	}

	if idxExists {
		c.logger.Info("index already exist, updating it instead", "index", c.index)
		if err = c.updateIdx(ctx); err != nil {
			return fmt.Errorf("error updating index: %w", err)
		}
		return nil
	}

	if err = c.createIdx(ctx); err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}
	return nil
}

func (c *Client) createIdx(ctx context.Context) error {
	res, err := c.client.Indices.Create(
		c.index,
		c.client.Indices.Create.WithBody(strings.NewReader(buildIndexSettings())),
		c.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return elasticSearchError(err)
	}
	defer drainBody(res)
	if res.IsError() {
		return fmt.Errorf("error creating index %q: %s", c.index, errorReasonFromResponse(res))
	}
	return nil
}

func (c *Client) updateIdx(ctx context.Context) error {
	res, err := c.client.Indices.PutMapping(
		strings.NewReader(itemIndexMapping),
		c.client.Indices.PutMapping.WithIndex(c.index),
		c.client.Indices.PutMapping.WithContext(ctx),
	)
	if err != nil {
		return elasticSearchError(err)
	}
	defer drainBody(res)
	if res.IsError() {
		return fmt.Errorf("error updating index %q: %s", c.index, errorReasonFromResponse(res))
	}
	return nil
}

func buildIndexSettings() string {
	return fmt.Sprintf(indexSettingsTemplate, itemIndexMapping)
}

// checks for the existence of an index
func (c *Client) indexExists(ctx context.Context, name string) (bool, error) {
	res, err := c.client.Indices.Exists(
		[]string{name},
		c.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("indexExists: %w", elasticSearchError(err))
	}
	defer drainBody(res)
	return res.StatusCode == 200, nil
}

// withTimeout bounds ctx by the configured request timeout.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

type instrumentParams struct {
	op    string
	start time.Time
	err   error
}

func (c *Client) instrumentOp(ctx context.Context, p instrumentParams) {
	if c.opHistogram == nil {
		return
	}

	code := "ok"
	if p.err != nil {
		code = "error"
		var storeErr search.StoreError
		if errors.As(p.err, &storeErr) && storeErr.ESCode != "" {
			code = storeErr.ESCode
		}
	}

	c.opHistogram.Record(ctx, time.Since(p.start).Milliseconds(), metric.WithAttributes(
		attribute.String("db.system", "elasticsearch"),
		attribute.String("db.operation", p.op),
		attribute.String("db.name", c.index),
		attribute.String("encoded.es.code", code),
		attribute.Bool("operation.success", p.err == nil),
	))
}
