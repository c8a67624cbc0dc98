package testutil

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// ElasticsearchTestServer is a single node elastic-search
// cluster running inside docker.
// use NewElasticsearchTestServer to instantiate the server
type ElasticsearchTestServer struct {
	url      *url.URL
	pool     *dockertest.Pool
	resource *dockertest.Resource
	client   *elasticsearch.Client
}

// NewElasticsearchTestServer creates a new instance of elasticsearch test server.
// It runs a single node elasticsearch cluster in docker, exposing the REST
// API over a random ephemeral port.
// OR if the environment variable ES_TEST_SERVER_URL is set, it acts as
// a dumb proxy to it.
// Make sure to call server.Close() once you're done, otherwise the docker
// container may be left running in the background.
func NewElasticsearchTestServer() (*ElasticsearchTestServer, error) {
	var server ElasticsearchTestServer

	if esURL, ok := os.LookupEnv("ES_TEST_SERVER_URL"); ok {
		u, err := url.Parse(esURL)
		if err != nil {
			return nil, fmt.Errorf("error parsing elastisearch url: %w", err)
		}
		server.url = u
	} else {
		// uses a sensible default on windows (tcp/http) and linux/osx (socket)
		pool, err := dockertest.NewPool("")
		if err != nil {
			return nil, fmt.Errorf("create dockertest pool: %w", err)
		}
		if err := pool.Client.Ping(); err != nil {
			return nil, fmt.Errorf("connect to docker: %w", err)
		}
		server.pool = pool

		resource, err := pool.RunWithOptions(&dockertest.RunOptions{
			Repository: "docker.elastic.co/elasticsearch/elasticsearch",
			Tag:        "7.17.9",
			Env: []string{
				"discovery.type=single-node",
				"ES_JAVA_OPTS=-Xms512m -Xmx512m",
			},
		}, func(config *docker.HostConfig) {
			// set AutoRemove to true so that stopped container goes away by itself
			config.AutoRemove = true
			config.RestartPolicy = docker.RestartPolicy{Name: "no"}
		})
		if err != nil {
			return nil, fmt.Errorf("start elasticsearch container: %w", err)
		}
		server.resource = resource

		server.url = &url.URL{
			Scheme: "http",
			Host:   resource.GetHostPort("9200/tcp"),
		}
	}

	if err := server.wait4Ready(2 * time.Minute); err != nil {
		_ = server.Close()
		return nil, fmt.Errorf("error checking elasticsearch status: %w", err)
	}

	var err error
	server.client, err = elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{server.url.String()},
	})
	if err != nil {
		_ = server.Close()
		return nil, fmt.Errorf("error creating elasticsearch client: %w", err)
	}

	return &server, nil
}

// NewClient returns an elasticsearch client for the test server
// Calling this method issues a DELETE /_all call to the elasticsearch
// server, effectively resetting it.
func (srv *ElasticsearchTestServer) NewClient() (*elasticsearch.Client, error) {
	if err := srv.purge(srv.client); err != nil {
		return nil, fmt.Errorf("error purging elasticsearch: %w", err)
	}
	return srv.client, nil
}

func (srv *ElasticsearchTestServer) Close() error {
	if srv.pool == nil || srv.resource == nil {
		return nil
	}
	return srv.pool.Purge(srv.resource)
}

func (srv *ElasticsearchTestServer) purge(cli *elasticsearch.Client) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("purge: %w", err)
		}
	}()
	req, err := http.NewRequest("DELETE", "/_all", nil)
	if err != nil {
		return
	}
	res, err := cli.Perform(req)
	if err != nil {
		return
	}
	defer res.Body.Close()
	if res.StatusCode > 299 {
		return fmt.Errorf("elasticsearch server returned status code %d", res.StatusCode)
	}
	return nil
}

func (srv *ElasticsearchTestServer) wait4Ready(timeout time.Duration) error {
	healthURL := srv.url.ResolveReference(&url.URL{Path: "/_cluster/health", RawQuery: "wait_for_status=yellow"})
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		time.Sleep(500 * time.Millisecond)
		res, err := http.Get(healthURL.String())
		if err != nil {
			continue
		}
		res.Body.Close()
		if res.StatusCode == 200 {
			return nil
		}
	}
	return fmt.Errorf("timed out after %s", timeout)
}
