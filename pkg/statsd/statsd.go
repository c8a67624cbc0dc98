package statsd

import (
	"time"

	std "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/goto/salt/log"
)

// Reporter provides functions for reporting metrics. A nil or
// disabled Reporter hands out metrics that publish nothing.
type Reporter struct {
	client *std.Client
	logger log.Logger
	config Config
}

// Init validates the config and initializes the statsD client.
func Init(logger log.Logger, cfg Config) (*Reporter, error) {
	reporter := &Reporter{logger: logger}
	if !cfg.Enabled {
		logger.Warn("statsd is disabled")
		return reporter, nil
	}

	client, err := std.New(cfg.Address,
		std.WithNamespace(cfg.Prefix),
		std.WithoutTelemetry())
	if err != nil {
		return nil, err
	}

	reporter.client = client
	reporter.config = cfg
	return reporter, nil
}

// Close flushes and closes the statsd connection.
func (sd *Reporter) Close() error {
	if sd == nil || sd.client == nil {
		return nil
	}
	return sd.client.Close()
}

func (sd *Reporter) enabled() bool {
	return sd != nil && sd.client != nil
}

func (sd *Reporter) newMetric(name string, publish func(c *std.Client, name string, tags []string, rate float64) error) *Metric {
	m := &Metric{name: name}
	if sd == nil {
		m.publishFunc = func(string, []string, float64) error { return nil }
		return m
	}

	m.logger = sd.logger
	m.rate = sd.config.SamplingRate
	m.withInfluxTag = sd.config.WithInfluxTagFormat
	m.publishFunc = func(name string, tags []string, rate float64) error {
		if !sd.enabled() {
			return nil
		}
		return publish(sd.client, name, tags, rate)
	}
	return m
}

// Incr returns a increment counter metric.
func (sd *Reporter) Incr(name string) *Metric {
	return sd.newMetric(name, func(c *std.Client, name string, tags []string, rate float64) error {
		return c.Incr(name, tags, rate)
	})
}

// Timing returns a timer metric.
func (sd *Reporter) Timing(name string, value time.Duration) *Metric {
	return sd.newMetric(name, func(c *std.Client, name string, tags []string, rate float64) error {
		return c.Timing(name, value, tags, rate)
	})
}

// Gauge creates and returns a new gauge metric.
func (sd *Reporter) Gauge(name string, value float64) *Metric {
	return sd.newMetric(name, func(c *std.Client, name string, tags []string, rate float64) error {
		return c.Gauge(name, value, tags, rate)
	})
}
