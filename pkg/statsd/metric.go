package statsd

import (
	"fmt"
	"sort"

	"github.com/goto/salt/log"
)

// Metric represents a statsd metric.
type Metric struct {
	logger        log.Logger
	name          string
	rate          float64
	tags          map[string]string
	withInfluxTag bool
	publishFunc   func(name string, tags []string, rate float64) error
}

// Success tags the metric as successful.
func (m *Metric) Success() *Metric {
	return m.Tag("success", "true")
}

// Failure tags the metric as failure.
func (m *Metric) Failure(err error) *Metric {
	return m.Tag("success", "false")
}

// Tag adds a tag to the metric.
func (m *Metric) Tag(key string, val string) *Metric {
	if m == nil {
		return nil
	}

	if m.tags == nil {
		m.tags = map[string]string{}
	}

	m.tags[key] = val
	return m
}

// Publish publishes the metric with collected tags. Intended to
// be used with defer.
func (m *Metric) Publish() {
	if m == nil || m.publishFunc == nil {
		return
	}

	name, ddTags := m.name, []string(nil)
	if m.withInfluxTag {
		name = influxName(m.name, m.tags)
	} else {
		ddTags = datadogTags(m.tags)
	}
	go func() {
		if err := m.publishFunc(name, ddTags, m.rate); err != nil && m.logger != nil {
			m.logger.Warn("failed to publish metric", "name", name, "err", err)
		}
	}()
}

func sortedKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func datadogTags(tags map[string]string) []string {
	out := make([]string, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		out = append(out, fmt.Sprintf("%s:%s", k, tags[k]))
	}
	return out
}

func influxName(name string, tags map[string]string) string {
	for _, k := range sortedKeys(tags) {
		name = fmt.Sprintf("%s,%s=%s", name, k, tags[k])
	}
	return name
}
