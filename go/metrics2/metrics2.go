// Package metrics2 provides in-process counters and gauges exported in
// Prometheus format.
package metrics2

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"go.skia.org/ttlcache/go/sklog"
)

// invalidChar is used to force metric and tag names to conform to
// Prometheus's restrictions.
var invalidChar = regexp.MustCompile("([^a-zA-Z0-9_:])")

func clean(s string) string {
	return invalidChar.ReplaceAllLiteralString(s, "_")
}

// Int64Metric is a metric that reports a single int64 value.
type Int64Metric interface {
	// Get returns the last value passed to Update.
	Get() int64

	// Update sets the value of the metric.
	Update(v int64)
}

// Counter is a metric that increments and decrements.
type Counter interface {
	Get() int64
	Inc(i int64)
	Dec(i int64)
	Reset()
}

// promInt64 implements Int64Metric on a prometheus Gauge. The value is
// tracked locally because the prometheus client lib doesn't support get
// on Gauge values.
type promInt64 struct {
	i     int64
	gauge prometheus.Gauge
}

func (m *promInt64) Get() int64 {
	return atomic.LoadInt64(&m.i)
}

func (m *promInt64) Update(v int64) {
	atomic.StoreInt64(&m.i, v)
	m.gauge.Set(float64(v))
}

// promCounter implements Counter on top of a promInt64.
type promCounter struct {
	m *promInt64
}

func (c *promCounter) Get() int64 {
	return c.m.Get()
}

func (c *promCounter) Inc(i int64) {
	c.m.Update(c.m.Get() + i)
}

func (c *promCounter) Dec(i int64) {
	c.m.Update(c.m.Get() - i)
}

func (c *promCounter) Reset() {
	c.m.Update(0)
}

// client hands out metrics backed by the default prometheus registry.
// Metrics are cached so that repeated Get* calls with the same name and
// tags return the same instance.
type client struct {
	mtx       sync.Mutex
	gaugeVecs map[string]*prometheus.GaugeVec
	gauges    map[string]*promInt64
}

var defaultClient = &client{
	gaugeVecs: map[string]*prometheus.GaugeVec{},
	gauges:    map[string]*promInt64{},
}

// commonGet cleans the measurement and tags and builds the keys that
// uniquely identify the metric and its containing GaugeVec.
func (c *client) commonGet(measurement string, tags map[string]string) (string, map[string]string, []string, string, string) {
	measurement = clean(measurement)

	cleanTags := make(map[string]string, len(tags))
	keys := make([]string, 0, len(tags))
	for k, v := range tags {
		key := clean(k)
		cleanTags[key] = v
		keys = append(keys, key)
	}
	sort.Strings(keys)

	gaugeKeySrc := []string{measurement}
	for _, key := range keys {
		gaugeKeySrc = append(gaugeKeySrc, key, cleanTags[key])
	}
	gaugeKey := strings.Join(gaugeKeySrc, "-")
	gaugeVecKey := measurement + " " + strings.Join(keys, ",")

	return measurement, cleanTags, keys, gaugeKey, gaugeVecKey
}

func (c *client) getInt64Metric(name string, tags map[string]string) *promInt64 {
	measurement, cleanTags, keys, gaugeKey, gaugeVecKey := c.commonGet(name, tags)

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if ret, ok := c.gauges[gaugeKey]; ok {
		return ret
	}

	gaugeVec, ok := c.gaugeVecs[gaugeVecKey]
	if !ok {
		gaugeVec = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: measurement,
				Help: measurement,
			},
			keys,
		)
		if err := prometheus.Register(gaugeVec); err != nil {
			sklog.Fatalf("Failed to register %q: %s", measurement, err)
		}
		c.gaugeVecs[gaugeVecKey] = gaugeVec
	}
	gauge, err := gaugeVec.GetMetricWith(prometheus.Labels(cleanTags))
	if err != nil {
		sklog.Fatalf("Failed to get gauge: %s", err)
	}
	ret := &promInt64{
		gauge: gauge,
	}
	c.gauges[gaugeKey] = ret
	return ret
}

// GetInt64Metric returns an Int64Metric with the given name and tags,
// creating and registering it on first use.
func GetInt64Metric(name string, tags map[string]string) Int64Metric {
	return defaultClient.getInt64Metric(name, tags)
}

// GetCounter returns a Counter with the given name and tags, creating
// and registering it on first use.
func GetCounter(name string, tags map[string]string) Counter {
	return &promCounter{
		m: defaultClient.getInt64Metric(name, tags),
	}
}
