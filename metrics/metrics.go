// Package metrics exposes cache statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hoardcache/hoard/cache"
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// StatsSource provides per-cache statistics snapshots keyed by cache name.
// A registry satisfies this interface.
type StatsSource interface {
	AllStats() map[string]cache.Stats
}

// StatsCollector exports the statistics of every cache known to its source
// as Prometheus metrics labelled by cache name. Register it on a registry
// with MustRegister; every scrape takes a fresh snapshot.
type StatsCollector struct {
	source StatsSource

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	sets      *prometheus.Desc
	deletes   *prometheus.Desc
	evictions *prometheus.Desc
	size      *prometheus.Desc
	hitRate   *prometheus.Desc
}

// NewStatsCollector returns a collector reading from source.
func NewStatsCollector(source StatsSource) *StatsCollector {
	labels := []string{"cache"}
	return &StatsCollector{
		source: source,
		hits: prometheus.NewDesc("hoard_hits_total",
			"Total number of cache hits", labels, nil),
		misses: prometheus.NewDesc("hoard_misses_total",
			"Total number of cache misses", labels, nil),
		sets: prometheus.NewDesc("hoard_sets_total",
			"Total number of cache writes", labels, nil),
		deletes: prometheus.NewDesc("hoard_deletes_total",
			"Total number of cache deletes, including expiries", labels, nil),
		evictions: prometheus.NewDesc("hoard_evictions_total",
			"Total number of capacity evictions", labels, nil),
		size: prometheus.NewDesc("hoard_entries",
			"Current number of cache entries", labels, nil),
		hitRate: prometheus.NewDesc("hoard_hit_rate",
			"Fraction of lookups served from the cache", labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.sets
	ch <- c.deletes
	ch <- c.evictions
	ch <- c.size
	ch <- c.hitRate
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	for name, s := range c.source.AllStats() {
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses), name)
		ch <- prometheus.MustNewConstMetric(c.sets, prometheus.CounterValue, float64(s.Sets), name)
		ch <- prometheus.MustNewConstMetric(c.deletes, prometheus.CounterValue, float64(s.Deletes), name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions), name)
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size), name)
		ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, s.HitRate, name)
	}
}
