package cache

import "github.com/prometheus/client_golang/prometheus"

// collectors groups the per-cache Prometheus counters. All inc methods are
// safe on a nil receiver so the hot paths need no enabled check.
type collectors struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	sets      prometheus.Counter
	deletes   prometheus.Counter
	evictions prometheus.Counter
}

func newCollectors(reg prometheus.Registerer, id string) *collectors {
	labels := prometheus.Labels{"cache_id": id}
	p := &collectors{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "hoard_cache_hits_total",
			Help:        "Total number of cache hits",
			ConstLabels: labels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "hoard_cache_misses_total",
			Help:        "Total number of cache misses",
			ConstLabels: labels,
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "hoard_cache_sets_total",
			Help:        "Total number of cache writes",
			ConstLabels: labels,
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "hoard_cache_deletes_total",
			Help:        "Total number of cache deletes, including expiries",
			ConstLabels: labels,
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "hoard_cache_evictions_total",
			Help:        "Total number of capacity evictions",
			ConstLabels: labels,
		}),
	}
	reg.MustRegister(p.hits, p.misses, p.sets, p.deletes, p.evictions)
	return p
}

func (p *collectors) incHit() {
	if p != nil {
		p.hits.Inc()
	}
}

func (p *collectors) incMiss() {
	if p != nil {
		p.misses.Inc()
	}
}

func (p *collectors) incSet() {
	if p != nil {
		p.sets.Inc()
	}
}

func (p *collectors) incDelete() {
	if p != nil {
		p.deletes.Inc()
	}
}

func (p *collectors) incEviction() {
	if p != nil {
		p.evictions.Inc()
	}
}
