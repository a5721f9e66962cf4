package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache metrics, labelled by the ProviderConfig.Group of each instance.
var (
	HitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcatalog_cache_hits_total",
			Help: "Total number of response cache hits.",
		},
		[]string{"cache"},
	)

	MissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcatalog_cache_misses_total",
			Help: "Total number of response cache misses.",
		},
		[]string{"cache"},
	)

	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcatalog_cache_evictions_total",
			Help: "Total number of entries evicted from the response cache.",
		},
		[]string{"cache"},
	)
)

func init() {
	prometheus.MustRegister(
		HitsTotal,
		MissesTotal,
		EvictionsTotal,
	)
}

// entriesCollector reports a group's entry count by asking the cache at
// scrape time, so server-side expiry in Redis is reflected.
type entriesCollector struct {
	desc    *prometheus.Desc
	lenFunc func() int
}

func (c *entriesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *entriesCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(c.lenFunc()))
}

var (
	collectorsMu sync.Mutex
	collectors   = make(map[string]*entriesCollector)
	// collectorReg is swapped for an isolated registry in tests.
	collectorReg prometheus.Registerer = prometheus.DefaultRegisterer
)

// registerEntriesCollector installs the entries gauge for group, replacing
// any collector left by an earlier instance of the same group.
func registerEntriesCollector(group string, lenFunc func() int) *entriesCollector {
	c := &entriesCollector{
		desc: prometheus.NewDesc(
			"showcatalog_cache_entries",
			"Current number of entries in the response cache.",
			nil,
			prometheus.Labels{"cache": group},
		),
		lenFunc: lenFunc,
	}

	collectorsMu.Lock()
	defer collectorsMu.Unlock()

	if old, ok := collectors[group]; ok {
		collectorReg.Unregister(old)
	}
	collectors[group] = c
	_ = collectorReg.Register(c)
	return c
}

func unregisterEntriesCollector(group string) {
	collectorsMu.Lock()
	defer collectorsMu.Unlock()

	if c, ok := collectors[group]; ok {
		collectorReg.Unregister(c)
		delete(collectors, group)
	}
}
