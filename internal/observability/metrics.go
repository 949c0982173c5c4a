package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup status label values.
const (
	StatusOK         = "ok"
	StatusEmptyInput = "empty_input"
	StatusTooLong    = "too_long"
	StatusNoMatch    = "no_match"
	StatusAmbiguous  = "ambiguous"
	StatusNoPath     = "no_path"
	StatusError      = "error"
)

// Metrics holds the route server's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LookupsTotal   *prometheus.CounterVec
	RoutesChecked  prometheus.Histogram
	LookupDuration prometheus.Histogram
	AtlasZones     prometheus.Gauge
	AtlasReloads   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
//
// Precondition: reg must be non-nil and must not already hold these collectors.
// Postcondition: Returns a Metrics with every collector registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zoneroute_lookups_total",
				Help: "Total number of route lookups by frontend and status",
			},
			[]string{"frontend", "status"},
		),
		RoutesChecked: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "zoneroute_routes_checked",
				Help:    "Number of zones dequeued per route search",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		LookupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "zoneroute_lookup_duration_seconds",
				Help:    "Route lookup duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		AtlasZones: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "zoneroute_atlas_zones",
				Help: "Number of zones in the current atlas snapshot",
			},
		),
		AtlasReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zoneroute_atlas_reloads_total",
				Help: "Total number of atlas reloads by status",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(m.LookupsTotal)
	reg.MustRegister(m.RoutesChecked)
	reg.MustRegister(m.LookupDuration)
	reg.MustRegister(m.AtlasZones)
	reg.MustRegister(m.AtlasReloads)

	return m
}

// RecordLookup counts one lookup and observes its duration.
// checked is observed only for lookups that ran a search (checked > 0).
func (m *Metrics) RecordLookup(frontend, status string, checked int, d time.Duration) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(frontend, status).Inc()
	m.LookupDuration.Observe(d.Seconds())
	if checked > 0 {
		m.RoutesChecked.Observe(float64(checked))
	}
}

// RecordReload counts an atlas reload and, on success, sets the zone gauge.
func (m *Metrics) RecordReload(zones int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.AtlasReloads.WithLabelValues(StatusError).Inc()
		return
	}
	m.AtlasReloads.WithLabelValues(StatusOK).Inc()
	m.AtlasZones.Set(float64(zones))
}
