package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	require.NotNil(t, m)

	m.RecordLookup("web", StatusOK, 5, time.Millisecond)
	m.RecordReload(3, nil)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"zoneroute_lookups_total",
		"zoneroute_routes_checked",
		"zoneroute_lookup_duration_seconds",
		"zoneroute_atlas_zones",
		"zoneroute_atlas_reloads_total",
	}, names)
}

func TestNewMetrics_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestRecordLookup(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordLookup("web", StatusOK, 12, time.Millisecond)
	m.RecordLookup("web", StatusOK, 3, time.Millisecond)
	m.RecordLookup("telnet", StatusNoMatch, 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("web", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("telnet", StatusNoMatch)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.LookupsTotal))
}

func TestRecordReload(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordReload(42, nil)
	m.RecordReload(0, errors.New("bad file"))

	assert.Equal(t, 42.0, testutil.ToFloat64(m.AtlasZones), "failed reload leaves the gauge")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AtlasReloads.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AtlasReloads.WithLabelValues(StatusError)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordLookup("web", StatusOK, 1, time.Second)
		m.RecordReload(1, nil)
	})
}
