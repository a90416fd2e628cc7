package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts cascade activity. A nil *Metrics disables collection.
type Metrics struct {
	cascadeRows     *prometheus.CounterVec
	cascadeFailures prometheus.Counter
	nameConflicts   prometheus.Counter
}

// NewMetrics builds the catalog collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cascadeRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "musix",
			Subsystem: "cascade",
			Name:      "rows_total",
			Help:      "Dependent rows rewritten or deleted by cascade passes.",
		}, []string{"kind"}),
		cascadeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "musix",
			Subsystem: "cascade",
			Name:      "failures_total",
			Help:      "Cascade passes aborted by a failed dependent-row write.",
		}),
		nameConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "musix",
			Subsystem: "catalog",
			Name:      "name_conflicts_total",
			Help:      "Create or rename attempts rejected by the uniqueness scan.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.cascadeRows, m.cascadeFailures, m.nameConflicts)
	}
	return m
}

func (m *Metrics) rowTouched(kind string) {
	if m == nil {
		return
	}
	m.cascadeRows.WithLabelValues(kind).Inc()
}

func (m *Metrics) cascadeFailed() {
	if m == nil {
		return
	}
	m.cascadeFailures.Inc()
}

func (m *Metrics) nameConflict() {
	if m == nil {
		return
	}
	m.nameConflicts.Inc()
}
