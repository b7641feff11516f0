package pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus instrumentation for a Pool's lifecycle.
// It is registered against the Registerer passed to NewMetrics — never
// against prometheus.DefaultRegisterer implicitly — so that multiple
// pools (or repeated construction in tests) don't collide over global
// metric names the way a bare promauto.NewCounter call would.
type Metrics struct {
	created    prometheus.Counter
	disposed   prometheus.Counter
	reclaimed  prometheus.Counter
	evicted    prometheus.Counter
	healthFail prometheus.Counter

	size   prometheus.Gauge
	live   prometheus.Gauge
	leased prometheus.Gauge
}

// NewMetrics builds a Metrics collector registered against reg. name
// distinguishes this pool's series from any other pool sharing the same
// registry (e.g. "connections", "buffers").
func NewMetrics(reg prometheus.Registerer, name string) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"pool": name}

	return &Metrics{
		created: factory.NewCounter(prometheus.CounterOpts{
			Name:        "genpool_objects_created_total",
			Help:        "Total objects constructed by the pool's factory.",
			ConstLabels: labels,
		}),
		disposed: factory.NewCounter(prometheus.CounterOpts{
			Name:        "genpool_objects_disposed_total",
			Help:        "Total objects permanently disposed.",
			ConstLabels: labels,
		}),
		reclaimed: factory.NewCounter(prometheus.CounterOpts{
			Name:        "genpool_objects_reclaimed_total",
			Help:        "Total idle slots found empty due to GC reclamation under Soft/Weak retention.",
			ConstLabels: labels,
		}),
		evicted: factory.NewCounter(prometheus.CounterOpts{
			Name:        "genpool_objects_evicted_total",
			Help:        "Total objects evicted by the idle-timeout scheduler.",
			ConstLabels: labels,
		}),
		healthFail: factory.NewCounter(prometheus.CounterOpts{
			Name:        "genpool_health_check_failures_total",
			Help:        "Total objects failing health check on extraction.",
			ConstLabels: labels,
		}),
		size: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "genpool_idle_size",
			Help:        "Current number of idle objects in the pool.",
			ConstLabels: labels,
		}),
		live: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "genpool_live",
			Help:        "Current number of objects in existence (idle plus leased).",
			ConstLabels: labels,
		}),
		leased: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "genpool_leased",
			Help:        "Current number of objects leased out to callers.",
			ConstLabels: labels,
		}),
	}
}

func (m *Metrics) recordCreated()   { m.created.Inc() }
func (m *Metrics) recordDisposed()  { m.disposed.Inc() }
func (m *Metrics) recordReclaimed() { m.reclaimed.Inc() }
func (m *Metrics) recordEvicted()   { m.evicted.Inc() }
func (m *Metrics) recordHealthFail() {
	m.healthFail.Inc()
}

func (m *Metrics) observe(s Stats) {
	m.size.Set(float64(s.Size))
	m.live.Set(float64(s.Live))
	m.leased.Set(float64(s.Leased))
}
