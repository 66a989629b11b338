package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics provides observability for the citizen module.
// Tracks import and patch volume plus critical path durations.
type Metrics struct {
	ImportsCreated       prometheus.Counter
	CitizensImported     prometheus.Counter
	CitizensPatched      prometheus.Counter
	CreateImportDuration prometheus.Histogram
	PatchCitizenDuration prometheus.Histogram
	ViewDuration         *prometheus.HistogramVec
	CacheLookups         *prometheus.CounterVec
}

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ImportsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "census_imports_created_total",
			Help: "Total number of imports stored",
		}),
		CitizensImported: factory.NewCounter(prometheus.CounterOpts{
			Name: "census_citizens_imported_total",
			Help: "Total number of citizens stored through imports",
		}),
		CitizensPatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "census_citizens_patched_total",
			Help: "Total number of successful citizen patches",
		}),
		CreateImportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "census_create_import_duration_seconds",
			Help:    "Duration of CreateImport operations including validation",
			Buckets: durationBuckets,
		}),
		PatchCitizenDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "census_patch_citizen_duration_seconds",
			Help:    "Duration of PatchCitizen operations including reconciliation",
			Buckets: durationBuckets,
		}),
		ViewDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "census_view_duration_seconds",
			Help:    "Duration of read views by view name",
			Buckets: durationBuckets,
		}, []string{"view"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "census_view_cache_lookups_total",
			Help: "Aggregate view cache lookups by view and result",
		}, []string{"view", "result"}),
	}
}

// IncrementImportCreated records a stored import of n citizens.
func (m *Metrics) IncrementImportCreated(n int) {
	m.ImportsCreated.Inc()
	m.CitizensImported.Add(float64(n))
}

// IncrementCitizenPatched records a successful patch.
func (m *Metrics) IncrementCitizenPatched() {
	m.CitizensPatched.Inc()
}

// ObserveCreateImport records the duration of a CreateImport operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreateImport(start time.Time) {
	m.CreateImportDuration.Observe(time.Since(start).Seconds())
}

// ObservePatchCitizen records the duration of a PatchCitizen operation.
func (m *Metrics) ObservePatchCitizen(start time.Time) {
	m.PatchCitizenDuration.Observe(time.Since(start).Seconds())
}

// ObserveView records the duration of a read view.
func (m *Metrics) ObserveView(view string, start time.Time) {
	m.ViewDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
}

// IncrementCacheLookup records a cache lookup outcome.
func (m *Metrics) IncrementCacheLookup(view, result string) {
	m.CacheLookups.WithLabelValues(view, result).Inc()
}
