package metrics

import (
	"github.com/arnavshah/content-rota-go/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements Recorder with Prometheus collectors
type Prometheus struct {
	assignments *prometheus.CounterVec
	weight      *prometheus.CounterVec
	passes      *prometheus.CounterVec
	passLatency *prometheus.HistogramVec
	saves       *prometheus.CounterVec
	saveLatency *prometheus.HistogramVec
}

// Compile-time assertion that Prometheus implements Recorder.
var _ Recorder = (*Prometheus)(nil)

// NewPrometheus registers the collectors on reg (prometheus.DefaultRegisterer
// when nil) under namespace ("rota" when empty).
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "rota"
	}

	p := &Prometheus{
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "assignments_total",
			Help:      "Tasks assigned by type and person.",
		}, []string{"type", "person"}),
		weight: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "assigned_weight_total",
			Help:      "Weighted workload assigned by person.",
		}, []string{"person"}),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "generation_passes_total",
			Help:      "Generation passes by mode and result.",
		}, []string{"mode", "result"}),
		passLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "generation_seconds",
			Help:      "Duration of generation passes in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"mode"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "saves_total",
			Help:      "Schedule saves by backend and result.",
		}, []string{"backend", "result"}),
		saveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "save_seconds",
			Help:      "Duration of schedule saves in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend"}),
	}

	for _, c := range []prometheus.Collector{p.assignments, p.weight, p.passes, p.passLatency, p.saves, p.saveLatency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// RecordAssignment counts one assignment and its weight.
func (p *Prometheus) RecordAssignment(t models.TaskType, person string) {
	p.assignments.WithLabelValues(t.String(), person).Inc()
	p.weight.WithLabelValues(person).Add(float64(t.Weight()))
}

// RecordGeneration counts a pass and observes its duration.
func (p *Prometheus) RecordGeneration(mode string, result string, _ int, seconds float64) {
	p.passes.WithLabelValues(mode, result).Inc()
	p.passLatency.WithLabelValues(mode).Observe(seconds)
}

// RecordSave counts a save and observes its duration.
func (p *Prometheus) RecordSave(backend string, result string, seconds float64) {
	p.saves.WithLabelValues(backend, result).Inc()
	p.saveLatency.WithLabelValues(backend).Observe(seconds)
}
