// Package metrics exposes Prometheus counters for lifecycle activity.
// Services depend on the Recorder interface so tests and metric-less
// deployments can plug in the nop implementation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts lifecycle outcomes.
type Recorder interface {
	ApplicationSubmitted(kind string)
	ApplicationAccepted(kind string)
	ApplicationsRejected(kind string, count int)
	ApplicationWithdrawn(kind string)
	ShiftConfirmed()
	ShiftCompleted()
	ShiftExpired()
}

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	applicationsSubmitted *prometheus.CounterVec
	applicationsAccepted  *prometheus.CounterVec
	applicationsRejected  *prometheus.CounterVec
	applicationsWithdrawn *prometheus.CounterVec
	shiftsConfirmed       prometheus.Counter
	shiftsCompleted       prometheus.Counter
	shiftsExpired         prometheus.Counter
}

var _ Recorder = (*PrometheusRecorder)(nil)

func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		applicationsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftdesk",
			Name:      "applications_submitted_total",
			Help:      "Applications submitted, by posting kind.",
		}, []string{"kind"}),
		applicationsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftdesk",
			Name:      "applications_accepted_total",
			Help:      "Applications accepted, by posting kind.",
		}, []string{"kind"}),
		applicationsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftdesk",
			Name:      "applications_rejected_total",
			Help:      "Applications rejected, by posting kind. Includes cascade rejections.",
		}, []string{"kind"}),
		applicationsWithdrawn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftdesk",
			Name:      "applications_withdrawn_total",
			Help:      "Applications withdrawn by their applicant, by posting kind.",
		}, []string{"kind"}),
		shiftsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shiftdesk",
			Name:      "shifts_confirmed_total",
			Help:      "Filled shifts confirmed by the accepted worker.",
		}),
		shiftsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shiftdesk",
			Name:      "shifts_completed_total",
			Help:      "Filled shifts moved to Completed by the sweep.",
		}),
		shiftsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shiftdesk",
			Name:      "shifts_expired_total",
			Help:      "Open shifts moved to Expired by the sweep.",
		}),
	}

	reg.MustRegister(
		r.applicationsSubmitted,
		r.applicationsAccepted,
		r.applicationsRejected,
		r.applicationsWithdrawn,
		r.shiftsConfirmed,
		r.shiftsCompleted,
		r.shiftsExpired,
	)

	return r
}

func (r *PrometheusRecorder) ApplicationSubmitted(kind string) {
	r.applicationsSubmitted.WithLabelValues(kind).Inc()
}

func (r *PrometheusRecorder) ApplicationAccepted(kind string) {
	r.applicationsAccepted.WithLabelValues(kind).Inc()
}

func (r *PrometheusRecorder) ApplicationsRejected(kind string, count int) {
	if count <= 0 {
		return
	}
	r.applicationsRejected.WithLabelValues(kind).Add(float64(count))
}

func (r *PrometheusRecorder) ApplicationWithdrawn(kind string) {
	r.applicationsWithdrawn.WithLabelValues(kind).Inc()
}

func (r *PrometheusRecorder) ShiftConfirmed() {
	r.shiftsConfirmed.Inc()
}

func (r *PrometheusRecorder) ShiftCompleted() {
	r.shiftsCompleted.Inc()
}

func (r *PrometheusRecorder) ShiftExpired() {
	r.shiftsExpired.Inc()
}

// NopRecorder discards all observations.
type NopRecorder struct{}

var _ Recorder = (*NopRecorder)(nil)

func NewNopRecorder() *NopRecorder {
	return &NopRecorder{}
}

func (NopRecorder) ApplicationSubmitted(kind string) {}

func (NopRecorder) ApplicationAccepted(kind string) {}

func (NopRecorder) ApplicationsRejected(kind string, count int) {}

func (NopRecorder) ApplicationWithdrawn(kind string) {}

func (NopRecorder) ShiftConfirmed() {}

func (NopRecorder) ShiftCompleted() {}

func (NopRecorder) ShiftExpired() {}
