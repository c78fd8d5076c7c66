package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the session lifecycle and the identity
// provider calls behind it.
type Metrics struct {
	SessionOperations    *prometheus.CounterVec
	ProviderCallDuration *prometheus.HistogramVec
	ProviderErrors       *prometheus.CounterVec
	LocalUsersCreated    prometheus.Counter
	OrphanedIdentities   prometheus.Counter
}

// New registers all metrics on reg. Pass prometheus.DefaultRegisterer in
// production and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chatauth_session_operations_total",
			Help: "Session operations by name and outcome",
		}, []string{"operation", "outcome"}),
		ProviderCallDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatauth_provider_call_duration_seconds",
			Help:    "Latency of identity provider calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
		ProviderErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chatauth_provider_errors_total",
			Help: "Identity provider errors by operation and error type",
		}, []string{"operation", "type"}),
		LocalUsersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "chatauth_local_users_created_total",
			Help: "Local users created at registration or first login",
		}),
		OrphanedIdentities: f.NewCounter(prometheus.CounterOpts{
			Name: "chatauth_orphaned_identities_total",
			Help: "Provider sign-ups whose local user row could not be created",
		}),
	}
}

// ObserveProviderCall records the duration of a provider call.
// Call with time.Now() at the start of the call.
func (m *Metrics) ObserveProviderCall(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.ProviderCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// IncProviderError counts a failed provider call.
func (m *Metrics) IncProviderError(operation, errType string) {
	if m == nil {
		return
	}
	m.ProviderErrors.WithLabelValues(operation, errType).Inc()
}

// IncSession counts a finished session operation. outcome is "success" or
// the error type.
func (m *Metrics) IncSession(operation, outcome string) {
	if m == nil {
		return
	}
	m.SessionOperations.WithLabelValues(operation, outcome).Inc()
}

// IncLocalUserCreated records a new local user row.
func (m *Metrics) IncLocalUserCreated() {
	if m == nil {
		return
	}
	m.LocalUsersCreated.Inc()
}

// IncOrphanedIdentity records a provider identity without a local user.
func (m *Metrics) IncOrphanedIdentity() {
	if m == nil {
		return
	}
	m.OrphanedIdentities.Inc()
}
