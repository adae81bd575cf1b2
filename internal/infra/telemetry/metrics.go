package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Login result label values.
const (
	LoginResultSuccess   = "success"
	LoginResultFailure   = "failure"
	LoginResultThrottled = "throttled"
)

// LifecycleMetricsOptions configures the lifecycle metric collectors.
type LifecycleMetricsOptions struct {
	Registerer prometheus.Registerer
	Namespace  string
}

// LifecycleMetrics exposes Prometheus collectors for account lifecycle instrumentation.
type LifecycleMetrics struct {
	LoginAttempts   *prometheus.CounterVec
	Lockouts        prometheus.Counter
	Registrations   *prometheus.CounterVec
	AnalyticsEvents *prometheus.CounterVec
}

// NewLifecycleMetrics constructs the collectors and registers them with the provided registerer.
func NewLifecycleMetrics(opts LifecycleMetricsOptions) (*LifecycleMetrics, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "accounts"
	}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	loginAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts partitioned by result.",
	}, []string{"result"})

	if err := register(reg, &loginAttempts); err != nil {
		return nil, err
	}

	lockouts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "lockouts_total",
		Help:      "Total number of accounts locked after repeated login failures.",
	})

	if err := register(reg, &lockouts); err != nil {
		return nil, err
	}

	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "lifecycle",
		Name:      "registrations_total",
		Help:      "Total number of registered accounts partitioned by assigned role.",
	}, []string{"role"})

	if err := register(reg, &registrations); err != nil {
		return nil, err
	}

	analyticsEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analytics",
		Name:      "events_total",
		Help:      "Total number of recorded analytics events partitioned by event type.",
	}, []string{"event_type"})

	if err := register(reg, &analyticsEvents); err != nil {
		return nil, err
	}

	return &LifecycleMetrics{
		LoginAttempts:   loginAttempts,
		Lockouts:        lockouts,
		Registrations:   registrations,
		AnalyticsEvents: analyticsEvents,
	}, nil
}

// register registers the collector pointed to by target, swapping in the
// already-registered collector when one of the same identity exists.
func register[C prometheus.Collector](reg prometheus.Registerer, target *C) error {
	if err := reg.Register(*target); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return fmt.Errorf("register collector: %w", err)
		}
		existing, ok := already.ExistingCollector.(C)
		if !ok {
			return fmt.Errorf("existing collector has unexpected type %T", already.ExistingCollector)
		}
		*target = existing
	}
	return nil
}

// ObserveLogin records a login attempt outcome. Safe on a nil receiver.
func (m *LifecycleMetrics) ObserveLogin(result string) {
	if m == nil || m.LoginAttempts == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

// ObserveLockout records an account lockout. Safe on a nil receiver.
func (m *LifecycleMetrics) ObserveLockout() {
	if m == nil || m.Lockouts == nil {
		return
	}
	m.Lockouts.Inc()
}

// ObserveRegistration records a registration with its assigned role. Safe on a nil receiver.
func (m *LifecycleMetrics) ObserveRegistration(role string) {
	if m == nil || m.Registrations == nil {
		return
	}
	m.Registrations.WithLabelValues(role).Inc()
}

// ObserveAnalyticsEvent records a ledger append. Safe on a nil receiver.
func (m *LifecycleMetrics) ObserveAnalyticsEvent(eventType string) {
	if m == nil || m.AnalyticsEvents == nil {
		return
	}
	m.AnalyticsEvents.WithLabelValues(eventType).Inc()
}
