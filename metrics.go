// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultMetricsNamespace is the namespace used for metric names
	// when none is supplied.
	DefaultMetricsNamespace = "heartbeat"
)

// Metrics is a Listener that exposes a Heartbeat's events as
// prometheus metrics.
type Metrics struct {
	firings       prometheus.Counter
	rearmFailures prometheus.Counter
	state         prometheus.Gauge
	lastFiring    prometheus.Gauge
	deadline      prometheus.Gauge
}

// NewMetrics creates the heartbeat metrics under the given namespace and
// registers them with reg. If namespace is empty, DefaultMetricsNamespace
// is used.
//
// If any of the metrics are already registered with reg, the existing
// collectors are reused.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if len(namespace) == 0 {
		namespace = DefaultMetricsNamespace
	}

	m := &Metrics{
		firings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "firings_total",
			Help:      "The number of heartbeat markers emitted.",
		}),
		rearmFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rearm_failures_total",
			Help:      "The number of times the host timer facility refused a rearm.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "The heartbeat state: 0 inactive, 1 armed, 2 firing.",
		}),
		lastFiring: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_firing_timestamp_seconds",
			Help:      "The unix time of the most recent heartbeat emission.",
		}),
		deadline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "deadline_timestamp_seconds",
			Help:      "The unix time of the pending heartbeat expiry, or 0 if none is pending.",
		}),
	}

	var err error
	m.firings, err = register(reg, m.firings)
	if err == nil {
		m.rearmFailures, err = register(reg, m.rearmFailures)
	}

	if err == nil {
		m.state, err = register(reg, m.state)
	}

	if err == nil {
		m.lastFiring, err = register(reg, m.lastFiring)
	}

	if err == nil {
		m.deadline, err = register(reg, m.deadline)
	}

	if err != nil {
		return nil, err
	}

	return m, nil
}

// register adds c to reg, returning any collector already registered
// under the same descriptor instead.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, err
}

// OnHeartbeatEvent updates the metrics from the event's snapshot.
func (m *Metrics) OnHeartbeatEvent(e Event) {
	switch e.Type {
	case EventFired:
		m.firings.Inc()

	case EventRearmFailed:
		// the marker was still emitted before the rearm failed
		m.firings.Inc()
		m.rearmFailures.Inc()
	}

	m.state.Set(float64(e.Snapshot.State))
	if !e.Snapshot.LastFiring.IsZero() {
		m.lastFiring.Set(float64(e.Snapshot.LastFiring.UnixNano()) / 1e9)
	}

	if e.Snapshot.Deadline.IsZero() {
		m.deadline.Set(0)
	} else {
		m.deadline.Set(float64(e.Snapshot.Deadline.UnixNano()) / 1e9)
	}
}
