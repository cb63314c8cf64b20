// Package metrics exposes Prometheus instrumentation for pipeline runs.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/lcm/pkg/domain"
)

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// Collector counts runs and brick invocations.
type Collector struct {
	runs           *prometheus.CounterVec
	actions        *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
	gatherer       prometheus.Gatherer
}

// New creates a Collector and registers it with reg.
// A nil reg uses a fresh private registry.
func New(reg *prometheus.Registry) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &Collector{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lcm_runs_total",
				Help: "Total number of pipeline runs by mode and final status",
			},
			[]string{"mode", "status"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lcm_actions_total",
				Help: "Total number of brick invocations by status",
			},
			[]string{"action", "status"},
		),
		actionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lcm_action_duration_seconds",
				Help:    "Duration of brick invocations",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"action"},
		),
		gatherer: reg,
	}

	for _, col := range []prometheus.Collector{c.runs, c.actions, c.actionDuration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Hooks returns lifecycle hooks that feed the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			c.runs.WithLabelValues(e.Mode, status(e.Err)).Inc()
		},
		OnActionFinish: func(_ context.Context, e *domain.ActionEvent) {
			c.actions.WithLabelValues(e.Action, status(e.Err)).Inc()
			c.actionDuration.WithLabelValues(e.Action).Observe(e.Duration.Seconds())
		},
	}
}

// Handler serves the collector's registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return statusFailed
	}
	return statusSucceeded
}
