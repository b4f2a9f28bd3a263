// Package metrics exports validation activity as Prometheus metrics.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "formguard"

// Collector records validation and submit outcomes. It implements
// form.Observer.
type Collector struct {
	validations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	submits     *prometheus.CounterVec
}

var _ form.Observer = (*Collector)(nil)

// New registers the collector metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Collector{
		validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of component validations by result",
			},
			[]string{"component", "result"},
		),

		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of component validations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
			[]string{"component"},
		),

		submits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submits_total",
				Help:      "Total number of form submits by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveValidation records one component validation.
func (c *Collector) ObserveValidation(component string, result validity.Result, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.validations.WithLabelValues(component, result.String()).Inc()
	c.duration.WithLabelValues(component).Observe(elapsed.Seconds())
}

// ObserveSubmit records one form submit.
func (c *Collector) ObserveSubmit(passed bool, _ time.Duration) {
	if c == nil {
		return
	}
	outcome := "passed"
	if !passed {
		outcome = "failed"
	}
	c.submits.WithLabelValues(outcome).Inc()
}
