// Package metrics exposes Prometheus counters for order workflows.
package metrics

import (
	"errors"
	"net/http"

	"shopping/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultOK         = "ok"
	ResultValidation = "validation"
	ResultNotFound   = "not_found"
	ResultDenied     = "denied"
	ResultState      = "state"
	ResultStock      = "stock"
	ResultContention = "contention"
	ResultError      = "error"
)

// OrderMetrics counts order operations by outcome and order status transitions.
type OrderMetrics struct {
	Operations  *prometheus.CounterVec
	Transitions *prometheus.CounterVec
}

// NewOrderMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopping",
		Subsystem: "orders",
		Name:      "operations_total",
		Help:      "Order service calls by operation and result.",
	}, []string{"operation", "result"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopping",
		Subsystem: "orders",
		Name:      "status_transitions_total",
		Help:      "Committed order status transitions.",
	}, []string{"from", "to"})

	reg.MustRegister(operations, transitions)
	return &OrderMetrics{Operations: operations, Transitions: transitions}
}

// Observe counts one call of operation with the result derived from err.
// A nil receiver does nothing.
func (m *OrderMetrics) Observe(operation string, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, Result(err)).Inc()
}

// Transition counts a committed status change.
func (m *OrderMetrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

// Result maps an error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errs.IsValidation(err):
		return ResultValidation
	case errors.Is(err, errs.ErrObjectNotFound):
		return ResultNotFound
	case errors.Is(err, errs.ErrAccessDenied):
		return ResultDenied
	case errors.Is(err, errs.ErrInvalidState):
		return ResultState
	case errors.Is(err, errs.ErrInsufficientStock):
		return ResultStock
	case errors.Is(err, errs.ErrContention):
		return ResultContention
	default:
		return ResultError
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
