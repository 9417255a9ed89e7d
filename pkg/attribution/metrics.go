package attribution

import (
	"errors"

	"github.com/envelope-zero/payday/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Operations counts engine and advisor operations by their outcome.
var Operations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "attribution_operations_total",
		Help: "How many attribution operations were executed, partitioned by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// Metrics are the collectors of this package. They need to be registered by the caller.
var Metrics = []prometheus.Collector{
	Operations,
}

func observe(operation string, err error) {
	Operations.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, models.ErrResourceNotFound):
		return "not_found"
	case errors.Is(err, models.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, models.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, models.ErrConflict):
		return "conflict"
	case errors.Is(err, models.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "error"
	}
}
