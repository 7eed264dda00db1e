package docstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"driver", "op"},
	)

	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_errors_total",
			Help: "Total number of failed document store operations",
		},
		[]string{"driver", "op"},
	)
)

func observe(driver, op string, err error) {
	storeOps.WithLabelValues(driver, op).Inc()
	if err != nil {
		storeErrors.WithLabelValues(driver, op).Inc()
	}
}
