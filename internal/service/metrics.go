package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlementsCascaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitledger_settlements_cascaded_total",
		Help: "Settlements deleted or patched because a related expense was deleted.",
	}, []string{"action"})

	splitValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_split_validation_failures_total",
		Help: "Expenses rejected because their splits do not add up to the amount.",
	})
)
