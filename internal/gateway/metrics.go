package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK          = "ok"
	outcomeRejected    = "rejected"
	outcomeUnreachable = "unreachable"
	outcomeMalformed   = "malformed"
	outcomeInvalid     = "invalid"
	outcomeCanceled    = "canceled"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fitwise",
	Subsystem: "gateway",
	Name:      "requests_total",
	Help:      "Backend operations by outcome.",
}, []string{"op", "outcome"})

func observe(op, outcome string) {
	requestsTotal.WithLabelValues(op, outcome).Inc()
}
