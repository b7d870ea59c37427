package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type PointsMetrics struct {
	ExchangesTotal metrics.Counter
	Refunds        metrics.Counter
}

func (m *PointsMetrics) Exchange(err error) {
	m.ExchangesTotal.With("status", statusOf(err)).Add(1)
}

func PromPointsMetrics() *PointsMetrics {
	return &PointsMetrics{
		ExchangesTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: PointsSubsystem,
			Name:      "exchanges_total",
			Help:      "Total number of point exchanges.",
		}, []string{"status"}),
		Refunds: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: PointsSubsystem,
			Name:      "refunds_total",
			Help:      "Points refunded after a failed payout.",
		}, []string{}),
	}
}

func NopPointsMetrics() *PointsMetrics {
	return &PointsMetrics{
		ExchangesTotal: discard.NewCounter(),
		Refunds:        discard.NewCounter(),
	}
}
