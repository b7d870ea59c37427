package metrics

import (
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type ProgramMetrics struct {
	TransactionsTotal        metrics.Counter
	OperationsTotal          metrics.Counter
	StakedTotal              metrics.Counter
	ExecutionDurationSeconds metrics.Histogram
}

func (m *ProgramMetrics) Transaction(err error, started time.Time) {
	status := statusOf(err)
	m.TransactionsTotal.With("status", status).Add(1)
	m.ExecutionDurationSeconds.With("status", status).Observe(time.Since(started).Seconds())
}

func (m *ProgramMetrics) Operation(opType string, err error) {
	m.OperationsTotal.With("type", opType, "status", statusOf(err)).Add(1)
}

// Staked counts base units moved into poll vaults.
func (m *ProgramMetrics) Staked(amount uint64) {
	m.StakedTotal.Add(float64(amount))
}

func PromProgramMetrics() *ProgramMetrics {
	return &ProgramMetrics{
		TransactionsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: ProgramSubsystem,
			Name:      "transactions_total",
			Help:      "Total number of executed transactions.",
		}, []string{"status"}),
		OperationsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: ProgramSubsystem,
			Name:      "operations_total",
			Help:      "Total number of executed operations.",
		}, []string{"type", "status"}),
		StakedTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: ProgramSubsystem,
			Name:      "staked_total",
			Help:      "Total amount of tokens staked by votes.",
		}, []string{}),
		ExecutionDurationSeconds: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: ProgramSubsystem,
			Name:      "execution_duration_seconds",
			Help:      "Transaction execution latency.",
		}, []string{"status"}),
	}
}

func NopProgramMetrics() *ProgramMetrics {
	return &ProgramMetrics{
		TransactionsTotal:        discard.NewCounter(),
		OperationsTotal:          discard.NewCounter(),
		StakedTotal:              discard.NewCounter(),
		ExecutionDurationSeconds: discard.NewHistogram(),
	}
}

func statusOf(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}
