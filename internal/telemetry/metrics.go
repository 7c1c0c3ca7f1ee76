package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики движка. Чисто информационные: контракт выполнения от них
// не зависит.
var (
	// RunsTotal — количество завершённых запусков по статусу
	// (succeeded/failed).
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sequent_runs_total",
		Help: "Total workflow runs by final status",
	}, []string{"status"})

	// RunDuration — длительность успешных запусков.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sequent_run_duration_seconds",
		Help:    "Duration of successful workflow runs",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	})

	// StepDuration — длительность успешных шагов по сервису и методу.
	StepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sequent_step_duration_seconds",
		Help:    "Duration of successful workflow steps",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
	}, []string{"service", "method"})

	// StepFailures — количество сбойных шагов по сервису и методу.
	StepFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sequent_step_failures_total",
		Help: "Total failed workflow steps",
	}, []string{"service", "method"})
)
