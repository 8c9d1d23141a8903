package sleepsort

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeInvalidInput = "invalid_input"
	outcomeWorkerFailed = "worker_failed"
)

var (
	sortsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "sleepsort_sorts_total",
		Help: "The total number of sorts, by outcome",
	}, []string{"outcome"})

	workersStarted = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "sleepsort_workers_started_total",
		Help: "The total number of delay workers that started sleeping",
	})

	compensationsTotal = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "sleepsort_compensations_total",
		Help: "The total number of extra sleeps taken because a sleep woke up early",
	})

	oversleepSeconds = promauto.NewHistogram(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "sleepsort_oversleep_seconds",
		Help:    "How far past its target each delay worker woke up",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10), //nolint:mnd
	})
)
