package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики турнира. Регистрируются в default registry при импорте пакета,
// наружу отдаются через promhttp на /metrics.
var (
	// RacesTotal — количество завершённых заездов по исходу (ok | failed).
	RacesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paddock_races_total",
		Help: "Completed races by outcome",
	}, []string{"outcome"})

	// RaceDuration — длительность заезда от запуска симулятора до завершения.
	RaceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "paddock_race_duration_seconds",
		Help:    "Wall-clock race duration",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	// CompetitorRating — текущий рейтинг участника после последнего заезда.
	CompetitorRating = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "paddock_competitor_rating",
		Help: "Current competitor rating",
	}, []string{"token"})

	// TeardownSurvivors — процессы, пережившие SIGKILL при остановке заезда.
	TeardownSurvivors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paddock_teardown_survivors_total",
		Help: "Processes still alive after teardown escalation",
	})

	// HookFailures — сбои хуков по фазе (before | after).
	HookFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paddock_hook_failures_total",
		Help: "Hook failures by phase",
	}, []string{"phase"})
)
