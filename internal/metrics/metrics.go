package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Progression Metrics
var (
	XPGranted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameXPGranted,
			Help: HelpTextXPGranted,
		},
		[]string{LabelSkill},
	)

	LevelUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
		[]string{LabelSkill},
	)

	MilestonesReached = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMilestonesReached,
			Help: HelpTextMilestonesReached,
		},
		[]string{LabelSkill},
	)

	Prestiges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePrestiges,
			Help: HelpTextPrestiges,
		},
		[]string{LabelSkill},
	)

	AbilityActivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAbilityActivations,
			Help: HelpTextAbilityActivations,
		},
		[]string{LabelSkill},
	)

	AbilityRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAbilityRejections,
			Help: HelpTextAbilityRejections,
		},
		[]string{LabelReason},
	)

	ChallengesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameChallengesCompleted,
			Help: HelpTextChallengesCompleted,
		},
		[]string{LabelType},
	)

	ChallengeSetsCleared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameChallengeSetsCleared,
			Help: HelpTextChallengeSetsCleared,
		},
	)

	AchievementsGranted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAchievementsGranted,
			Help: HelpTextAchievementsGranted,
		},
		[]string{LabelGrant},
	)

	TickSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameTickSweepDuration,
			Help:    HelpTextTickSweepDuration,
			Buckets: SweepLatencyBuckets,
		},
	)

	ActiveAbilities = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveAbilities,
			Help: HelpTextActiveAbilities,
		},
	)
)
