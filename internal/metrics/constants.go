package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Progression metric names
const (
	MetricNameXPGranted            = "xp_granted_total"
	MetricNameLevelUps             = "level_ups_total"
	MetricNameMilestonesReached    = "milestones_reached_total"
	MetricNamePrestiges            = "prestiges_total"
	MetricNameAbilityActivations   = "ability_activations_total"
	MetricNameAbilityRejections    = "ability_rejections_total"
	MetricNameChallengesCompleted  = "challenges_completed_total"
	MetricNameChallengeSetsCleared = "challenge_sets_cleared_total"
	MetricNameAchievementsGranted  = "achievements_granted_total"
	MetricNameTickSweepDuration    = "tick_sweep_duration_seconds"
	MetricNameActiveAbilities      = "active_abilities"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Progression metric help text
const (
	HelpTextXPGranted            = "Total XP granted, by skill"
	HelpTextLevelUps             = "Total level ups, by skill"
	HelpTextMilestonesReached    = "Total milestone levels reached, by skill"
	HelpTextPrestiges            = "Total prestige resets, by skill"
	HelpTextAbilityActivations   = "Total ability activations, by skill"
	HelpTextAbilityRejections    = "Total rejected ability activations, by reason"
	HelpTextChallengesCompleted  = "Total daily challenges completed, by type"
	HelpTextChallengeSetsCleared = "Total full daily challenge sets cleared"
	HelpTextAchievementsGranted  = "Total achievements granted, by grant id"
	HelpTextTickSweepDuration    = "Duration of the ability tick sweep in seconds"
	HelpTextActiveAbilities      = "Number of abilities currently active"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelSkill  = "skill"
	LabelReason = "reason"
	LabelGrant  = "grant"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// SweepLatencyBuckets covers the tick sweep, which must stay well under
// the 50ms tick interval.
var SweepLatencyBuckets = []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
