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
	MetricNameEventsPublished = "events_published_total"
)

// Business metric names
const (
	MetricNameQuestsAccepted       = "quests_accepted_total"
	MetricNameQuestsCompleted      = "quests_completed_total"
	MetricNameVerificationFailures = "quest_verification_failures_total"
	MetricNameXPAwarded            = "xp_awarded_total"
	MetricNameGoldAwarded          = "gold_awarded_total"
	MetricNameAchievementsUnlocked = "achievements_unlocked_total"
	MetricNameShopPurchases        = "shop_purchases_total"
	MetricNameGoldSpent            = "gold_spent_total"
	MetricNameCacheRequests        = "leaderboard_cache_requests_total"
)

// Live stream metric names
const (
	MetricNameSSEClients       = "sse_clients"
	MetricNameSSEEventsDropped = "sse_events_dropped_total"
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
	HelpTextEventsPublished = "Total number of events published"
)

// Business metric help text
const (
	HelpTextQuestsAccepted       = "Total number of quests accepted"
	HelpTextQuestsCompleted      = "Total number of quest completions rewarded"
	HelpTextVerificationFailures = "Total number of submissions that failed verification"
	HelpTextXPAwarded            = "Total XP awarded, including achievement bonuses"
	HelpTextGoldAwarded          = "Total gold awarded from quests"
	HelpTextAchievementsUnlocked = "Total number of achievements unlocked"
	HelpTextShopPurchases        = "Total number of shop purchases"
	HelpTextGoldSpent            = "Total gold spent in the shop"
	HelpTextCacheRequests        = "Leaderboard cache lookups by aggregate and result"
)

// Live stream metric help text
const (
	HelpTextSSEClients       = "Currently connected SSE clients"
	HelpTextSSEEventsDropped = "SSE events not delivered because a buffer was full"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatus      = "status"
	LabelType        = "type"
	LabelItem        = "item"
	LabelReason      = "reason"
	LabelAchievement = "achievement"
	LabelAggregate   = "aggregate"
	LabelResult      = "result"
)

// SSE drop reasons
const (
	SSEDropHubBuffer    = "hub_buffer"
	SSEDropClientBuffer = "client_buffer"
)

// Cache lookup results
const (
	CacheResultHit  = "hit"
	CacheResultMiss = "miss"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadInvalid = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)

// unmatchedRoute labels requests that matched no chi route
const unmatchedRoute = "unmatched"
