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
)

// Quest Metrics
var (
	QuestsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameQuestsAccepted,
			Help: HelpTextQuestsAccepted,
		},
	)

	QuestsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameQuestsCompleted,
			Help: HelpTextQuestsCompleted,
		},
	)

	VerificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameVerificationFailures,
			Help: HelpTextVerificationFailures,
		},
		[]string{LabelReason},
	)

	XPAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameXPAwarded,
			Help: HelpTextXPAwarded,
		},
	)

	GoldAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGoldAwarded,
			Help: HelpTextGoldAwarded,
		},
	)

	AchievementsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAchievementsUnlocked,
			Help: HelpTextAchievementsUnlocked,
		},
		[]string{LabelAchievement},
	)
)

// Shop Metrics
var (
	ShopPurchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameShopPurchases,
			Help: HelpTextShopPurchases,
		},
		[]string{LabelItem},
	)

	GoldSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGoldSpent,
			Help: HelpTextGoldSpent,
		},
	)
)

// Cache Metrics
var (
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCacheRequests,
			Help: HelpTextCacheRequests,
		},
		[]string{LabelAggregate, LabelResult},
	)
)

// Live stream metrics
var (
	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSSEClients,
			Help: HelpTextSSEClients,
		},
	)

	SSEEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSSEEventsDropped,
			Help: HelpTextSSEEventsDropped,
		},
		[]string{LabelReason},
	)
)

// RecordCacheHit records a read-through cache lookup
func RecordCacheHit(aggregate string, hit bool) {
	result := CacheResultMiss
	if hit {
		result = CacheResultHit
	}
	CacheRequests.WithLabelValues(aggregate, result).Inc()
}
