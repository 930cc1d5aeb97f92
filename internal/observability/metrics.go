package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	forumRequestsTotal     *prometheus.CounterVec
	forumLatencySeconds    *prometheus.HistogramVec
	forumErrorsTotal       *prometheus.CounterVec
	topicsCreatedTotal     prometheus.Counter
	commentsCreatedTotal   prometheus.Counter
	likesToggledTotal      *prometheus.CounterVec
	notificationsPublished *prometheus.CounterVec
	sseClientsActive       prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the forum API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		forumRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forum_requests_total",
			Help: "Total number of forum API requests served.",
		}, []string{"method", "route", "status"})

		forumLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forum_latency_seconds",
			Help:    "Latency distribution for forum API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		forumErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forum_errors_total",
			Help: "Total number of error responses returned by forum endpoints.",
		}, []string{"method", "route", "status"})

		topicsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forum_topics_created_total",
			Help: "Total number of topics created.",
		})

		commentsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forum_comments_created_total",
			Help: "Total number of comments created.",
		})

		likesToggledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forum_likes_toggled_total",
			Help: "Total number of like toggles, by resulting state.",
		}, []string{"result"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forum_notifications_published_total",
			Help: "Total number of notifications published.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forum_sse_clients_active",
			Help: "Number of currently connected SSE notification streams.",
		})

		prometheus.MustRegister(
			forumRequestsTotal,
			forumLatencySeconds,
			forumErrorsTotal,
			topicsCreatedTotal,
			commentsCreatedTotal,
			likesToggledTotal,
			notificationsPublished,
			sseClientsActive,
		)
	})
}

// ForumRequests exposes the counter for forum requests.
func ForumRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return forumRequestsTotal
}

// ForumLatency exposes the latency histogram for forum requests.
func ForumLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return forumLatencySeconds
}

// ForumErrors exposes the counter for forum error responses.
func ForumErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return forumErrorsTotal
}

// TopicsCreated exposes the topic creation counter.
func TopicsCreated() prometheus.Counter {
	RegisterMetrics()
	return topicsCreatedTotal
}

// CommentsCreated exposes the comment creation counter.
func CommentsCreated() prometheus.Counter {
	RegisterMetrics()
	return commentsCreatedTotal
}

// LikesToggled exposes the like toggle counter.
func LikesToggled() *prometheus.CounterVec {
	RegisterMetrics()
	return likesToggledTotal
}

// NotificationsPublishedTotal exposes the notification publish counter.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// SSEClientsActive exposes the active SSE client gauge.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}
