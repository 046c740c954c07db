package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat metrics for monitoring message lifecycle and live subscriptions
var (
	ChatMessageSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_message_sent_total",
		Help: "Total number of messages sent",
	}, []string{"content_type"})

	ChatMessagePersistedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_message_persisted_total",
		Help: "Total number of messages persisted to the document store",
	}, []string{"status"})

	ChatUnreadBatchFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_unread_batch_failed_total",
		Help: "Total number of unread-count batch updates that failed after the message was persisted",
	})

	ChatSubscriptionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_subscriptions_active",
		Help: "Current number of active document store subscriptions",
	})

	ChatSubscriptionErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_subscription_errors_total",
		Help: "Total number of subscription snapshot errors",
	})

	ChatNotificationsShownTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_notifications_shown_total",
		Help: "Total number of new-message notifications surfaced",
	})

	ChatNotificationsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_notifications_expired_total",
		Help: "Total number of notifications removed by the expiry timer",
	})

	ChatWebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_websocket_connections",
		Help: "Current number of active WebSocket sessions",
	})

	ChatWebSocketMessageDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_websocket_message_dropped_total",
		Help: "Total number of events dropped on slow WebSocket clients",
	}, []string{"reason"})

	ChatPushSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_push_sent_total",
		Help: "Total number of push notifications sent for chat messages",
	}, []string{"status"})
)
