package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recruitment_pipeline"

var (
	ApplicationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_transitions_total",
		Help:      "Переходы откликов по целевому статусу",
	}, []string{"to_status"})

	OffersExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_expired_total",
		Help:      "Офферы, переведенные в статус истекших",
	})

	OfferRemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offer_expiry_reminders_total",
		Help:      "Напоминания об окончании срока оффера",
	})

	NotificationDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_deliveries_total",
		Help:      "Попытки доставки уведомлений по каналу и результату",
	}, []string{"channel", "result"})

	NotificationsDead = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dead_total",
		Help:      "Уведомления, исчерпавшие попытки доставки",
	})

	PipelineErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Отказы операций по коду ошибки",
	}, []string{"code"})
)
