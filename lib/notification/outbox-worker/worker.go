package outboxworker

import (
	"context"
	"hr-pipeline-backend/lib/notification"
	baseworker "hr-pipeline-backend/lib/utils/base-worker"
	"hr-pipeline-backend/lib/utils/helpers"
	"time"
)

// maxRoundsPerRun ограничивает число пачек за один запуск
const maxRoundsPerRun = 20

func StartWorker(ctx context.Context, interval time.Duration) {
	i := &impl{
		BaseImpl:   *baseworker.NewInstance("NotificationOutboxWorker", 5*time.Second, interval),
		dispatcher: notification.Instance,
	}
	go i.RunWithTrigger(ctx, i.dispatcher.Trigger(), i.handle)
}

type impl struct {
	baseworker.BaseImpl
	dispatcher notification.Provider
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	for round := 0; round < maxRoundsPerRun; round++ {
		if helpers.IsContextDone(ctx) {
			return
		}
		result, err := i.dispatcher.DispatchPending(ctx)
		if err != nil {
			logger.WithError(err).Error("ошибка обработки outbox уведомлений")
			return
		}
		total := result.Sent + result.Failed + result.Dead
		if total == 0 {
			return
		}
		logger.
			WithField("sent", result.Sent).
			WithField("failed", result.Failed).
			WithField("dead", result.Dead).
			Info("обработана пачка уведомлений")
	}
}
