package offerexpiryworker

import (
	"context"
	offerhandler "hr-pipeline-backend/lib/offer"
	baseworker "hr-pipeline-backend/lib/utils/base-worker"
	"hr-pipeline-backend/lib/utils/lock"
	"time"
)

const lockKey = "offer-expiry-worker"

func StartWorker(ctx context.Context, interval time.Duration) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("OfferExpiryWorker", 30*time.Second, interval),
		offers:   offerhandler.Instance,
		locker:   lock.Instance,
		lockTTL:  interval,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	offers  offerhandler.Provider
	locker  lock.Provider
	lockTTL time.Duration
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	ok, err := i.locker.Run(ctx, lockKey, i.lockTTL, func() error {
		expired, err := i.offers.SweepExpired(ctx)
		if err != nil {
			return err
		}
		if expired != 0 {
			logger.WithField("count", expired).Info("офферы переведены в истекшие")
		}
		sent, err := i.offers.SendExpiryReminders(ctx)
		if err != nil {
			return err
		}
		if sent != 0 {
			logger.WithField("count", sent).Info("отправлены напоминания об истечении офферов")
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("ошибка обработки истекающих офферов")
		return
	}
	if !ok {
		logger.Debug("обработка офферов выполняется другим экземпляром")
	}
}
