package notification

import (
	"context"
	"hr-pipeline-backend/lib/utils/clock"
	"hr-pipeline-backend/lib/utils/metrics"
	txmanager "hr-pipeline-backend/lib/utils/tx-manager"
	dbmodels "hr-pipeline-backend/models/db"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Provider interface {
	Kicker
	// DispatchPending доставляет одну пачку готовых уведомлений
	DispatchPending(ctx context.Context) (DispatchResult, error)
	// Trigger сигналы Kick для обработчика outbox
	Trigger() <-chan struct{}
}

var Instance Provider

type Config struct {
	BatchSize   int
	Concurrency int
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	// LeaseDuration время, на которое выбранные записи скрываются от других обработчиков
	LeaseDuration time.Duration
}

func DefaultConfig() Config {
	return Config{
		BatchSize:     50,
		Concurrency:   4,
		MaxAttempts:   8,
		BaseBackoff:   30 * time.Second,
		MaxBackoff:    6 * time.Hour,
		LeaseDuration: 5 * time.Minute,
	}
}

type DispatchResult struct {
	Sent   int
	Failed int
	Dead   int
}

func NewHandler(tx txmanager.Provider, cfg Config, channels ...Channel) {
	Instance = NewInstance(tx, clock.Instance, cfg, channels...)
}

func NewInstance(tx txmanager.Provider, clk clock.Provider, cfg Config, channels ...Channel) Provider {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = DefaultConfig().MaxBackoff
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = DefaultConfig().LeaseDuration
	}
	return &impl{
		tx:       tx,
		clock:    clk,
		cfg:      cfg,
		channels: channels,
		trigger:  make(chan struct{}, 1),
	}
}

type impl struct {
	tx       txmanager.Provider
	clock    clock.Provider
	cfg      Config
	channels []Channel
	trigger  chan struct{}
}

func (i *impl) Kick() {
	select {
	case i.trigger <- struct{}{}:
	default:
	}
}

func (i *impl) Trigger() <-chan struct{} {
	return i.trigger
}

func (i *impl) DispatchPending(ctx context.Context) (DispatchResult, error) {
	result := DispatchResult{}
	now := i.clock.Now()
	var due []dbmodels.NotificationOutbox
	err := i.tx.InTx(ctx, func(stores txmanager.Stores) error {
		list, err := stores.Outbox.ListDue(now, i.cfg.BatchSize)
		if err != nil {
			return errors.Wrap(err, "ошибка получения уведомлений к отправке")
		}
		if len(list) == 0 {
			return nil
		}
		ids := make([]string, 0, len(list))
		for _, rec := range list {
			ids = append(ids, rec.ID)
		}
		if err = stores.Outbox.Lease(ids, now.Add(i.cfg.LeaseDuration)); err != nil {
			return errors.Wrap(err, "ошибка захвата уведомлений")
		}
		due = list
		return nil
	})
	if err != nil {
		return result, err
	}
	if len(due) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(i.cfg.Concurrency)
	for _, rec := range due {
		rec := rec
		g.Go(func() error {
			outcome := i.deliver(gCtx, rec)
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeSent:
				result.Sent++
			case outcomeDead:
				result.Dead++
			default:
				result.Failed++
			}
			return nil
		})
	}
	// ошибки доставки обрабатываются внутри deliver
	_ = g.Wait()
	return result, nil
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeRetry
	outcomeDead
)

func (i *impl) deliver(ctx context.Context, rec dbmodels.NotificationOutbox) outcome {
	logger := log.
		WithField("notification_id", rec.ID).
		WithField("kind", rec.Kind).
		WithField("recipient_type", rec.RecipientType).
		WithField("recipient_id", rec.RecipientID)
	store := i.tx.Stores().Outbox

	msg, err := Render(rec)
	if err != nil {
		// шаблон не появится при повторе
		logger.WithError(err).Error("уведомление не может быть сформировано")
		if markErr := store.MarkFailed(rec.ID, rec.Attempts+1, i.clock.Now(), err.Error(), true); markErr != nil {
			logger.WithError(markErr).Error("ошибка сохранения результата доставки")
		}
		metrics.NotificationsDead.Inc()
		return outcomeDead
	}

	failures := []string{}
	for _, channel := range i.channels {
		delivered, err := channel.Deliver(ctx, rec, msg)
		switch {
		case err != nil:
			metrics.NotificationDeliveries.WithLabelValues(channel.Name(), "error").Inc()
			logger.WithError(err).WithField("channel", channel.Name()).Warn("ошибка доставки уведомления")
			failures = append(failures, channel.Name()+": "+err.Error())
		case delivered:
			metrics.NotificationDeliveries.WithLabelValues(channel.Name(), "sent").Inc()
		default:
			metrics.NotificationDeliveries.WithLabelValues(channel.Name(), "skipped").Inc()
		}
	}

	now := i.clock.Now()
	if len(failures) == 0 {
		if err = store.MarkSent(rec.ID, now); err != nil {
			logger.WithError(err).Error("ошибка сохранения результата доставки")
		}
		return outcomeSent
	}

	attempts := rec.Attempts + 1
	dead := attempts >= i.cfg.MaxAttempts
	nextAttemptAt := now.Add(i.backoff(attempts))
	if err = store.MarkFailed(rec.ID, attempts, nextAttemptAt, strings.Join(failures, "; "), dead); err != nil {
		logger.WithError(err).Error("ошибка сохранения результата доставки")
	}
	if dead {
		metrics.NotificationsDead.Inc()
		logger.WithField("attempts", attempts).Error("исчерпаны попытки доставки уведомления")
		return outcomeDead
	}
	return outcomeRetry
}

// backoff экспоненциальная задержка перед попыткой attempts+1
func (i *impl) backoff(attempts int) time.Duration {
	delay := i.cfg.BaseBackoff
	for k := 1; k < attempts; k++ {
		delay *= 2
		if delay >= i.cfg.MaxBackoff {
			return i.cfg.MaxBackoff
		}
	}
	if delay > i.cfg.MaxBackoff {
		return i.cfg.MaxBackoff
	}
	return delay
}
