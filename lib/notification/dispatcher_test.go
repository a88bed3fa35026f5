package notification_test

import (
	"context"
	"hr-pipeline-backend/lib/notification"
	notificationmocks "hr-pipeline-backend/lib/notification/mocks"
	"hr-pipeline-backend/lib/utils/clock"
	memorytx "hr-pipeline-backend/lib/utils/tx-manager/memory-tx"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig() notification.Config {
	return notification.Config{
		BatchSize:     10,
		Concurrency:   2,
		MaxAttempts:   3,
		BaseBackoff:   30 * time.Second,
		MaxBackoff:    time.Hour,
		LeaseDuration: time.Minute,
	}
}

func enqueue(t *testing.T, db *memorytx.DB, now time.Time, kind models.NotificationKind) dbmodels.NotificationOutbox {
	rec := dbmodels.NewNotification(kind, models.RecipientCandidate, "candidate-1", "application-1", now, dbmodels.NotificationParams{
		notification.ParamCandidateName: "Иван Петров",
		notification.ParamJobTitle:      "Backend Engineer",
		notification.ParamFromStatus:    models.ApplicationStatusApplied.ToHuman(),
		notification.ParamToStatus:      models.ApplicationStatusScreening.ToHuman(),
	})
	require.NoError(t, db.Stores().Outbox.Enqueue(rec))
	list := db.Notifications()
	require.NotEmpty(t, list)
	return list[len(list)-1]
}

func findNotification(t *testing.T, db *memorytx.DB, id string) dbmodels.NotificationOutbox {
	for _, rec := range db.Notifications() {
		if rec.ID == id {
			return rec
		}
	}
	t.Fatalf("уведомление %s не найдено", id)
	return dbmodels.NotificationOutbox{}
}

func TestDispatchPending(t *testing.T) {
	t.Run(`успешная доставка`, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := memorytx.New()
		clk := clock.NewFixed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
		rec := enqueue(t, db, clk.Now(), models.NotificationApplicationStatusChanged)

		channel := notificationmocks.NewMockChannel(ctrl)
		channel.EXPECT().Name().Return("test").AnyTimes()
		channel.EXPECT().
			Deliver(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, got dbmodels.NotificationOutbox, msg notification.Message) (bool, error) {
				require.Equal(t, rec.ID, got.ID)
				require.Contains(t, msg.Subject, "Backend Engineer")
				require.Contains(t, msg.Body, "Иван Петров")
				return true, nil
			}).
			Times(1)

		dispatcher := notification.NewInstance(db, clk, testConfig(), channel)
		result, err := dispatcher.DispatchPending(context.Background())
		require.NoError(t, err)
		require.Equal(t, notification.DispatchResult{Sent: 1}, result)

		stored := findNotification(t, db, rec.ID)
		require.Equal(t, models.OutboxStatusSent, stored.Status)
		require.NotNil(t, stored.SentAt)

		result, err = dispatcher.DispatchPending(context.Background())
		require.NoError(t, err)
		require.Equal(t, notification.DispatchResult{}, result)
	})
	t.Run(`повтор с задержкой и перевод в недоставленные`, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := memorytx.New()
		clk := clock.NewFixed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
		rec := enqueue(t, db, clk.Now(), models.NotificationApplicationStatusChanged)

		channel := notificationmocks.NewMockChannel(ctrl)
		channel.EXPECT().Name().Return("test").AnyTimes()
		channel.EXPECT().
			Deliver(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, errors.New("smtp недоступен")).
			Times(3)

		dispatcher := notification.NewInstance(db, clk, testConfig(), channel)
		result, err := dispatcher.DispatchPending(context.Background())
		require.NoError(t, err)
		require.Equal(t, notification.DispatchResult{Failed: 1}, result)

		stored := findNotification(t, db, rec.ID)
		require.Equal(t, models.OutboxStatusPending, stored.Status)
		require.Equal(t, 1, stored.Attempts)
		require.True(t, stored.NextAttemptAt.Equal(clk.Now().Add(30*time.Second)))
		require.Contains(t, stored.LastError, "smtp недоступен")

		// до истечения задержки запись не берется
		result, err = dispatcher.DispatchPending(context.Background())
		require.NoError(t, err)
		require.Equal(t, notification.DispatchResult{}, result)

		clk.Advance(30 * time.Second)
		result, err = dispatcher.DispatchPending(context.Background())
		require.NoError(t, err)
		require.Equal(t, notification.DispatchResult{Failed: 1}, result)
		stored = findNotification(t, db, rec.ID)
		require.Equal(t, 2, stored.Attempts)
		require.True(t, stored.NextAttemptAt.Equal(clk.Now().Add(60*time.Second)))

		clk.Advance(time.Minute)
		result, err = dispatcher.DispatchPending(context.Background())
		require.NoError(t, err)
		require.Equal(t, notification.DispatchResult{Dead: 1}, result)
		stored = findNotification(t, db, rec.ID)
		require.Equal(t, models.OutboxStatusDead, stored.Status)
		require.Equal(t, 3, stored.Attempts)

		clk.Advance(24 * time.Hour)
		result, err = dispatcher.DispatchPending(context.Background())
		require.NoError(t, err)
		require.Equal(t, notification.DispatchResult{}, result)
	})
	t.Run(`неприменимый канал не мешает доставке`, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := memorytx.New()
		clk := clock.NewFixed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
		rec := enqueue(t, db, clk.Now(), models.NotificationApplicationStatusChanged)

		skipped := notificationmocks.NewMockChannel(ctrl)
		skipped.EXPECT().Name().Return("in_app").AnyTimes()
		skipped.EXPECT().Deliver(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(1)
		email := notificationmocks.NewMockChannel(ctrl)
		email.EXPECT().Name().Return("email").AnyTimes()
		email.EXPECT().Deliver(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).Times(1)

		dispatcher := notification.NewInstance(db, clk, testConfig(), skipped, email)
		result, err := dispatcher.DispatchPending(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, result.Sent)
		require.Equal(t, models.OutboxStatusSent, findNotification(t, db, rec.ID).Status)
	})
	t.Run(`уведомление без шаблона сразу недоставлено`, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := memorytx.New()
		clk := clock.NewFixed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
		rec := enqueue(t, db, clk.Now(), models.NotificationKind("UNKNOWN"))

		channel := notificationmocks.NewMockChannel(ctrl)
		channel.EXPECT().Name().Return("test").AnyTimes()

		dispatcher := notification.NewInstance(db, clk, testConfig(), channel)
		result, err := dispatcher.DispatchPending(context.Background())
		require.NoError(t, err)
		require.Equal(t, notification.DispatchResult{Dead: 1}, result)
		require.Equal(t, models.OutboxStatusDead, findNotification(t, db, rec.ID).Status)
	})
}

func TestKick(t *testing.T) {
	dispatcher := notification.NewInstance(memorytx.New(), clock.Instance, testConfig())
	dispatcher.Kick()
	dispatcher.Kick()
	select {
	case <-dispatcher.Trigger():
	default:
		t.Fatal("сигнал не получен")
	}
	select {
	case <-dispatcher.Trigger():
		t.Fatal("сигналы должны схлопываться")
	default:
	}
}
