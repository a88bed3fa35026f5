package offerhandler

import (
	"context"
	applicationhandler "hr-pipeline-backend/lib/application"
	"hr-pipeline-backend/lib/notification"
	"hr-pipeline-backend/lib/utils/clock"
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	memorytx "hr-pipeline-backend/lib/utils/tx-manager/memory-tx"
	"hr-pipeline-backend/models"
	offerapimodels "hr-pipeline-backend/models/api/offer"
	dbmodels "hr-pipeline-backend/models/db"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db          *memorytx.DB
	clock       *clock.Fixed
	handler     Provider
	appID       string
	recruiterID string
}

func newFixture(t *testing.T, policy models.PipelinePolicy) *fixture {
	db := memorytx.New()
	clk := clock.NewFixed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	candidate := db.AddCandidate(dbmodels.Candidate{FirstName: "Иван", LastName: "Петров", Email: "ivan@example.com"})
	position := db.AddJobPosition(dbmodels.JobPosition{Title: "Backend Engineer", IsOpen: true})
	recruiter := db.AddStaffUser(dbmodels.StaffUser{FirstName: "Анна", Email: "anna@example.com", Role: models.RecruiterRole, IsActive: true})
	appID, err := db.Stores().Applications.Create(dbmodels.JobApplication{
		CandidateID:   candidate.ID,
		JobPositionID: position.ID,
		Status:        models.ApplicationStatusInterviewCompleted,
		AppliedAt:     clk.Now().Add(-72 * time.Hour),
		IsActive:      true,
	})
	require.NoError(t, err)
	return &fixture{
		db:          db,
		clock:       clk,
		handler:     NewInstance(db, clk, notification.NopKicker{}, nil, policy, models.CompanyInfo{Name: "Acme"}),
		appID:       appID,
		recruiterID: recruiter.ID,
	}
}

func (f *fixture) extend(t *testing.T, salary int64, validFor time.Duration) *offerapimodels.OfferView {
	view, err := f.handler.Extend(context.Background(), f.appID, offerapimodels.ExtendRequest{
		Salary:     decimal.NewFromInt(salary),
		Benefits:   "ДМС",
		ExpiryDate: f.clock.Now().Add(validFor),
	}, f.recruiterID)
	require.NoError(t, err)
	return view
}

func (f *fixture) appStatus(t *testing.T) models.ApplicationStatus {
	app, err := f.db.Stores().Applications.GetByID(f.appID)
	require.NoError(t, err)
	require.NotNil(t, app)
	return app.Status
}

func (f *fixture) countKind(kind models.NotificationKind) int {
	count := 0
	for _, rec := range f.db.Notifications() {
		if rec.Kind == kind {
			count++
		}
	}
	return count
}

func requireCode(t *testing.T, err error, code pipelineerrors.Code) {
	t.Helper()
	require.Error(t, err)
	pErr, ok := pipelineerrors.As(err)
	require.True(t, ok, "ожидалась ошибка конвейера, получено: %v", err)
	require.Equal(t, code, pErr.Code)
}

func TestExtend(t *testing.T) {
	t.Run(`оффер выдвигается и отклик переходит в OFFER_EXTENDED`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		view := f.extend(t, 100000, 7*24*time.Hour)
		require.Equal(t, models.OfferStatusPending, view.Status)
		require.Equal(t, "Backend Engineer", view.JobTitle)
		require.Equal(t, int64(1), view.Version)
		require.Equal(t, models.ApplicationStatusOfferExtended, f.appStatus(t))
		require.Equal(t, 1, f.countKind(models.NotificationOfferExtended))
	})
	t.Run(`повторный оффер по отклику`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		f.extend(t, 100000, 7*24*time.Hour)
		_, err := f.handler.Extend(context.Background(), f.appID, offerapimodels.ExtendRequest{
			Salary:     decimal.NewFromInt(110000),
			ExpiryDate: f.clock.Now().Add(24 * time.Hour),
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeOfferAlreadyExists)
	})
	t.Run(`срок действия в прошлом`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		_, err := f.handler.Extend(context.Background(), f.appID, offerapimodels.ExtendRequest{
			Salary:     decimal.NewFromInt(100000),
			ExpiryDate: f.clock.Now().Add(-time.Hour),
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidArgument)
		require.Equal(t, models.ApplicationStatusInterviewCompleted, f.appStatus(t))
		offer, err := f.db.Stores().Offers.GetByApplication(f.appID)
		require.NoError(t, err)
		require.Nil(t, offer)
	})
}

func TestCounterOffer(t *testing.T) {
	t.Run(`принятое встречное предложение меняет сумму`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)

		view, err := f.handler.RecordCounter(context.Background(), offer.ID, offerapimodels.CounterRequest{
			Amount: decimal.NewFromInt(120000),
			Notes:  "рыночная ставка выше",
		}, f.recruiterID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusCountered, view.Status)
		require.Equal(t, models.ApplicationStatusCounterPending, f.appStatus(t))

		view, err = f.handler.RespondToCounter(context.Background(), offer.ID, offerapimodels.CounterResponseRequest{
			Accepted:     true,
			ResponseText: "согласовано",
		}, f.recruiterID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusPending, view.Status)
		require.True(t, view.OfferedSalary.Equal(decimal.NewFromInt(120000)))
		require.NotNil(t, view.ResponseDate)
		require.Equal(t, models.ApplicationStatusOfferExtended, f.appStatus(t))
	})
	t.Run(`отклонение встречного предложения закрывает оффер`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)
		_, err := f.handler.RecordCounter(context.Background(), offer.ID, offerapimodels.CounterRequest{Amount: decimal.NewFromInt(150000)}, f.recruiterID)
		require.NoError(t, err)

		view, err := f.handler.RespondToCounter(context.Background(), offer.ID, offerapimodels.CounterResponseRequest{Accepted: false}, f.recruiterID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusRejected, view.Status)
		require.Equal(t, models.ApplicationStatusRejected, f.appStatus(t))
	})
	t.Run(`отклонение встречного предложения возвращает исходную сумму`, func(t *testing.T) {
		policy := models.DefaultPipelinePolicy()
		policy.CounterRejectPolicy = models.CounterRejectPolicyRevert
		f := newFixture(t, policy)
		offer := f.extend(t, 100000, 7*24*time.Hour)
		_, err := f.handler.RecordCounter(context.Background(), offer.ID, offerapimodels.CounterRequest{Amount: decimal.NewFromInt(150000)}, f.recruiterID)
		require.NoError(t, err)

		view, err := f.handler.RespondToCounter(context.Background(), offer.ID, offerapimodels.CounterResponseRequest{Accepted: false}, f.recruiterID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusPending, view.Status)
		require.True(t, view.OfferedSalary.Equal(decimal.NewFromInt(100000)))
		require.Equal(t, models.ApplicationStatusOfferExtended, f.appStatus(t))
	})
	t.Run(`ответ без встречного предложения`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)
		_, err := f.handler.RespondToCounter(context.Background(), offer.ID, offerapimodels.CounterResponseRequest{Accepted: true}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
	})
}

func TestExtendExpiry(t *testing.T) {
	t.Run(`новый срок должен быть позже текущего`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)

		_, err := f.handler.ExtendExpiry(context.Background(), offer.ID, offerapimodels.ExtendExpiryRequest{
			ExpiryDate: offer.ExpiryDate,
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeExpiryNotExtended)

		_, err = f.handler.ExtendExpiry(context.Background(), offer.ID, offerapimodels.ExtendExpiryRequest{
			ExpiryDate: offer.ExpiryDate.Add(-time.Hour),
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeExpiryNotExtended)

		newExpiry := offer.ExpiryDate.Add(72 * time.Hour)
		view, err := f.handler.ExtendExpiry(context.Background(), offer.ID, offerapimodels.ExtendExpiryRequest{
			ExpiryDate: newExpiry,
			Reason:     "кандидат в отпуске",
		}, f.recruiterID)
		require.NoError(t, err)
		require.True(t, view.ExpiryDate.Equal(newExpiry))
		require.Equal(t, int64(2), view.Version)
		require.Contains(t, view.Notes, "кандидат в отпуске")
		require.Equal(t, 1, f.countKind(models.NotificationOfferExpiryExtended))
	})
	t.Run(`одновременное продление`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)

		var barrier sync.WaitGroup
		barrier.Add(2)
		f.db.BeforeUpdate = func(entity, id string) {
			if entity == "offer" {
				barrier.Done()
				barrier.Wait()
			}
		}

		errs := make([]error, 2)
		var wg sync.WaitGroup
		for k := 0; k < 2; k++ {
			wg.Add(1)
			go func(k int) {
				defer wg.Done()
				_, errs[k] = f.handler.ExtendExpiry(context.Background(), offer.ID, offerapimodels.ExtendExpiryRequest{
					ExpiryDate: offer.ExpiryDate.Add(time.Duration(k+1) * 24 * time.Hour),
				}, f.recruiterID)
			}(k)
		}
		wg.Wait()
		f.db.BeforeUpdate = nil

		conflicts := 0
		for _, err := range errs {
			if err == nil {
				continue
			}
			requireCode(t, err, pipelineerrors.CodeConcurrentModification)
			conflicts++
		}
		require.Equal(t, 1, conflicts)
		require.Equal(t, 1, f.countKind(models.NotificationOfferExpiryExtended))
	})
}

func TestAcceptAndDecline(t *testing.T) {
	t.Run(`принятие оффера переводит отклик в HIRED`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)
		view, err := f.handler.Accept(context.Background(), offer.ID, f.recruiterID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusAccepted, view.Status)
		require.Equal(t, models.ApplicationStatusHired, f.appStatus(t))
		require.Equal(t, 2, f.countKind(models.NotificationOfferAccepted))
	})
	t.Run(`истекший оффер нельзя принять`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, time.Hour)
		f.clock.Advance(2 * time.Hour)
		_, err := f.handler.Accept(context.Background(), offer.ID, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
		require.Equal(t, models.ApplicationStatusOfferExtended, f.appStatus(t))
	})
	t.Run(`отказ кандидата`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)
		view, err := f.handler.Decline(context.Background(), offer.ID, "другое предложение", f.recruiterID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusRejected, view.Status)
		require.Equal(t, models.ApplicationStatusWithdrawn, f.appStatus(t))
	})
	t.Run(`отзыв оффера`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)
		view, err := f.handler.Withdraw(context.Background(), offer.ID, "вакансия закрыта", f.recruiterID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusWithdrawn, view.Status)
		require.Equal(t, models.ApplicationStatusRejected, f.appStatus(t))
		app, err := f.db.Stores().Applications.GetByID(f.appID)
		require.NoError(t, err)
		require.NotNil(t, app.RejectionReason)
		require.Contains(t, *app.RejectionReason, "вакансия закрыта")
	})
}

func TestExpiry(t *testing.T) {
	t.Run(`повторное истечение ничего не меняет`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, time.Hour)
		f.clock.Advance(2 * time.Hour)

		view, err := f.handler.MarkExpired(context.Background(), offer.ID, models.SystemUser)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusExpired, view.Status)
		notified := f.countKind(models.NotificationOfferExpired)
		require.Equal(t, 2, notified)

		view, err = f.handler.MarkExpired(context.Background(), offer.ID, models.SystemUser)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusExpired, view.Status)
		require.Equal(t, notified, f.countKind(models.NotificationOfferExpired))
		require.Equal(t, models.ApplicationStatusOfferExtended, f.appStatus(t))
	})
	t.Run(`принятый оффер не истекает`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, time.Hour)
		_, err := f.handler.Accept(context.Background(), offer.ID, f.recruiterID)
		require.NoError(t, err)
		_, err = f.handler.MarkExpired(context.Background(), offer.ID, models.SystemUser)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
	})
	t.Run(`фоновая проверка переводит истекшие офферы`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, time.Hour)

		expired, err := f.handler.SweepExpired(context.Background())
		require.NoError(t, err)
		require.Equal(t, 0, expired)

		f.clock.Advance(time.Hour)
		expired, err = f.handler.SweepExpired(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, expired)

		view, err := f.handler.Get(context.Background(), offer.ID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusExpired, view.Status)
	})
	t.Run(`напоминание отправляется один раз`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)

		sent, err := f.handler.SendExpiryReminders(context.Background())
		require.NoError(t, err)
		require.Equal(t, 0, sent)

		f.clock.Advance(6 * 24 * time.Hour)
		sent, err = f.handler.SendExpiryReminders(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, sent)
		sent, err = f.handler.SendExpiryReminders(context.Background())
		require.NoError(t, err)
		require.Equal(t, 0, sent)
		require.Equal(t, 2, f.countKind(models.NotificationOfferExpiryReminder))

		// продление срока сбрасывает отметку о напоминании
		_, err = f.handler.ExtendExpiry(context.Background(), offer.ID, offerapimodels.ExtendExpiryRequest{
			ExpiryDate: offer.ExpiryDate.Add(24 * time.Hour),
		}, f.recruiterID)
		require.NoError(t, err)
		sent, err = f.handler.SendExpiryReminders(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, sent)
	})
}

func TestOfferLetter(t *testing.T) {
	f := newFixture(t, models.DefaultPipelinePolicy())
	offer := f.extend(t, 100000, 7*24*time.Hour)
	body, err := f.handler.OfferLetter(context.Background(), offer.ID)
	require.NoError(t, err)
	require.True(t, len(body) > 4)
	require.Equal(t, "%PDF", string(body[:4]))
}

func TestClosedApplication(t *testing.T) {
	rejectApplication := func(t *testing.T, f *fixture) {
		apps := applicationhandler.NewInstance(f.db, f.clock, notification.NopKicker{})
		_, err := apps.Reject(context.Background(), f.appID, "вакансия закрыта", f.recruiterID)
		require.NoError(t, err)
	}

	t.Run(`отказ по отклику закрывает встречное предложение`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)
		_, err := f.handler.RecordCounter(context.Background(), offer.ID, offerapimodels.CounterRequest{
			Amount: decimal.NewFromInt(120000),
		}, f.recruiterID)
		require.NoError(t, err)

		rejectApplication(t, f)

		view, err := f.handler.Get(context.Background(), offer.ID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusWithdrawn, view.Status)
		require.Equal(t, models.ApplicationStatusRejected, f.appStatus(t))

		_, err = f.handler.Withdraw(context.Background(), offer.ID, "повтор", f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
		_, err = f.handler.RespondToCounter(context.Background(), offer.ID, offerapimodels.CounterResponseRequest{
			Accepted: true,
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)

		revised := f.countKind(models.NotificationOfferRevised)
		_, err = f.handler.Revise(context.Background(), offer.ID, offerapimodels.ReviseRequest{
			Salary: decimal.NewFromInt(130000),
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
		require.Equal(t, revised, f.countKind(models.NotificationOfferRevised))
	})
	t.Run(`оффер в ожидании по закрытому отклику можно только отозвать`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)
		stores := f.db.Stores()
		app, err := stores.Applications.GetByID(f.appID)
		require.NoError(t, err)
		require.NoError(t, stores.Applications.Update(f.appID, app.Version, map[string]interface{}{
			"Status": models.ApplicationStatusWithdrawn,
		}))

		_, err = f.handler.Revise(context.Background(), offer.ID, offerapimodels.ReviseRequest{
			Salary: decimal.NewFromInt(110000),
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
		_, err = f.handler.ExtendExpiry(context.Background(), offer.ID, offerapimodels.ExtendExpiryRequest{
			ExpiryDate: f.clock.Now().Add(14 * 24 * time.Hour),
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
		_, err = f.handler.RecordCounter(context.Background(), offer.ID, offerapimodels.CounterRequest{
			Amount: decimal.NewFromInt(120000),
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)

		view, err := f.handler.Withdraw(context.Background(), offer.ID, "кандидат отозвал отклик", f.recruiterID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusWithdrawn, view.Status)
		require.Equal(t, models.ApplicationStatusWithdrawn, f.appStatus(t))
	})
	t.Run(`деактивированный отклик`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		offer := f.extend(t, 100000, 7*24*time.Hour)
		stores := f.db.Stores()
		app, err := stores.Applications.GetByID(f.appID)
		require.NoError(t, err)
		require.NoError(t, stores.Applications.Update(f.appID, app.Version, map[string]interface{}{
			"IsActive": false,
		}))
		_, err = f.handler.ExtendExpiry(context.Background(), offer.ID, offerapimodels.ExtendExpiryRequest{
			ExpiryDate: f.clock.Now().Add(14 * 24 * time.Hour),
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
	})
}
