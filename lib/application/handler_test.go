package applicationhandler

import (
	"context"
	"hr-pipeline-backend/lib/notification"
	"hr-pipeline-backend/lib/utils/clock"
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	memorytx "hr-pipeline-backend/lib/utils/tx-manager/memory-tx"
	"hr-pipeline-backend/models"
	applicationapimodels "hr-pipeline-backend/models/api/application"
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
	candidateID string
	positionID  string
	recruiterID string
}

func newFixture(t *testing.T) *fixture {
	db := memorytx.New()
	candidate := db.AddCandidate(dbmodels.Candidate{FirstName: "Мария", LastName: "Сидорова", Email: "maria@example.com"})
	position := db.AddJobPosition(dbmodels.JobPosition{Title: "QA Engineer", IsOpen: true})
	recruiter := db.AddStaffUser(dbmodels.StaffUser{FirstName: "Елена", Email: "elena@example.com", Role: models.RecruiterRole, IsActive: true})
	clk := clock.NewFixed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	return &fixture{
		db:          db,
		clock:       clk,
		handler:     NewInstance(db, clk, notification.NopKicker{}),
		candidateID: candidate.ID,
		positionID:  position.ID,
		recruiterID: recruiter.ID,
	}
}

func (f *fixture) submit(t *testing.T) *applicationapimodels.ApplicationView {
	view, err := f.handler.Submit(context.Background(), applicationapimodels.SubmitRequest{
		CandidateID:   f.candidateID,
		JobPositionID: f.positionID,
	}, f.recruiterID)
	require.NoError(t, err)
	return view
}

func (f *fixture) history(t *testing.T, applicationID string) []dbmodels.ApplicationStatusHistory {
	list, err := f.db.Stores().History.List(applicationID)
	require.NoError(t, err)
	return list
}

func requireCode(t *testing.T, err error, code pipelineerrors.Code) {
	t.Helper()
	require.Error(t, err)
	pErr, ok := pipelineerrors.As(err)
	require.True(t, ok, "ожидалась ошибка конвейера, получено: %v", err)
	require.Equal(t, code, pErr.Code)
}

func TestCanTransition(t *testing.T) {
	t.Run(`переходы по таблице`, func(t *testing.T) {
		require.True(t, CanTransition(models.ApplicationStatusApplied, models.ApplicationStatusScreening))
		require.True(t, CanTransition(models.ApplicationStatusInterviewCompleted, models.ApplicationStatusInterviewScheduled))
		require.True(t, CanTransition(models.ApplicationStatusCounterPending, models.ApplicationStatusOfferExtended))
		require.False(t, CanTransition(models.ApplicationStatusApplied, models.ApplicationStatusInterviewScheduled))
		require.False(t, CanTransition(models.ApplicationStatusScreening, models.ApplicationStatusHired))
	})
	t.Run(`отказ и отзыв из любого нетерминального статуса`, func(t *testing.T) {
		for _, status := range models.ApplicationStatuses {
			expected := !status.IsTerminal()
			require.Equal(t, expected, CanTransition(status, models.ApplicationStatusRejected), status)
			require.Equal(t, expected, CanTransition(status, models.ApplicationStatusWithdrawn), status)
		}
	})
	t.Run(`из терминальных статусов переходов нет`, func(t *testing.T) {
		for _, from := range []models.ApplicationStatus{models.ApplicationStatusHired, models.ApplicationStatusRejected, models.ApplicationStatusWithdrawn} {
			for _, to := range models.ApplicationStatuses {
				require.False(t, CanTransition(from, to), "%s -> %s", from, to)
			}
		}
	})
}

func TestSubmit(t *testing.T) {
	t.Run(`новый отклик`, func(t *testing.T) {
		f := newFixture(t)
		view := f.submit(t)
		require.Equal(t, models.ApplicationStatusApplied, view.Status)
		require.Equal(t, int64(1), view.Version)
		require.True(t, view.IsActive)
		require.Equal(t, "QA Engineer", view.JobTitle)
		require.Empty(t, f.history(t, view.ID))
	})
	t.Run(`повторный отклик на ту же вакансию`, func(t *testing.T) {
		f := newFixture(t)
		f.submit(t)
		_, err := f.handler.Submit(context.Background(), applicationapimodels.SubmitRequest{
			CandidateID:   f.candidateID,
			JobPositionID: f.positionID,
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeApplicationAlreadyExists)
	})
	t.Run(`неизвестный кандидат`, func(t *testing.T) {
		f := newFixture(t)
		_, err := f.handler.Submit(context.Background(), applicationapimodels.SubmitRequest{
			CandidateID:   "unknown",
			JobPositionID: f.positionID,
		}, f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeNotFound)
	})
}

func TestAdvance(t *testing.T) {
	t.Run(`история ведется последовательно`, func(t *testing.T) {
		f := newFixture(t)
		app := f.submit(t)
		_, err := f.handler.AssignReviewer(context.Background(), app.ID, f.recruiterID, f.recruiterID)
		require.NoError(t, err)

		view, err := f.handler.Advance(context.Background(), app.ID, models.ApplicationStatusScreening, f.recruiterID, "резюме подходит")
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusScreening, view.Status)
		require.Equal(t, int64(3), view.Version)

		f.clock.Advance(time.Hour)
		view, err = f.handler.Reject(context.Background(), app.ID, "недостаточно опыта", f.recruiterID)
		require.NoError(t, err)
		require.Equal(t, "недостаточно опыта", *view.RejectionReason)

		history := f.history(t, app.ID)
		require.Len(t, history, 2)
		require.Equal(t, 1, history[0].Sequence)
		require.Equal(t, models.ApplicationStatusApplied, history[0].FromStatus)
		require.Equal(t, models.ApplicationStatusScreening, history[0].ToStatus)
		require.Equal(t, "резюме подходит", history[0].Comment)
		require.Equal(t, 2, history[1].Sequence)
		require.Equal(t, history[0].ToStatus, history[1].FromStatus)
		require.Equal(t, "недостаточно опыта", history[1].Comment)
		require.True(t, history[1].ChangedAt.After(history[0].ChangedAt))

		// ответственный не получает уведомление о своем же действии
		for _, rec := range f.db.Notifications() {
			require.Equal(t, models.RecipientCandidate, rec.RecipientType)
		}
		require.Len(t, f.db.Notifications(), 2)
	})
	t.Run(`недопустимый переход`, func(t *testing.T) {
		f := newFixture(t)
		app := f.submit(t)
		_, err := f.handler.Advance(context.Background(), app.ID, models.ApplicationStatusInterviewCompleted, f.recruiterID, "")
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
		require.Empty(t, f.history(t, app.ID))
		require.Empty(t, f.db.Notifications())
	})
	t.Run(`найм только с принятым оффером`, func(t *testing.T) {
		f := newFixture(t)
		app := f.submit(t)
		err := f.db.Stores().Applications.Update(app.ID, app.Version, map[string]interface{}{"Status": models.ApplicationStatusOfferExtended})
		require.NoError(t, err)
		_, err = f.db.Stores().Offers.Create(dbmodels.JobOffer{
			VersionedModel: dbmodels.VersionedModel{Version: 1},
			ApplicationID:  app.ID,
			OfferedSalary:  decimal.NewFromInt(100000),
			OfferDate:      f.clock.Now(),
			ExpiryDate:     f.clock.Now().Add(72 * time.Hour),
			Status:         models.OfferStatusPending,
		})
		require.NoError(t, err)

		_, err = f.handler.Advance(context.Background(), app.ID, models.ApplicationStatusHired, f.recruiterID, "")
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
		view, err := f.handler.Get(context.Background(), app.ID)
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusOfferExtended, view.Status)
	})
	t.Run(`назначение интервью только через подсистему интервью`, func(t *testing.T) {
		f := newFixture(t)
		app := f.submit(t)
		_, err := f.handler.Advance(context.Background(), app.ID, models.ApplicationStatusScreening, f.recruiterID, "")
		require.NoError(t, err)
		_, err = f.handler.Advance(context.Background(), app.ID, models.ApplicationStatusInterviewScheduled, f.recruiterID, "")
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
	})
	t.Run(`отказ без причины`, func(t *testing.T) {
		f := newFixture(t)
		app := f.submit(t)
		_, err := f.handler.Reject(context.Background(), app.ID, "  ", f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeReasonRequired)
	})
	t.Run(`терминальный статус`, func(t *testing.T) {
		f := newFixture(t)
		app := f.submit(t)
		_, err := f.handler.Withdraw(context.Background(), app.ID, "нашел другую работу", f.candidateID)
		require.NoError(t, err)
		_, err = f.handler.Advance(context.Background(), app.ID, models.ApplicationStatusScreening, f.recruiterID, "")
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
		_, err = f.handler.Reject(context.Background(), app.ID, "повтор", f.recruiterID)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
	})
	t.Run(`деактивированный отклик`, func(t *testing.T) {
		f := newFixture(t)
		app := f.submit(t)
		require.NoError(t, f.handler.Deactivate(context.Background(), app.ID, f.recruiterID))
		_, err := f.handler.Advance(context.Background(), app.ID, models.ApplicationStatusScreening, f.recruiterID, "")
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
	})
	t.Run(`неизвестный отклик`, func(t *testing.T) {
		f := newFixture(t)
		_, err := f.handler.Advance(context.Background(), "unknown", models.ApplicationStatusScreening, f.recruiterID, "")
		requireCode(t, err, pipelineerrors.CodeNotFound)
	})
}

func TestConcurrentTransitions(t *testing.T) {
	f := newFixture(t)
	app := f.submit(t)

	var barrier sync.WaitGroup
	barrier.Add(2)
	f.db.BeforeUpdate = func(entity, id string) {
		if entity == "application" {
			barrier.Done()
			barrier.Wait()
		}
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for n := 0; n < 2; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = f.handler.Advance(context.Background(), app.ID, models.ApplicationStatusScreening, f.recruiterID, "")
		}(n)
	}
	wg.Wait()

	conflicts := 0
	for _, err := range errs {
		if err != nil {
			requireCode(t, err, pipelineerrors.CodeConcurrentModification)
			conflicts++
		}
	}
	require.Equal(t, 1, conflicts)
	require.Len(t, f.history(t, app.ID), 1)
}

func TestClosingApplication(t *testing.T) {
	prepare := func(t *testing.T, f *fixture) (appID, interviewID, offerID, interviewerID string) {
		app := f.submit(t)
		_, err := f.handler.Advance(context.Background(), app.ID, models.ApplicationStatusScreening, f.recruiterID, "")
		require.NoError(t, err)
		interviewer := f.db.AddStaffUser(dbmodels.StaffUser{FirstName: "Олег", Email: "oleg@example.com", Role: models.InterviewerRole, IsActive: true})
		stores := f.db.Stores()
		interviewID, err = stores.Interviews.Create(dbmodels.Interview{
			ApplicationID:   app.ID,
			RoundNumber:     1,
			Title:           "Техническое интервью",
			Status:          models.InterviewStatusScheduled,
			ScheduledAt:     f.clock.Now().Add(48 * time.Hour),
			DurationMinutes: 60,
			IsActive:        true,
		})
		require.NoError(t, err)
		_, err = stores.Participants.Create(dbmodels.InterviewParticipant{InterviewID: interviewID, ParticipantID: interviewer.ID, IsLead: true})
		require.NoError(t, err)
		offerID, err = stores.Offers.Create(dbmodels.JobOffer{
			ApplicationID: app.ID,
			OfferedSalary: decimal.NewFromInt(90000),
			OfferDate:     f.clock.Now(),
			ExpiryDate:    f.clock.Now().Add(7 * 24 * time.Hour),
			Status:        models.OfferStatusCountered,
			ExtendedBy:    f.recruiterID,
		})
		require.NoError(t, err)
		return app.ID, interviewID, offerID, interviewer.ID
	}
	countFor := func(f *fixture, kind models.NotificationKind, recipientID string) int {
		count := 0
		for _, rec := range f.db.Notifications() {
			if rec.Kind == kind && rec.RecipientID == recipientID {
				count++
			}
		}
		return count
	}

	t.Run(`отказ закрывает оффер и отменяет назначенные интервью`, func(t *testing.T) {
		f := newFixture(t)
		appID, interviewID, offerID, interviewerID := prepare(t, f)

		_, err := f.handler.Reject(context.Background(), appID, "не прошел проверку", f.recruiterID)
		require.NoError(t, err)

		stores := f.db.Stores()
		offer, err := stores.Offers.GetByID(offerID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusWithdrawn, offer.Status)
		require.Contains(t, offer.Notes, "не прошел проверку")
		interview, err := stores.Interviews.GetByID(interviewID)
		require.NoError(t, err)
		require.Equal(t, models.InterviewStatusCancelled, interview.Status)
		require.Contains(t, interview.CancelReason, "не прошел проверку")
		require.Equal(t, 1, countFor(f, models.NotificationInterviewCancelled, interviewerID))
	})
	t.Run(`отзыв отклика кандидатом`, func(t *testing.T) {
		f := newFixture(t)
		appID, interviewID, offerID, _ := prepare(t, f)

		_, err := f.handler.Withdraw(context.Background(), appID, "нашел другую работу", f.candidateID)
		require.NoError(t, err)

		stores := f.db.Stores()
		offer, err := stores.Offers.GetByID(offerID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusWithdrawn, offer.Status)
		interview, err := stores.Interviews.GetByID(interviewID)
		require.NoError(t, err)
		require.Equal(t, models.InterviewStatusCancelled, interview.Status)
	})
	t.Run(`проведенные интервью и закрытый оффер не меняются`, func(t *testing.T) {
		f := newFixture(t)
		appID, interviewID, offerID, interviewerID := prepare(t, f)
		stores := f.db.Stores()
		require.NoError(t, stores.Interviews.Update(interviewID, 1, map[string]interface{}{"Status": models.InterviewStatusCompleted}))
		require.NoError(t, stores.Offers.Update(offerID, 1, map[string]interface{}{"Status": models.OfferStatusRejected}))

		_, err := f.handler.Reject(context.Background(), appID, "не подходит", f.recruiterID)
		require.NoError(t, err)

		offer, err := stores.Offers.GetByID(offerID)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusRejected, offer.Status)
		require.Equal(t, int64(2), offer.Version)
		interview, err := stores.Interviews.GetByID(interviewID)
		require.NoError(t, err)
		require.Equal(t, models.InterviewStatusCompleted, interview.Status)
		require.Equal(t, 0, countFor(f, models.NotificationInterviewCancelled, interviewerID))
	})
}
