package interviewhandler

import (
	"context"
	"hr-pipeline-backend/lib/notification"
	"hr-pipeline-backend/lib/utils/clock"
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	memorytx "hr-pipeline-backend/lib/utils/tx-manager/memory-tx"
	"hr-pipeline-backend/models"
	interviewapimodels "hr-pipeline-backend/models/api/interview"
	dbmodels "hr-pipeline-backend/models/db"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	db      *memorytx.DB
	clock   *clock.Fixed
	handler Provider
	appID   string
	lead    string
	member  string
	other   string
}

func newFixture(t *testing.T, policy models.PipelinePolicy) *fixture {
	db := memorytx.New()
	clk := clock.NewFixed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	candidate := db.AddCandidate(dbmodels.Candidate{FirstName: "Иван", LastName: "Петров", Email: "ivan@example.com"})
	position := db.AddJobPosition(dbmodels.JobPosition{Title: "Backend Engineer", IsOpen: true})
	lead := db.AddStaffUser(dbmodels.StaffUser{FirstName: "Анна", Email: "anna@example.com", Role: models.HiringManagerRole, IsActive: true})
	member := db.AddStaffUser(dbmodels.StaffUser{FirstName: "Петр", Email: "petr@example.com", Role: models.InterviewerRole, IsActive: true})
	other := db.AddStaffUser(dbmodels.StaffUser{FirstName: "Ольга", Email: "olga@example.com", Role: models.InterviewerRole, IsActive: true})
	appID, err := db.Stores().Applications.Create(dbmodels.JobApplication{
		CandidateID:   candidate.ID,
		JobPositionID: position.ID,
		Status:        models.ApplicationStatusScreening,
		AppliedAt:     clk.Now().Add(-72 * time.Hour),
		IsActive:      true,
	})
	require.NoError(t, err)
	return &fixture{
		db:      db,
		clock:   clk,
		handler: NewInstance(db, clk, notification.NopKicker{}, policy),
		appID:   appID,
		lead:    lead.ID,
		member:  member.ID,
		other:   other.ID,
	}
}

func (f *fixture) scheduleRequest(round int) interviewapimodels.ScheduleRequest {
	return interviewapimodels.ScheduleRequest{
		RoundNumber:     round,
		Title:           "Техническое интервью",
		InterviewType:   models.InterviewTypeTechnical,
		ScheduledAt:     f.clock.Now().Add(24 * time.Hour),
		DurationMinutes: 60,
		Mode:            models.InterviewModeVideo,
		MeetingDetails:  "https://meet.example.com/abc",
		Participants: []interviewapimodels.ParticipantData{
			{ParticipantID: f.lead, Role: "Hiring manager", IsLead: true},
			{ParticipantID: f.member, Role: "Engineer"},
		},
	}
}

func (f *fixture) schedule(t *testing.T, round int) *interviewapimodels.InterviewView {
	view, err := f.handler.Schedule(context.Background(), f.appID, f.scheduleRequest(round), f.lead)
	require.NoError(t, err)
	return view
}

func (f *fixture) appStatus(t *testing.T) models.ApplicationStatus {
	app, err := f.db.Stores().Applications.GetByID(f.appID)
	require.NoError(t, err)
	return app.Status
}

func (f *fixture) notifications(kind models.NotificationKind, recipientType models.RecipientType) []dbmodels.NotificationOutbox {
	list := []dbmodels.NotificationOutbox{}
	for _, rec := range f.db.Notifications() {
		if rec.Kind == kind && rec.RecipientType == recipientType {
			list = append(list, rec)
		}
	}
	return list
}

func (f *fixture) evaluate(t *testing.T, interviewID, evaluatorID string, recommendation models.Recommendation) *interviewapimodels.EvaluationSummaryView {
	rating := 4
	summary, err := f.handler.SubmitEvaluation(context.Background(), interviewID, interviewapimodels.EvaluationRequest{
		EvaluatorID:    evaluatorID,
		Rating:         &rating,
		Recommendation: recommendation,
	}, evaluatorID)
	require.NoError(t, err)
	return summary
}

func requireCode(t *testing.T, err error, code pipelineerrors.Code) {
	t.Helper()
	require.Error(t, err)
	pErr, ok := pipelineerrors.As(err)
	require.True(t, ok, "ожидалась ошибка конвейера, получено: %v", err)
	require.Equal(t, code, pErr.Code)
}

func TestSchedule(t *testing.T) {
	t.Run(`назначение первого раунда и повтор того же раунда`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		view := f.schedule(t, 1)
		require.Equal(t, models.InterviewStatusScheduled, view.Status)
		require.Len(t, view.Participants, 2)
		require.Equal(t, models.ApplicationStatusInterviewScheduled, f.appStatus(t))
		require.Len(t, f.notifications(models.NotificationInterviewScheduled, models.RecipientStaff), 2)
		require.Len(t, f.notifications(models.NotificationInterviewScheduled, models.RecipientCandidate), 1)

		_, err := f.handler.Schedule(context.Background(), f.appID, f.scheduleRequest(1), f.lead)
		requireCode(t, err, pipelineerrors.CodeDuplicateRound)
	})
	t.Run(`пропуск номера раунда`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		f.schedule(t, 1)
		_, err := f.handler.Schedule(context.Background(), f.appID, f.scheduleRequest(3), f.lead)
		requireCode(t, err, pipelineerrors.CodeInvalidRoundNumber)
		f.schedule(t, 2)
	})
	t.Run(`раунд должен начинаться с единицы`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		_, err := f.handler.Schedule(context.Background(), f.appID, f.scheduleRequest(2), f.lead)
		requireCode(t, err, pipelineerrors.CodeInvalidRoundNumber)
		_, err = f.handler.Schedule(context.Background(), f.appID, f.scheduleRequest(0), f.lead)
		requireCode(t, err, pipelineerrors.CodeInvalidRoundNumber)
	})
	t.Run(`раунд отмененного интервью занят`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		view := f.schedule(t, 1)
		_, err := f.handler.Cancel(context.Background(), view.ID, "кандидат заболел", f.lead)
		require.NoError(t, err)
		_, err = f.handler.Schedule(context.Background(), f.appID, f.scheduleRequest(1), f.lead)
		requireCode(t, err, pipelineerrors.CodeDuplicateRound)
		f.schedule(t, 2)
	})
	t.Run(`без ведущего интервьюера`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		req := f.scheduleRequest(1)
		req.Participants[0].IsLead = false
		_, err := f.handler.Schedule(context.Background(), f.appID, req, f.lead)
		requireCode(t, err, pipelineerrors.CodeNoLeadDesignated)

		req = f.scheduleRequest(1)
		req.Participants[1].IsLead = true
		_, err = f.handler.Schedule(context.Background(), f.appID, req, f.lead)
		requireCode(t, err, pipelineerrors.CodeNoLeadDesignated)

		req = f.scheduleRequest(1)
		req.Participants = nil
		_, err = f.handler.Schedule(context.Background(), f.appID, req, f.lead)
		requireCode(t, err, pipelineerrors.CodeNoLeadDesignated)
	})
	t.Run(`повтор участника`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		req := f.scheduleRequest(1)
		req.Participants[1].ParticipantID = f.lead
		_, err := f.handler.Schedule(context.Background(), f.appID, req, f.lead)
		requireCode(t, err, pipelineerrors.CodeDuplicateParticipant)
	})
	t.Run(`время в прошлом`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		req := f.scheduleRequest(1)
		req.ScheduledAt = f.clock.Now().Add(-time.Minute)
		_, err := f.handler.Schedule(context.Background(), f.appID, req, f.lead)
		requireCode(t, err, pipelineerrors.CodeInvalidArgument)
		require.Equal(t, models.ApplicationStatusScreening, f.appStatus(t))
	})
	t.Run(`отклик в неподходящем статусе`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		err := f.db.Stores().Applications.Update(f.appID, 1, map[string]interface{}{"Status": models.ApplicationStatusApplied})
		require.NoError(t, err)
		_, err = f.handler.Schedule(context.Background(), f.appID, f.scheduleRequest(1), f.lead)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
	})
}

func TestReschedule(t *testing.T) {
	f := newFixture(t, models.DefaultPipelinePolicy())
	view := f.schedule(t, 1)
	newTime := view.ScheduledAt.Add(48 * time.Hour)

	updated, err := f.handler.Reschedule(context.Background(), view.ID, interviewapimodels.RescheduleRequest{
		ScheduledAt: newTime,
		Reason:      "занятость интервьюера",
	}, f.lead)
	require.NoError(t, err)
	require.True(t, updated.ScheduledAt.Equal(newTime))
	require.Equal(t, 1, updated.RescheduleCount)
	require.Equal(t, view.Version+1, updated.Version)

	staff := f.notifications(models.NotificationInterviewRescheduled, models.RecipientStaff)
	require.Len(t, staff, 2)
	candidate := f.notifications(models.NotificationInterviewRescheduled, models.RecipientCandidate)
	require.Len(t, candidate, 1)
	require.Equal(t, view.ScheduledAt.Format(notification.DateTimeLayout), candidate[0].Params[notification.ParamPreviousTime])

	_, err = f.handler.Cancel(context.Background(), view.ID, "", f.lead)
	require.NoError(t, err)
	_, err = f.handler.Reschedule(context.Background(), view.ID, interviewapimodels.RescheduleRequest{ScheduledAt: newTime.Add(time.Hour)}, f.lead)
	requireCode(t, err, pipelineerrors.CodeInvalidTransition)
}

func TestCompleteAndEvaluate(t *testing.T) {
	t.Run(`напоминания об оценке только тем, кто не оценил`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		view := f.schedule(t, 1)
		f.clock.Advance(25 * time.Hour)
		f.evaluate(t, view.ID, f.lead, models.RecommendationHire)

		completed, err := f.handler.Complete(context.Background(), view.ID, interviewapimodels.CompleteRequest{
			Outcome: models.InterviewOutcomePassed,
			Summary: "сильный кандидат",
		}, f.lead)
		require.NoError(t, err)
		require.Equal(t, models.InterviewStatusCompleted, completed.Status)
		reminders := f.notifications(models.NotificationEvaluationReminder, models.RecipientStaff)
		require.Len(t, reminders, 1)
		require.Equal(t, f.member, reminders[0].RecipientID)
		require.Equal(t, models.ApplicationStatusInterviewScheduled, f.appStatus(t))

		_, err = f.handler.Complete(context.Background(), view.ID, interviewapimodels.CompleteRequest{}, f.lead)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)
	})
	t.Run(`повторная оценка`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		view := f.schedule(t, 1)
		f.clock.Advance(25 * time.Hour)
		f.evaluate(t, view.ID, f.member, models.RecommendationNoHire)
		_, err := f.handler.SubmitEvaluation(context.Background(), view.ID, interviewapimodels.EvaluationRequest{
			EvaluatorID:    f.member,
			Recommendation: models.RecommendationHire,
		}, f.member)
		requireCode(t, err, pipelineerrors.CodeDuplicateEvaluation)
	})
	t.Run(`оценка до начала интервью и не участником`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		view := f.schedule(t, 1)
		_, err := f.handler.SubmitEvaluation(context.Background(), view.ID, interviewapimodels.EvaluationRequest{
			Recommendation: models.RecommendationHire,
		}, f.lead)
		requireCode(t, err, pipelineerrors.CodeInvalidTransition)

		f.clock.Advance(25 * time.Hour)
		_, err = f.handler.SubmitEvaluation(context.Background(), view.ID, interviewapimodels.EvaluationRequest{
			Recommendation: models.RecommendationHire,
		}, f.other)
		requireCode(t, err, pipelineerrors.CodeParticipantNotFound)
	})
	t.Run(`автоматический переход по положительному решению`, func(t *testing.T) {
		policy := models.DefaultPipelinePolicy()
		policy.AutoAdvanceOnEvaluations = true
		f := newFixture(t, policy)
		view := f.schedule(t, 1)
		f.clock.Advance(25 * time.Hour)
		_, err := f.handler.Complete(context.Background(), view.ID, interviewapimodels.CompleteRequest{Outcome: models.InterviewOutcomePassed}, f.lead)
		require.NoError(t, err)

		summary := f.evaluate(t, view.ID, f.lead, models.RecommendationStrongHire)
		require.False(t, summary.QuorumReached)
		require.Equal(t, models.ApplicationStatusInterviewScheduled, f.appStatus(t))

		summary = f.evaluate(t, view.ID, f.member, models.RecommendationHire)
		require.True(t, summary.QuorumReached)
		require.Equal(t, models.VerdictHire, summary.Verdict)
		require.Equal(t, models.ApplicationStatusInterviewCompleted, f.appStatus(t))
	})
	t.Run(`автоматический отказ по отрицательному решению`, func(t *testing.T) {
		policy := models.DefaultPipelinePolicy()
		policy.AutoAdvanceOnEvaluations = true
		policy.EvaluationQuorum = models.EvaluationQuorumLead
		f := newFixture(t, policy)
		view := f.schedule(t, 1)
		f.clock.Advance(25 * time.Hour)
		_, err := f.handler.Complete(context.Background(), view.ID, interviewapimodels.CompleteRequest{}, f.lead)
		require.NoError(t, err)

		summary := f.evaluate(t, view.ID, f.lead, models.RecommendationNoHire)
		require.Equal(t, models.VerdictNoHire, summary.Verdict)
		require.Equal(t, models.ApplicationStatusRejected, f.appStatus(t))
		app, err := f.db.Stores().Applications.GetByID(f.appID)
		require.NoError(t, err)
		require.Equal(t, negativeVerdictReason, *app.RejectionReason)
	})
	t.Run(`одновременные оценки не теряют кворум`, func(t *testing.T) {
		policy := models.DefaultPipelinePolicy()
		policy.AutoAdvanceOnEvaluations = true
		f := newFixture(t, policy)
		view := f.schedule(t, 1)
		f.clock.Advance(25 * time.Hour)
		_, err := f.handler.Complete(context.Background(), view.ID, interviewapimodels.CompleteRequest{Outcome: models.InterviewOutcomePassed}, f.lead)
		require.NoError(t, err)

		var barrier sync.WaitGroup
		barrier.Add(2)
		f.db.BeforeUpdate = func(entity, id string) {
			if entity == "interview" {
				barrier.Done()
				barrier.Wait()
			}
		}
		evaluators := []string{f.lead, f.member}
		errs := make([]error, len(evaluators))
		var wg sync.WaitGroup
		for k, evaluatorID := range evaluators {
			wg.Add(1)
			go func(k int, evaluatorID string) {
				defer wg.Done()
				_, errs[k] = f.handler.SubmitEvaluation(context.Background(), view.ID, interviewapimodels.EvaluationRequest{
					EvaluatorID:    evaluatorID,
					Recommendation: models.RecommendationHire,
				}, evaluatorID)
			}(k, evaluatorID)
		}
		wg.Wait()
		f.db.BeforeUpdate = nil

		retry := ""
		for k, err := range errs {
			if err == nil {
				continue
			}
			requireCode(t, err, pipelineerrors.CodeConcurrentModification)
			require.Empty(t, retry)
			retry = evaluators[k]
		}
		require.NotEmpty(t, retry)
		require.Equal(t, models.ApplicationStatusInterviewScheduled, f.appStatus(t))

		summary := f.evaluate(t, view.ID, retry, models.RecommendationHire)
		require.True(t, summary.QuorumReached)
		require.Equal(t, models.ApplicationStatusInterviewCompleted, f.appStatus(t))
	})
	t.Run(`без автоперехода статус не меняется`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		view := f.schedule(t, 1)
		f.clock.Advance(25 * time.Hour)
		_, err := f.handler.Complete(context.Background(), view.ID, interviewapimodels.CompleteRequest{}, f.lead)
		require.NoError(t, err)
		f.evaluate(t, view.ID, f.lead, models.RecommendationHire)
		summary := f.evaluate(t, view.ID, f.member, models.RecommendationHire)
		require.Equal(t, models.VerdictHire, summary.Verdict)
		require.Equal(t, models.ApplicationStatusInterviewScheduled, f.appStatus(t))
	})
}

func TestParticipants(t *testing.T) {
	t.Run(`смена ведущего`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		view := f.schedule(t, 1)

		updated, err := f.handler.ReassignLead(context.Background(), view.ID, f.member, f.lead)
		require.NoError(t, err)
		leads := []string{}
		for _, p := range updated.Participants {
			if p.IsLead {
				leads = append(leads, p.ParticipantID)
			}
		}
		require.Equal(t, []string{f.member}, leads)
		assigned := f.notifications(models.NotificationLeadAssigned, models.RecipientStaff)
		require.Len(t, assigned, 1)
		require.Equal(t, f.member, assigned[0].RecipientID)

		// повторное назначение текущего ведущего ничего не меняет
		again, err := f.handler.ReassignLead(context.Background(), view.ID, f.member, f.lead)
		require.NoError(t, err)
		require.Equal(t, updated.Version, again.Version)
		require.Len(t, f.notifications(models.NotificationLeadAssigned, models.RecipientStaff), 1)
	})
	t.Run(`ведущим может быть только участник`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		view := f.schedule(t, 1)
		_, err := f.handler.ReassignLead(context.Background(), view.ID, f.other, f.lead)
		requireCode(t, err, pipelineerrors.CodeParticipantNotFound)
	})
	t.Run(`добавление участника`, func(t *testing.T) {
		f := newFixture(t, models.DefaultPipelinePolicy())
		view := f.schedule(t, 1)

		_, err := f.handler.AddParticipant(context.Background(), view.ID, interviewapimodels.ParticipantData{ParticipantID: f.other, IsLead: true}, f.lead)
		requireCode(t, err, pipelineerrors.CodeNoLeadDesignated)

		_, err = f.handler.AddParticipant(context.Background(), view.ID, interviewapimodels.ParticipantData{ParticipantID: f.member}, f.lead)
		requireCode(t, err, pipelineerrors.CodeDuplicateParticipant)

		updated, err := f.handler.AddParticipant(context.Background(), view.ID, interviewapimodels.ParticipantData{ParticipantID: f.other, Role: "Observer"}, f.lead)
		require.NoError(t, err)
		require.Len(t, updated.Participants, 3)
	})
}

func TestAggregate(t *testing.T) {
	participants := []dbmodels.InterviewParticipant{
		{ParticipantID: "lead", IsLead: true},
		{ParticipantID: "a"},
		{ParticipantID: "b"},
	}
	evaluation := func(evaluator string, recommendation models.Recommendation) dbmodels.InterviewEvaluation {
		return dbmodels.InterviewEvaluation{EvaluatorID: evaluator, Recommendation: recommendation}
	}

	t.Run(`кворум всех участников`, func(t *testing.T) {
		summary := Aggregate("i", participants, []dbmodels.InterviewEvaluation{
			evaluation("lead", models.RecommendationHire),
			evaluation("a", models.RecommendationHire),
		}, models.EvaluationQuorumAll)
		require.False(t, summary.QuorumReached)
		require.Equal(t, models.VerdictPending, summary.Verdict)
		require.Equal(t, []string{"b"}, summary.Pending)
	})
	t.Run(`решительное нет перевешивает`, func(t *testing.T) {
		summary := Aggregate("i", participants, []dbmodels.InterviewEvaluation{
			evaluation("lead", models.RecommendationStrongHire),
			evaluation("a", models.RecommendationHire),
			evaluation("b", models.RecommendationStrongNoHire),
		}, models.EvaluationQuorumAll)
		require.True(t, summary.QuorumReached)
		require.Equal(t, models.VerdictNoHire, summary.Verdict)
		require.Equal(t, 1, summary.Tally[models.RecommendationStrongNoHire])
	})
	t.Run(`большинство и равенство голосов`, func(t *testing.T) {
		summary := Aggregate("i", participants, []dbmodels.InterviewEvaluation{
			evaluation("a", models.RecommendationHire),
			evaluation("b", models.RecommendationNoHire),
		}, models.EvaluationQuorumMajority)
		require.True(t, summary.QuorumReached)
		require.Equal(t, models.VerdictUndecided, summary.Verdict)
		require.False(t, summary.LeadEvaluated)
	})
	t.Run(`решение ведущего`, func(t *testing.T) {
		summary := Aggregate("i", participants, []dbmodels.InterviewEvaluation{
			evaluation("lead", models.RecommendationHire),
			evaluation("a", models.RecommendationStrongNoHire),
		}, models.EvaluationQuorumLead)
		require.True(t, summary.QuorumReached)
		require.Equal(t, models.VerdictHire, summary.Verdict)
	})
	t.Run(`средняя оценка`, func(t *testing.T) {
		three, five := 3, 5
		summary := Aggregate("i", participants, []dbmodels.InterviewEvaluation{
			{EvaluatorID: "lead", Recommendation: models.RecommendationHire, Rating: &three},
			{EvaluatorID: "a", Recommendation: models.RecommendationHire, Rating: &five},
			{EvaluatorID: "b", Recommendation: models.RecommendationHire},
		}, models.EvaluationQuorumAll)
		require.NotNil(t, summary.AverageRating)
		require.Equal(t, 4.0, *summary.AverageRating)
	})
}
