package interviewhandler

import (
	"context"
	"fmt"
	applicationhandler "hr-pipeline-backend/lib/application"
	"hr-pipeline-backend/lib/notification"
	"hr-pipeline-backend/lib/utils/clock"
	"hr-pipeline-backend/lib/utils/metrics"
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	txmanager "hr-pipeline-backend/lib/utils/tx-manager"
	"hr-pipeline-backend/models"
	interviewapimodels "hr-pipeline-backend/models/api/interview"
	dbmodels "hr-pipeline-backend/models/db"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Schedule(ctx context.Context, applicationID string, req interviewapimodels.ScheduleRequest, actorID string) (*interviewapimodels.InterviewView, error)
	Reschedule(ctx context.Context, interviewID string, req interviewapimodels.RescheduleRequest, actorID string) (*interviewapimodels.InterviewView, error)
	Cancel(ctx context.Context, interviewID, reason, actorID string) (*interviewapimodels.InterviewView, error)
	Complete(ctx context.Context, interviewID string, req interviewapimodels.CompleteRequest, actorID string) (*interviewapimodels.InterviewView, error)
	MarkNoShow(ctx context.Context, interviewID, actorID string) (*interviewapimodels.InterviewView, error)
	AddParticipant(ctx context.Context, interviewID string, req interviewapimodels.ParticipantData, actorID string) (*interviewapimodels.InterviewView, error)
	ReassignLead(ctx context.Context, interviewID, participantID, actorID string) (*interviewapimodels.InterviewView, error)
	SubmitEvaluation(ctx context.Context, interviewID string, req interviewapimodels.EvaluationRequest, actorID string) (*interviewapimodels.EvaluationSummaryView, error)
	EvaluationSummary(ctx context.Context, interviewID string) (*interviewapimodels.EvaluationSummaryView, error)
	Get(ctx context.Context, interviewID string) (*interviewapimodels.InterviewView, error)
	ListByApplication(ctx context.Context, applicationID string) ([]interviewapimodels.InterviewView, error)
}

var Instance Provider

// negativeVerdictReason причина отказа при автоматическом переходе по итогам оценок
const negativeVerdictReason = "negative interview verdict"

func NewHandler(policy models.PipelinePolicy) {
	Instance = NewInstance(txmanager.Instance, clock.Instance, notification.Instance, policy)
}

func NewInstance(tx txmanager.Provider, clk clock.Provider, notifier notification.Kicker, policy models.PipelinePolicy) Provider {
	return impl{
		tx:       tx,
		clock:    clk,
		notifier: notifier,
		policy:   policy,
	}
}

type impl struct {
	tx       txmanager.Provider
	clock    clock.Provider
	notifier notification.Kicker
	policy   models.PipelinePolicy
}

func (i impl) getLogger(interviewID, actorID string) *log.Entry {
	logger := log.
		WithField("interview_id", interviewID).
		WithField("actor_id", actorID)
	return logger
}

// interviewChange изменение интервью внутри транзакции
type interviewChange struct {
	stores    txmanager.Stores
	interview dbmodels.Interview
	app       dbmodels.JobApplication
	now       time.Time
	moved     *dbmodels.JobApplication
}

func (c *interviewChange) update(updMap map[string]interface{}) error {
	if err := c.stores.Interviews.Update(c.interview.ID, c.interview.Version, updMap); err != nil {
		return err
	}
	c.interview.Version++
	return nil
}

func (c *interviewChange) params() dbmodels.NotificationParams {
	params := applicationhandler.ApplicationParams(c.app)
	params[notification.ParamInterviewID] = c.interview.ID
	params[notification.ParamInterviewTitle] = c.interview.Title
	params[notification.ParamRound] = strconv.Itoa(c.interview.RoundNumber)
	params[notification.ParamScheduledAt] = c.interview.ScheduledAt.Format(notification.DateTimeLayout)
	params[notification.ParamDuration] = strconv.Itoa(c.interview.DurationMinutes)
	params[notification.ParamMode] = string(c.interview.Mode)
	params[notification.ParamMeetingDetails] = c.interview.MeetingDetails
	params[notification.ParamInstructions] = c.interview.Instructions
	return params
}

func (c *interviewChange) notifyCandidate(kind models.NotificationKind, params dbmodels.NotificationParams) error {
	return c.stores.Outbox.Enqueue(dbmodels.NewNotification(kind, models.RecipientCandidate, c.app.CandidateID, c.app.ID, c.now, params))
}

func (c *interviewChange) notifyStaff(kind models.NotificationKind, participantIDs []string, params dbmodels.NotificationParams) error {
	recs := make([]dbmodels.NotificationOutbox, 0, len(participantIDs))
	for _, id := range participantIDs {
		recs = append(recs, dbmodels.NewNotification(kind, models.RecipientStaff, id, c.app.ID, c.now, params))
	}
	return c.stores.Outbox.Enqueue(recs...)
}

func (c *interviewChange) participantIDs() ([]string, error) {
	list, err := c.stores.Participants.List(c.interview.ID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения участников интервью")
	}
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ParticipantID)
	}
	return ids, nil
}

func (c *interviewChange) requireScheduled(operation string) error {
	if c.interview.Status != models.InterviewStatusScheduled {
		return pipelineerrors.InvalidTransition("%s возможно только для назначенного интервью, текущий статус: %s", operation, c.interview.Status)
	}
	return nil
}

func loadInterview(stores txmanager.Stores, interviewID string) (*dbmodels.Interview, error) {
	rec, err := stores.Interviews.GetByID(interviewID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения интервью")
	}
	if rec == nil {
		return nil, pipelineerrors.NotFound("интервью", interviewID)
	}
	return rec, nil
}

// mutate выполняет fn в транзакции над интервью и его откликом и возвращает перечитанное интервью
func (i impl) mutate(ctx context.Context, interviewID, actorID string, fn func(c *interviewChange) error) (*interviewapimodels.InterviewView, error) {
	var (
		result *dbmodels.Interview
		moved  *dbmodels.JobApplication
	)
	err := i.tx.InTx(ctx, func(stores txmanager.Stores) error {
		interview, err := loadInterview(stores, interviewID)
		if err != nil {
			return err
		}
		app, err := applicationhandler.LoadForUpdate(stores, interview.ApplicationID)
		if err != nil {
			return err
		}
		change := &interviewChange{
			stores:    stores,
			interview: *interview,
			app:       *app,
			now:       i.clock.Now(),
		}
		if err = fn(change); err != nil {
			return err
		}
		moved = change.moved
		result, err = loadInterview(stores, interviewID)
		return err
	})
	if err != nil {
		countError(err)
		return nil, err
	}
	i.committed(moved)
	i.getLogger(interviewID, actorID).
		WithField("status", result.Status).
		Info("интервью изменено")
	view := interviewapimodels.InterviewConvert(*result)
	return &view, nil
}

func (i impl) committed(moved *dbmodels.JobApplication) {
	i.notifier.Kick()
	applicationhandler.TransitionCommitted(moved)
}

func countError(err error) {
	if pErr, ok := pipelineerrors.As(err); ok {
		metrics.PipelineErrors.WithLabelValues(string(pErr.Code)).Inc()
	}
}

var schedulableStatuses = map[models.ApplicationStatus]bool{
	models.ApplicationStatusScreening:          true,
	models.ApplicationStatusInterviewScheduled: true,
	models.ApplicationStatusInterviewCompleted: true,
}

func (i impl) Schedule(ctx context.Context, applicationID string, req interviewapimodels.ScheduleRequest, actorID string) (*interviewapimodels.InterviewView, error) {
	if err := req.Validate(); err != nil {
		countError(err)
		return nil, err
	}
	var (
		interviewID string
		moved       *dbmodels.JobApplication
	)
	err := i.tx.InTx(ctx, func(stores txmanager.Stores) error {
		now := i.clock.Now()
		app, err := applicationhandler.LoadForUpdate(stores, applicationID)
		if err != nil {
			return err
		}
		if !app.IsActive || !schedulableStatuses[app.Status] {
			return pipelineerrors.InvalidTransition("интервью не может быть назначено для отклика в статусе %s", app.Status)
		}
		if !req.ScheduledAt.After(now) {
			return pipelineerrors.InvalidArgument("время интервью должно быть в будущем")
		}
		maxRound, err := stores.Interviews.MaxRound(applicationID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения номера раунда")
		}
		if req.RoundNumber <= maxRound {
			return pipelineerrors.DuplicateRound(req.RoundNumber)
		}
		if req.RoundNumber != maxRound+1 {
			return pipelineerrors.InvalidRoundNumber(req.RoundNumber, maxRound+1)
		}
		for _, p := range req.Participants {
			user, err := stores.Directory.GetStaffUser(p.ParticipantID)
			if err != nil {
				return err
			}
			if user == nil || !user.IsActive {
				return pipelineerrors.NotFound("сотрудник", p.ParticipantID)
			}
		}

		title := req.Title
		if title == "" {
			title = fmt.Sprintf("Интервью, раунд %d", req.RoundNumber)
		}
		rec := dbmodels.Interview{
			VersionedModel:  dbmodels.VersionedModel{Version: 1},
			ApplicationID:   applicationID,
			RoundNumber:     req.RoundNumber,
			Title:           title,
			InterviewType:   req.InterviewType,
			Status:          models.InterviewStatusScheduled,
			ScheduledAt:     req.ScheduledAt,
			DurationMinutes: req.DurationMinutes,
			Mode:            req.Mode,
			MeetingDetails:  req.MeetingDetails,
			Instructions:    req.Instructions,
			ScheduledBy:     actorID,
			IsActive:        true,
		}
		interviewID, err = stores.Interviews.Create(rec)
		if err != nil {
			return err
		}
		rec.ID = interviewID
		participantIDs := make([]string, 0, len(req.Participants))
		for _, p := range req.Participants {
			_, err = stores.Participants.Create(dbmodels.InterviewParticipant{
				InterviewID:   interviewID,
				ParticipantID: p.ParticipantID,
				Role:          p.Role,
				IsLead:        p.IsLead,
				Notes:         p.Notes,
			})
			if err != nil {
				return err
			}
			participantIDs = append(participantIDs, p.ParticipantID)
		}

		change := &interviewChange{stores: stores, interview: rec, app: *app, now: now}
		if app.Status != models.ApplicationStatusInterviewScheduled {
			err = change.transition(models.ApplicationStatusInterviewScheduled, actorID, fmt.Sprintf("назначено интервью, раунд %d", req.RoundNumber), "", false)
			if err != nil {
				return err
			}
		}
		params := change.params()
		if err = change.notifyStaff(models.NotificationInterviewScheduled, participantIDs, params); err != nil {
			return err
		}
		if err = change.notifyCandidate(models.NotificationInterviewScheduled, params); err != nil {
			return err
		}
		moved = change.moved
		return nil
	})
	if err != nil {
		countError(err)
		return nil, err
	}
	i.committed(moved)
	i.getLogger(interviewID, actorID).
		WithField("application_id", applicationID).
		WithField("round", req.RoundNumber).
		Info("интервью назначено")
	return i.Get(ctx, interviewID)
}

func (i impl) Reschedule(ctx context.Context, interviewID string, req interviewapimodels.RescheduleRequest, actorID string) (*interviewapimodels.InterviewView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return i.mutate(ctx, interviewID, actorID, func(c *interviewChange) error {
		if err := c.requireScheduled("перенос"); err != nil {
			return err
		}
		if !req.ScheduledAt.After(c.now) {
			return pipelineerrors.InvalidArgument("новое время интервью должно быть в будущем")
		}
		previous := c.interview.ScheduledAt
		err := c.update(map[string]interface{}{
			"ScheduledAt":      req.ScheduledAt,
			"RescheduleReason": req.Reason,
			"RescheduleCount":  c.interview.RescheduleCount + 1,
		})
		if err != nil {
			return err
		}
		c.interview.ScheduledAt = req.ScheduledAt
		participantIDs, err := c.participantIDs()
		if err != nil {
			return err
		}
		params := c.params()
		params[notification.ParamPreviousTime] = previous.Format(notification.DateTimeLayout)
		params[notification.ParamReason] = req.Reason
		if err = c.notifyStaff(models.NotificationInterviewRescheduled, participantIDs, params); err != nil {
			return err
		}
		return c.notifyCandidate(models.NotificationInterviewRescheduled, params)
	})
}

func (i impl) Cancel(ctx context.Context, interviewID, reason, actorID string) (*interviewapimodels.InterviewView, error) {
	return i.mutate(ctx, interviewID, actorID, func(c *interviewChange) error {
		if err := c.requireScheduled("отмена"); err != nil {
			return err
		}
		err := c.update(map[string]interface{}{
			"Status":       models.InterviewStatusCancelled,
			"CancelReason": reason,
		})
		if err != nil {
			return err
		}
		participantIDs, err := c.participantIDs()
		if err != nil {
			return err
		}
		params := c.params()
		params[notification.ParamReason] = reason
		if err = c.notifyStaff(models.NotificationInterviewCancelled, participantIDs, params); err != nil {
			return err
		}
		return c.notifyCandidate(models.NotificationInterviewCancelled, params)
	})
}

func (i impl) Complete(ctx context.Context, interviewID string, req interviewapimodels.CompleteRequest, actorID string) (*interviewapimodels.InterviewView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return i.mutate(ctx, interviewID, actorID, func(c *interviewChange) error {
		if err := c.requireScheduled("завершение"); err != nil {
			return err
		}
		updMap := map[string]interface{}{
			"Status":  models.InterviewStatusCompleted,
			"Summary": req.Summary,
		}
		if req.Outcome != "" {
			outcome := req.Outcome
			updMap["Outcome"] = &outcome
		}
		if err := c.update(updMap); err != nil {
			return err
		}
		c.interview.Status = models.InterviewStatusCompleted
		participantIDs, err := c.participantIDs()
		if err != nil {
			return err
		}
		pending := make([]string, 0, len(participantIDs))
		for _, id := range participantIDs {
			exists, err := c.stores.Evaluations.Exists(c.interview.ID, id)
			if err != nil {
				return errors.Wrap(err, "ошибка проверки оценки")
			}
			if !exists {
				pending = append(pending, id)
			}
		}
		if err = c.notifyStaff(models.NotificationEvaluationReminder, pending, c.params()); err != nil {
			return err
		}
		// оценки могли быть отправлены до завершения
		return i.autoAdvance(c, actorID)
	})
}

func (i impl) MarkNoShow(ctx context.Context, interviewID, actorID string) (*interviewapimodels.InterviewView, error) {
	return i.mutate(ctx, interviewID, actorID, func(c *interviewChange) error {
		if err := c.requireScheduled("отметка о неявке"); err != nil {
			return err
		}
		if c.now.Before(c.interview.ScheduledAt) {
			return pipelineerrors.InvalidTransition("интервью еще не началось")
		}
		return c.update(map[string]interface{}{
			"Status": models.InterviewStatusNoShow,
		})
	})
}

func (i impl) AddParticipant(ctx context.Context, interviewID string, req interviewapimodels.ParticipantData, actorID string) (*interviewapimodels.InterviewView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return i.mutate(ctx, interviewID, actorID, func(c *interviewChange) error {
		if err := c.requireScheduled("добавление участника"); err != nil {
			return err
		}
		user, err := c.stores.Directory.GetStaffUser(req.ParticipantID)
		if err != nil {
			return err
		}
		if user == nil || !user.IsActive {
			return pipelineerrors.NotFound("сотрудник", req.ParticipantID)
		}
		if req.IsLead {
			return pipelineerrors.NoLeadDesignated(2)
		}
		// версия интервью защищает состав участников от одновременных изменений
		if err = c.update(map[string]interface{}{"UpdatedAt": c.now}); err != nil {
			return err
		}
		_, err = c.stores.Participants.Create(dbmodels.InterviewParticipant{
			InterviewID:   c.interview.ID,
			ParticipantID: req.ParticipantID,
			Role:          req.Role,
			Notes:         req.Notes,
		})
		if err != nil {
			return err
		}
		return c.notifyStaff(models.NotificationInterviewScheduled, []string{req.ParticipantID}, c.params())
	})
}

func (i impl) ReassignLead(ctx context.Context, interviewID, participantID, actorID string) (*interviewapimodels.InterviewView, error) {
	if participantID == "" {
		return nil, pipelineerrors.InvalidArgument("не указан новый ведущий интервьюер")
	}
	return i.mutate(ctx, interviewID, actorID, func(c *interviewChange) error {
		if c.interview.Status == models.InterviewStatusCancelled || c.interview.Status == models.InterviewStatusNoShow {
			return pipelineerrors.InvalidTransition("смена ведущего невозможна для интервью в статусе %s", c.interview.Status)
		}
		target, err := c.stores.Participants.Get(c.interview.ID, participantID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения участника интервью")
		}
		if target == nil {
			return pipelineerrors.ParticipantNotFound(participantID)
		}
		if target.IsLead {
			return nil
		}
		if err = c.update(map[string]interface{}{"UpdatedAt": c.now}); err != nil {
			return err
		}
		participants, err := c.stores.Participants.List(c.interview.ID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения участников интервью")
		}
		for _, p := range participants {
			if p.IsLead {
				if err = c.stores.Participants.SetLead(c.interview.ID, p.ParticipantID, false); err != nil {
					return err
				}
			}
		}
		if err = c.stores.Participants.SetLead(c.interview.ID, participantID, true); err != nil {
			return err
		}
		return c.notifyStaff(models.NotificationLeadAssigned, []string{participantID}, c.params())
	})
}

func (i impl) SubmitEvaluation(ctx context.Context, interviewID string, req interviewapimodels.EvaluationRequest, actorID string) (*interviewapimodels.EvaluationSummaryView, error) {
	if req.EvaluatorID == "" {
		req.EvaluatorID = actorID
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	_, err := i.mutate(ctx, interviewID, actorID, func(c *interviewChange) error {
		if c.interview.Status == models.InterviewStatusCancelled || c.interview.Status == models.InterviewStatusNoShow {
			return pipelineerrors.InvalidTransition("оценка невозможна для интервью в статусе %s", c.interview.Status)
		}
		if c.now.Before(c.interview.ScheduledAt) {
			return pipelineerrors.InvalidTransition("оценка доступна после начала интервью")
		}
		participant, err := c.stores.Participants.Get(c.interview.ID, req.EvaluatorID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения участника интервью")
		}
		if participant == nil {
			return pipelineerrors.ParticipantNotFound(req.EvaluatorID)
		}
		exists, err := c.stores.Evaluations.Exists(c.interview.ID, req.EvaluatorID)
		if err != nil {
			return errors.Wrap(err, "ошибка проверки оценки")
		}
		if exists {
			return pipelineerrors.DuplicateEvaluation(req.EvaluatorID)
		}
		// версия интервью сериализует одновременные оценки
		if err = c.update(map[string]interface{}{"UpdatedAt": c.now}); err != nil {
			return err
		}
		_, err = c.stores.Evaluations.Create(dbmodels.InterviewEvaluation{
			InterviewID:    c.interview.ID,
			EvaluatorID:    req.EvaluatorID,
			Rating:         req.Rating,
			Strengths:      req.Strengths,
			Concerns:       req.Concerns,
			Comments:       req.Comments,
			Recommendation: req.Recommendation,
		})
		if err != nil {
			return err
		}
		return i.autoAdvance(c, actorID)
	})
	if err != nil {
		return nil, err
	}
	return i.EvaluationSummary(ctx, interviewID)
}

// autoAdvance переводит отклик по итогам оценок, если это разрешено настройками конвейера
func (i impl) autoAdvance(c *interviewChange, actorID string) error {
	if !i.policy.AutoAdvanceOnEvaluations || c.interview.Status != models.InterviewStatusCompleted {
		return nil
	}
	summary, err := summarize(c.stores, c.interview.ID, i.policy.EvaluationQuorum)
	if err != nil {
		return err
	}
	switch summary.Verdict {
	case models.VerdictHire:
		if c.app.Status != models.ApplicationStatusInterviewScheduled {
			return nil
		}
		scheduled, err := c.stores.Interviews.CountByStatus(c.app.ID, models.InterviewStatusScheduled)
		if err != nil {
			return err
		}
		if scheduled > 0 {
			return nil
		}
		return c.transition(models.ApplicationStatusInterviewCompleted, actorID, "положительное решение по итогам интервью", "", true)
	case models.VerdictNoHire:
		if c.app.Status.IsTerminal() || !c.app.IsActive {
			return nil
		}
		return c.transition(models.ApplicationStatusRejected, actorID, "", negativeVerdictReason, true)
	}
	return nil
}

// transition notifyCandidate - общее уведомление кандидату о смене статуса
func (c *interviewChange) transition(target models.ApplicationStatus, actorID, comment, rejectionReason string, notifyCandidate bool) error {
	moved, err := applicationhandler.Transition(c.stores, applicationhandler.TransitionRequest{
		Application:     c.app,
		Target:          target,
		ActorID:         actorID,
		Comment:         comment,
		RejectionReason: rejectionReason,
		Now:             c.now,
		NotifyCandidate: notifyCandidate,
	})
	if err != nil {
		return err
	}
	c.moved = moved
	c.app = *moved
	return nil
}

func summarize(stores txmanager.Stores, interviewID string, quorum models.EvaluationQuorum) (interviewapimodels.EvaluationSummaryView, error) {
	participants, err := stores.Participants.List(interviewID)
	if err != nil {
		return interviewapimodels.EvaluationSummaryView{}, errors.Wrap(err, "ошибка получения участников интервью")
	}
	evaluations, err := stores.Evaluations.List(interviewID)
	if err != nil {
		return interviewapimodels.EvaluationSummaryView{}, errors.Wrap(err, "ошибка получения оценок интервью")
	}
	return Aggregate(interviewID, participants, evaluations, quorum), nil
}

func (i impl) EvaluationSummary(ctx context.Context, interviewID string) (*interviewapimodels.EvaluationSummaryView, error) {
	stores := i.tx.Stores()
	if _, err := loadInterview(stores, interviewID); err != nil {
		return nil, err
	}
	summary, err := summarize(stores, interviewID, i.policy.EvaluationQuorum)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (i impl) Get(ctx context.Context, interviewID string) (*interviewapimodels.InterviewView, error) {
	rec, err := loadInterview(i.tx.Stores(), interviewID)
	if err != nil {
		return nil, err
	}
	view := interviewapimodels.InterviewConvert(*rec)
	return &view, nil
}

func (i impl) ListByApplication(ctx context.Context, applicationID string) ([]interviewapimodels.InterviewView, error) {
	stores := i.tx.Stores()
	if _, err := applicationhandler.LoadForUpdate(stores, applicationID); err != nil {
		return nil, err
	}
	list, err := stores.Interviews.ListByApplication(applicationID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка интервью")
	}
	result := make([]interviewapimodels.InterviewView, 0, len(list))
	for _, rec := range list {
		result = append(result, interviewapimodels.InterviewConvert(rec))
	}
	return result, nil
}
