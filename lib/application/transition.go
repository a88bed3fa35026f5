package applicationhandler

import (
	"fmt"
	"hr-pipeline-backend/lib/notification"
	"hr-pipeline-backend/lib/utils/metrics"
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	txmanager "hr-pipeline-backend/lib/utils/tx-manager"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var adjacency = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationStatusApplied:            {models.ApplicationStatusScreening},
	models.ApplicationStatusScreening:          {models.ApplicationStatusInterviewScheduled},
	models.ApplicationStatusInterviewScheduled: {models.ApplicationStatusInterviewCompleted},
	models.ApplicationStatusInterviewCompleted: {models.ApplicationStatusOfferExtended, models.ApplicationStatusInterviewScheduled},
	models.ApplicationStatusOfferExtended:      {models.ApplicationStatusHired, models.ApplicationStatusCounterPending},
	models.ApplicationStatusCounterPending:     {models.ApplicationStatusOfferExtended},
}

// CanTransition проверяет переход по таблице смежности, отказ и отзыв доступны из любого нетерминального статуса
func CanTransition(from, to models.ApplicationStatus) bool {
	if from.IsTerminal() || !to.IsValid() {
		return false
	}
	if to == models.ApplicationStatusRejected || to == models.ApplicationStatusWithdrawn {
		return true
	}
	for _, next := range adjacency[from] {
		if next == to {
			return true
		}
	}
	return false
}

type TransitionRequest struct {
	Application     dbmodels.JobApplication
	Target          models.ApplicationStatus
	ActorID         string
	Comment         string
	RejectionReason string
	Now             time.Time
	// NotifyCandidate общее уведомление кандидату о смене статуса,
	// подсистемы интервью и офферов отправляют свои уведомления
	NotifyCandidate bool
}

// Transition переводит отклик в новый статус в рамках транзакции stores:
// проверяет переход и предусловия, обновляет статус с проверкой версии,
// пишет историю и ставит уведомления в outbox
func Transition(stores txmanager.Stores, req TransitionRequest) (*dbmodels.JobApplication, error) {
	app := req.Application
	if !app.IsActive {
		return nil, pipelineerrors.InvalidTransition("отклик %s деактивирован", app.ID)
	}
	if !CanTransition(app.Status, req.Target) {
		return nil, pipelineerrors.InvalidTransition("переход %s -> %s недопустим", app.Status, req.Target)
	}
	if err := checkPreconditions(stores, app, req.Target, req.Now); err != nil {
		return nil, err
	}

	updMap := map[string]interface{}{
		"Status": req.Target,
	}
	if req.Target == models.ApplicationStatusRejected && req.RejectionReason != "" {
		reason := req.RejectionReason
		updMap["RejectionReason"] = &reason
		app.RejectionReason = &reason
	}
	err := stores.Applications.Update(app.ID, app.Version, updMap)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка обновления статуса отклика")
	}

	lastSeq, err := stores.History.LastSequence(app.ID)
	if err != nil {
		return nil, err
	}
	comment := req.Comment
	if comment == "" && req.RejectionReason != "" {
		comment = req.RejectionReason
	}
	historyRec := dbmodels.ApplicationStatusHistory{
		ApplicationID: app.ID,
		Sequence:      lastSeq + 1,
		FromStatus:    app.Status,
		ToStatus:      req.Target,
		ActorID:       req.ActorID,
		ChangedAt:     req.Now,
		Comment:       comment,
	}
	_, err = stores.History.Create(historyRec)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка добавления записи в историю отклика")
	}

	err = stores.Outbox.Enqueue(statusIntents(app, req)...)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка постановки уведомлений в очередь")
	}

	if req.Target == models.ApplicationStatusRejected || req.Target == models.ApplicationStatusWithdrawn {
		if err = closeOpenItems(stores, app, req); err != nil {
			return nil, err
		}
	}

	app.Status = req.Target
	app.Version++
	return &app, nil
}

// closeOpenItems отзывает оффер в ожидании ответа и отменяет назначенные интервью закрываемого отклика
func closeOpenItems(stores txmanager.Stores, app dbmodels.JobApplication, req TransitionRequest) error {
	reason := req.RejectionReason
	if reason == "" {
		reason = req.Comment
	}
	closing := fmt.Sprintf("отклик переведен в статус %s", req.Target.ToHuman())
	if reason != "" {
		closing += ": " + reason
	}

	offer, err := stores.Offers.GetByApplication(app.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения оффера")
	}
	if offer != nil && offer.Status.IsNegotiable() {
		notes := closing
		if current := strings.TrimSpace(offer.Notes); current != "" {
			notes = current + "\n" + closing
		}
		err = stores.Offers.Update(offer.ID, offer.Version, map[string]interface{}{
			"Status": models.OfferStatusWithdrawn,
			"Notes":  notes,
		})
		if err != nil {
			return err
		}
	}

	interviews, err := stores.Interviews.ListByApplication(app.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения интервью")
	}
	for _, interview := range interviews {
		if interview.Status != models.InterviewStatusScheduled {
			continue
		}
		err = stores.Interviews.Update(interview.ID, interview.Version, map[string]interface{}{
			"Status":       models.InterviewStatusCancelled,
			"CancelReason": closing,
		})
		if err != nil {
			return err
		}
		params := ApplicationParams(app)
		params[notification.ParamInterviewID] = interview.ID
		params[notification.ParamInterviewTitle] = interview.Title
		params[notification.ParamScheduledAt] = interview.ScheduledAt.Format(notification.DateTimeLayout)
		params[notification.ParamReason] = closing
		intents := []dbmodels.NotificationOutbox{}
		for _, p := range interview.Participants {
			if p.ParticipantID == req.ActorID {
				continue
			}
			intents = append(intents, dbmodels.NewNotification(
				models.NotificationInterviewCancelled, models.RecipientStaff, p.ParticipantID, app.ID, req.Now, params))
		}
		if err = stores.Outbox.Enqueue(intents...); err != nil {
			return errors.Wrap(err, "ошибка постановки уведомлений в очередь")
		}
	}
	return nil
}

func checkPreconditions(stores txmanager.Stores, app dbmodels.JobApplication, target models.ApplicationStatus, now time.Time) error {
	switch target {
	case models.ApplicationStatusOfferExtended:
		offer, err := stores.Offers.GetByApplication(app.ID)
		if err != nil {
			return err
		}
		if offer == nil || !offer.IsLive(now) {
			return pipelineerrors.InvalidTransition("для статуса %s нужен действующий оффер в ожидании ответа", target)
		}
	case models.ApplicationStatusCounterPending:
		offer, err := stores.Offers.GetByApplication(app.ID)
		if err != nil {
			return err
		}
		if offer == nil || offer.Status != models.OfferStatusCountered {
			return pipelineerrors.InvalidTransition("для статуса %s нужно встречное предложение по офферу", target)
		}
	case models.ApplicationStatusHired:
		offer, err := stores.Offers.GetByApplication(app.ID)
		if err != nil {
			return err
		}
		if offer == nil || offer.Status != models.OfferStatusAccepted {
			return pipelineerrors.InvalidTransition("для статуса %s оффер должен быть принят кандидатом", target)
		}
	case models.ApplicationStatusInterviewScheduled:
		count, err := stores.Interviews.CountByStatus(app.ID, models.InterviewStatusScheduled)
		if err != nil {
			return err
		}
		if count == 0 {
			return pipelineerrors.InvalidTransition("для статуса %s нужно назначенное интервью", target)
		}
	case models.ApplicationStatusInterviewCompleted:
		count, err := stores.Interviews.CountByStatus(app.ID, models.InterviewStatusCompleted)
		if err != nil {
			return err
		}
		if count == 0 {
			return pipelineerrors.InvalidTransition("для статуса %s нужно проведенное интервью", target)
		}
	}
	return nil
}

func statusIntents(app dbmodels.JobApplication, req TransitionRequest) []dbmodels.NotificationOutbox {
	params := ApplicationParams(app)
	params[notification.ParamFromStatus] = app.Status.ToHuman()
	params[notification.ParamToStatus] = req.Target.ToHuman()
	params[notification.ParamComment] = req.Comment
	if req.RejectionReason != "" {
		params[notification.ParamReason] = req.RejectionReason
	}

	intents := []dbmodels.NotificationOutbox{}
	if req.NotifyCandidate {
		intents = append(intents, dbmodels.NewNotification(
			models.NotificationApplicationStatusChanged, models.RecipientCandidate, app.CandidateID, app.ID, req.Now, params))
	}
	if app.AssignedReviewerID != nil && *app.AssignedReviewerID != req.ActorID {
		intents = append(intents, dbmodels.NewNotification(
			models.NotificationApplicationStatusChanged, models.RecipientStaff, *app.AssignedReviewerID, app.ID, req.Now, params))
	}
	return intents
}

// ApplicationParams общие параметры уведомлений по отклику
func ApplicationParams(app dbmodels.JobApplication) dbmodels.NotificationParams {
	params := dbmodels.NotificationParams{}
	if app.Candidate != nil {
		params[notification.ParamCandidateName] = app.Candidate.GetFullName()
	}
	if app.JobPosition != nil {
		params[notification.ParamJobTitle] = app.JobPosition.Title
	}
	return params
}

// TransitionCommitted учитывает переход после фиксации транзакции
func TransitionCommitted(app *dbmodels.JobApplication) {
	if app == nil {
		return
	}
	metrics.ApplicationTransitions.WithLabelValues(string(app.Status)).Inc()
}

// LoadForUpdate читает отклик внутри транзакции, отсутствие отклика - ошибка NotFound
func LoadForUpdate(stores txmanager.Stores, applicationID string) (*dbmodels.JobApplication, error) {
	app, err := stores.Applications.GetByID(applicationID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения отклика")
	}
	if app == nil {
		return nil, pipelineerrors.NotFound("отклик", applicationID)
	}
	return app, nil
}
