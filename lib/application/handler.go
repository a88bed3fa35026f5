package applicationhandler

import (
	"context"
	"hr-pipeline-backend/lib/notification"
	"hr-pipeline-backend/lib/utils/clock"
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	txmanager "hr-pipeline-backend/lib/utils/tx-manager"
	"hr-pipeline-backend/models"
	applicationapimodels "hr-pipeline-backend/models/api/application"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Submit(ctx context.Context, req applicationapimodels.SubmitRequest, actorID string) (*applicationapimodels.ApplicationView, error)
	Get(ctx context.Context, applicationID string) (*applicationapimodels.ApplicationView, error)
	List(ctx context.Context, filter applicationapimodels.ListFilter) ([]applicationapimodels.ApplicationView, int64, error)
	Advance(ctx context.Context, applicationID string, target models.ApplicationStatus, actorID, comment string) (*applicationapimodels.ApplicationView, error)
	Reject(ctx context.Context, applicationID, reason, actorID string) (*applicationapimodels.ApplicationView, error)
	Withdraw(ctx context.Context, applicationID, reason, actorID string) (*applicationapimodels.ApplicationView, error)
	AssignReviewer(ctx context.Context, applicationID, reviewerID, actorID string) (*applicationapimodels.ApplicationView, error)
	Deactivate(ctx context.Context, applicationID, actorID string) error
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(txmanager.Instance, clock.Instance, notification.Instance)
}

func NewInstance(tx txmanager.Provider, clk clock.Provider, notifier notification.Kicker) Provider {
	return impl{
		tx:       tx,
		clock:    clk,
		notifier: notifier,
	}
}

type impl struct {
	tx       txmanager.Provider
	clock    clock.Provider
	notifier notification.Kicker
}

func (i impl) getLogger(applicationID, actorID string) *log.Entry {
	logger := log.
		WithField("application_id", applicationID).
		WithField("actor_id", actorID)
	return logger
}

func (i impl) Submit(ctx context.Context, req applicationapimodels.SubmitRequest, actorID string) (*applicationapimodels.ApplicationView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var result dbmodels.JobApplication
	err := i.tx.InTx(ctx, func(stores txmanager.Stores) error {
		candidate, err := stores.Directory.GetCandidate(req.CandidateID)
		if err != nil {
			return err
		}
		if candidate == nil {
			return pipelineerrors.NotFound("кандидат", req.CandidateID)
		}
		position, err := stores.Directory.GetJobPosition(req.JobPositionID)
		if err != nil {
			return err
		}
		if position == nil {
			return pipelineerrors.NotFound("вакансия", req.JobPositionID)
		}
		exists, err := stores.Applications.ExistsForPair(req.CandidateID, req.JobPositionID)
		if err != nil {
			return err
		}
		if exists {
			return pipelineerrors.ApplicationAlreadyExists()
		}
		rec := dbmodels.JobApplication{
			VersionedModel: dbmodels.VersionedModel{Version: 1},
			CandidateID:    req.CandidateID,
			JobPositionID:  req.JobPositionID,
			Status:         models.ApplicationStatusApplied,
			AppliedAt:      i.clock.Now(),
			IsActive:       true,
		}
		id, err := stores.Applications.Create(rec)
		if err != nil {
			return err
		}
		rec.ID = id
		rec.Candidate = candidate
		rec.JobPosition = position
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	i.getLogger(result.ID, actorID).Info("добавлен отклик кандидата")
	view := applicationapimodels.ApplicationConvert(result)
	return &view, nil
}

func (i impl) Get(ctx context.Context, applicationID string) (*applicationapimodels.ApplicationView, error) {
	rec, err := i.tx.Stores().Applications.GetByID(applicationID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения отклика")
	}
	if rec == nil {
		return nil, pipelineerrors.NotFound("отклик", applicationID)
	}
	view := applicationapimodels.ApplicationConvert(*rec)
	return &view, nil
}

func (i impl) List(ctx context.Context, filter applicationapimodels.ListFilter) ([]applicationapimodels.ApplicationView, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	list, count, err := i.tx.Stores().Applications.List(filter.ToDB())
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка откликов")
	}
	result := make([]applicationapimodels.ApplicationView, 0, len(list))
	for _, rec := range list {
		result = append(result, applicationapimodels.ApplicationConvert(rec))
	}
	return result, count, nil
}

func (i impl) Advance(ctx context.Context, applicationID string, target models.ApplicationStatus, actorID, comment string) (*applicationapimodels.ApplicationView, error) {
	return i.transition(ctx, TransitionRequest{
		Target:          target,
		ActorID:         actorID,
		Comment:         comment,
		NotifyCandidate: true,
	}, applicationID)
}

func (i impl) Reject(ctx context.Context, applicationID, reason, actorID string) (*applicationapimodels.ApplicationView, error) {
	if err := (applicationapimodels.RejectRequest{Reason: reason}).Validate(); err != nil {
		return nil, err
	}
	return i.transition(ctx, TransitionRequest{
		Target:          models.ApplicationStatusRejected,
		ActorID:         actorID,
		RejectionReason: reason,
		NotifyCandidate: true,
	}, applicationID)
}

func (i impl) Withdraw(ctx context.Context, applicationID, reason, actorID string) (*applicationapimodels.ApplicationView, error) {
	return i.transition(ctx, TransitionRequest{
		Target:          models.ApplicationStatusWithdrawn,
		ActorID:         actorID,
		Comment:         reason,
		NotifyCandidate: true,
	}, applicationID)
}

func (i impl) transition(ctx context.Context, req TransitionRequest, applicationID string) (*applicationapimodels.ApplicationView, error) {
	var result *dbmodels.JobApplication
	err := i.tx.InTx(ctx, func(stores txmanager.Stores) error {
		app, err := LoadForUpdate(stores, applicationID)
		if err != nil {
			return err
		}
		req.Application = *app
		req.Now = i.clock.Now()
		result, err = Transition(stores, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	i.notifier.Kick()
	TransitionCommitted(result)
	i.getLogger(applicationID, req.ActorID).
		WithField("status", req.Target).
		Info("статус отклика изменен")
	view := applicationapimodels.ApplicationConvert(*result)
	return &view, nil
}

func (i impl) AssignReviewer(ctx context.Context, applicationID, reviewerID, actorID string) (*applicationapimodels.ApplicationView, error) {
	if err := (applicationapimodels.AssignReviewerRequest{ReviewerID: reviewerID}).Validate(); err != nil {
		return nil, err
	}
	var result dbmodels.JobApplication
	err := i.tx.InTx(ctx, func(stores txmanager.Stores) error {
		app, err := LoadForUpdate(stores, applicationID)
		if err != nil {
			return err
		}
		if !app.IsActive || app.Status.IsTerminal() {
			return pipelineerrors.InvalidTransition("отклик %s закрыт", applicationID)
		}
		reviewer, err := stores.Directory.GetStaffUser(reviewerID)
		if err != nil {
			return err
		}
		if reviewer == nil {
			return pipelineerrors.NotFound("сотрудник", reviewerID)
		}
		updMap := map[string]interface{}{
			"AssignedReviewerID": &reviewerID,
		}
		err = stores.Applications.Update(app.ID, app.Version, updMap)
		if err != nil {
			return err
		}
		app.AssignedReviewerID = &reviewerID
		app.Version++
		result = *app
		return nil
	})
	if err != nil {
		return nil, err
	}
	i.getLogger(applicationID, actorID).
		WithField("reviewer_id", reviewerID).
		Info("назначен ответственный по отклику")
	view := applicationapimodels.ApplicationConvert(result)
	return &view, nil
}

func (i impl) Deactivate(ctx context.Context, applicationID, actorID string) error {
	err := i.tx.InTx(ctx, func(stores txmanager.Stores) error {
		app, err := LoadForUpdate(stores, applicationID)
		if err != nil {
			return err
		}
		if !app.IsActive {
			return nil
		}
		return stores.Applications.Update(app.ID, app.Version, map[string]interface{}{
			"IsActive": false,
		})
	})
	if err != nil {
		return err
	}
	i.getLogger(applicationID, actorID).Info("отклик деактивирован")
	return nil
}
