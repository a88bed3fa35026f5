package offerhandler

import (
	"context"
	"fmt"
	applicationhandler "hr-pipeline-backend/lib/application"
	filestorage "hr-pipeline-backend/lib/file-storage"
	"hr-pipeline-backend/lib/notification"
	offerletter "hr-pipeline-backend/lib/offer/letter"
	"hr-pipeline-backend/lib/utils/clock"
	"hr-pipeline-backend/lib/utils/metrics"
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	txmanager "hr-pipeline-backend/lib/utils/tx-manager"
	"hr-pipeline-backend/models"
	offerapimodels "hr-pipeline-backend/models/api/offer"
	dbmodels "hr-pipeline-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Extend(ctx context.Context, applicationID string, req offerapimodels.ExtendRequest, actorID string) (*offerapimodels.OfferView, error)
	ExtendExpiry(ctx context.Context, offerID string, req offerapimodels.ExtendExpiryRequest, actorID string) (*offerapimodels.OfferView, error)
	Revise(ctx context.Context, offerID string, req offerapimodels.ReviseRequest, actorID string) (*offerapimodels.OfferView, error)
	RecordCounter(ctx context.Context, offerID string, req offerapimodels.CounterRequest, actorID string) (*offerapimodels.OfferView, error)
	RespondToCounter(ctx context.Context, offerID string, req offerapimodels.CounterResponseRequest, actorID string) (*offerapimodels.OfferView, error)
	Accept(ctx context.Context, offerID, actorID string) (*offerapimodels.OfferView, error)
	Decline(ctx context.Context, offerID, reason, actorID string) (*offerapimodels.OfferView, error)
	Withdraw(ctx context.Context, offerID, reason, actorID string) (*offerapimodels.OfferView, error)
	MarkExpired(ctx context.Context, offerID, actorID string) (*offerapimodels.OfferView, error)
	SweepExpired(ctx context.Context) (expired int, err error)
	SendExpiryReminders(ctx context.Context) (sent int, err error)
	Get(ctx context.Context, offerID string) (*offerapimodels.OfferView, error)
	GetByApplication(ctx context.Context, applicationID string) (*offerapimodels.OfferView, error)
	OfferLetter(ctx context.Context, offerID string) ([]byte, error)
}

var Instance Provider

const sweepBatchSize = 100

func NewHandler(policy models.PipelinePolicy, company models.CompanyInfo) {
	Instance = NewInstance(txmanager.Instance, clock.Instance, notification.Instance, filestorage.Instance, policy, company)
}

// NewInstance archive может быть nil, тогда печатные формы не архивируются
func NewInstance(tx txmanager.Provider, clk clock.Provider, notifier notification.Kicker, archive filestorage.Provider,
	policy models.PipelinePolicy, company models.CompanyInfo) Provider {
	return impl{
		tx:       tx,
		clock:    clk,
		notifier: notifier,
		archive:  archive,
		policy:   policy,
		company:  company,
	}
}

type impl struct {
	tx       txmanager.Provider
	clock    clock.Provider
	notifier notification.Kicker
	archive  filestorage.Provider
	policy   models.PipelinePolicy
	company  models.CompanyInfo
}

func (i impl) getLogger(offerID, actorID string) *log.Entry {
	logger := log.
		WithField("offer_id", offerID).
		WithField("actor_id", actorID)
	return logger
}

// offerChange изменение оффера внутри транзакции
type offerChange struct {
	stores txmanager.Stores
	offer  dbmodels.JobOffer
	app    dbmodels.JobApplication
	now    time.Time
	// moved отклик, если операция сменила его статус
	moved *dbmodels.JobApplication
}

func (c *offerChange) update(updMap map[string]interface{}) error {
	return c.stores.Offers.Update(c.offer.ID, c.offer.Version, updMap)
}

// requireOpenApplication условия оффера меняются только пока отклик активен и не закрыт
func (c *offerChange) requireOpenApplication() error {
	if !c.app.IsActive {
		return pipelineerrors.InvalidTransition("отклик %s деактивирован", c.app.ID)
	}
	if c.app.Status.IsTerminal() {
		return pipelineerrors.InvalidTransition("отклик %s уже закрыт, текущий статус: %s", c.app.ID, c.app.Status)
	}
	return nil
}

// transition закрытие оффера по уже закрытому отклику статус отклика не меняет
func (c *offerChange) transition(target models.ApplicationStatus, actorID, comment, rejectionReason string) error {
	closing := target == models.ApplicationStatusRejected || target == models.ApplicationStatusWithdrawn
	if closing && c.app.Status.IsTerminal() {
		return nil
	}
	moved, err := applicationhandler.Transition(c.stores, applicationhandler.TransitionRequest{
		Application:     c.app,
		Target:          target,
		ActorID:         actorID,
		Comment:         comment,
		RejectionReason: rejectionReason,
		Now:             c.now,
	})
	if err != nil {
		return err
	}
	c.moved = moved
	return nil
}

func (c *offerChange) notify(kind models.NotificationKind, recipientType models.RecipientType, recipientID string, params dbmodels.NotificationParams) error {
	if recipientID == "" || recipientID == models.SystemUser {
		return nil
	}
	return c.stores.Outbox.Enqueue(dbmodels.NewNotification(kind, recipientType, recipientID, c.app.ID, c.now, params))
}

func (c *offerChange) notifyCandidate(kind models.NotificationKind, params dbmodels.NotificationParams) error {
	return c.notify(kind, models.RecipientCandidate, c.app.CandidateID, params)
}

func (c *offerChange) notifyStaff(kind models.NotificationKind, params dbmodels.NotificationParams) error {
	return c.notify(kind, models.RecipientStaff, c.offer.ExtendedBy, params)
}

// mutate загружает оффер и отклик, выполняет fn в транзакции и возвращает перечитанный оффер
func (i impl) mutate(ctx context.Context, offerID, actorID string, fn func(c *offerChange) error) (*offerapimodels.OfferView, error) {
	var (
		result *dbmodels.JobOffer
		moved  *dbmodels.JobApplication
	)
	err := i.tx.InTx(ctx, func(stores txmanager.Stores) error {
		offer, err := stores.Offers.GetByID(offerID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения оффера")
		}
		if offer == nil {
			return pipelineerrors.NotFound("оффер", offerID)
		}
		app, err := applicationhandler.LoadForUpdate(stores, offer.ApplicationID)
		if err != nil {
			return err
		}
		change := &offerChange{
			stores: stores,
			offer:  *offer,
			app:    *app,
			now:    i.clock.Now(),
		}
		if err = fn(change); err != nil {
			return err
		}
		moved = change.moved
		result, err = stores.Offers.GetByID(offerID)
		return err
	})
	if err != nil {
		if pErr, ok := pipelineerrors.As(err); ok {
			metrics.PipelineErrors.WithLabelValues(string(pErr.Code)).Inc()
		}
		return nil, err
	}
	i.notifier.Kick()
	applicationhandler.TransitionCommitted(moved)
	i.getLogger(offerID, actorID).
		WithField("status", result.Status).
		Info("оффер изменен")
	view := offerapimodels.OfferConvert(*result)
	return &view, nil
}

func (i impl) offerParams(offer dbmodels.JobOffer, app dbmodels.JobApplication) dbmodels.NotificationParams {
	params := applicationhandler.ApplicationParams(app)
	params[notification.ParamOfferID] = offer.ID
	params[notification.ParamJobTitle] = offer.JobTitle
	params[notification.ParamSalary] = offer.OfferedSalary.String()
	params[notification.ParamBenefits] = offer.Benefits
	params[notification.ParamExpiryDate] = offer.ExpiryDate.Format(notification.DateTimeLayout)
	if offer.JoiningDate != nil {
		params[notification.ParamJoiningDate] = offer.JoiningDate.Format(notification.DateLayout)
	}
	return params
}

func (i impl) Extend(ctx context.Context, applicationID string, req offerapimodels.ExtendRequest, actorID string) (*offerapimodels.OfferView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var (
		result dbmodels.JobOffer
		moved  *dbmodels.JobApplication
	)
	err := i.tx.InTx(ctx, func(stores txmanager.Stores) error {
		now := i.clock.Now()
		app, err := applicationhandler.LoadForUpdate(stores, applicationID)
		if err != nil {
			return err
		}
		existing, err := stores.Offers.GetByApplication(applicationID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения оффера")
		}
		if existing != nil {
			return pipelineerrors.OfferAlreadyExists(applicationID)
		}
		if app.Status != models.ApplicationStatusInterviewCompleted {
			return pipelineerrors.InvalidTransition("оффер выдвигается после проведенного интервью, текущий статус: %s", app.Status)
		}
		if !req.ExpiryDate.After(now) {
			return pipelineerrors.InvalidArgument("срок действия оффера должен быть в будущем")
		}
		jobTitle := ""
		if app.JobPosition != nil {
			jobTitle = app.JobPosition.Title
		} else {
			position, err := stores.Directory.GetJobPosition(app.JobPositionID)
			if err != nil {
				return err
			}
			if position != nil {
				jobTitle = position.Title
			}
		}
		rec := dbmodels.JobOffer{
			VersionedModel: dbmodels.VersionedModel{Version: 1},
			ApplicationID:  applicationID,
			OfferedSalary:  req.Salary,
			Benefits:       req.Benefits,
			JobTitle:       jobTitle,
			OfferDate:      now,
			ExpiryDate:     req.ExpiryDate,
			Status:         models.OfferStatusPending,
			ExtendedBy:     actorID,
			Notes:          req.Notes,
			JoiningDate:    req.JoiningDate,
		}
		id, err := stores.Offers.Create(rec)
		if err != nil {
			return err
		}
		rec.ID = id
		change := &offerChange{stores: stores, offer: rec, app: *app, now: now}
		if err = change.transition(models.ApplicationStatusOfferExtended, actorID, "выдвинут оффер", ""); err != nil {
			return err
		}
		if err = change.notifyCandidate(models.NotificationOfferExtended, i.offerParams(rec, *app)); err != nil {
			return err
		}
		result = rec
		moved = change.moved
		return nil
	})
	if err != nil {
		return nil, err
	}
	i.notifier.Kick()
	applicationhandler.TransitionCommitted(moved)
	i.getLogger(result.ID, actorID).
		WithField("application_id", applicationID).
		Info("оффер выдвинут")
	i.archiveLetter(ctx, result.ID)
	view := offerapimodels.OfferConvert(result)
	return &view, nil
}

func (i impl) ExtendExpiry(ctx context.Context, offerID string, req offerapimodels.ExtendExpiryRequest, actorID string) (*offerapimodels.OfferView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return i.mutate(ctx, offerID, actorID, func(c *offerChange) error {
		if !c.offer.Status.IsNegotiable() {
			return pipelineerrors.InvalidTransition("срок продлевается только у оффера в ожидании ответа, текущий статус: %s", c.offer.Status)
		}
		if err := c.requireOpenApplication(); err != nil {
			return err
		}
		if !req.ExpiryDate.After(c.offer.ExpiryDate) {
			return pipelineerrors.ExpiryNotExtended("новый срок %s должен быть позже текущего %s",
				req.ExpiryDate.Format(time.RFC3339), c.offer.ExpiryDate.Format(time.RFC3339))
		}
		if !req.ExpiryDate.After(c.now) {
			return pipelineerrors.ExpiryNotExtended("новый срок %s уже наступил", req.ExpiryDate.Format(time.RFC3339))
		}
		note := fmt.Sprintf("Срок действия продлен до %s", req.ExpiryDate.Format(notification.DateTimeLayout))
		if req.Reason != "" {
			note += ": " + req.Reason
		}
		err := c.update(map[string]interface{}{
			"ExpiryDate":     req.ExpiryDate,
			"Notes":          appendNote(c.offer.Notes, note),
			"ReminderSentAt": nil,
		})
		if err != nil {
			return err
		}
		c.offer.ExpiryDate = req.ExpiryDate
		params := i.offerParams(c.offer, c.app)
		params[notification.ParamReason] = req.Reason
		return c.notifyCandidate(models.NotificationOfferExpiryExtended, params)
	})
}

func (i impl) Revise(ctx context.Context, offerID string, req offerapimodels.ReviseRequest, actorID string) (*offerapimodels.OfferView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	view, err := i.mutate(ctx, offerID, actorID, func(c *offerChange) error {
		if !c.offer.Status.IsNegotiable() {
			return pipelineerrors.InvalidTransition("условия меняются только у оффера в ожидании ответа, текущий статус: %s", c.offer.Status)
		}
		if err := c.requireOpenApplication(); err != nil {
			return err
		}
		err := c.update(map[string]interface{}{
			"OfferedSalary": req.Salary,
			"Benefits":      req.Benefits,
			"JoiningDate":   req.JoiningDate,
		})
		if err != nil {
			return err
		}
		c.offer.OfferedSalary = req.Salary
		c.offer.Benefits = req.Benefits
		c.offer.JoiningDate = req.JoiningDate
		return c.notifyCandidate(models.NotificationOfferRevised, i.offerParams(c.offer, c.app))
	})
	if err != nil {
		return nil, err
	}
	i.archiveLetter(ctx, offerID)
	return view, nil
}

func (i impl) RecordCounter(ctx context.Context, offerID string, req offerapimodels.CounterRequest, actorID string) (*offerapimodels.OfferView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return i.mutate(ctx, offerID, actorID, func(c *offerChange) error {
		if c.offer.Status != models.OfferStatusPending {
			return pipelineerrors.InvalidTransition("встречное предложение принимается только по офферу в ожидании, текущий статус: %s", c.offer.Status)
		}
		if err := c.requireOpenApplication(); err != nil {
			return err
		}
		if !c.offer.IsLive(c.now) {
			return pipelineerrors.InvalidTransition("срок действия оффера истек")
		}
		amount := req.Amount
		err := c.update(map[string]interface{}{
			"Status":             models.OfferStatusCountered,
			"CounterOfferAmount": &amount,
			"CounterOfferNotes":  req.Notes,
		})
		if err != nil {
			return err
		}
		if err = c.transition(models.ApplicationStatusCounterPending, actorID, "встречное предложение кандидата", ""); err != nil {
			return err
		}
		params := i.offerParams(c.offer, c.app)
		params[notification.ParamCounterAmount] = amount.String()
		params[notification.ParamCounterNotes] = req.Notes
		return c.notifyStaff(models.NotificationCounterOfferReceived, params)
	})
}

func (i impl) RespondToCounter(ctx context.Context, offerID string, req offerapimodels.CounterResponseRequest, actorID string) (*offerapimodels.OfferView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return i.mutate(ctx, offerID, actorID, func(c *offerChange) error {
		if c.offer.Status != models.OfferStatusCountered {
			return pipelineerrors.InvalidTransition("ответ возможен только на встречное предложение, текущий статус: %s", c.offer.Status)
		}
		updMap := map[string]interface{}{
			"ResponseDate": c.now,
			"ResponseText": req.ResponseText,
		}
		var (
			target          models.ApplicationStatus
			rejectionReason string
		)
		switch {
		case req.Accepted:
			salary := c.offer.OfferedSalary
			if req.RevisedSalary != nil {
				salary = *req.RevisedSalary
			} else if c.offer.CounterOfferAmount != nil {
				salary = *c.offer.CounterOfferAmount
			}
			updMap["Status"] = models.OfferStatusPending
			updMap["OfferedSalary"] = salary
			c.offer.OfferedSalary = salary
			target = models.ApplicationStatusOfferExtended
		case i.policy.CounterRejectPolicy == models.CounterRejectPolicyRevert:
			updMap["Status"] = models.OfferStatusPending
			target = models.ApplicationStatusOfferExtended
		default:
			updMap["Status"] = models.OfferStatusRejected
			target = models.ApplicationStatusRejected
			rejectionReason = "встречное предложение отклонено"
		}
		if err := c.update(updMap); err != nil {
			return err
		}
		if err := c.transition(target, actorID, req.ResponseText, rejectionReason); err != nil {
			return err
		}
		params := i.offerParams(c.offer, c.app)
		params[notification.ParamAccepted] = fmt.Sprintf("%t", req.Accepted)
		params[notification.ParamResponseText] = req.ResponseText
		return c.notifyCandidate(models.NotificationCounterOfferResponse, params)
	})
}

func (i impl) Accept(ctx context.Context, offerID, actorID string) (*offerapimodels.OfferView, error) {
	return i.mutate(ctx, offerID, actorID, func(c *offerChange) error {
		if c.offer.Status != models.OfferStatusPending {
			return pipelineerrors.InvalidTransition("принять можно только оффер в ожидании, текущий статус: %s", c.offer.Status)
		}
		if !c.offer.IsLive(c.now) {
			return pipelineerrors.InvalidTransition("срок действия оффера истек")
		}
		err := c.update(map[string]interface{}{
			"Status":       models.OfferStatusAccepted,
			"ResponseDate": c.now,
		})
		if err != nil {
			return err
		}
		if err = c.transition(models.ApplicationStatusHired, actorID, "оффер принят", ""); err != nil {
			return err
		}
		params := i.offerParams(c.offer, c.app)
		if err = c.notifyCandidate(models.NotificationOfferAccepted, params); err != nil {
			return err
		}
		return c.notifyStaff(models.NotificationOfferAccepted, params)
	})
}

func (i impl) Decline(ctx context.Context, offerID, reason, actorID string) (*offerapimodels.OfferView, error) {
	return i.mutate(ctx, offerID, actorID, func(c *offerChange) error {
		if !c.offer.Status.IsNegotiable() {
			return pipelineerrors.InvalidTransition("отказаться можно только от оффера в ожидании, текущий статус: %s", c.offer.Status)
		}
		err := c.update(map[string]interface{}{
			"Status":       models.OfferStatusRejected,
			"ResponseDate": c.now,
			"ResponseText": reason,
		})
		if err != nil {
			return err
		}
		comment := "кандидат отказался от оффера"
		if reason != "" {
			comment += ": " + reason
		}
		if err = c.transition(models.ApplicationStatusWithdrawn, actorID, comment, ""); err != nil {
			return err
		}
		params := i.offerParams(c.offer, c.app)
		params[notification.ParamReason] = reason
		return c.notifyStaff(models.NotificationOfferDeclined, params)
	})
}

func (i impl) Withdraw(ctx context.Context, offerID, reason, actorID string) (*offerapimodels.OfferView, error) {
	return i.mutate(ctx, offerID, actorID, func(c *offerChange) error {
		if !c.offer.Status.IsNegotiable() {
			return pipelineerrors.InvalidTransition("отозвать можно только оффер в ожидании, текущий статус: %s", c.offer.Status)
		}
		updMap := map[string]interface{}{
			"Status": models.OfferStatusWithdrawn,
		}
		rejectionReason := "оффер отозван"
		if reason != "" {
			updMap["Notes"] = appendNote(c.offer.Notes, "Оффер отозван: "+reason)
			rejectionReason += ": " + reason
		}
		if err := c.update(updMap); err != nil {
			return err
		}
		if err := c.transition(models.ApplicationStatusRejected, actorID, "", rejectionReason); err != nil {
			return err
		}
		params := i.offerParams(c.offer, c.app)
		params[notification.ParamReason] = reason
		return c.notifyCandidate(models.NotificationOfferWithdrawn, params)
	})
}

func (i impl) MarkExpired(ctx context.Context, offerID, actorID string) (*offerapimodels.OfferView, error) {
	return i.mutate(ctx, offerID, actorID, func(c *offerChange) error {
		return i.expire(c)
	})
}

// expire повторный вызов для истекшего оффера ничего не меняет
func (i impl) expire(c *offerChange) error {
	switch c.offer.Status {
	case models.OfferStatusExpired:
		return nil
	case models.OfferStatusPending:
	default:
		return pipelineerrors.InvalidTransition("истечь может только оффер в ожидании, текущий статус: %s", c.offer.Status)
	}
	err := c.update(map[string]interface{}{
		"Status": models.OfferStatusExpired,
	})
	if err != nil {
		return err
	}
	params := i.offerParams(c.offer, c.app)
	if err = c.notifyCandidate(models.NotificationOfferExpired, params); err != nil {
		return err
	}
	return c.notifyStaff(models.NotificationOfferExpired, params)
}

func (i impl) SweepExpired(ctx context.Context) (int, error) {
	now := i.clock.Now()
	list, err := i.tx.Stores().Offers.ListExpired(now, sweepBatchSize)
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения истекших офферов")
	}
	expired := 0
	for _, offer := range list {
		if ctx.Err() != nil {
			break
		}
		view, err := i.mutate(ctx, offer.ID, models.SystemUser, func(c *offerChange) error {
			if c.offer.Status != models.OfferStatusPending || c.offer.ExpiryDate.After(c.now) {
				return nil
			}
			return i.expire(c)
		})
		if err != nil {
			i.getLogger(offer.ID, models.SystemUser).WithError(err).Warn("не удалось перевести оффер в истекшие")
			continue
		}
		if view.Status == models.OfferStatusExpired {
			expired++
			metrics.OffersExpired.Inc()
		}
	}
	return expired, nil
}

func (i impl) SendExpiryReminders(ctx context.Context) (int, error) {
	now := i.clock.Now()
	list, err := i.tx.Stores().Offers.ListForReminder(now, now.Add(i.policy.ExpiryReminderWindow), sweepBatchSize)
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения офферов для напоминания")
	}
	sent := 0
	for _, offer := range list {
		if ctx.Err() != nil {
			break
		}
		reminded := false
		_, err := i.mutate(ctx, offer.ID, models.SystemUser, func(c *offerChange) error {
			if !c.offer.Status.IsNegotiable() || c.offer.ReminderSentAt != nil || !c.offer.ExpiryDate.After(c.now) {
				return nil
			}
			err := c.update(map[string]interface{}{
				"ReminderSentAt": c.now,
			})
			if err != nil {
				return err
			}
			params := i.offerParams(c.offer, c.app)
			if err = c.notifyCandidate(models.NotificationOfferExpiryReminder, params); err != nil {
				return err
			}
			if err = c.notifyStaff(models.NotificationOfferExpiryReminder, params); err != nil {
				return err
			}
			reminded = true
			return nil
		})
		if err != nil {
			i.getLogger(offer.ID, models.SystemUser).WithError(err).Warn("не удалось отправить напоминание по офферу")
			continue
		}
		if reminded {
			sent++
			metrics.OfferRemindersSent.Inc()
		}
	}
	return sent, nil
}

func (i impl) Get(ctx context.Context, offerID string) (*offerapimodels.OfferView, error) {
	rec, err := i.tx.Stores().Offers.GetByID(offerID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения оффера")
	}
	if rec == nil {
		return nil, pipelineerrors.NotFound("оффер", offerID)
	}
	view := offerapimodels.OfferConvert(*rec)
	return &view, nil
}

func (i impl) GetByApplication(ctx context.Context, applicationID string) (*offerapimodels.OfferView, error) {
	rec, err := i.tx.Stores().Offers.GetByApplication(applicationID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения оффера")
	}
	if rec == nil {
		return nil, pipelineerrors.NotFound("оффер по отклику", applicationID)
	}
	view := offerapimodels.OfferConvert(*rec)
	return &view, nil
}

func (i impl) OfferLetter(ctx context.Context, offerID string) ([]byte, error) {
	if i.archive != nil {
		body, err := i.archive.GetOfferLetter(ctx, offerID)
		if err != nil {
			i.getLogger(offerID, "").WithError(err).Warn("печатная форма оффера не получена из архива")
		} else if len(body) != 0 {
			return body, nil
		}
	}
	return i.buildLetter(offerID)
}

func (i impl) buildLetter(offerID string) ([]byte, error) {
	stores := i.tx.Stores()
	offer, err := stores.Offers.GetByID(offerID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения оффера")
	}
	if offer == nil {
		return nil, pipelineerrors.NotFound("оффер", offerID)
	}
	var candidate *dbmodels.Candidate
	app, err := stores.Applications.GetByID(offer.ApplicationID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения отклика")
	}
	if app != nil {
		candidate = app.Candidate
	}
	body, err := offerletter.Build(i.company, *offer, candidate)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования печатной формы оффера")
	}
	return body, nil
}

// archiveLetter сохраняет актуальную печатную форму, ошибка архивации не влияет на операцию
func (i impl) archiveLetter(ctx context.Context, offerID string) {
	if i.archive == nil {
		return
	}
	logger := i.getLogger(offerID, "")
	body, err := i.buildLetter(offerID)
	if err != nil {
		logger.WithError(err).Error("ошибка формирования печатной формы оффера")
		return
	}
	if _, err = i.archive.UploadOfferLetter(ctx, offerID, body); err != nil {
		logger.WithError(err).Error("ошибка архивации печатной формы оффера")
	}
}

func appendNote(notes, note string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}
