package notificationchannels

import (
	"context"
	directorystore "hr-pipeline-backend/lib/directory/store"
	"hr-pipeline-backend/lib/notification"
	offerletter "hr-pipeline-backend/lib/offer/letter"
	offerstore "hr-pipeline-backend/lib/offer/store"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AttachmentSource вложения письма по записи outbox
type AttachmentSource interface {
	Attachments(ctx context.Context, rec dbmodels.NotificationOutbox) ([]models.File, error)
}

// NewOfferLetterAttachments печатная форма оффера к письмам кандидату о выдвинутом и измененном оффере
func NewOfferLetterAttachments(offers offerstore.Provider, directory directorystore.Provider, company models.CompanyInfo) AttachmentSource {
	return offerLetterAttachments{
		offers:    offers,
		directory: directory,
		company:   company,
	}
}

type offerLetterAttachments struct {
	offers    offerstore.Provider
	directory directorystore.Provider
	company   models.CompanyInfo
}

func (s offerLetterAttachments) Attachments(ctx context.Context, rec dbmodels.NotificationOutbox) ([]models.File, error) {
	if rec.RecipientType != models.RecipientCandidate {
		return nil, nil
	}
	if rec.Kind != models.NotificationOfferExtended && rec.Kind != models.NotificationOfferRevised {
		return nil, nil
	}
	offerID := rec.Params[notification.ParamOfferID]
	if offerID == "" {
		return nil, nil
	}
	offer, err := s.offers.GetByID(offerID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения оффера")
	}
	if offer == nil {
		log.WithField("offer_id", offerID).Warn("оффер для вложения не найден, письмо отправляется без печатной формы")
		return nil, nil
	}
	candidate, err := s.directory.GetCandidate(rec.RecipientID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения кандидата")
	}
	body, err := offerletter.Build(s.company, *offer, candidate)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования печатной формы оффера")
	}
	return []models.File{offerletter.File(body)}, nil
}
