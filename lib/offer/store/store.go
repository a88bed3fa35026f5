package offerstore

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.JobOffer) (id string, err error)
	GetByID(id string) (rec *dbmodels.JobOffer, err error)
	GetByApplication(applicationID string) (rec *dbmodels.JobOffer, err error)
	Update(id string, version int64, updMap map[string]interface{}) error
	// ListExpired офферы в ожидании с истекшим сроком
	ListExpired(now time.Time, limit int) (list []dbmodels.JobOffer, err error)
	// ListForReminder офферы, срок которых истекает до deadline и напоминание не отправлялось
	ListForReminder(now, deadline time.Time, limit int) (list []dbmodels.JobOffer, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.JobOffer) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", pipelineerrors.OfferAlreadyExists(rec.ApplicationID)
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.JobOffer, error) {
	return i.getBy("id = ?", id)
}

func (i impl) GetByApplication(applicationID string) (*dbmodels.JobOffer, error) {
	return i.getBy("application_id = ?", applicationID)
}

func (i impl) getBy(query string, arg string) (*dbmodels.JobOffer, error) {
	rec := dbmodels.JobOffer{}
	err := i.db.
		Model(&dbmodels.JobOffer{}).
		Where(query, arg).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, version int64, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	updMap["Version"] = version + 1
	tx := i.db.
		Model(&dbmodels.JobOffer{}).
		Where("id = ? and version = ?", id, version).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return pipelineerrors.ConcurrentModification("оффер", id)
	}
	return nil
}

func (i impl) ListExpired(now time.Time, limit int) (list []dbmodels.JobOffer, err error) {
	list = []dbmodels.JobOffer{}
	err = i.db.
		Model(&dbmodels.JobOffer{}).
		Where("status = ?", models.OfferStatusPending).
		Where("expiry_date <= ?", now).
		Order("expiry_date").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListForReminder(now, deadline time.Time, limit int) (list []dbmodels.JobOffer, err error) {
	list = []dbmodels.JobOffer{}
	err = i.db.
		Model(&dbmodels.JobOffer{}).
		Where("status in (?)", []models.OfferStatus{models.OfferStatusPending, models.OfferStatusCountered}).
		Where("expiry_date > ? and expiry_date <= ?", now, deadline).
		Where("reminder_sent_at is null").
		Order("expiry_date").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
