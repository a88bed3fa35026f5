package interviewstore

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Interview) (id string, err error)
	GetByID(id string) (rec *dbmodels.Interview, err error)
	ListByApplication(applicationID string) (list []dbmodels.Interview, err error)
	MaxRound(applicationID string) (int, error)
	CountByStatus(applicationID string, status models.InterviewStatus) (int64, error)
	Update(id string, version int64, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Interview) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", pipelineerrors.DuplicateRound(rec.RoundNumber)
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Interview, error) {
	rec := dbmodels.Interview{}
	err := i.db.
		Model(&dbmodels.Interview{}).
		Where("id = ?", id).
		Preload("Participants").
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

func (i impl) ListByApplication(applicationID string) (list []dbmodels.Interview, err error) {
	list = []dbmodels.Interview{}
	err = i.db.
		Model(&dbmodels.Interview{}).
		Where("application_id = ?", applicationID).
		Order("round_number").
		Preload("Participants").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) MaxRound(applicationID string) (int, error) {
	var round int
	err := i.db.
		Model(&dbmodels.Interview{}).
		Select("coalesce(max(round_number), 0)").
		Where("application_id = ?", applicationID).
		Scan(&round).
		Error
	return round, err
}

func (i impl) CountByStatus(applicationID string, status models.InterviewStatus) (int64, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.Interview{}).
		Where("application_id = ? and status = ?", applicationID, status).
		Count(&count).
		Error
	return count, err
}

func (i impl) Update(id string, version int64, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	updMap["Version"] = version + 1
	tx := i.db.
		Model(&dbmodels.Interview{}).
		Where("id = ? and version = ?", id, version).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return pipelineerrors.ConcurrentModification("интервью", id)
	}
	return nil
}
