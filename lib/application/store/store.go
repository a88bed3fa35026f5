package applicationstore

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.JobApplication) (id string, err error)
	GetByID(id string) (rec *dbmodels.JobApplication, err error)
	ExistsForPair(candidateID, jobPositionID string) (bool, error)
	Update(id string, version int64, updMap map[string]interface{}) error
	List(filter dbmodels.ApplicationFilter) (list []dbmodels.JobApplication, count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.JobApplication) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", pipelineerrors.ApplicationAlreadyExists()
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.JobApplication, error) {
	rec := dbmodels.JobApplication{}
	err := i.db.
		Model(&dbmodels.JobApplication{}).
		Where("id = ?", id).
		Preload(clause.Associations).
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

func (i impl) ExistsForPair(candidateID, jobPositionID string) (bool, error) {
	var exists bool
	err := i.db.Model(&dbmodels.JobApplication{}).
		Select("count(*) > 0").
		Where("candidate_id = ? and job_position_id = ?", candidateID, jobPositionID).
		Find(&exists).
		Error
	return exists, err
}

func (i impl) Update(id string, version int64, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	updMap["Version"] = version + 1
	tx := i.db.
		Model(&dbmodels.JobApplication{}).
		Where("id = ? and version = ?", id, version).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return pipelineerrors.ConcurrentModification("отклик", id)
	}
	return nil
}

func (i impl) List(filter dbmodels.ApplicationFilter) (list []dbmodels.JobApplication, count int64, err error) {
	list = []dbmodels.JobApplication{}
	tx := i.db.Model(dbmodels.JobApplication{})
	if filter.JobPositionID != "" {
		tx = tx.Where("job_position_id = ?", filter.JobPositionID)
	}
	if filter.CandidateID != "" {
		tx = tx.Where("candidate_id = ?", filter.CandidateID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}
	err = tx.Count(&count).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения количества откликов")
	}
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		tx = tx.Limit(filter.Limit).Offset((page - 1) * filter.Limit)
	}
	err = tx.
		Order("applied_at desc").
		Preload(clause.Associations).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, count, nil
}
