package directorystore

import (
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetCandidate(id string) (rec *dbmodels.Candidate, err error)
	GetStaffUser(id string) (rec *dbmodels.StaffUser, err error)
	GetJobPosition(id string) (rec *dbmodels.JobPosition, err error)
	FindStaffByEmail(email string) (rec *dbmodels.StaffUser, err error)
	CreateStaffUser(rec dbmodels.StaffUser) (id string, err error)
	CountJobPositions() (count int64, err error)
	CreateJobPosition(rec dbmodels.JobPosition) (id string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetCandidate(id string) (*dbmodels.Candidate, error) {
	rec := dbmodels.Candidate{}
	if err := first(i.db.Where("id = ?", id), &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, nil
	}
	return &rec, nil
}

func (i impl) GetStaffUser(id string) (*dbmodels.StaffUser, error) {
	rec := dbmodels.StaffUser{}
	if err := first(i.db.Where("id = ?", id), &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, nil
	}
	return &rec, nil
}

func (i impl) GetJobPosition(id string) (*dbmodels.JobPosition, error) {
	rec := dbmodels.JobPosition{}
	if err := first(i.db.Where("id = ?", id), &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, nil
	}
	return &rec, nil
}

func (i impl) FindStaffByEmail(email string) (*dbmodels.StaffUser, error) {
	rec := dbmodels.StaffUser{}
	if err := first(i.db.Where("email = ?", email), &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, nil
	}
	return &rec, nil
}

func (i impl) CreateStaffUser(rec dbmodels.StaffUser) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) CountJobPositions() (count int64, err error) {
	err = i.db.Model(&dbmodels.JobPosition{}).Count(&count).Error
	return count, err
}

func (i impl) CreateJobPosition(rec dbmodels.JobPosition) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func first(tx *gorm.DB, dest interface{}) error {
	err := tx.First(dest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
