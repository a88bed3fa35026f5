package applicationhistorystore

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Provider журнал только на добавление, изменения и удаления нет
type Provider interface {
	Create(rec dbmodels.ApplicationStatusHistory) (id string, err error)
	LastSequence(applicationID string) (int, error)
	List(applicationID string) (list []dbmodels.ApplicationStatusHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApplicationStatusHistory) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", pipelineerrors.ConcurrentModification("история отклика", rec.ApplicationID)
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) LastSequence(applicationID string) (int, error) {
	var seq int
	err := i.db.
		Model(dbmodels.ApplicationStatusHistory{}).
		Select("coalesce(max(sequence), 0)").
		Where("application_id = ?", applicationID).
		Scan(&seq).
		Error
	if err != nil {
		log.WithError(err).Error("ошибка получения последнего номера записи истории")
		return 0, errors.Wrap(err, "ошибка получения последнего номера записи истории")
	}
	return seq, nil
}

func (i impl) List(applicationID string) (list []dbmodels.ApplicationStatusHistory, err error) {
	list = []dbmodels.ApplicationStatusHistory{}
	err = i.db.
		Model(dbmodels.ApplicationStatusHistory{}).
		Where("application_id = ?", applicationID).
		Order("sequence").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
