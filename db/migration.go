package db

import (
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Candidate{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Candidate")
	}
	if err := DB.AutoMigrate(&dbmodels.StaffUser{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры StaffUser")
	}
	if err := DB.AutoMigrate(&dbmodels.JobPosition{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры JobPosition")
	}
	if err := DB.AutoMigrate(&dbmodels.JobApplication{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры JobApplication")
	}
	if err := DB.AutoMigrate(&dbmodels.ApplicationStatusHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApplicationStatusHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.Interview{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Interview")
	}
	if err := DB.AutoMigrate(&dbmodels.InterviewParticipant{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры InterviewParticipant")
	}
	if err := DB.AutoMigrate(&dbmodels.InterviewEvaluation{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры InterviewEvaluation")
	}
	if err := DB.AutoMigrate(&dbmodels.JobOffer{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры JobOffer")
	}
	if err := DB.AutoMigrate(&dbmodels.NotificationOutbox{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры NotificationOutbox")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
