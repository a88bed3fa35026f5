package db

import (
	"hr-pipeline-backend/config"
	directorystore "hr-pipeline-backend/lib/directory/store"
	authutils "hr-pipeline-backend/lib/utils/auth-utils"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"

	log "github.com/sirupsen/logrus"
)

func InitPreload() {
	addAdmin()
	fillJobPositions()
}

func addAdmin() {
	if config.Conf.Admin.Email == "" {
		log.Warn("администратор не добавлен, отсутствует настройка ADMIN_EMAIL")
		return
	}
	if config.Conf.Admin.Password == "" {
		log.Warn("администратор не добавлен, отсутствует настройка ADMIN_PASSWORD")
		return
	}
	store := directorystore.NewInstance(DB)
	existedRec, err := store.FindStaffByEmail(config.Conf.Admin.Email)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	if existedRec != nil {
		return
	}
	password, err := authutils.HashPassword(config.Conf.Admin.Password)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	rec := dbmodels.StaffUser{
		IsActive:  true,
		Role:      models.AdminRole,
		Password:  password,
		FirstName: config.Conf.Admin.FirstName,
		LastName:  config.Conf.Admin.LastName,
		Email:     config.Conf.Admin.Email,
	}
	_, err = store.CreateStaffUser(rec)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
	}
}
