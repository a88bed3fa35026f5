package outboxstore

import (
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Enqueue(recs ...dbmodels.NotificationOutbox) error
	// ListDue забирает готовые к отправке записи, пропуская заблокированные другими обработчиками
	ListDue(now time.Time, limit int) (list []dbmodels.NotificationOutbox, err error)
	// Lease откладывает повторный захват записей на время доставки
	Lease(ids []string, until time.Time) error
	MarkSent(id string, sentAt time.Time) error
	MarkFailed(id string, attempts int, nextAttemptAt time.Time, lastError string, dead bool) error
	ListByApplication(applicationID string) (list []dbmodels.NotificationOutbox, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Enqueue(recs ...dbmodels.NotificationOutbox) error {
	if len(recs) == 0 {
		return nil
	}
	return i.db.Create(&recs).Error
}

func (i impl) ListDue(now time.Time, limit int) (list []dbmodels.NotificationOutbox, err error) {
	list = []dbmodels.NotificationOutbox{}
	err = i.db.
		Model(&dbmodels.NotificationOutbox{}).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", models.OutboxStatusPending).
		Where("next_attempt_at <= ?", now).
		Order("next_attempt_at").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Lease(ids []string, until time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.NotificationOutbox{}).
		Where("id in (?)", ids).
		Update("next_attempt_at", until).
		Error
}

func (i impl) MarkSent(id string, sentAt time.Time) error {
	return i.db.
		Model(&dbmodels.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"Status":    models.OutboxStatusSent,
			"SentAt":    sentAt,
			"LastError": "",
		}).
		Error
}

func (i impl) MarkFailed(id string, attempts int, nextAttemptAt time.Time, lastError string, dead bool) error {
	status := models.OutboxStatusPending
	if dead {
		status = models.OutboxStatusDead
	}
	return i.db.
		Model(&dbmodels.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"Status":        status,
			"Attempts":      attempts,
			"NextAttemptAt": nextAttemptAt,
			"LastError":     lastError,
		}).
		Error
}

func (i impl) ListByApplication(applicationID string) (list []dbmodels.NotificationOutbox, err error) {
	list = []dbmodels.NotificationOutbox{}
	err = i.db.
		Model(&dbmodels.NotificationOutbox{}).
		Where("application_id = ?", applicationID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
