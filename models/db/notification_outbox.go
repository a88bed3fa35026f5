package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"hr-pipeline-backend/models"
	"time"

	"github.com/pkg/errors"
)

// NotificationOutbox намерение отправить уведомление, пишется в одной транзакции с изменением
type NotificationOutbox struct {
	BaseModel
	Kind          models.NotificationKind `gorm:"type:varchar(100)"`
	RecipientType models.RecipientType    `gorm:"type:varchar(50)"`
	RecipientID   string                  `gorm:"type:varchar(36)"`
	ApplicationID string                  `gorm:"type:varchar(36);index"`
	Params        NotificationParams      `gorm:"type:jsonb"`
	Status        models.OutboxStatus     `gorm:"type:varchar(50);index:idx_outbox_due,priority:1"`
	Attempts      int
	NextAttemptAt time.Time `gorm:"index:idx_outbox_due,priority:2"`
	LastError     string
	SentAt        *time.Time
}

func (NotificationOutbox) TableName() string {
	return "notification_outbox"
}

type NotificationParams map[string]string

func (j NotificationParams) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *NotificationParams) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("неподдерживаемый тип параметров уведомления: %T", value)
	}
	return json.Unmarshal(data, j)
}

func NewNotification(kind models.NotificationKind, recipientType models.RecipientType, recipientID, applicationID string, now time.Time, params NotificationParams) NotificationOutbox {
	return NotificationOutbox{
		Kind:          kind,
		RecipientType: recipientType,
		RecipientID:   recipientID,
		ApplicationID: applicationID,
		Params:        params,
		Status:        models.OutboxStatusPending,
		NextAttemptAt: now,
	}
}
