package dbmodels

import (
	"hr-pipeline-backend/models"
	"time"
)

// ApplicationStatusHistory запись журнала переходов, после создания не изменяется
type ApplicationStatusHistory struct {
	BaseModel
	ApplicationID string                   `gorm:"type:varchar(36);not null;uniqueIndex:idx_status_history_seq,priority:1"`
	Sequence      int                      `gorm:"not null;uniqueIndex:idx_status_history_seq,priority:2"`
	FromStatus    models.ApplicationStatus `gorm:"type:varchar(50)"`
	ToStatus      models.ApplicationStatus `gorm:"type:varchar(50)"`
	ActorID       string                   `gorm:"type:varchar(64)"`
	ChangedAt     time.Time
	Comment       string
}

func (ApplicationStatusHistory) TableName() string {
	return "application_status_history"
}
