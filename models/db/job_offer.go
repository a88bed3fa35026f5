package dbmodels

import (
	"hr-pipeline-backend/models"
	"time"

	"github.com/shopspring/decimal"
)

type JobOffer struct {
	VersionedModel
	ApplicationID      string          `gorm:"type:varchar(36);not null;uniqueIndex"`
	OfferedSalary      decimal.Decimal `gorm:"type:numeric;not null"`
	Benefits           string
	JobTitle           string `gorm:"type:varchar(255)"`
	OfferDate          time.Time
	ExpiryDate         time.Time          `gorm:"index"`
	Status             models.OfferStatus `gorm:"type:varchar(50);index"`
	ExtendedBy         string             `gorm:"type:varchar(64)"`
	Notes              string
	JoiningDate        *time.Time
	CounterOfferAmount *decimal.Decimal `gorm:"type:numeric"`
	CounterOfferNotes  string
	ResponseDate       *time.Time
	ResponseText       string
	ReminderSentAt     *time.Time
}

// IsLive оффер действует и не истек
func (o JobOffer) IsLive(now time.Time) bool {
	return o.Status == models.OfferStatusPending && o.ExpiryDate.After(now)
}
