package offerapimodels

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"time"

	"github.com/shopspring/decimal"
)

type ExtendRequest struct {
	Salary      decimal.Decimal `json:"salary"`
	Benefits    string          `json:"benefits"`
	ExpiryDate  time.Time       `json:"expiry_date"`
	JoiningDate *time.Time      `json:"joining_date"`
	Notes       string          `json:"notes"`
}

func (r ExtendRequest) Validate() error {
	if !r.Salary.IsPositive() {
		return pipelineerrors.InvalidArgument("сумма оффера должна быть положительной")
	}
	if r.ExpiryDate.IsZero() {
		return pipelineerrors.InvalidArgument("не указан срок действия оффера")
	}
	return nil
}

type ExtendExpiryRequest struct {
	ExpiryDate time.Time `json:"expiry_date"`
	Reason     string    `json:"reason"`
}

func (r ExtendExpiryRequest) Validate() error {
	if r.ExpiryDate.IsZero() {
		return pipelineerrors.InvalidArgument("не указан новый срок действия оффера")
	}
	return nil
}

type ReviseRequest struct {
	Salary      decimal.Decimal `json:"salary"`
	Benefits    string          `json:"benefits"`
	JoiningDate *time.Time      `json:"joining_date"`
}

func (r ReviseRequest) Validate() error {
	if !r.Salary.IsPositive() {
		return pipelineerrors.InvalidArgument("сумма оффера должна быть положительной")
	}
	return nil
}

type CounterRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

func (r CounterRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return pipelineerrors.InvalidArgument("сумма встречного предложения должна быть положительной")
	}
	return nil
}

type CounterResponseRequest struct {
	Accepted      bool             `json:"accepted"`
	RevisedSalary *decimal.Decimal `json:"revised_salary"`
	ResponseText  string           `json:"response_text"`
}

func (r CounterResponseRequest) Validate() error {
	if r.RevisedSalary != nil {
		if !r.Accepted {
			return pipelineerrors.InvalidArgument("пересмотренная сумма указывается только при принятии встречного предложения")
		}
		if !r.RevisedSalary.IsPositive() {
			return pipelineerrors.InvalidArgument("пересмотренная сумма должна быть положительной")
		}
	}
	return nil
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type OfferView struct {
	ID                 string             `json:"id"`
	ApplicationID      string             `json:"application_id"`
	OfferedSalary      decimal.Decimal    `json:"offered_salary"`
	Benefits           string             `json:"benefits"`
	JobTitle           string             `json:"job_title"`
	OfferDate          time.Time          `json:"offer_date"`
	ExpiryDate         time.Time          `json:"expiry_date"`
	Status             models.OfferStatus `json:"status"`
	StatusName         string             `json:"status_name"`
	ExtendedBy         string             `json:"extended_by"`
	Notes              string             `json:"notes"`
	JoiningDate        *time.Time         `json:"joining_date"`
	CounterOfferAmount *decimal.Decimal   `json:"counter_offer_amount"`
	CounterOfferNotes  string             `json:"counter_offer_notes"`
	ResponseDate       *time.Time         `json:"response_date"`
	ResponseText       string             `json:"response_text"`
	Version            int64              `json:"version"`
}

func OfferConvert(rec dbmodels.JobOffer) OfferView {
	return OfferView{
		ID:                 rec.ID,
		ApplicationID:      rec.ApplicationID,
		OfferedSalary:      rec.OfferedSalary,
		Benefits:           rec.Benefits,
		JobTitle:           rec.JobTitle,
		OfferDate:          rec.OfferDate,
		ExpiryDate:         rec.ExpiryDate,
		Status:             rec.Status,
		StatusName:         rec.Status.ToHuman(),
		ExtendedBy:         rec.ExtendedBy,
		Notes:              rec.Notes,
		JoiningDate:        rec.JoiningDate,
		CounterOfferAmount: rec.CounterOfferAmount,
		CounterOfferNotes:  rec.CounterOfferNotes,
		ResponseDate:       rec.ResponseDate,
		ResponseText:       rec.ResponseText,
		Version:            rec.Version,
	}
}
