package models

import (
	log "github.com/sirupsen/logrus"
)

type ApplicationStatus string

const (
	ApplicationStatusApplied            ApplicationStatus = "APPLIED"
	ApplicationStatusScreening          ApplicationStatus = "SCREENING"
	ApplicationStatusInterviewScheduled ApplicationStatus = "INTERVIEW_SCHEDULED"
	ApplicationStatusInterviewCompleted ApplicationStatus = "INTERVIEW_COMPLETED"
	ApplicationStatusOfferExtended      ApplicationStatus = "OFFER_EXTENDED"
	ApplicationStatusCounterPending     ApplicationStatus = "COUNTER_PENDING" // подсостояние OfferExtended
	ApplicationStatusHired              ApplicationStatus = "HIRED"
	ApplicationStatusRejected           ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn          ApplicationStatus = "WITHDRAWN"
)

var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusApplied,
	ApplicationStatusScreening,
	ApplicationStatusInterviewScheduled,
	ApplicationStatusInterviewCompleted,
	ApplicationStatusOfferExtended,
	ApplicationStatusCounterPending,
	ApplicationStatusHired,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusApplied,
		ApplicationStatusScreening,
		ApplicationStatusInterviewScheduled,
		ApplicationStatusInterviewCompleted,
		ApplicationStatusOfferExtended,
		ApplicationStatusCounterPending,
		ApplicationStatusHired,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn:
		return true
	}
	return false
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusHired ||
		s == ApplicationStatusRejected ||
		s == ApplicationStatusWithdrawn
}

// ToHuman подпись статуса для интерфейса и шаблонов уведомлений
func (s ApplicationStatus) ToHuman() string {
	switch s {
	case ApplicationStatusApplied:
		return "Applied"
	case ApplicationStatusScreening:
		return "Screening"
	case ApplicationStatusInterviewScheduled:
		return "Interview scheduled"
	case ApplicationStatusInterviewCompleted:
		return "Interview completed"
	case ApplicationStatusOfferExtended:
		return "Offer extended"
	case ApplicationStatusCounterPending:
		return "Counter-offer pending"
	case ApplicationStatusHired:
		return "Hired"
	case ApplicationStatusRejected:
		return "Rejected"
	case ApplicationStatusWithdrawn:
		return "Withdrawn"
	}
	log.WithField("application_status", string(s)).Warn("неизвестный статус кандидата")
	return string(s)
}
