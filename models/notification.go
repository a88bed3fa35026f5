package models

import (
	log "github.com/sirupsen/logrus"
)

type NotificationKind string

const (
	NotificationApplicationStatusChanged NotificationKind = "APPLICATION_STATUS_CHANGED"
	NotificationInterviewScheduled       NotificationKind = "INTERVIEW_SCHEDULED"
	NotificationInterviewRescheduled     NotificationKind = "INTERVIEW_RESCHEDULED"
	NotificationInterviewCancelled       NotificationKind = "INTERVIEW_CANCELLED"
	NotificationEvaluationReminder       NotificationKind = "EVALUATION_REMINDER"
	NotificationLeadAssigned             NotificationKind = "LEAD_ASSIGNED"
	NotificationOfferExtended            NotificationKind = "OFFER_EXTENDED"
	NotificationOfferExpiryExtended      NotificationKind = "OFFER_EXPIRY_EXTENDED"
	NotificationOfferRevised             NotificationKind = "OFFER_REVISED"
	NotificationCounterOfferReceived     NotificationKind = "COUNTER_OFFER_RECEIVED"
	NotificationCounterOfferResponse     NotificationKind = "COUNTER_OFFER_RESPONSE"
	NotificationOfferAccepted            NotificationKind = "OFFER_ACCEPTED"
	NotificationOfferDeclined            NotificationKind = "OFFER_DECLINED"
	NotificationOfferWithdrawn           NotificationKind = "OFFER_WITHDRAWN"
	NotificationOfferExpired             NotificationKind = "OFFER_EXPIRED"
	NotificationOfferExpiryReminder      NotificationKind = "OFFER_EXPIRY_REMINDER"
)

var NotificationKinds = []NotificationKind{
	NotificationApplicationStatusChanged,
	NotificationInterviewScheduled,
	NotificationInterviewRescheduled,
	NotificationInterviewCancelled,
	NotificationEvaluationReminder,
	NotificationLeadAssigned,
	NotificationOfferExtended,
	NotificationOfferExpiryExtended,
	NotificationOfferRevised,
	NotificationCounterOfferReceived,
	NotificationCounterOfferResponse,
	NotificationOfferAccepted,
	NotificationOfferDeclined,
	NotificationOfferWithdrawn,
	NotificationOfferExpired,
	NotificationOfferExpiryReminder,
}

func (k NotificationKind) ToHuman() string {
	switch k {
	case NotificationApplicationStatusChanged:
		return "Application status changed"
	case NotificationInterviewScheduled:
		return "Interview scheduled"
	case NotificationInterviewRescheduled:
		return "Interview rescheduled"
	case NotificationInterviewCancelled:
		return "Interview cancelled"
	case NotificationEvaluationReminder:
		return "Evaluation reminder"
	case NotificationLeadAssigned:
		return "Lead interviewer assigned"
	case NotificationOfferExtended:
		return "Offer extended"
	case NotificationOfferExpiryExtended:
		return "Offer expiry extended"
	case NotificationOfferRevised:
		return "Offer revised"
	case NotificationCounterOfferReceived:
		return "Counter-offer received"
	case NotificationCounterOfferResponse:
		return "Counter-offer response"
	case NotificationOfferAccepted:
		return "Offer accepted"
	case NotificationOfferDeclined:
		return "Offer declined"
	case NotificationOfferWithdrawn:
		return "Offer withdrawn"
	case NotificationOfferExpired:
		return "Offer expired"
	case NotificationOfferExpiryReminder:
		return "Offer expiry reminder"
	}
	log.WithField("notification_kind", string(k)).Warn("неизвестный тип уведомления")
	return string(k)
}

type RecipientType string

const (
	RecipientCandidate RecipientType = "CANDIDATE"
	RecipientStaff     RecipientType = "STAFF"
)

type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "PENDING"
	OutboxStatusSent    OutboxStatus = "SENT"
	OutboxStatusDead    OutboxStatus = "DEAD" // исчерпаны попытки доставки
)
