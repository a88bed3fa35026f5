package models

import (
	log "github.com/sirupsen/logrus"
)

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "PENDING"
	OfferStatusCountered OfferStatus = "COUNTERED"
	OfferStatusAccepted  OfferStatus = "ACCEPTED"
	OfferStatusRejected  OfferStatus = "REJECTED"
	OfferStatusWithdrawn OfferStatus = "WITHDRAWN"
	OfferStatusExpired   OfferStatus = "EXPIRED"
)

func (s OfferStatus) IsNegotiable() bool {
	return s == OfferStatusPending || s == OfferStatusCountered
}

func (s OfferStatus) ToHuman() string {
	switch s {
	case OfferStatusPending:
		return "Pending"
	case OfferStatusCountered:
		return "Countered"
	case OfferStatusAccepted:
		return "Accepted"
	case OfferStatusRejected:
		return "Rejected"
	case OfferStatusWithdrawn:
		return "Withdrawn"
	case OfferStatusExpired:
		return "Expired"
	}
	log.WithField("offer_status", string(s)).Warn("неизвестный статус оффера")
	return string(s)
}

type CounterRejectPolicy string

const (
	// встречное предложение отклонено - оффер закрывается
	CounterRejectPolicyReject CounterRejectPolicy = "reject"
	// встречное предложение отклонено - оффер возвращается в ожидание по исходной сумме
	CounterRejectPolicyRevert CounterRejectPolicy = "revert"
)

func (p CounterRejectPolicy) IsValid() bool {
	return p == CounterRejectPolicyReject || p == CounterRejectPolicyRevert
}
