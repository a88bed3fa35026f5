package txmanager

import (
	"context"
	applicationhistorystore "hr-pipeline-backend/lib/application-history/store"
	applicationstore "hr-pipeline-backend/lib/application/store"
	directorystore "hr-pipeline-backend/lib/directory/store"
	evaluationstore "hr-pipeline-backend/lib/interview/evaluation-store"
	participantstore "hr-pipeline-backend/lib/interview/participant-store"
	interviewstore "hr-pipeline-backend/lib/interview/store"
	outboxstore "hr-pipeline-backend/lib/notification/outbox-store"
	offerstore "hr-pipeline-backend/lib/offer/store"

	"gorm.io/gorm"
)

// Stores набор хранилищ, привязанных к одной транзакции
type Stores struct {
	Applications applicationstore.Provider
	History      applicationhistorystore.Provider
	Interviews   interviewstore.Provider
	Participants participantstore.Provider
	Evaluations  evaluationstore.Provider
	Offers       offerstore.Provider
	Outbox       outboxstore.Provider
	Directory    directorystore.Provider
}

type Provider interface {
	// InTx выполняет fn в одной транзакции, ошибка fn откатывает все изменения
	InTx(ctx context.Context, fn func(stores Stores) error) error
	// Stores хранилища вне транзакции, для чтения
	Stores() Stores
}

var Instance Provider

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) InTx(ctx context.Context, fn func(stores Stores) error) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}

func (i impl) Stores() Stores {
	return NewStores(i.db)
}

func NewStores(DB *gorm.DB) Stores {
	return Stores{
		Applications: applicationstore.NewInstance(DB),
		History:      applicationhistorystore.NewInstance(DB),
		Interviews:   interviewstore.NewInstance(DB),
		Participants: participantstore.NewInstance(DB),
		Evaluations:  evaluationstore.NewInstance(DB),
		Offers:       offerstore.NewInstance(DB),
		Outbox:       outboxstore.NewInstance(DB),
		Directory:    directorystore.NewInstance(DB),
	}
}
