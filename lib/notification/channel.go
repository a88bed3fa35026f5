package notification

import (
	"context"
	dbmodels "hr-pipeline-backend/models/db"
)

//go:generate mockgen -source=./channel.go -destination=./mocks/channel.mock.go -package=notificationmocks -typed=true Channel

// Channel способ доставки уведомления
type Channel interface {
	Name() string
	// Deliver возвращает false без ошибки, если канал не применим к получателю
	Deliver(ctx context.Context, rec dbmodels.NotificationOutbox, msg Message) (delivered bool, err error)
}
