package notificationchannels

import (
	"context"
	"hr-pipeline-backend/lib/notification"
	connectionhub "hr-pipeline-backend/lib/ws/hub/connection-hub"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	wsmodels "hr-pipeline-backend/models/ws"
	"time"
)

const InAppChannelName = "in_app"

// NewInApp push сотруднику, подключенному по websocket; оффлайн сотрудник получает письмо
func NewInApp(hub connectionhub.Provider) notification.Channel {
	return inAppChannel{hub: hub}
}

type inAppChannel struct {
	hub connectionhub.Provider
}

func (c inAppChannel) Name() string {
	return InAppChannelName
}

func (c inAppChannel) Deliver(ctx context.Context, rec dbmodels.NotificationOutbox, msg notification.Message) (bool, error) {
	if c.hub == nil || rec.RecipientType != models.RecipientStaff {
		return false, nil
	}
	if !c.hub.IsConnected(rec.RecipientID) {
		return false, nil
	}
	delivered := c.hub.SendMessage(wsmodels.ServerMessage{
		ToUserID: rec.RecipientID,
		Time:     time.Now().Format("02.01.2006 15:04:05"),
		Code:     string(rec.Kind),
		Msg:      msg.Subject,
	})
	return delivered, nil
}
