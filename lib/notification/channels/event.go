package notificationchannels

import (
	"context"
	"encoding/json"
	"hr-pipeline-backend/lib/notification"
	dbmodels "hr-pipeline-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const EventChannelName = "event_bus"

// Publisher публикация в шину событий, реализуется *nats.Conn
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Event событие уведомления для внешних потребителей
type Event struct {
	ID            string            `json:"id"`
	Kind          string            `json:"kind"`
	RecipientType string            `json:"recipient_type"`
	RecipientID   string            `json:"recipient_id"`
	ApplicationID string            `json:"application_id"`
	Subject       string            `json:"subject"`
	Body          string            `json:"body"`
	Params        map[string]string `json:"params"`
	CreatedAt     time.Time         `json:"created_at"`
}

func NewEvent(publisher Publisher, subjectPrefix string) notification.Channel {
	return eventChannel{
		publisher:     publisher,
		subjectPrefix: strings.TrimSuffix(subjectPrefix, "."),
	}
}

type eventChannel struct {
	publisher     Publisher
	subjectPrefix string
}

func (c eventChannel) Name() string {
	return EventChannelName
}

// Subject тема события, например recruitment.notifications.offer_extended
func (c eventChannel) Subject(rec dbmodels.NotificationOutbox) string {
	return c.subjectPrefix + "." + strings.ToLower(string(rec.Kind))
}

func (c eventChannel) Deliver(ctx context.Context, rec dbmodels.NotificationOutbox, msg notification.Message) (bool, error) {
	if c.publisher == nil {
		return false, nil
	}
	data, err := json.Marshal(Event{
		ID:            rec.ID,
		Kind:          string(rec.Kind),
		RecipientType: string(rec.RecipientType),
		RecipientID:   rec.RecipientID,
		ApplicationID: rec.ApplicationID,
		Subject:       msg.Subject,
		Body:          msg.Body,
		Params:        rec.Params,
		CreatedAt:     rec.CreatedAt,
	})
	if err != nil {
		return false, errors.Wrap(err, "ошибка сериализации события")
	}
	if err = c.publisher.Publish(c.Subject(rec), data); err != nil {
		return false, errors.Wrap(err, "ошибка публикации события")
	}
	return true, nil
}
