package notificationchannels

import (
	"context"
	directorystore "hr-pipeline-backend/lib/directory/store"
	"hr-pipeline-backend/lib/notification"
	"hr-pipeline-backend/lib/smtp"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
)

const EmailChannelName = "email"

// NewEmail канал доставки по почте, адрес берется из справочника, attachments может быть nil
func NewEmail(sender smtp.Provider, directory directorystore.Provider, attachments AttachmentSource) notification.Channel {
	return emailChannel{
		sender:      sender,
		directory:   directory,
		attachments: attachments,
	}
}

type emailChannel struct {
	sender      smtp.Provider
	directory   directorystore.Provider
	attachments AttachmentSource
}

func (c emailChannel) Name() string {
	return EmailChannelName
}

func (c emailChannel) Deliver(ctx context.Context, rec dbmodels.NotificationOutbox, msg notification.Message) (bool, error) {
	if c.sender == nil || !c.sender.Enabled() {
		return false, nil
	}
	email, err := c.recipientEmail(rec)
	if err != nil {
		return false, err
	}
	if email == "" {
		return false, nil
	}
	var files []models.File
	if c.attachments != nil {
		files, err = c.attachments.Attachments(ctx, rec)
		if err != nil {
			return false, err
		}
	}
	if err = c.sender.SendEMail(email, msg.Subject, msg.Body, files...); err != nil {
		return false, errors.Wrap(err, "ошибка отправки письма")
	}
	return true, nil
}

func (c emailChannel) recipientEmail(rec dbmodels.NotificationOutbox) (string, error) {
	switch rec.RecipientType {
	case models.RecipientCandidate:
		candidate, err := c.directory.GetCandidate(rec.RecipientID)
		if err != nil {
			return "", errors.Wrap(err, "ошибка получения кандидата")
		}
		if candidate == nil {
			return "", nil
		}
		return candidate.Email, nil
	case models.RecipientStaff:
		user, err := c.directory.GetStaffUser(rec.RecipientID)
		if err != nil {
			return "", errors.Wrap(err, "ошибка получения сотрудника")
		}
		if user == nil || !user.IsActive {
			return "", nil
		}
		return user.Email, nil
	}
	return "", nil
}
