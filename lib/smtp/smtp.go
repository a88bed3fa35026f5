package smtp

import (
	"bytes"
	"hr-pipeline-backend/models"
	"io"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

var Instance Provider

type Provider interface {
	Enabled() bool
	SendEMail(to, subject, body string, attachments ...models.File) error
}

func Connect(user, password, host, port, from string, tlsEnabled bool) error {
	if from == "" {
		from = user
	}
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		from:       from,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	from       string
	tlsEnabled bool
}

func (i impl) Enabled() bool {
	return i.user != "" && i.host != "" && i.port != ""
}

func (i impl) SendEMail(to, subject, body string, attachments ...models.File) (err error) {
	logger := log.WithField("recipient", to)
	if !i.Enabled() {
		logger.Warn("Письмо не отправлено, тк не настроен smtp клиент")
		return nil
	}
	msg, err := BuildMessage(i.from, to, subject, body, attachments...)
	if err != nil {
		return err
	}
	// Authentication.
	auth := sasl.NewPlainClient("", i.user, i.password)
	sendTo := []string{
		to,
	}
	// Sending email.
	if i.tlsEnabled {
		err = smtp.SendMailTLS(i.host+":"+i.port, auth, i.from, sendTo, msg)
	} else {
		err = smtp.SendMail(i.host+":"+i.port, auth, i.from, sendTo, msg)
	}
	if err != nil {
		logger.WithError(err).Error("Ошибка отправки сообщения")
		return err
	}
	logger.Info("письмо отправлено")
	return nil
}

// BuildMessage собирает MIME сообщение с вложениями
func BuildMessage(from, to, subject, body string, attachments ...models.File) (io.Reader, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	for _, file := range attachments {
		content := file.Body
		m.Attach(file.FileName,
			gomail.SetHeader(map[string][]string{"Content-Type": {file.ContentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}))
	}
	buf := new(bytes.Buffer)
	if _, err := m.WriteTo(buf); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования письма")
	}
	return buf, nil
}
