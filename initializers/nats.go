package initializers

import (
	"hr-pipeline-backend/config"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

var NatsConn *nats.Conn

// InitNats без адреса NATS события уведомлений не публикуются
func InitNats() {
	if config.Conf.Nats.Url == "" {
		log.Warn("NATS не настроен, события уведомлений не публикуются")
		return
	}
	conn, err := nats.Connect(config.Conf.Nats.Url,
		nats.Name("hr-pipeline-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("соединение с NATS потеряно")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.WithField("url", c.ConnectedUrl()).Info("соединение с NATS восстановлено")
		}),
	)
	if err != nil {
		log.WithError(err).Error("Ошибка подключения к NATS")
		return
	}
	NatsConn = conn
	log.Info("NATS клиент успешно инициализирован")
}

func CloseNats() {
	if NatsConn == nil {
		return
	}
	if err := NatsConn.Drain(); err != nil {
		log.WithError(err).Warn("ошибка закрытия соединения с NATS")
	}
}
