package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type errNotification struct {
	Code   int    `json:"code"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Error  string `json:"error"`
	UserID string `json:"user_id,omitempty"`
}

// ErrNotify отправляет сведения об ответах 5xx во внешний сборщик ошибок
func ErrNotify(addr string) fiber.Handler {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}

		var data struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil {
			log.WithError(unmErr).Warn("ошибка разбора тела ответа")
		}
		path := c.OriginalURL()
		if r := c.Route(); r != nil {
			path = r.Path
		}
		msg := data.Message
		if msg == "" {
			msg = string(c.Response().Body())
		}
		payload, marshalErr := json.Marshal(errNotification{
			Code:   statusCode,
			Method: c.Method(),
			Path:   path,
			Error:  msg,
			UserID: GetUserID(c),
		})
		if marshalErr != nil {
			log.WithError(marshalErr).Warn("ошибка формирования уведомления об ошибке")
			return err
		}

		go func() {
			resp, reqErr := client.Post(addr, "application/json", strings.NewReader(string(payload)))
			if reqErr != nil {
				log.WithError(reqErr).Warn("ошибка отправки уведомления об ошибке")
				return
			}
			resp.Body.Close()
		}()
		return err
	}
}
