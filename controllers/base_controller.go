package controllers

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	"hr-pipeline-backend/middleware"
	apimodels "hr-pipeline-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError ошибки конвейера отдает с кодом, остальные логирует и скрывает за msg
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	pErr, ok := pipelineerrors.As(err)
	if !ok {
		logger.WithError(err).Error(msg)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
	}
	status := fiber.StatusBadRequest
	switch pErr.Kind {
	case pipelineerrors.KindNotFound:
		status = fiber.StatusNotFound
	case pipelineerrors.KindConcurrency:
		status = fiber.StatusConflict
	}
	logger.
		WithField("code", pErr.Code).
		Info(pErr.Error())
	return ctx.Status(status).JSON(apimodels.NewErrorWithCode(string(pErr.Code), pErr.Message))
}
