package http

import (
	stderrors "errors"

	"docdb-explorer/internal/shared/errors"
	"docdb-explorer/internal/shared/logger"
	"docdb-explorer/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// RequestIDMiddleware assigns every request an id, echoes it in X-Request-ID
// and puts it on the user context so logs carry it.
func RequestIDMiddleware() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	})
}

// ContextMiddleware copies the request id into the request's user context.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// ErrorHandler renders errors that escape the handlers.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if stderrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error":   "request_failed",
				"message": fiberErr.Message,
			})
		}
		log.WithContext(c.UserContext()).Errorf("HTTP Error: %v", err)
		return writeError(c, err)
	}
}

// writeError maps a tree operation error to a status and JSON body.
// Cancellation and not-found are checked before remote failure since a
// remote error can wrap either.
func writeError(c *fiber.Ctx, err error) error {
	status := errors.HTTPStatus(err)
	code := "internal_error"

	switch {
	case errors.IsOperationCancelled(err):
		status, code = fiber.StatusConflict, "operation_cancelled"
	case errors.IsNotFound(err):
		status, code = fiber.StatusNotFound, "not_found"
	case errors.IsRemoteOperation(err):
		status, code = fiber.StatusBadGateway, "remote_operation_failed"
	case errors.IsValidation(err):
		status, code = fiber.StatusBadRequest, "invalid_argument"
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) && appErr.HTTPCode != 0 {
			status = appErr.HTTPCode
			if appErr.Code != "" {
				code = appErr.Code
			}
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": err.Error(),
	})
}
