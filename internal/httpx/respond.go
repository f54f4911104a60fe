package httpx

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"warehouse-backend/internal/apperr"
)

// Envelope is the response shape every endpoint returns.
type Envelope struct {
	IsSuccess  bool   `json:"isSuccess"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	StatusCode int    `json:"statusCode"`
}

func OK(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		IsSuccess:  true,
		Message:    message,
		Data:       data,
		StatusCode: fiber.StatusOK,
	})
}

func Created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{
		IsSuccess:  true,
		Message:    message,
		Data:       data,
		StatusCode: fiber.StatusCreated,
	})
}

// Fail writes the envelope for an application error.
func Fail(c *fiber.Ctx, err error) error {
	status := apperr.StatusOf(err)
	msg := err.Error()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	}
	return c.Status(status).JSON(Envelope{
		IsSuccess:  false,
		Message:    msg,
		Data:       nil,
		StatusCode: status,
	})
}
