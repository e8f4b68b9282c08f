package handler

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
}

// Fail sends status with an ErrorResponse. The text of cause, if any, becomes the details.
func Fail(c *fiber.Ctx, status int, msg string, cause error) error {
	resp := ErrorResponse{Error: msg}
	if cause != nil {
		resp.Details = cause.Error()
	}

	return c.Status(status).JSON(resp)
}

// FailWithMessage sends status with an ErrorResponse carrying an explanatory message.
func FailWithMessage(c *fiber.Ctx, status int, msg, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: msg, Message: message})
}
