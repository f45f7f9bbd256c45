package serverutils

import "github.com/gofiber/fiber/v2"

// APIError is a domain failure with a caller-visible status and message.
// Anything else that escapes a controller is treated as an infrastructure
// error and rendered as a generic 500.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(code int, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func BadRequest(message string) *APIError {
	return NewAPIError(fiber.StatusBadRequest, message)
}

func Forbidden(message string) *APIError {
	return NewAPIError(fiber.StatusForbidden, message)
}

func NotFound(message string) *APIError {
	return NewAPIError(fiber.StatusNotFound, message)
}

func Conflict(message string) *APIError {
	return NewAPIError(fiber.StatusConflict, message)
}
