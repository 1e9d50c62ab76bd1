package serverutils

import "github.com/gofiber/fiber/v2"

// AppError is the error surface of the HTTP layer. Only validation (400),
// not-found (404) and forbidden (403) ever reach a client; everything else
// degrades to a best-effort success or a generic 500 with no internals.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: fiber.StatusForbidden, Message: message}
}
