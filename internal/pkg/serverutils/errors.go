package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError is the client-facing error taxonomy. Services return these;
// controllers let them bubble up to ErrorHandlerMiddleware which maps them
// to a status code and envelope.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: "validation_failed", Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Code: "unauthorized", Message: message}
}

// NewAuthorizationError covers host-only / owner-only actions.
func NewAuthorizationError(message string) *AppError {
	return &AppError{Status: fiber.StatusForbidden, Code: "forbidden", Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Code: "not_found", Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Status: fiber.StatusConflict, Code: "conflict", Message: message}
}

// NewInactiveRoomError is returned for signaling against an ended or unknown
// room. Pollers treat it as "stop polling, stream has ended". Unknown and
// ended rooms deliberately collapse into the same response.
func NewInactiveRoomError() *AppError {
	return &AppError{Status: fiber.StatusNotFound, Code: "room_inactive", Message: "Stream not found or inactive"}
}

// IsAppError unwraps err into an *AppError if possible.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
