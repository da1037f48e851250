package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Error is a typed application error carrying the HTTP status it maps to.
// Domain and authorization code returns these; the transport boundary turns
// them into the standard error envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation reports a missing or empty required field (400).
func Validation(message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message}
}

// Conflict reports a duplicate username or email. The API contract maps
// conflicts to 400, not 409.
func Conflict(message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message}
}

// Authentication reports missing or invalid credentials (401).
func Authentication(message string) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Message: message}
}

// Authorization reports a failed capability check (403).
func Authorization(message string) *Error {
	return &Error{Status: fiber.StatusForbidden, Message: message}
}

// NotFound reports an absent entity (404).
func NotFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: message}
}

// Canonical error values for the user-visible messages of the API contract.
var (
	ErrUserFieldsMissing  = Validation("must include username, email and password fields")
	ErrUsernameTaken      = Conflict("please use a different username")
	ErrEmailTaken         = Conflict("please use a different email address")
	ErrUserIDFieldMissing = Validation("must include user_id field")
	ErrPostBodyMissing    = Validation("must include post_body field")
)

// ErrorHandler is the fiber error handler. Every error becomes
// {"error": "<reason phrase>", "message": "<detail>"} with the status of the
// failure kind; anything untyped is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := ""

	var appErr *Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status = appErr.Status
		message = appErr.Message
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		message = fiberErr.Message
	default:
		message = err.Error()
	}

	payload := fiber.Map{"error": utils.StatusMessage(status)}
	if message != "" {
		payload["message"] = message
	}
	return c.Status(status).JSON(payload)
}
