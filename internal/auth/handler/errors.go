package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	autherror "github.com/umar-essayed/Courses-backend/internal/errors"
)

// statusFor maps the expected error kinds onto status codes. Anything not
// listed is an internal failure and must not leak detail to the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, autherror.ErrInvalidInput), errors.Is(err, autherror.ErrWeakPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, autherror.ErrInvalidCredentials),
		errors.Is(err, autherror.ErrTokenExpired),
		errors.Is(err, autherror.ErrTokenInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, autherror.ErrAccountBlocked), errors.Is(err, autherror.ErrInsufficientPermission):
		return fiber.StatusForbidden
	case errors.Is(err, autherror.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return fiber.StatusConflict
	case errors.Is(err, autherror.ErrTooManyLoginAttempts):
		return fiber.StatusLocked
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
