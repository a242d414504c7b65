package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ontrakhq/ontrak/internal/domain"
	"github.com/ontrakhq/ontrak/internal/service"
)

// respondError translates service/domain errors into HTTP responses.
// Conflict lists ride in the 409 body so the client can render them and
// offer the force-save option.
func respondError(c *fiber.Ctx, err error) error {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		messages := make([]string, len(conflictErr.Conflicts))
		for i, conflict := range conflictErr.Conflicts {
			messages[i] = conflict.Message()
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     conflictErr.Error(),
			"conflicts": conflictErr.Conflicts,
			"messages":  messages,
		})
	}

	switch {
	case domain.IsValidationError(err),
		errors.Is(err, domain.ErrTemplateNameRequired),
		errors.Is(err, domain.ErrDayOutOfRange),
		errors.Is(err, domain.ErrInvalidTimezone),
		errors.Is(err, domain.ErrInvalidID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrScheduleNotFound),
		errors.Is(err, domain.ErrActivityNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, domain.ErrUsernameUsed),
		errors.Is(err, service.ErrScheduleNotActive),
		errors.Is(err, service.ErrActivityAlreadyEnded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
