package handlers

import (
	"errors"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/gofiber/fiber/v2"
)

// errorJSON maps engine errors onto HTTP responses. Validation problems are
// the caller's fault, a locked campaign is a conflict, and anything touching
// the store maps to 503 so callers know to retry.
func errorJSON(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrMissingCampaign),
		errors.Is(err, common.ErrMissingIdentity),
		errors.Is(err, common.ErrUnknownAction):
		status = fiber.StatusBadRequest
	case errors.Is(err, common.ErrCampaignLocked):
		status = fiber.StatusConflict
	case errors.Is(err, common.ErrStoreUnavailable):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
