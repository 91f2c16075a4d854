package server

import (
	"encoding/json"
	"strings"

	"tiepbuoc/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListSettings handles GET /api/admin/settings
func (s *Server) ListSettings(c *fiber.Ctx) error {
	settings, err := s.settingRepo.List(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// PutSetting handles PUT /api/admin/settings/:key. Values are stored as the
// JSON text they arrive as, so booleans, numbers and strings all round-trip.
func (s *Server) PutSetting(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	if key == "" || len(key) > 64 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid setting key"))
	}

	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.Value) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A value is required"))
	}

	if err := s.settingRepo.Set(c.Context(), key, string(req.Value)); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"key": key, "value": req.Value})
}
