package server

import (
	"strings"

	"tiepbuoc/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListAreas handles GET /api/admin/areas
func (s *Server) ListAreas(c *fiber.Ctx) error {
	areas, err := s.areaRepo.List(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"areas": areas})
}

// CreateArea handles POST /api/admin/areas
func (s *Server) CreateArea(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Area name is required"))
	}

	area := &models.Area{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
	}
	if err := s.areaRepo.Create(c.Context(), area); err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(area)
}

// UpdateArea handles PUT /api/admin/areas/:id
func (s *Server) UpdateArea(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	area, err := s.areaRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Area name cannot be empty"))
		}
		area.Name = name
	}
	if req.Description != nil {
		area.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		area.IsActive = *req.IsActive
	}

	if err := s.areaRepo.Update(c.Context(), area); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(area)
}
