package server

import (
	"tiepbuoc/internal/models"
	"tiepbuoc/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// ListApplications handles GET /api/admin/applications
// @Summary List applications
// @Description List applications with type/status/search filters
// @Tags admin
// @Produce json
// @Param type query string false "donor or student"
// @Param status query string false "pending, approved or rejected"
// @Param search query string false "matches name or phone"
// @Success 200 {object} object{applications=[]models.Application,total=int}
// @Router /admin/applications [get]
func (s *Server) ListApplications(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	filter := repository.ApplicationFilter{
		Type:   models.ApplicationType(c.Query("type")),
		Status: models.ApplicationStatus(c.Query("status")),
		Search: c.Query("search"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	apps, total, err := s.applicationRepo.List(c.Context(), filter)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"applications": apps,
		"total":        total,
	})
}

// GetApplication handles GET /api/admin/applications/:id
func (s *Server) GetApplication(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	app, err := s.applicationRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(app)
}

// ApproveApplication handles POST /api/admin/applications/:id/approve. The
// merge and the inventory fan-out run in one transaction; an already-reviewed
// application yields 409.
func (s *Server) ApproveApplication(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	reviewerID := c.Locals("userID").(uint)

	result, err := s.reviewService.Approve(c.UserContext(), id, reviewerID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(result)
}

// RejectApplication handles POST /api/admin/applications/:id/reject. The
// reason is stored verbatim.
func (s *Server) RejectApplication(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	reviewerID := c.Locals("userID").(uint)

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	app, err := s.reviewService.Reject(c.UserContext(), id, reviewerID, req.Reason)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(app)
}
