package server

import (
	"time"

	"tiepbuoc/internal/cache"
	"tiepbuoc/internal/models"
	"tiepbuoc/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// inventoryUpdateRequest carries the editable fields shared by the four
// inventory tables. Amount and frequency only apply to tuition pledges.
type inventoryUpdateRequest struct {
	Status    *string `json:"status"`
	StudentID *uint   `json:"student_id"`
	Note      *string `json:"note"`
	Amount    *string `json:"amount"`
	Frequency *string `json:"frequency"`
}

func validItemStatus(status string, withInstalled bool) bool {
	switch status {
	case models.ItemStatusAvailable, models.ItemStatusReserved,
		models.ItemStatusAssigned, models.ItemStatusDelivered:
		return true
	case models.ItemStatusInstalled:
		return withInstalled
	}
	return false
}

func validPledgeStatus(status string) bool {
	switch status {
	case models.PledgeStatusPledged, models.PledgeStatusPaid,
		models.PledgeStatusCompleted, models.PledgeStatusCancelled:
		return true
	}
	return false
}

func (s *Server) inventoryFilter(c *fiber.Ctx) repository.InventoryFilter {
	p := parsePagination(c, 20)
	filter := repository.InventoryFilter{
		Status: c.Query("status"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if id := c.QueryInt("donor_id", 0); id > 0 {
		v := uint(id)
		filter.DonorID = &v
	}
	if id := c.QueryInt("student_id", 0); id > 0 {
		v := uint(id)
		filter.StudentID = &v
	}
	return filter
}

// GetInventorySummary handles GET /api/admin/inventory/summary, returning
// per-status counts for all four tables in one response.
func (s *Server) GetInventorySummary(c *fiber.Ctx) error {
	laptops, err := s.inventoryRepo.LaptopStatusCounts(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	motorbikes, err := s.inventoryRepo.MotorbikeStatusCounts(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	components, err := s.inventoryRepo.ComponentStatusCounts(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	tuition, err := s.inventoryRepo.TuitionStatusCounts(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"laptops":         laptops,
		"motorbikes":      motorbikes,
		"components":      components,
		"tuition_pledges": tuition,
	})
}

// ListLaptops handles GET /api/admin/inventory/laptops
func (s *Server) ListLaptops(c *fiber.Ctx) error {
	items, total, err := s.inventoryRepo.ListLaptops(c.Context(), s.inventoryFilter(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"laptops": items, "total": total})
}

// GetLaptop handles GET /api/admin/inventory/laptops/:id
func (s *Server) GetLaptop(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	item, err := s.inventoryRepo.GetLaptop(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(item)
}

// UpdateLaptop handles PUT /api/admin/inventory/laptops/:id. Status
// transitions stamp their dates server-side so reporting always has an event
// date to resolve.
func (s *Server) UpdateLaptop(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req inventoryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.inventoryRepo.GetLaptop(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	if req.StudentID != nil {
		item.StudentID = req.StudentID
	}
	if req.Note != nil {
		item.Note = *req.Note
	}
	if req.Status != nil {
		if !validItemStatus(*req.Status, false) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unknown status: "+*req.Status))
		}
		now := time.Now()
		switch *req.Status {
		case models.ItemStatusAssigned:
			if item.AssignedAt == nil {
				item.AssignedAt = &now
			}
		case models.ItemStatusDelivered:
			if item.DeliveredAt == nil {
				item.DeliveredAt = &now
			}
		}
		item.Status = *req.Status
	}

	if err := s.inventoryRepo.UpdateLaptop(c.Context(), item); err != nil {
		return respondAppError(c, err)
	}
	cache.InvalidateReports(c.Context())
	return c.JSON(item)
}

// ListMotorbikes handles GET /api/admin/inventory/motorbikes
func (s *Server) ListMotorbikes(c *fiber.Ctx) error {
	items, total, err := s.inventoryRepo.ListMotorbikes(c.Context(), s.inventoryFilter(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"motorbikes": items, "total": total})
}

// GetMotorbike handles GET /api/admin/inventory/motorbikes/:id
func (s *Server) GetMotorbike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	item, err := s.inventoryRepo.GetMotorbike(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(item)
}

// UpdateMotorbike handles PUT /api/admin/inventory/motorbikes/:id
func (s *Server) UpdateMotorbike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req inventoryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.inventoryRepo.GetMotorbike(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	if req.StudentID != nil {
		item.StudentID = req.StudentID
	}
	if req.Note != nil {
		item.Note = *req.Note
	}
	if req.Status != nil {
		if !validItemStatus(*req.Status, false) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unknown status: "+*req.Status))
		}
		now := time.Now()
		switch *req.Status {
		case models.ItemStatusAssigned:
			if item.AssignedAt == nil {
				item.AssignedAt = &now
			}
		case models.ItemStatusDelivered:
			if item.DeliveredAt == nil {
				item.DeliveredAt = &now
			}
		}
		item.Status = *req.Status
	}

	if err := s.inventoryRepo.UpdateMotorbike(c.Context(), item); err != nil {
		return respondAppError(c, err)
	}
	cache.InvalidateReports(c.Context())
	return c.JSON(item)
}

// ListComponents handles GET /api/admin/inventory/components
func (s *Server) ListComponents(c *fiber.Ctx) error {
	items, total, err := s.inventoryRepo.ListComponents(c.Context(), s.inventoryFilter(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"components": items, "total": total})
}

// GetComponent handles GET /api/admin/inventory/components/:id
func (s *Server) GetComponent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	item, err := s.inventoryRepo.GetComponent(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(item)
}

// UpdateComponent handles PUT /api/admin/inventory/components/:id. Components
// have the extra installed terminal state.
func (s *Server) UpdateComponent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req inventoryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.inventoryRepo.GetComponent(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	if req.StudentID != nil {
		item.StudentID = req.StudentID
	}
	if req.Note != nil {
		item.Note = *req.Note
	}
	if req.Status != nil {
		if !validItemStatus(*req.Status, true) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unknown status: "+*req.Status))
		}
		now := time.Now()
		switch *req.Status {
		case models.ItemStatusAssigned:
			if item.AssignedAt == nil {
				item.AssignedAt = &now
			}
		case models.ItemStatusDelivered:
			if item.DeliveredAt == nil {
				item.DeliveredAt = &now
			}
		case models.ItemStatusInstalled:
			if item.InstalledAt == nil {
				item.InstalledAt = &now
			}
		}
		item.Status = *req.Status
	}

	if err := s.inventoryRepo.UpdateComponent(c.Context(), item); err != nil {
		return respondAppError(c, err)
	}
	cache.InvalidateReports(c.Context())
	return c.JSON(item)
}

// ListTuitionPledges handles GET /api/admin/inventory/tuition-pledges
func (s *Server) ListTuitionPledges(c *fiber.Ctx) error {
	pledges, total, err := s.inventoryRepo.ListTuitionPledges(c.Context(), s.inventoryFilter(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"tuition_pledges": pledges, "total": total})
}

// GetTuitionPledge handles GET /api/admin/inventory/tuition-pledges/:id
func (s *Server) GetTuitionPledge(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pledge, err := s.inventoryRepo.GetTuitionPledge(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(pledge)
}

// UpdateTuitionPledge handles PUT /api/admin/inventory/tuition-pledges/:id
func (s *Server) UpdateTuitionPledge(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req inventoryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	pledge, err := s.inventoryRepo.GetTuitionPledge(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	if req.StudentID != nil {
		pledge.StudentID = req.StudentID
	}
	if req.Note != nil {
		pledge.Note = *req.Note
	}
	if req.Amount != nil {
		pledge.Amount = *req.Amount
	}
	if req.Frequency != nil {
		pledge.Frequency = *req.Frequency
	}
	if req.Status != nil {
		if !validPledgeStatus(*req.Status) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unknown status: "+*req.Status))
		}
		now := time.Now()
		switch *req.Status {
		case models.PledgeStatusPaid:
			if pledge.PaidAt == nil {
				pledge.PaidAt = &now
			}
		case models.PledgeStatusCompleted:
			if pledge.CompletedAt == nil {
				pledge.CompletedAt = &now
			}
		}
		pledge.Status = *req.Status
	}

	if err := s.inventoryRepo.UpdateTuitionPledge(c.Context(), pledge); err != nil {
		return respondAppError(c, err)
	}
	cache.InvalidateReports(c.Context())
	return c.JSON(pledge)
}
