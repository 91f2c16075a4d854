package server

import (
	"strings"

	"tiepbuoc/internal/models"
	"tiepbuoc/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// ListDonors handles GET /api/admin/donors
func (s *Server) ListDonors(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	filter := repository.DonorFilter{
		SupportType: models.SupportType(c.Query("support_type")),
		Search:      c.Query("search"),
		ActiveOnly:  c.QueryBool("active_only", true),
		Limit:       p.Limit,
		Offset:      p.Offset,
	}

	donors, total, err := s.donorRepo.List(c.Context(), filter)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"donors": donors,
		"total":  total,
	})
}

// GetDonor handles GET /api/admin/donors/:id
func (s *Server) GetDonor(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	donor, err := s.donorRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(donor)
}

// donorUpdateRequest carries the editable donor fields. Phone is the merge
// key and is immutable through this endpoint.
type donorUpdateRequest struct {
	FullName           *string  `json:"full_name"`
	Address            *string  `json:"address"`
	ContactLink        *string  `json:"contact_link"`
	AreaID             *uint    `json:"area_id"`
	SupportTypes       []string `json:"support_types"`
	Frequency          *string  `json:"frequency"`
	LaptopQuantity     *int     `json:"laptop_quantity"`
	MotorbikeQuantity  *int     `json:"motorbike_quantity"`
	ComponentsQuantity *int     `json:"components_quantity"`
	TuitionAmount      *string  `json:"tuition_amount"`
	TuitionFrequency   *string  `json:"tuition_frequency"`
}

// UpdateDonor handles PUT /api/admin/donors/:id
func (s *Server) UpdateDonor(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req donorUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	donor, err := s.donorRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Full name cannot be empty"))
		}
		donor.FullName = name
	}
	if req.Address != nil {
		donor.Address = strings.TrimSpace(*req.Address)
	}
	if req.ContactLink != nil {
		donor.ContactLink = strings.TrimSpace(*req.ContactLink)
	}
	if req.AreaID != nil {
		donor.AreaID = req.AreaID
	}
	if req.SupportTypes != nil {
		list := models.SupportTypeList{}
		for _, raw := range req.SupportTypes {
			t := models.SupportType(raw)
			if !t.IsValid() {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("Unknown support type: "+raw))
			}
			list = list.Union(models.SupportTypeList{t})
		}
		donor.SupportTypes = list
	}
	if req.Frequency != nil {
		donor.Frequency = *req.Frequency
	}
	if req.LaptopQuantity != nil {
		donor.LaptopQuantity = req.LaptopQuantity
	}
	if req.MotorbikeQuantity != nil {
		donor.MotorbikeQuantity = req.MotorbikeQuantity
	}
	if req.ComponentsQuantity != nil {
		donor.ComponentsQuantity = req.ComponentsQuantity
	}
	if req.TuitionAmount != nil {
		donor.TuitionAmount = strings.TrimSpace(*req.TuitionAmount)
	}
	if req.TuitionFrequency != nil {
		donor.TuitionFrequency = *req.TuitionFrequency
	}

	if err := s.donorRepo.Update(c.Context(), donor); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(donor)
}

// DeactivateDonor handles DELETE /api/admin/donors/:id. Rows are never
// deleted; deactivation ends the phone-merge lineage so a future application
// from the same phone starts a fresh donor.
func (s *Server) DeactivateDonor(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.donorRepo.Deactivate(c.Context(), id); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Donor deactivated"})
}
