package server

import (
	"strings"
	"time"

	"tiepbuoc/internal/models"
	"tiepbuoc/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// ListStudents handles GET /api/admin/students
func (s *Server) ListStudents(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	filter := repository.StudentFilter{
		NeedType:   models.SupportType(c.Query("need_type")),
		Search:     c.Query("search"),
		ActiveOnly: c.QueryBool("active_only", true),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}

	students, total, err := s.studentRepo.List(c.Context(), filter)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"students": students,
		"total":    total,
	})
}

// GetStudent handles GET /api/admin/students/:id. The response includes the
// derived display code so the console can cross-reference public pages.
func (s *Server) GetStudent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	student, err := s.studentRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"student": student,
		"code":    student.DisplayCode(),
	})
}

// studentUpdateRequest carries the editable student fields. Received flags
// come with server-side timestamps: flipping one on stamps the matching
// *_received_at if it is not already set.
type studentUpdateRequest struct {
	FullName       *string `json:"full_name"`
	Address        *string `json:"address"`
	ContactLink    *string `json:"contact_link"`
	AreaID         *uint   `json:"area_id"`
	BirthYear      *int    `json:"birth_year"`
	AcademicYear   *string `json:"academic_year"`
	DifficultyNote *string `json:"difficulty_note"`
	PhotoURL       *string `json:"photo_url"`

	NeedLaptop     *bool `json:"need_laptop"`
	NeedMotorbike  *bool `json:"need_motorbike"`
	NeedComponents *bool `json:"need_components"`
	NeedTuition    *bool `json:"need_tuition"`

	LaptopReceived     *bool `json:"laptop_received"`
	MotorbikeReceived  *bool `json:"motorbike_received"`
	ComponentsReceived *bool `json:"components_received"`
	TuitionReceived    *bool `json:"tuition_received"`
}

// UpdateStudent handles PUT /api/admin/students/:id
func (s *Server) UpdateStudent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req studentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	student, err := s.studentRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Full name cannot be empty"))
		}
		student.FullName = name
	}
	if req.Address != nil {
		student.Address = strings.TrimSpace(*req.Address)
	}
	if req.ContactLink != nil {
		student.ContactLink = strings.TrimSpace(*req.ContactLink)
	}
	if req.AreaID != nil {
		student.AreaID = req.AreaID
	}
	if req.BirthYear != nil {
		student.BirthYear = req.BirthYear
	}
	if req.AcademicYear != nil {
		student.AcademicYear = *req.AcademicYear
	}
	if req.DifficultyNote != nil {
		student.DifficultyNote = *req.DifficultyNote
	}
	if req.PhotoURL != nil {
		student.PhotoURL = *req.PhotoURL
	}

	if req.NeedLaptop != nil {
		student.NeedLaptop = *req.NeedLaptop
	}
	if req.NeedMotorbike != nil {
		student.NeedMotorbike = *req.NeedMotorbike
	}
	if req.NeedComponents != nil {
		student.NeedComponents = *req.NeedComponents
	}
	if req.NeedTuition != nil {
		student.NeedTuition = *req.NeedTuition
	}

	now := time.Now()
	applyReceived(req.LaptopReceived, &student.LaptopReceived, &student.LaptopReceivedAt, now)
	applyReceived(req.MotorbikeReceived, &student.MotorbikeReceived, &student.MotorbikeReceivedAt, now)
	applyReceived(req.ComponentsReceived, &student.ComponentsReceived, &student.ComponentsReceivedAt, now)
	applyReceived(req.TuitionReceived, &student.TuitionReceived, &student.TuitionReceivedAt, now)

	if err := s.studentRepo.Update(c.Context(), student); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(student)
}

// applyReceived updates one received flag. Turning it on stamps the date once;
// turning it off (an admin correction) clears the date.
func applyReceived(req *bool, flag *bool, at **time.Time, now time.Time) {
	if req == nil {
		return
	}
	if *req {
		*flag = true
		if *at == nil {
			t := now
			*at = &t
		}
	} else {
		*flag = false
		*at = nil
	}
}

// DeactivateStudent handles DELETE /api/admin/students/:id
func (s *Server) DeactivateStudent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.studentRepo.Deactivate(c.Context(), id); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Student deactivated"})
}
