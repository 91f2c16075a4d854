package server

import (
	"fmt"
	"strings"

	"tiepbuoc/internal/cache"
	"tiepbuoc/internal/middleware"
	"tiepbuoc/internal/models"
	"tiepbuoc/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// applicationRequest is the public registration payload. A single form serves
// both variants; Type selects which fields are meaningful.
type applicationRequest struct {
	Type        string `json:"type"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ContactLink string `json:"contact_link"`
	AreaName    string `json:"area_name"`

	SupportTypes       []string `json:"support_types"`
	Frequency          string   `json:"frequency"`
	LaptopQuantity     *int     `json:"laptop_quantity"`
	MotorbikeQuantity  *int     `json:"motorbike_quantity"`
	ComponentsQuantity *int     `json:"components_quantity"`
	TuitionAmount      string   `json:"tuition_amount"`
	TuitionFrequency   string   `json:"tuition_frequency"`

	BirthYear      *int   `json:"birth_year"`
	AcademicYear   string `json:"academic_year"`
	NeedLaptop     bool   `json:"need_laptop"`
	NeedMotorbike  bool   `json:"need_motorbike"`
	NeedComponents bool   `json:"need_components"`
	NeedTuition    bool   `json:"need_tuition"`
	DifficultyNote string `json:"difficulty_note"`
	PhotoURL       string `json:"photo_url"`

	CaptchaToken string `json:"captcha_token"`
}

// SubmitApplication handles POST /api/public/applications
// @Summary Submit a registration
// @Description Submit a donor or student registration for admin review
// @Tags public
// @Accept json
// @Produce json
// @Success 201 {object} models.Application
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /public/applications [post]
func (s *Server) SubmitApplication(c *fiber.Ctx) error {
	var req applicationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// The admin can close the forms from the settings screen.
	setting, err := s.settingRepo.Get(c.Context(), models.SettingAllowNewSignups)
	if err != nil {
		return respondAppError(c, err)
	}
	if !setting.BoolValue(true) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewValidationError("New registrations are currently closed"))
	}

	if err := s.captcha.Verify(c.Context(), req.CaptchaToken, c.IP()); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Captcha verification failed"))
	}

	app, appErr := s.buildApplication(c, &req)
	if appErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
	}

	if err := s.applicationRepo.Create(c.Context(), app); err != nil {
		return respondAppError(c, err)
	}

	notification := &models.Notification{
		Type:    models.NotificationTypeNewApplication,
		Title:   "Đơn đăng ký mới",
		Message: fmt.Sprintf("Đơn #%d (%s) từ %s đang chờ duyệt", app.ID, app.Type, app.FullName),
	}
	if err := s.notificationRepo.Create(c.Context(), notification); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to record submission notification",
			"application_id", app.ID, "error", err.Error())
	}

	middleware.PublicSubmissions.WithLabelValues(string(app.Type)).Inc()
	if err := s.notifier.PublishAdmin(c.Context(), notifications.Event{
		Type:    models.NotificationTypeNewApplication,
		Title:   notification.Title,
		Message: notification.Message,
		RefID:   app.ID,
	}); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to publish submission event",
			"application_id", app.ID, "error", err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

// buildApplication validates the request and maps it onto a pending
// Application row.
func (s *Server) buildApplication(c *fiber.Ctx, req *applicationRequest) (*models.Application, *models.AppError) {
	appType := models.ApplicationType(req.Type)
	if appType != models.ApplicationTypeDonor && appType != models.ApplicationTypeStudent {
		return nil, models.NewValidationError("Type must be donor or student")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, models.NewValidationError("Full name is required")
	}
	if !validPhone(req.Phone) {
		return nil, models.NewValidationError("A valid phone number is required")
	}

	app := &models.Application{
		Type:        appType,
		FullName:    strings.TrimSpace(req.FullName),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		ContactLink: strings.TrimSpace(req.ContactLink),
		Status:      models.ApplicationStatusPending,
	}

	if name := strings.TrimSpace(req.AreaName); name != "" {
		area, err := s.areaRepo.GetOrCreateByName(c.Context(), name)
		if err != nil {
			return nil, models.NewValidationError("Invalid area")
		}
		app.AreaID = &area.ID
	}

	switch appType {
	case models.ApplicationTypeDonor:
		if len(req.SupportTypes) == 0 {
			return nil, models.NewValidationError("At least one support type is required")
		}
		for _, raw := range req.SupportTypes {
			t := models.SupportType(raw)
			if !t.IsValid() {
				return nil, models.NewValidationError("Unknown support type: " + raw)
			}
			app.SupportTypes = app.SupportTypes.Union(models.SupportTypeList{t})
		}
		if app.SupportTypes.Contains(models.SupportTuition) && strings.TrimSpace(req.TuitionAmount) == "" {
			return nil, models.NewValidationError("Tuition amount is required for tuition support")
		}
		app.Frequency = req.Frequency
		app.LaptopQuantity = req.LaptopQuantity
		app.MotorbikeQuantity = req.MotorbikeQuantity
		app.ComponentsQuantity = req.ComponentsQuantity
		app.TuitionAmount = strings.TrimSpace(req.TuitionAmount)
		app.TuitionFrequency = req.TuitionFrequency

	case models.ApplicationTypeStudent:
		if !req.NeedLaptop && !req.NeedMotorbike && !req.NeedComponents && !req.NeedTuition {
			return nil, models.NewValidationError("At least one need is required")
		}
		app.BirthYear = req.BirthYear
		app.AcademicYear = req.AcademicYear
		app.NeedLaptop = req.NeedLaptop
		app.NeedMotorbike = req.NeedMotorbike
		app.NeedComponents = req.NeedComponents
		app.NeedTuition = req.NeedTuition
		app.DifficultyNote = req.DifficultyNote
		app.PhotoURL = req.PhotoURL
	}

	return app, nil
}

// publicComponent is the anonymized view of an available component.
type publicComponent struct {
	ID   uint   `json:"id"`
	Note string `json:"note"`
}

// ListPublicComponents handles GET /api/public/components. It lists the
// components strangers can register to supply, without donor details.
func (s *Server) ListPublicComponents(c *fiber.Ctx) error {
	items, err := s.inventoryRepo.ListAvailableComponents(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}

	out := make([]publicComponent, 0, len(items))
	for _, item := range items {
		out = append(out, publicComponent{ID: item.ID, Note: item.Note})
	}
	return c.JSON(fiber.Map{"components": out})
}

// SupportComponent handles POST /api/public/components/:id/support. A
// stranger claims a listed component; the guarded status flip means exactly
// one of any concurrent claims wins.
func (s *Server) SupportComponent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		CaptchaToken string `json:"captcha_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name is required"))
	}
	if !validPhone(req.Phone) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A valid phone number is required"))
	}

	if err := s.captcha.Verify(c.Context(), req.CaptchaToken, c.IP()); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Captcha verification failed"))
	}

	component, err := s.inventoryRepo.ReserveComponent(c.Context(),
		id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
	if err != nil {
		return respondAppError(c, err)
	}

	// The reservation is the durable step; the admin toast is best-effort.
	notification := &models.Notification{
		Type:    models.NotificationTypeComponentSupport,
		Title:   "Đăng ký hỗ trợ linh kiện",
		Message: fmt.Sprintf("%s (%s) đăng ký hỗ trợ linh kiện #%d", req.Name, req.Phone, component.ID),
	}
	if err := s.notificationRepo.Create(c.Context(), notification); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to record component support notification",
			"component_id", component.ID, "error", err.Error())
	}
	if err := s.notifier.PublishAdmin(c.Context(), notifications.Event{
		Type:    models.NotificationTypeComponentSupport,
		Title:   notification.Title,
		Message: notification.Message,
		RefID:   component.ID,
	}); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to publish component support event",
			"component_id", component.ID, "error", err.Error())
	}

	return c.JSON(fiber.Map{
		"component_id": component.ID,
		"status":       component.Status,
	})
}

// publicStudent is the anonymized student entry shown on the public site.
// Codes stand in for names; no contact details leave the server.
type publicStudent struct {
	Code           string               `json:"code"`
	AcademicYear   string               `json:"academic_year,omitempty"`
	AreaName       string               `json:"area_name,omitempty"`
	Needs          []models.SupportType `json:"needs"`
	LaptopReceived bool                 `json:"laptop_received"`
}

// GetPublicStudents handles GET /api/public/students
func (s *Server) GetPublicStudents(c *fiber.Ctx) error {
	var out []publicStudent
	err := cache.Aside(c.Context(), cache.PublicStudentsKey, &out, cache.PublicStudentsTTL, func() error {
		students, err := s.studentRepo.ListActive(c.Context())
		if err != nil {
			return err
		}

		areas, err := s.areaRepo.List(c.Context())
		if err != nil {
			return err
		}
		areaNames := make(map[uint]string, len(areas))
		for _, a := range areas {
			areaNames[a.ID] = a.Name
		}

		out = make([]publicStudent, 0, len(students))
		for i := range students {
			st := &students[i]
			entry := publicStudent{
				Code:           st.DisplayCode(),
				AcademicYear:   st.AcademicYear,
				Needs:          make([]models.SupportType, 0, 4),
				LaptopReceived: st.LaptopReceived,
			}
			if st.AreaID != nil {
				entry.AreaName = areaNames[*st.AreaID]
			}
			if st.NeedLaptop {
				entry.Needs = append(entry.Needs, models.SupportLaptop)
			}
			if st.NeedMotorbike {
				entry.Needs = append(entry.Needs, models.SupportMotorbike)
			}
			if st.NeedComponents {
				entry.Needs = append(entry.Needs, models.SupportComponents)
			}
			if st.NeedTuition {
				entry.Needs = append(entry.Needs, models.SupportTuition)
			}
			out = append(out, entry)
		}
		return nil
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"students": out})
}

// GetPublicSetting handles GET /api/public/settings/:key. Only whitelisted
// keys are readable without auth.
func (s *Server) GetPublicSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	switch key {
	case models.SettingAllowNewSignups:
		setting, err := s.settingRepo.Get(c.Context(), key)
		if err != nil {
			return respondAppError(c, err)
		}
		return c.JSON(fiber.Map{"key": key, "value": setting.BoolValue(true)})
	case "captcha_sitekey":
		return c.JSON(fiber.Map{"key": key, "value": s.config.CaptchaSiteKey})
	default:
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Setting", key))
	}
}
