package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetDashboardReport handles GET /api/admin/reports/dashboard
// @Summary Dashboard report
// @Description Weekly/monthly support statistics plus live counts
// @Tags admin
// @Produce json
// @Success 200 {object} service.DashboardReport
// @Router /admin/reports/dashboard [get]
func (s *Server) GetDashboardReport(c *fiber.Ctx) error {
	report, err := s.reportService.Dashboard(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(report)
}
