package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListNotifications handles GET /api/admin/notifications
func (s *Server) ListNotifications(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	unreadOnly := c.QueryBool("unread_only", false)

	items, total, err := s.notificationRepo.List(c.Context(), unreadOnly, p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	unread, err := s.notificationRepo.CountUnread(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications": items,
		"total":         total,
		"unread":        unread,
	})
}

// MarkNotificationRead handles POST /api/admin/notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationRepo.MarkRead(c.Context(), id); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead handles POST /api/admin/notifications/read-all
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := s.notificationRepo.MarkAllRead(c.Context()); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}
