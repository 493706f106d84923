// handlers/notifications.go - Notification Inbox Endpoints
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/middleware"
)

// ListNotifications returns the caller's inbox, newest first
// GET /api/notifications
func ListNotifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	notifications, err := notificationService.ListForUser(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
	})
}

// UnreadCount returns how many of the caller's notifications are unread
// GET /api/notifications/unread-count
func UnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	count, err := notificationService.UnreadCount(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "count": count})
}

// MarkNotificationRead marks one of the caller's notifications as read
// POST /api/notifications/:id/read
func MarkNotificationRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid notification ID"})
	}

	if err := notificationService.MarkRead(notificationID, userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Notification marked as read"})
}
