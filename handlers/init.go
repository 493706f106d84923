// handlers/init.go - Handler Wiring
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"studyhub/database"
	"studyhub/realtime"
	"studyhub/services"
)

var (
	counterService      *services.CounterService
	achievementService  *services.AchievementService
	notificationService *services.NotificationService
	groupService        *services.GroupService
	sessionService      *services.SessionService
	resourceService     *services.ResourceService
	chatRelay           *realtime.ChatRelay
)

// Init wires the services behind the HTTP handlers. The hub is shared
// with the WebSocket endpoint so awards and notifications reach live
// connections.
func Init(hub *realtime.Hub) {
	db := database.GetDB()
	if db == nil {
		panic("Database not initialized before handlers.Init")
	}

	notificationService = services.NewNotificationService(db, hub)
	counterService = services.NewCounterService(db)
	achievementService = services.NewAchievementService(db, notificationService)
	groupService = services.NewGroupService(db)
	sessionService = services.NewSessionService(db, groupService, notificationService)
	resourceService = services.NewResourceService(db, groupService, notificationService)
	chatRelay = realtime.NewChatRelay(db, hub)
}

// ChatRelay exposes the relay for the WebSocket endpoint.
func ChatRelay() *realtime.ChatRelay {
	return chatRelay
}

// Notifications exposes the notification service for background workers.
func Notifications() *services.NotificationService {
	return notificationService
}

// serviceStatus maps service sentinel errors onto HTTP status codes.
func serviceStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func serviceError(c *fiber.Ctx, err error) error {
	return c.Status(serviceStatus(err)).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
