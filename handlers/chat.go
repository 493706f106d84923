// handlers/chat.go - Chat History Endpoint
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"studyhub/middleware"
)

// ChatHistory returns a group's recent chat messages in timestamp order.
// Member-only.
// GET /api/groups/:id/messages
func ChatHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid group ID"})
	}

	if !groupService.IsMember(groupID, userID) {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Only group members can read chat history"})
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	messages, err := chatRelay.History(groupID, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "messages": messages})
}
