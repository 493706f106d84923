// handlers/sessions.go - Study Session Endpoints
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"studyhub/middleware"
	"studyhub/models"
)

type SessionRequest struct {
	GroupID     uint      `json:"group_id"`
	Topic       string    `json:"topic"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location"`
}

// CreateSession schedules a study session in a group the caller belongs to
// POST /api/sessions
func CreateSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	session, err := sessionService.CreateSession(&models.StudySession{
		GroupID:     req.GroupID,
		Topic:       req.Topic,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
	}, userID)
	if err != nil {
		return serviceError(c, err)
	}

	awardForAction(userID, models.ActionSessionCreated)

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}

// ListSessions lists a group's sessions in start-time order
// GET /api/groups/:id/sessions
func ListSessions(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid group ID"})
	}

	sessions, err := sessionService.SessionsByGroup(groupID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "sessions": sessions})
}

// GetSession retrieves one session with its participants
// GET /api/sessions/:id
func GetSession(c *fiber.Ctx) error {
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid session ID"})
	}

	session, err := sessionService.GetSession(sessionID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "session": session})
}

// UpdateSession edits a session (creator only)
// PUT /api/sessions/:id
func UpdateSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid session ID"})
	}

	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	session, err := sessionService.UpdateSession(sessionID, userID, &models.StudySession{
		Topic:       req.Topic,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "session": session})
}

// DeleteSession cancels a session (creator only)
// DELETE /api/sessions/:id
func DeleteSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid session ID"})
	}

	if err := sessionService.DeleteSession(sessionID, userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Session deleted"})
}

// JoinSession signs the caller up for a session
// POST /api/sessions/:id/join
func JoinSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid session ID"})
	}

	joined, err := sessionService.Join(sessionID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	// A repeat join is acknowledged but never counted twice.
	if joined {
		awardForAction(userID, models.ActionSessionJoined)
	}

	return c.JSON(fiber.Map{"success": true, "joined": joined})
}

// LeaveSession withdraws the caller from a session
// POST /api/sessions/:id/leave
func LeaveSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid session ID"})
	}

	if err := sessionService.Leave(sessionID, userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Left session"})
}
