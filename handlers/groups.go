// handlers/groups.go - Study Group Endpoints
package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"studyhub/middleware"
	"studyhub/models"
)

// ================== GROUP CRUD ENDPOINTS ==================

// CreateGroup creates a study group owned by the caller
// POST /api/groups
func CreateGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	group, err := groupService.CreateGroup(req.Name, req.Description, userID)
	if err != nil {
		return serviceError(c, err)
	}

	// Group creation counts toward achievements. The award path is
	// independent of the response: a failed evaluation is logged, the
	// group is still created.
	awardForAction(userID, models.ActionGroupCreated)

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"group":   group,
	})
}

// GetGroup retrieves one group with its members
// GET /api/groups/:id
func GetGroup(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid group ID"})
	}

	group, err := groupService.GetGroup(groupID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "group": group})
}

// ListGroups lists all study groups
// GET /api/groups
func ListGroups(c *fiber.Ctx) error {
	groups, err := groupService.ListGroups()
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "groups": groups})
}

// UpdateGroup updates a group's name or description (owner only)
// PUT /api/groups/:id
func UpdateGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid group ID"})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	group, err := groupService.UpdateGroup(groupID, userID, req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "group": group})
}

// DeleteGroup deletes a group (owner only)
// DELETE /api/groups/:id
func DeleteGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid group ID"})
	}

	if err := groupService.DeleteGroup(groupID, userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Group deleted"})
}

// ================== MEMBERSHIP ENDPOINTS ==================

// JoinGroup adds the caller to a group's member list
// POST /api/groups/:id/join
func JoinGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid group ID"})
	}

	if err := groupService.Join(groupID, userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Joined group"})
}

// LeaveGroup removes the caller from a group's member list
// POST /api/groups/:id/leave
func LeaveGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid group ID"})
	}

	if err := groupService.Leave(groupID, userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Left group"})
}

// ================== HELPERS ==================

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// awardForAction bumps the user's counter for an action and evaluates
// achievement thresholds against the new value. Failures are logged and
// never surfaced to the triggering request.
func awardForAction(userID uint, action models.ActionType) {
	newValue, err := counterService.Increment(userID, action)
	if err != nil {
		log.Printf("⚠️ Counter increment failed for user %d action %s: %v", userID, action, err)
		return
	}

	awarded, err := achievementService.EvaluateAndAward(userID, action, newValue)
	if err != nil {
		log.Printf("⚠️ Achievement evaluation failed for user %d action %s: %v", userID, action, err)
		return
	}

	for _, achievement := range awarded {
		log.Printf("🏆 User %d unlocked achievement: %s", userID, achievement.Name)
	}
}
