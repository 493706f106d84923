// handlers/achievements.go - Achievement Endpoints
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/middleware"
)

// MyAchievements returns the achievements the caller has earned
// GET /api/achievements/me
func MyAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	earned, err := achievementService.EarnedAchievements(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": earned,
	})
}

// AchievementCatalog returns every defined achievement with an unlocked
// flag for the caller
// GET /api/achievements
func AchievementCatalog(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	catalog, err := achievementService.Catalog(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": catalog,
	})
}

// MyCounters returns the caller's action counters
// GET /api/achievements/counters
func MyCounters(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	counters, err := counterService.Counters(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "counters": counters})
}
