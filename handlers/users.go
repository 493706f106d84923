// handlers/users.go - Profile Endpoints
package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"studyhub/database"
	"studyhub/middleware"
	"studyhub/models"
)

type ProfileResponse struct {
	Success        bool     `json:"success"`
	User           UserInfo `json:"user"`
	StudyInterests []string `json:"study_interests"`
}

// GetProfile returns the caller's profile
// GET /api/users/me
func GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	return c.JSON(ProfileResponse{
		Success:        true,
		User:           userInfo(user),
		StudyInterests: decodeInterests(user.StudyInterests),
	})
}

// UpdateProfile updates the caller's name, picture, interests and
// notification preference. Omitted fields are left unchanged.
// PUT /api/users/me
func UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	var req struct {
		Name                 *string   `json:"name"`
		ProfilePictureURL    *string   `json:"profile_picture_url"`
		StudyInterests       *[]string `json:"study_interests"`
		NotificationsEnabled *bool     `json:"notifications_enabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Name cannot be empty"})
		}
		updates["name"] = name
	}
	if req.ProfilePictureURL != nil {
		updates["profile_picture_url"] = *req.ProfilePictureURL
	}
	if req.StudyInterests != nil {
		encoded, err := json.Marshal(*req.StudyInterests)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid study interests"})
		}
		updates["study_interests"] = string(encoded)
	}
	if req.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *req.NotificationsEnabled
	}

	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update profile"})
		}
		db.First(&user, userID)
	}

	return c.JSON(ProfileResponse{
		Success:        true,
		User:           userInfo(user),
		StudyInterests: decodeInterests(user.StudyInterests),
	})
}

func decodeInterests(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var interests []string
	if err := json.Unmarshal([]byte(raw), &interests); err != nil {
		return []string{}
	}
	return interests
}
