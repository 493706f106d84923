// handlers/files.go - Study Resource Endpoints
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/middleware"
	"studyhub/models"
)

// UploadResource records file metadata for a group resource
// POST /api/groups/:id/resources
func UploadResource(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid group ID"})
	}

	var req struct {
		FileName    string `json:"file_name"`
		ContentType string `json:"content_type"`
		Size        int64  `json:"size"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	resource, err := resourceService.Record(userID, groupID, req.FileName, req.ContentType, req.Size)
	if err != nil {
		return serviceError(c, err)
	}

	awardForAction(userID, models.ActionFileUploaded)

	return c.Status(201).JSON(fiber.Map{
		"success":  true,
		"resource": resource,
	})
}

// ListResources lists a group's resources, newest first
// GET /api/groups/:id/resources
func ListResources(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid group ID"})
	}

	resources, err := resourceService.ListByGroup(groupID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "resources": resources})
}

// DeleteResource removes a resource record (uploader or group owner)
// DELETE /api/resources/:id
func DeleteResource(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	resourceID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid resource ID"})
	}

	if err := resourceService.Delete(resourceID, userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Resource deleted"})
}
