package handlers

import (
	"github.com/anjiri1684/course_platform/database"
	"github.com/anjiri1684/course_platform/middleware"
	"github.com/anjiri1684/course_platform/models"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	UserName *string `json:"userName" validate:"omitempty,min=3"`
}

func currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, _, err := middleware.CurrentUser(c)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired JWT")
	}
	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return &user, nil
}

func GetProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

func UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.UserName != nil {
		user.UserName = *req.UserName
	}

	if err := database.DB.Save(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update profile"})
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

// GetMyLearningSummary reports how many purchased courses the caller has
// finished, with the certificates issued so far.
func GetMyLearningSummary(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var purchased, completed int64
	if err := database.DB.Model(&models.StudentCourse{}).Where("user_id = ?", user.ID).Count(&purchased).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load summary"})
	}
	if err := database.DB.Model(&models.CourseProgress{}).Where("user_id = ? AND completed = ?", user.ID, true).Count(&completed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load summary"})
	}

	certificates := []models.Certificate{}
	if err := database.DB.Where("user_id = ?", user.ID).Order("completion_date desc").Find(&certificates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load summary"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"purchasedCourses": purchased,
			"completedCourses": completed,
			"certificates":     certificates,
		},
	})
}
