package handlers

import (
	"github.com/anjiri1684/course_platform/database"
	"github.com/anjiri1684/course_platform/middleware"
	"github.com/anjiri1684/course_platform/models"
	"github.com/anjiri1684/course_platform/services"
	"github.com/gofiber/fiber/v2"
)

type LectureRequest struct {
	Title       string `json:"title" validate:"required"`
	VideoURL    string `json:"videoUrl" validate:"required,url"`
	PublicID    string `json:"public_id"`
	FreePreview bool   `json:"freePreview"`
}

type CreateCourseRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Pricing     float64          `json:"pricing" validate:"gt=0"`
	Curriculum  []LectureRequest `json:"curriculum" validate:"required,min=1,dive"`
}

func CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	instructorID, _, err := middleware.CurrentUser(c)
	if err != nil {
		return respondError(c, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired JWT"))
	}

	var instructor models.User
	if err := database.DB.Select("id", "user_name").First(&instructor, "id = ?", instructorID).Error; err != nil {
		return respondError(c, services.NewNotFoundError("Instructor not found"))
	}

	in := services.CreateCourseInput{
		InstructorID:   instructor.ID,
		InstructorName: instructor.UserName,
		Title:          req.Title,
		Description:    req.Description,
		Image:          req.Image,
		Pricing:        req.Pricing,
	}
	for _, l := range req.Curriculum {
		in.Curriculum = append(in.Curriculum, services.LectureInput{
			Title:       l.Title,
			VideoURL:    l.VideoURL,
			PublicID:    l.PublicID,
			FreePreview: l.FreePreview,
		})
	}

	course, err := services.CreateCourse(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": course})
}

func GetCourse(c *fiber.Ctx) error {
	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return respondError(c, err)
	}
	course, err := services.GetCourse(c.UserContext(), courseID)
	if err != nil {
		return respondError(c, err)
	}
	// the roster is instructor data
	course.Students = nil
	return c.JSON(fiber.Map{"success": true, "data": course})
}
