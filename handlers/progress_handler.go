package handlers

import (
	"github.com/anjiri1684/course_platform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MarkViewedRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
	CourseID  string `json:"courseId" validate:"required,uuid"`
	LectureID string `json:"lectureId" validate:"required,uuid"`
}

type ResetProgressRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
	CourseID  string `json:"courseId" validate:"required,uuid"`
}

func GetCourseProgress(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "studentId")
	if err != nil {
		return respondError(c, err)
	}
	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return respondError(c, err)
	}
	if err := authorizeStudent(c, studentID); err != nil {
		return respondError(c, err)
	}

	view, err := services.GetCourseProgress(c.UserContext(), studentID, courseID)
	if err != nil {
		return respondError(c, err)
	}
	if !view.IsPurchased {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"isPurchased": false},
			"message": "You need to purchase this course to access it",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": view})
}

func MarkLectureViewed(c *fiber.Ctx) error {
	var req MarkViewedRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	studentID, courseID, lectureID := uuid.MustParse(req.StudentID), uuid.MustParse(req.CourseID), uuid.MustParse(req.LectureID)
	if err := authorizeStudent(c, studentID); err != nil {
		return respondError(c, err)
	}

	view, err := services.MarkLectureViewed(c.UserContext(), studentID, courseID, lectureID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lecture marked as viewed",
		"data":    view,
	})
}

func ResetCourseProgress(c *fiber.Ctx) error {
	var req ResetProgressRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	studentID, courseID := uuid.MustParse(req.StudentID), uuid.MustParse(req.CourseID)
	if err := authorizeStudent(c, studentID); err != nil {
		return respondError(c, err)
	}

	if err := services.ResetCourseProgress(c.UserContext(), studentID, courseID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Course progress has been reset"})
}
