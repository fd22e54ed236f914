package routes

import (
	"github.com/anjiri1684/course_platform/handlers"
	"github.com/anjiri1684/course_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProgressRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	progress := api.Group("/progress", middleware.Protected())
	progress.Get("/:studentId/:courseId", handlers.GetCourseProgress)
	progress.Post("/mark-viewed", handlers.MarkLectureViewed)
	progress.Post("/reset", handlers.ResetCourseProgress)
}
