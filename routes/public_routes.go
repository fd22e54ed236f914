package routes

import (
	"github.com/anjiri1684/course_platform/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/courses/:courseId", handlers.GetCourse)
}
