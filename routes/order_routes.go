package routes

import (
	"github.com/anjiri1684/course_platform/handlers"
	"github.com/anjiri1684/course_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	order := api.Group("/order", middleware.Protected())
	order.Post("/create", handlers.CreateOrder)
	order.Post("/capture", handlers.CaptureOrder)

	student := api.Group("/student", middleware.Protected())
	student.Get("/courses/:studentId", handlers.GetStudentCourses)
}
