package routes

import (
	"github.com/anjiri1684/course_platform/handlers"
	"github.com/anjiri1684/course_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func InstructorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	instructor := api.Group("/instructor", middleware.Protected(), middleware.InstructorRequired())
	instructor.Post("/courses", handlers.CreateCourse)
	instructor.Get("/uploads/signature", handlers.GenerateUploadSignature)
}
