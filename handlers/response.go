package handlers

import (
	"errors"

	"github.com/anjiri1684/course_platform/middleware"
	"github.com/anjiri1684/course_platform/models"
	"github.com/anjiri1684/course_platform/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.ValidationError:
		return fiber.StatusBadRequest
	case services.NotFoundError:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError logs err and writes the {success:false, message, error?} envelope.
func respondError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		log.Warn().Int("status", fiberErr.Code).Str("method", c.Method()).Str("path", c.Path()).Msg(fiberErr.Message)
		return c.Status(fiberErr.Code).JSON(fiber.Map{"success": false, "message": fiberErr.Message})
	}

	var appErr *services.AppError
	if !errors.As(err, &appErr) {
		appErr = &services.AppError{Kind: services.PersistenceError, Message: "Internal server error", Err: err}
	}

	status := statusFor(appErr.Kind)
	event := log.Warn()
	if status >= fiber.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("kind", string(appErr.Kind)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(appErr.Message)

	body := fiber.Map{"success": false, "message": appErr.Message}
	if appErr.Err != nil && (appErr.Kind == services.UpstreamError || appErr.Kind == services.ValidationError) {
		body["error"] = appErr.Err.Error()
	}
	return c.Status(status).JSON(body)
}

// parseBody decodes and validates the request body into req.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return &services.AppError{Kind: services.ValidationError, Message: "Cannot parse JSON", Err: err}
	}
	if err := validate.Struct(req); err != nil {
		return &services.AppError{Kind: services.ValidationError, Message: "Invalid request body", Err: err}
	}
	return nil
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, services.NewValidationError("Invalid " + name)
	}
	return id, nil
}

// authorizeStudent lets a student act only on their own records. Admins may act for anyone.
func authorizeStudent(c *fiber.Ctx, studentID uuid.UUID) error {
	userID, role, err := middleware.CurrentUser(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired JWT")
	}
	if userID != studentID && role != models.RoleAdmin {
		return fiber.NewError(fiber.StatusForbidden, "Forbidden: cannot access another student's data")
	}
	return nil
}
