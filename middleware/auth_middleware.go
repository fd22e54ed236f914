package middleware

import (
	"errors"

	config "github.com/anjiri1684/course_platform/configs"
	"github.com/anjiri1684/course_platform/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "message": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"success": false, "message": "Invalid or expired JWT"})
}

func claimsOf(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// CurrentUser returns the id and role carried by the verified token.
func CurrentUser(c *fiber.Ctx) (uuid.UUID, string, error) {
	claims, ok := claimsOf(c)
	if !ok {
		return uuid.Nil, "", errors.New("no token claims")
	}
	rawID, _ := claims["user_id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", errors.New("invalid user_id claim")
	}
	role, _ := claims["role"].(string)
	return id, role, nil
}

func requireRole(role, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, current, err := CurrentUser(c)
		if err != nil || (current != role && current != models.RoleAdmin) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": message,
			})
		}
		return c.Next()
	}
}

func AdminRequired() fiber.Handler {
	return requireRole(models.RoleAdmin, "Forbidden: Admin access required")
}

func InstructorRequired() fiber.Handler {
	return requireRole(models.RoleInstructor, "Forbidden: Instructor access required")
}
