package handlers

import (
	"time"

	"github.com/anjiri1684/course_platform/payments"
	"github.com/anjiri1684/course_platform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	UserID         string  `json:"userId" validate:"required,uuid"`
	UserName       string  `json:"userName" validate:"required"`
	UserEmail      string  `json:"userEmail" validate:"required,email"`
	InstructorID   string  `json:"instructorId" validate:"required,uuid"`
	InstructorName string  `json:"instructorName" validate:"required"`
	CourseImage    string  `json:"courseImage"`
	CourseTitle    string  `json:"courseTitle" validate:"required"`
	CourseID       string  `json:"courseId" validate:"required,uuid"`
	CoursePricing  float64 `json:"coursePricing" validate:"gt=0"`
	PaymentMethod  string  `json:"paymentMethod" validate:"omitempty,oneof=paypal"`
}

type CaptureOrderRequest struct {
	OrderID        string `json:"orderId"`
	GatewayOrderID string `json:"gatewayOrderId"`
}

func CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	userID := uuid.MustParse(req.UserID)
	if err := authorizeStudent(c, userID); err != nil {
		return respondError(c, err)
	}

	result, err := services.CreateOrder(c.UserContext(), payments.Client, services.CreateOrderInput{
		UserID:         userID,
		UserName:       req.UserName,
		UserEmail:      req.UserEmail,
		InstructorID:   uuid.MustParse(req.InstructorID),
		InstructorName: req.InstructorName,
		CourseImage:    req.CourseImage,
		CourseTitle:    req.CourseTitle,
		CourseID:       uuid.MustParse(req.CourseID),
		CoursePricing:  req.CoursePricing,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": result})
}

// CaptureOrder validates its own parameters so that a missing id is reported
// by the capture workflow rather than by struct validation.
func CaptureOrder(c *fiber.Ctx) error {
	var req CaptureOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, &services.AppError{Kind: services.ValidationError, Message: "Cannot parse JSON", Err: err})
	}

	if id, err := uuid.Parse(req.OrderID); err == nil {
		if err := authorizeOrderOwner(c, id); err != nil {
			return respondError(c, err)
		}
	}

	result, err := services.CapturePayment(c.UserContext(), payments.Client, req.OrderID, req.GatewayOrderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"message":        "Order confirmed successfully",
		"data":           result.Order,
		"captureDetails": result.CaptureDetails,
	})
}

func authorizeOrderOwner(c *fiber.Ctx, orderID uuid.UUID) error {
	owner, err := services.OrderOwner(c.UserContext(), orderID)
	if err != nil {
		if services.KindOf(err) == services.NotFoundError {
			return nil
		}
		return err
	}
	return authorizeStudent(c, owner)
}

func GetStudentCourses(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "studentId")
	if err != nil {
		return respondError(c, err)
	}
	if err := authorizeStudent(c, studentID); err != nil {
		return respondError(c, err)
	}

	courses, err := services.ListStudentCourses(c.UserContext(), studentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": courses})
}

// ListStalePendingOrders shows admins the orders the reconciliation job would
// report. ?olderThan= overrides STALE_ORDER_AFTER for one request.
func ListStalePendingOrders(c *fiber.Ctx) error {
	after := services.StaleOrderAge()
	if raw := c.Query("olderThan"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return respondError(c, services.NewValidationError("olderThan must be a duration such as 2h"))
		}
		after = d
	}

	orders, err := services.StalePendingOrders(c.UserContext(), time.Now().Add(-after))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": orders})
}
