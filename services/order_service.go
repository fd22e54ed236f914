package services

import (
	"context"
	"errors"
	"math"
	"time"

	config "github.com/anjiri1684/course_platform/configs"
	"github.com/anjiri1684/course_platform/database"
	"github.com/anjiri1684/course_platform/models"
	"github.com/anjiri1684/course_platform/notifications"
	"github.com/anjiri1684/course_platform/payments"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateOrderInput struct {
	UserID         uuid.UUID
	UserName       string
	UserEmail      string
	InstructorID   uuid.UUID
	InstructorName string
	CourseImage    string
	CourseTitle    string
	CourseID       uuid.UUID
	CoursePricing  float64
}

type CreateOrderResult struct {
	ApproveURL     string    `json:"approveUrl"`
	OrderID        uuid.UUID `json:"orderId"`
	GatewayOrderID string    `json:"gatewayOrderId"`
}

// CreateOrder opens a checkout session at the gateway and records a pending
// order that points at it. The course snapshot on the order comes from the
// stored course; the client only has to echo the price it was shown.
func CreateOrder(ctx context.Context, gateway payments.Gateway, in CreateOrderInput) (*CreateOrderResult, error) {
	var course models.Course
	if err := database.DB.WithContext(ctx).Select("id", "pricing", "title", "instructor_id", "instructor_name", "image").First(&course, "id = ?", in.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Course not found")
		}
		return nil, NewPersistenceError("Failed to load course", err)
	}
	if math.Abs(course.Pricing-in.CoursePricing) >= 0.005 {
		return nil, NewValidationError("coursePricing does not match the course price")
	}

	clientURL := config.Config("CLIENT_URL")
	gatewayOrder, err := gateway.CreateOrder(ctx, payments.CheckoutRequest{
		Title:     course.Title,
		Amount:    in.CoursePricing,
		ReturnURL: clientURL + "/payment-return",
		CancelURL: clientURL + "/payment-cancel",
	})
	if err != nil {
		return nil, NewUpstreamError("Error while creating PayPal order", err)
	}

	approveURL := gatewayOrder.ApproveURL()
	if approveURL == "" {
		return nil, NewUpstreamError("Error while creating PayPal order", errors.New("gateway returned no approval link"))
	}

	order := models.Order{
		UserID:         in.UserID,
		UserName:       in.UserName,
		UserEmail:      in.UserEmail,
		OrderStatus:    models.OrderStatusPending,
		PaymentMethod:  models.PaymentMethodPayPal,
		PaymentStatus:  models.PaymentStatusInitiated,
		OrderDate:      time.Now(),
		GatewayOrderID: gatewayOrder.ID,
		InstructorID:   course.InstructorID,
		InstructorName: course.InstructorName,
		CourseImage:    course.Image,
		CourseTitle:    course.Title,
		CourseID:       in.CourseID,
		CoursePricing:  in.CoursePricing,
	}
	if err := database.DB.WithContext(ctx).Create(&order).Error; err != nil {
		// The gateway order is left behind; PayPal expires unapproved orders on its own.
		log.Error().Err(err).
			Str("gateway_order_id", gatewayOrder.ID).
			Str("user_id", in.UserID.String()).
			Msg("🔥 CRITICAL: gateway order created but local order could not be saved")
		return nil, NewPersistenceError("Error while saving order", err)
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("gateway_order_id", gatewayOrder.ID).
		Msg("Order created")

	return &CreateOrderResult{
		ApproveURL:     approveURL,
		OrderID:        order.ID,
		GatewayOrderID: gatewayOrder.ID,
	}, nil
}

type CaptureResult struct {
	Order          *models.Order
	CaptureDetails *payments.GatewayOrder
	// Fulfilled is false when the order had already been confirmed by an
	// earlier capture and nothing was written.
	Fulfilled bool
}

// CapturePayment finalizes a pending order: captures the payment, confirms
// the order, then grants ownership and adds the student to the roster. The
// confirmation only happens once; later calls return the stored order.
func CapturePayment(ctx context.Context, gateway payments.Gateway, orderID, gatewayOrderID string) (*CaptureResult, error) {
	if orderID == "" || gatewayOrderID == "" {
		return nil, NewValidationError("Missing orderId or gatewayOrderId")
	}
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, NewValidationError("Invalid orderId")
	}

	db := database.DB.WithContext(ctx)
	var order models.Order
	if err := db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Order not found")
		}
		return nil, NewPersistenceError("Failed to load order", err)
	}
	if order.GatewayOrderID != gatewayOrderID {
		return nil, NewValidationError("gatewayOrderId does not belong to this order")
	}
	if order.IsConfirmed() {
		log.Info().Str("order_id", order.ID.String()).Msg("Order already confirmed, skipping capture")
		return &CaptureResult{Order: &order}, nil
	}

	capture, err := gateway.CaptureOrder(ctx, gatewayOrderID)
	if err != nil {
		return nil, NewUpstreamError("Error capturing PayPal payment", err)
	}
	if capture.Status != payments.StatusCompleted {
		return nil, NewUpstreamError("Order not completed on PayPal's end", errors.New("capture status "+capture.Status))
	}

	fulfilled := false
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status = ?", order.ID, models.PaymentStatusInitiated).
			Updates(map[string]interface{}{
				"payment_status": models.PaymentStatusPaid,
				"order_status":   models.OrderStatusConfirmed,
				"payment_id":     capture.CaptureID(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		fulfilled = true

		ownership := models.StudentCourse{
			UserID:         order.UserID,
			CourseID:       order.CourseID,
			Title:          order.CourseTitle,
			InstructorID:   order.InstructorID,
			InstructorName: order.InstructorName,
			CourseImage:    order.CourseImage,
			DateOfPurchase: order.OrderDate,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ownership).Error; err != nil {
			return err
		}

		rosterEntry := models.CourseStudent{
			CourseID:     order.CourseID,
			StudentID:    order.UserID,
			StudentName:  order.UserName,
			StudentEmail: order.UserEmail,
			PaidAmount:   order.CoursePricing,
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rosterEntry).Error
	})
	if err != nil {
		log.Error().Err(err).
			Str("order_id", order.ID.String()).
			Str("gateway_order_id", gatewayOrderID).
			Msg("🔥 CRITICAL: payment captured but order could not be finalized")
		return nil, NewPersistenceError("Failed to finalize purchase", err)
	}

	if err := db.First(&order, "id = ?", order.ID).Error; err != nil {
		return nil, NewPersistenceError("Failed to load order", err)
	}

	if fulfilled {
		log.Info().Str("order_id", order.ID.String()).Msg("✅ Order confirmed")
		go notifications.SendEmail(order.UserName, order.UserEmail, "Purchase Confirmed!",
			notifications.PurchaseConfirmedEmail(order.CourseTitle, payments.FormatAmount(order.CoursePricing)))
	}

	return &CaptureResult{Order: &order, CaptureDetails: capture, Fulfilled: fulfilled}, nil
}

// OrderOwner returns the id of the student who opened the order.
func OrderOwner(ctx context.Context, orderID uuid.UUID) (uuid.UUID, error) {
	var order models.Order
	if err := database.DB.WithContext(ctx).Select("id", "user_id").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, NewNotFoundError("Order not found")
		}
		return uuid.Nil, NewPersistenceError("Failed to load order", err)
	}
	return order.UserID, nil
}

func ListStudentCourses(ctx context.Context, userID uuid.UUID) ([]models.StudentCourse, error) {
	courses := []models.StudentCourse{}
	err := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_of_purchase ASC").
		Find(&courses).Error
	if err != nil {
		return nil, NewPersistenceError("Failed to load student courses", err)
	}
	return courses, nil
}

// StaleOrderAge is how long an order may wait for capture before it is
// reported, from STALE_ORDER_AFTER.
func StaleOrderAge() time.Duration {
	after := config.Duration("STALE_ORDER_AFTER")
	if after <= 0 {
		return 24 * time.Hour
	}
	return after
}

// StalePendingOrders lists orders still awaiting capture that were opened before cutoff.
func StalePendingOrders(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := database.DB.WithContext(ctx).
		Where("payment_status = ? AND order_date < ?", models.PaymentStatusInitiated, cutoff).
		Order("order_date ASC").
		Find(&orders).Error
	if err != nil {
		return nil, NewPersistenceError("Failed to load pending orders", err)
	}
	return orders, nil
}
