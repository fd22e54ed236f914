package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusPaid      = "paid"

	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"

	PaymentMethodPayPal = "paypal"
)

type Order struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	UserName       string    `gorm:"size:255" json:"userName"`
	UserEmail      string    `gorm:"size:255" json:"userEmail"`
	OrderStatus    string    `gorm:"size:20;not null" json:"orderStatus"`
	PaymentMethod  string    `gorm:"size:50;not null" json:"paymentMethod"`
	PaymentStatus  string    `gorm:"size:20;not null;index" json:"paymentStatus"`
	OrderDate      time.Time `gorm:"not null" json:"orderDate"`
	PaymentID      *string   `gorm:"size:255" json:"paymentId"`
	GatewayOrderID string    `gorm:"size:255;not null;unique" json:"gatewayOrderId"`
	InstructorID   uuid.UUID `gorm:"type:uuid" json:"instructorId"`
	InstructorName string    `gorm:"size:255" json:"instructorName"`
	CourseImage    string    `gorm:"type:text" json:"courseImage"`
	CourseTitle    string    `gorm:"size:255;not null" json:"courseTitle"`
	CourseID       uuid.UUID `gorm:"type:uuid;not null;index" json:"courseId"`
	CoursePricing  float64   `gorm:"type:numeric(10,2);not null" json:"coursePricing"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (o *Order) IsConfirmed() bool {
	return o.PaymentStatus == PaymentStatusPaid && o.OrderStatus == OrderStatusConfirmed
}
