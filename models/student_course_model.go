package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentCourse is a purchased course in a student's library, carrying a
// snapshot of the course metadata at purchase time.
type StudentCourse struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_course" json:"userId"`
	CourseID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_course" json:"courseId"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	InstructorID   uuid.UUID `gorm:"type:uuid" json:"instructorId"`
	InstructorName string    `gorm:"size:255" json:"instructorName"`
	CourseImage    string    `gorm:"type:text" json:"courseImage"`
	DateOfPurchase time.Time `gorm:"not null" json:"dateOfPurchase"`
}

func (s *StudentCourse) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
