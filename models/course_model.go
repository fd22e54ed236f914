package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course owns its curriculum (Lectures, ordered by Position) and its roster (Students).
type Course struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	InstructorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"instructorId"`
	InstructorName string    `gorm:"size:255;not null" json:"instructorName"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Image          string    `gorm:"type:text" json:"image"`
	Pricing        float64   `gorm:"type:numeric(10,2);not null" json:"pricing"`

	Lectures []Lecture       `gorm:"foreignkey:CourseID" json:"curriculum"`
	Students []CourseStudent `gorm:"foreignkey:CourseID" json:"students,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Lecture struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"courseId"`
	Position    int       `gorm:"not null" json:"position"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	VideoURL    string    `gorm:"type:text" json:"videoUrl"`
	PublicID    string    `gorm:"size:255" json:"public_id"`
	FreePreview bool      `gorm:"default:false" json:"freePreview"`
}

// CourseStudent is a roster entry; one per (course, student).
type CourseStudent struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_student" json:"courseId"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_student" json:"studentId"`
	StudentName  string    `gorm:"size:255" json:"studentName"`
	StudentEmail string    `gorm:"size:255" json:"studentEmail"`
	PaidAmount   float64   `gorm:"type:numeric(10,2);not null" json:"paidAmount"`

	CreatedAt time.Time `json:"createdAt"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (l *Lecture) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (s *CourseStudent) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
