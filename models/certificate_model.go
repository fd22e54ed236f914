package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_user_course" json:"userId"`
	CourseID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_user_course" json:"courseId"`
	CourseTitle    string    `gorm:"size:255;not null" json:"courseTitle"`
	CompletionDate time.Time `gorm:"not null" json:"completionDate"`
	CertificateURL string    `gorm:"type:text;not null" json:"certificateUrl"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
