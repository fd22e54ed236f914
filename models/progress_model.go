package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseProgress groups a student's per-lecture view records for one course.
type CourseProgress struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"_id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"userId"`
	CourseID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"courseId"`
	Completed      bool       `gorm:"default:false" json:"completed"`
	CompletionDate *time.Time `json:"completionDate"`

	LecturesProgress []LectureProgress `gorm:"foreignkey:CourseProgressID" json:"lecturesProgress"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LectureProgress is at most one record per lecture within a CourseProgress.
type LectureProgress struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	CourseProgressID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_lecture" json:"-"`
	LectureID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_lecture" json:"lectureId"`
	Viewed           bool      `gorm:"default:false" json:"viewed"`
	DateViewed       time.Time `json:"dateViewed"`
}

func (p *CourseProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (l *LectureProgress) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
