package services

import (
	"context"

	"github.com/anjiri1684/course_platform/database"
	"github.com/anjiri1684/course_platform/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LectureInput struct {
	Title       string
	VideoURL    string
	PublicID    string
	FreePreview bool
}

type CreateCourseInput struct {
	InstructorID   uuid.UUID
	InstructorName string
	Title          string
	Description    string
	Image          string
	Pricing        float64
	Curriculum     []LectureInput
}

// CreateCourse stores a course with its curriculum; lecture order is the
// order of in.Curriculum.
func CreateCourse(ctx context.Context, in CreateCourseInput) (*models.Course, error) {
	course := models.Course{
		InstructorID:   in.InstructorID,
		InstructorName: in.InstructorName,
		Title:          in.Title,
		Description:    in.Description,
		Image:          in.Image,
		Pricing:        in.Pricing,
	}
	for i, l := range in.Curriculum {
		course.Lectures = append(course.Lectures, models.Lecture{
			Position:    i,
			Title:       l.Title,
			VideoURL:    l.VideoURL,
			PublicID:    l.PublicID,
			FreePreview: l.FreePreview,
		})
	}

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&course).Error
	})
	if err != nil {
		return nil, NewPersistenceError("Failed to create course", err)
	}
	return &course, nil
}

func GetCourse(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	return loadCourse(ctx, courseID)
}
