package services

import (
	"context"
	"errors"
	"time"

	config "github.com/anjiri1684/course_platform/configs"
	"github.com/anjiri1684/course_platform/database"
	"github.com/anjiri1684/course_platform/models"
	"github.com/anjiri1684/course_platform/notifications"
	"github.com/anjiri1684/course_platform/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CelebrationWindow is how long clients keep the course-complete state on screen.
const CelebrationWindow = 15 * time.Second

// LecturePosition is the lecture a student should see next.
type LecturePosition struct {
	Locked    bool
	Index     int
	Lecture   *models.Lecture
	Completed bool
}

// DeriveCurrentLecture picks the lecture after the furthest viewed one in
// curriculum order. Progress order is irrelevant and records for lectures
// outside the curriculum are ignored. Index is always a valid curriculum
// index, or -1 when locked or the curriculum is empty.
func DeriveCurrentLecture(curriculum []models.Lecture, progress []models.LectureProgress, purchased bool) LecturePosition {
	if !purchased {
		return LecturePosition{Locked: true, Index: -1}
	}
	if len(curriculum) == 0 {
		return LecturePosition{Index: -1}
	}
	if len(progress) == 0 {
		return LecturePosition{Index: 0, Lecture: &curriculum[0]}
	}

	indexOf := make(map[uuid.UUID]int, len(curriculum))
	for i, lecture := range curriculum {
		indexOf[lecture.ID] = i
	}

	lastViewed := -1
	for i := len(progress) - 1; i >= 0; i-- {
		if !progress[i].Viewed {
			continue
		}
		if idx, ok := indexOf[progress[i].LectureID]; ok && idx > lastViewed {
			lastViewed = idx
		}
	}

	next := lastViewed + 1
	if next < 0 || next >= len(curriculum) {
		last := len(curriculum) - 1
		return LecturePosition{Index: last, Lecture: &curriculum[last], Completed: true}
	}
	return LecturePosition{Index: next, Lecture: &curriculum[next]}
}

type CourseProgressView struct {
	CourseDetails       *models.Course           `json:"courseDetails,omitempty"`
	Progress            []models.LectureProgress `json:"progress"`
	IsPurchased         bool                     `json:"isPurchased"`
	Completed           bool                     `json:"completed"`
	CompletionDate      *time.Time               `json:"completionDate,omitempty"`
	CurrentLecture      *models.Lecture          `json:"currentLecture,omitempty"`
	CurrentLectureIndex int                      `json:"currentLectureIndex"`
}

func loadCourse(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	var course models.Course
	err := database.DB.WithContext(ctx).
		Preload("Lectures", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&course, "id = ?", courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Course not found")
		}
		return nil, NewPersistenceError("Failed to load course", err)
	}
	return &course, nil
}

func hasPurchased(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.StudentCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, NewPersistenceError("Failed to check course ownership", err)
	}
	return count > 0, nil
}

// findCourseProgress returns nil without error when the student has no record yet.
func findCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := database.DB.WithContext(ctx).
		Preload("LecturesProgress").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, NewPersistenceError("Failed to load course progress", err)
	}
	return &progress, nil
}

// buildProgressView derives the student's position. A course that was not
// purchased yields the locked view with nothing derived.
func buildProgressView(course *models.Course, progress *models.CourseProgress, purchased bool) *CourseProgressView {
	if !purchased {
		return &CourseProgressView{IsPurchased: false, Progress: []models.LectureProgress{}, CurrentLectureIndex: -1}
	}

	view := &CourseProgressView{
		CourseDetails: course,
		Progress:      []models.LectureProgress{},
		IsPurchased:   true,
	}
	if progress != nil {
		view.Progress = progress.LecturesProgress
		view.CompletionDate = progress.CompletionDate
	}

	position := DeriveCurrentLecture(course.Lectures, view.Progress, purchased)
	view.CurrentLecture = position.Lecture
	view.CurrentLectureIndex = position.Index
	view.Completed = position.Completed
	return view
}

func GetCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*CourseProgressView, error) {
	course, err := loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	purchased, err := hasPurchased(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return buildProgressView(course, nil, false), nil
	}

	progress, err := findCourseProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return buildProgressView(course, progress, true), nil
}

func ensureCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error) {
	db := database.DB.WithContext(ctx)
	fresh := models.CourseProgress{UserID: userID, CourseID: courseID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, NewPersistenceError("Failed to create course progress", err)
	}

	var progress models.CourseProgress
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error; err != nil {
		return nil, NewPersistenceError("Failed to load course progress", err)
	}
	return &progress, nil
}

// MarkLectureViewed records that the student watched lectureID. Marking an
// already viewed lecture leaves the stored progress untouched. Views of a
// course the student has not purchased are recorded, but the course stays
// locked and is never marked complete.
func MarkLectureViewed(ctx context.Context, userID, courseID, lectureID uuid.UUID) (*CourseProgressView, error) {
	course, err := loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	inCurriculum := false
	for _, lecture := range course.Lectures {
		if lecture.ID == lectureID {
			inCurriculum = true
			break
		}
	}
	if !inCurriculum {
		return nil, NewNotFoundError("Lecture not found in course curriculum")
	}

	purchased, err := hasPurchased(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	progress, err := ensureCourseProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	db := database.DB.WithContext(ctx)
	var existing models.LectureProgress
	err = db.Where("course_progress_id = ? AND lecture_id = ?", progress.ID, lectureID).First(&existing).Error
	switch {
	case err == nil && existing.Viewed:
		log.Info().
			Str("user_id", userID.String()).
			Str("lecture_id", lectureID.String()).
			Msg("Lecture already marked as viewed")
	case err == nil:
		if err := db.Model(&existing).Updates(map[string]interface{}{"viewed": true, "date_viewed": time.Now()}).Error; err != nil {
			return nil, NewPersistenceError("Failed to update lecture progress", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		record := models.LectureProgress{
			CourseProgressID: progress.ID,
			LectureID:        lectureID,
			Viewed:           true,
			DateViewed:       time.Now(),
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_progress_id"}, {Name: "lecture_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"viewed": true}),
		}).Create(&record).Error
		if err != nil {
			return nil, NewPersistenceError("Failed to save lecture progress", err)
		}
	default:
		return nil, NewPersistenceError("Failed to load lecture progress", err)
	}

	progress, err = findCourseProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	view := buildProgressView(course, progress, purchased)

	websocket.Publish(&websocket.ProgressEvent{
		UserID:    userID,
		Type:      websocket.EventLectureViewed,
		CourseID:  courseID,
		LectureID: lectureID,
		Completed: view.Completed,
	})

	if purchased && view.Completed && !progress.Completed {
		now := time.Now()
		res := db.Model(&models.CourseProgress{}).
			Where("id = ? AND completed = ?", progress.ID, false).
			Updates(map[string]interface{}{"completed": true, "completion_date": now})
		if res.Error != nil {
			return nil, NewPersistenceError("Failed to mark course as completed", res.Error)
		}
		if res.RowsAffected == 1 {
			view.CompletionDate = &now
			onCourseCompleted(ctx, userID, course)
		}
	}

	return view, nil
}

// ResetCourseProgress clears every lecture record of the pair so the course
// can be watched again. A missing record is not an error.
func ResetCourseProgress(ctx context.Context, userID, courseID uuid.UUID) error {
	progress, err := findCourseProgress(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if progress == nil {
		log.Info().
			Str("user_id", userID.String()).
			Str("course_id", courseID.String()).
			Msg("No course progress to reset")
		return nil
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_progress_id = ?", progress.ID).Delete(&models.LectureProgress{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.CourseProgress{}).
			Where("id = ?", progress.ID).
			Updates(map[string]interface{}{"completed": false, "completion_date": nil}).Error
	})
	if err != nil {
		return NewPersistenceError("Failed to reset course progress", err)
	}

	websocket.Publish(&websocket.ProgressEvent{
		UserID:   userID,
		Type:     websocket.EventProgressReset,
		CourseID: courseID,
	})
	return nil
}

func onCourseCompleted(ctx context.Context, userID uuid.UUID, course *models.Course) {
	log.Info().
		Str("user_id", userID.String()).
		Str("course_id", course.ID.String()).
		Msg("🎉 Course completed")

	websocket.Publish(&websocket.ProgressEvent{
		UserID:              userID,
		Type:                websocket.EventCourseCompleted,
		CourseID:            course.ID,
		Completed:           true,
		CelebrateForSeconds: int(CelebrationWindow / time.Second),
	})

	var student models.User
	if err := database.DB.WithContext(ctx).First(&student, "id = ?", userID).Error; err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Student not found, skipping completion email")
		return
	}
	go notifications.SendEmail(student.UserName, student.Email, "You completed "+course.Title+"!", notifications.CourseCompletedEmail(course.Title))

	if config.Bool("CERTIFICATES_ENABLED") {
		go IssueCourseCertificate(student, *course)
	}
}
