package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/anjiri1684/course_platform/database"
	"github.com/anjiri1684/course_platform/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curriculumOf(n int) []models.Lecture {
	lectures := make([]models.Lecture, n)
	for i := range lectures {
		lectures[i] = models.Lecture{ID: uuid.New(), Position: i, Title: "L" + string(rune('1'+i))}
	}
	return lectures
}

func viewed(lecture models.Lecture) models.LectureProgress {
	return models.LectureProgress{LectureID: lecture.ID, Viewed: true}
}

func TestDeriveCurrentLecture(t *testing.T) {
	c := curriculumOf(3)

	tests := []struct {
		name          string
		curriculum    []models.Lecture
		progress      []models.LectureProgress
		purchased     bool
		wantLocked    bool
		wantIndex     int
		wantCompleted bool
	}{
		{name: "not purchased", curriculum: c, purchased: false, wantLocked: true, wantIndex: -1},
		{name: "empty curriculum", curriculum: nil, purchased: true, wantIndex: -1},
		{name: "no progress starts at first lecture", curriculum: c, purchased: true, wantIndex: 0},
		{name: "first viewed moves to second", curriculum: c, progress: []models.LectureProgress{viewed(c[0])}, purchased: true, wantIndex: 1},
		{
			name:       "insertion order does not matter",
			curriculum: c,
			progress:   []models.LectureProgress{viewed(c[1]), viewed(c[0])},
			purchased:  true,
			wantIndex:  2,
		},
		{
			name:       "unviewed records are ignored",
			curriculum: c,
			progress:   []models.LectureProgress{viewed(c[0]), {LectureID: c[1].ID, Viewed: false}},
			purchased:  true,
			wantIndex:  1,
		},
		{
			name:       "records outside the curriculum are ignored",
			curriculum: c,
			progress:   []models.LectureProgress{{LectureID: uuid.New(), Viewed: true}},
			purchased:  true,
			wantIndex:  0,
		},
		{
			name:          "all viewed completes on last lecture",
			curriculum:    c,
			progress:      []models.LectureProgress{viewed(c[0]), viewed(c[1]), viewed(c[2])},
			purchased:     true,
			wantIndex:     2,
			wantCompleted: true,
		},
		{
			name:          "last viewed alone completes",
			curriculum:    c,
			progress:      []models.LectureProgress{viewed(c[2])},
			purchased:     true,
			wantIndex:     2,
			wantCompleted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveCurrentLecture(tt.curriculum, tt.progress, tt.purchased)
			assert.Equal(t, tt.wantLocked, got.Locked)
			assert.Equal(t, tt.wantIndex, got.Index)
			assert.Equal(t, tt.wantCompleted, got.Completed)
			if tt.wantIndex >= 0 {
				require.NotNil(t, got.Lecture)
				assert.Equal(t, tt.curriculum[tt.wantIndex].ID, got.Lecture.ID)
			} else {
				assert.Nil(t, got.Lecture)
			}
		})
	}
}

func TestDeriveCurrentLectureTwoLectureScenario(t *testing.T) {
	c := curriculumOf(2)
	got := DeriveCurrentLecture(c, []models.LectureProgress{viewed(c[0]), viewed(c[1])}, true)
	assert.Equal(t, c[1].ID, got.Lecture.ID)
	assert.True(t, got.Completed)
}

func TestDeriveCurrentLectureNeverOutOfBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		c := curriculumOf(rng.Intn(6))
		var progress []models.LectureProgress
		for j := rng.Intn(8); j > 0; j-- {
			if len(c) > 0 && rng.Intn(4) > 0 {
				progress = append(progress, models.LectureProgress{LectureID: c[rng.Intn(len(c))].ID, Viewed: rng.Intn(2) == 0})
			} else {
				progress = append(progress, models.LectureProgress{LectureID: uuid.New(), Viewed: true})
			}
		}

		got := DeriveCurrentLecture(c, progress, true)
		if len(c) == 0 {
			assert.Equal(t, -1, got.Index)
			continue
		}
		require.GreaterOrEqual(t, got.Index, 0)
		require.Less(t, got.Index, len(c))
		assert.Equal(t, c[got.Index].ID, got.Lecture.ID)
	}
}

func TestGetCourseProgressLockedWhenNotPurchased(t *testing.T) {
	setupDB(t)
	student := seedStudent(t)
	course := seedCourse(t, "intro", "types")

	view, err := GetCourseProgress(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, view.IsPurchased)
	assert.Nil(t, view.CourseDetails)
	assert.Nil(t, view.CurrentLecture)
}

func TestGetCourseProgressUnknownCourse(t *testing.T) {
	setupDB(t)
	student := seedStudent(t)

	_, err := GetCourseProgress(context.Background(), student.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, NotFoundError, KindOf(err))
}

func TestGetCourseProgressStartsAtFirstLecture(t *testing.T) {
	setupDB(t)
	student := seedStudent(t)
	course := seedCourse(t, "intro", "types", "slices")
	grantOwnership(t, student, course)

	view, err := GetCourseProgress(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, view.IsPurchased)
	assert.False(t, view.Completed)
	assert.Empty(t, view.Progress)
	require.NotNil(t, view.CurrentLecture)
	assert.Equal(t, "intro", view.CurrentLecture.Title)
	require.Len(t, view.CourseDetails.Lectures, 3)
	assert.Equal(t, "slices", view.CourseDetails.Lectures[2].Title)
}

func TestMarkLectureViewedAdvancesCurrentLecture(t *testing.T) {
	setupDB(t)
	student := seedStudent(t)
	course := seedCourse(t, "intro", "types", "slices")
	grantOwnership(t, student, course)
	lectures := lecturesOf(course)

	view, err := MarkLectureViewed(context.Background(), student.ID, course.ID, lectures[0].ID)
	require.NoError(t, err)
	assert.Equal(t, lectures[1].ID, view.CurrentLecture.ID)
	assert.False(t, view.Completed)
	require.Len(t, view.Progress, 1)
	assert.True(t, view.Progress[0].Viewed)
}

func TestMarkLectureViewedIsIdempotent(t *testing.T) {
	setupDB(t)
	student := seedStudent(t)
	course := seedCourse(t, "intro", "types")
	lectures := lecturesOf(course)
	ctx := context.Background()

	_, err := MarkLectureViewed(ctx, student.ID, course.ID, lectures[0].ID)
	require.NoError(t, err)
	_, err = MarkLectureViewed(ctx, student.ID, course.ID, lectures[0].ID)
	require.NoError(t, err)

	var records []models.LectureProgress
	require.NoError(t, database.DB.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, lectures[0].ID, records[0].LectureID)

	var progressRows int64
	require.NoError(t, database.DB.Model(&models.CourseProgress{}).Count(&progressRows).Error)
	assert.EqualValues(t, 1, progressRows)
}

func TestMarkLectureViewedRejectsForeignLecture(t *testing.T) {
	setupDB(t)
	student := seedStudent(t)
	course := seedCourse(t, "intro")

	_, err := MarkLectureViewed(context.Background(), student.ID, course.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, NotFoundError, KindOf(err))
}

func TestMarkingEveryLectureCompletesCourse(t *testing.T) {
	setupDB(t)
	student := seedStudent(t)
	course := seedCourse(t, "intro", "types")
	grantOwnership(t, student, course)
	lectures := lecturesOf(course)
	ctx := context.Background()

	_, err := MarkLectureViewed(ctx, student.ID, course.ID, lectures[0].ID)
	require.NoError(t, err)
	view, err := MarkLectureViewed(ctx, student.ID, course.ID, lectures[1].ID)
	require.NoError(t, err)
	assert.True(t, view.Completed)
	assert.Equal(t, lectures[1].ID, view.CurrentLecture.ID)
	assert.NotNil(t, view.CompletionDate)

	var stored models.CourseProgress
	require.NoError(t, database.DB.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&stored).Error)
	assert.True(t, stored.Completed)
	assert.NotNil(t, stored.CompletionDate)

	got, err := GetCourseProgress(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestMarkingEveryLectureWithoutPurchaseStaysLocked(t *testing.T) {
	setupDB(t)
	student := seedStudent(t)
	course := seedCourse(t, "intro", "types")
	lectures := lecturesOf(course)
	ctx := context.Background()

	var view *CourseProgressView
	for _, lecture := range lectures {
		var err error
		view, err = MarkLectureViewed(ctx, student.ID, course.ID, lecture.ID)
		require.NoError(t, err)
	}
	assert.False(t, view.IsPurchased)
	assert.False(t, view.Completed)
	assert.Nil(t, view.CurrentLecture)
	assert.Nil(t, view.CourseDetails)
	assert.Equal(t, -1, view.CurrentLectureIndex)

	var stored models.CourseProgress
	require.NoError(t, database.DB.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&stored).Error)
	assert.False(t, stored.Completed)
	assert.Nil(t, stored.CompletionDate)

	var records int64
	require.NoError(t, database.DB.Model(&models.LectureProgress{}).Where("course_progress_id = ?", stored.ID).Count(&records).Error)
	assert.EqualValues(t, 2, records)

	grantOwnership(t, student, course)
	got, err := GetCourseProgress(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPurchased)
	assert.True(t, got.Completed)
}

func TestResetCourseProgress(t *testing.T) {
	setupDB(t)
	student := seedStudent(t)
	course := seedCourse(t, "intro", "types")
	grantOwnership(t, student, course)
	lectures := lecturesOf(course)
	ctx := context.Background()

	require.NoError(t, ResetCourseProgress(ctx, student.ID, course.ID), "reset without progress")

	for _, lecture := range lectures {
		_, err := MarkLectureViewed(ctx, student.ID, course.ID, lecture.ID)
		require.NoError(t, err)
	}

	require.NoError(t, ResetCourseProgress(ctx, student.ID, course.ID))
	require.NoError(t, ResetCourseProgress(ctx, student.ID, course.ID))

	view, err := GetCourseProgress(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Progress)
	assert.False(t, view.Completed)
	assert.Equal(t, lectures[0].ID, view.CurrentLecture.ID)

	var stored models.CourseProgress
	require.NoError(t, database.DB.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&stored).Error)
	assert.False(t, stored.Completed)
	assert.Nil(t, stored.CompletionDate)
}
