package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/anjiri1684/course_platform/database"
	"github.com/anjiri1684/course_platform/models"
	"github.com/anjiri1684/course_platform/payments"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu           sync.Mutex
	createCalls  int
	captureCalls int
	createErr    error
	captureErr   error
	captureState string
	lastCheckout payments.CheckoutRequest
	// beforeCapture runs inside CaptureOrder, after the order was loaded
	// and before the confirmation is written.
	beforeCapture func(gatewayOrderID string)
}

func (f *fakeGateway) CreateOrder(ctx context.Context, req payments.CheckoutRequest) (*payments.GatewayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastCheckout = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	id := "PP-" + uuid.NewString()[:8]
	return &payments.GatewayOrder{
		ID:     id,
		Status: "CREATED",
		Links: []payments.Link{
			{Href: "https://www.sandbox.paypal.com/checkoutnow?token=" + id, Rel: "approve", Method: "GET"},
		},
	}, nil
}

func (f *fakeGateway) CaptureOrder(ctx context.Context, gatewayOrderID string) (*payments.GatewayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captureCalls++
	if f.beforeCapture != nil {
		f.beforeCapture(gatewayOrderID)
	}
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	status := f.captureState
	if status == "" {
		status = payments.StatusCompleted
	}
	return &payments.GatewayOrder{ID: gatewayOrderID, Status: status}, nil
}

var errGatewayDown = errors.New("dial tcp: connection refused")

func setupDB(t *testing.T) {
	t.Helper()
	_, err := database.ConnectTest()
	require.NoError(t, err)
}

func seedStudent(t *testing.T) models.User {
	t.Helper()
	user := models.User{UserName: "Ada Student", Email: uuid.NewString() + "@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func seedCourse(t *testing.T, lectures ...string) *models.Course {
	t.Helper()
	curriculum := make([]LectureInput, 0, len(lectures))
	for _, title := range lectures {
		curriculum = append(curriculum, LectureInput{Title: title, VideoURL: "https://videos.example.com/" + title})
	}
	course, err := CreateCourse(context.Background(), CreateCourseInput{
		InstructorID:   uuid.New(),
		InstructorName: "Grace Instructor",
		Title:          "Go for Beginners",
		Image:          "https://img.example.com/go.png",
		Pricing:        49.99,
		Curriculum:     curriculum,
	})
	require.NoError(t, err)
	return course
}

func grantOwnership(t *testing.T, user models.User, course *models.Course) {
	t.Helper()
	require.NoError(t, database.DB.Create(&models.StudentCourse{
		UserID:   user.ID,
		CourseID: course.ID,
		Title:    course.Title,
	}).Error)
}

func lecturesOf(course *models.Course) []models.Lecture {
	loaded, err := GetCourse(context.Background(), course.ID)
	if err != nil {
		panic(err)
	}
	return loaded.Lectures
}
