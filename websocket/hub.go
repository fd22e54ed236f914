package websocket

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	EventLectureViewed   = "lecture_viewed"
	EventCourseCompleted = "course_completed"
	EventProgressReset   = "progress_reset"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// ProgressEvent is pushed to the student whose progress changed.
type ProgressEvent struct {
	UserID              uuid.UUID `json:"-"`
	Type                string    `json:"type"`
	CourseID            uuid.UUID `json:"courseId"`
	LectureID           uuid.UUID `json:"lectureId"`
	Completed           bool      `json:"completed"`
	CelebrateForSeconds int       `json:"celebrateForSeconds,omitempty"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *ProgressEvent, 256)

// Publish queues an event without blocking; events are dropped when the
// queue is full.
func Publish(event *ProgressEvent) {
	select {
	case Broadcast <- event:
	default:
		log.Warn().Str("type", event.Type).Str("user_id", event.UserID.String()).Msg("progress event dropped, hub queue full")
	}
}

func IsConnected(userID uuid.UUID) bool {
	clientsMu.RLock()
	defer clientsMu.RUnlock()
	_, ok := clients[userID]
	return ok
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Debug().Str("user_id", client.UserID.String()).Msg("websocket client registered")
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Debug().Str("user_id", client.UserID.String()).Msg("websocket client unregistered")
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			deliver(event)
		}
	}
}

func deliver(event *ProgressEvent) {
	clientsMu.RLock()
	conn, ok := clients[event.UserID]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		log.Error().Err(err).Str("user_id", event.UserID.String()).Msg("failed to deliver progress event")
		conn.Close()
		clientsMu.Lock()
		if current, ok := clients[event.UserID]; ok && current == conn {
			delete(clients, event.UserID)
		}
		clientsMu.Unlock()
	}
}
