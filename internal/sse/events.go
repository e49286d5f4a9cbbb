// Package sse implements Server-Sent Events for real-time shelf updates and event broadcasting.
package sse

import (
	"time"

	"github.com/paginoid/paginoid-server/internal/domain"
)

// EventType represents the type of SSE event.
type EventType string

const (
	// EventBookCreated represents a book being added to a shelf.
	EventBookCreated EventType = "book.created"
	// EventBookUpdated represents a book update event.
	EventBookUpdated EventType = "book.updated"
	// EventBookDeleted represents a book deletion event.
	EventBookDeleted EventType = "book.deleted"

	// EventShelfSnapshot carries a full filtered shelf listing.
	// Sent once when a client subscribes, then after every change.
	EventShelfSnapshot EventType = "shelf.snapshot"

	// EventProfileUpdated represents a profile change.
	EventProfileUpdated EventType = "profile.updated"

	// EventGoalUpdated represents a reading goal progress change.
	EventGoalUpdated EventType = "goal.updated"

	// EventReadingStarted represents a reading timer starting.
	EventReadingStarted EventType = "reading.started"
	// EventReadingFinished represents a reading timer stopping.
	EventReadingFinished EventType = "reading.finished"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// Shelf data is per-user, so every event carries an owner and is
	// only delivered to that user's connections. Empty means broadcast.
	UserID string `json:"-"`
}

// BookEventData is the data payload for book events.
type BookEventData struct {
	Book *domain.Book `json:"book"`
}

// BookDeletedEventData is the data payload for book delete events.
type BookDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	BookID    string    `json:"book_id"`
}

// ShelfSnapshotData is the data payload for shelf snapshot events.
type ShelfSnapshotData struct {
	Status domain.Status  `json:"status"`
	Books  []*domain.Book `json:"books"`
}

// ProfileEventData is the data payload for profile events.
type ProfileEventData struct {
	Profile *domain.Profile `json:"profile"`
}

// GoalEventData is the data payload for goal events.
type GoalEventData struct {
	Goal *domain.Goal `json:"goal"`
}

// ReadingEventData is the data payload for reading timer events.
type ReadingEventData struct {
	Session *domain.ReadingSession `json:"session"`
}

// NewBookCreatedEvent creates a book created event for the owning user.
func NewBookCreatedEvent(userID string, book *domain.Book) Event {
	return Event{
		Type:      EventBookCreated,
		Timestamp: time.Now(),
		UserID:    userID,
		Data:      BookEventData{Book: book},
	}
}

// NewBookUpdatedEvent creates a book updated event for the owning user.
func NewBookUpdatedEvent(userID string, book *domain.Book) Event {
	return Event{
		Type:      EventBookUpdated,
		Timestamp: time.Now(),
		UserID:    userID,
		Data:      BookEventData{Book: book},
	}
}

// NewBookDeletedEvent creates a book deleted event for the owning user.
func NewBookDeletedEvent(userID, bookID string) Event {
	now := time.Now()
	return Event{
		Type:      EventBookDeleted,
		Timestamp: now,
		UserID:    userID,
		Data:      BookDeletedEventData{BookID: bookID, DeletedAt: now},
	}
}

// NewShelfSnapshotEvent creates a snapshot event carrying a filtered shelf listing.
func NewShelfSnapshotEvent(userID string, status domain.Status, books []*domain.Book) Event {
	return Event{
		Type:      EventShelfSnapshot,
		Timestamp: time.Now(),
		UserID:    userID,
		Data:      ShelfSnapshotData{Status: status, Books: books},
	}
}

// NewProfileUpdatedEvent creates a profile updated event.
func NewProfileUpdatedEvent(profile *domain.Profile) Event {
	return Event{
		Type:      EventProfileUpdated,
		Timestamp: time.Now(),
		UserID:    profile.UserID,
		Data:      ProfileEventData{Profile: profile},
	}
}

// NewGoalUpdatedEvent creates a goal updated event.
func NewGoalUpdatedEvent(goal *domain.Goal) Event {
	return Event{
		Type:      EventGoalUpdated,
		Timestamp: time.Now(),
		UserID:    goal.UserID,
		Data:      GoalEventData{Goal: goal},
	}
}

// NewReadingStartedEvent creates a reading timer started event.
func NewReadingStartedEvent(session *domain.ReadingSession) Event {
	return Event{
		Type:      EventReadingStarted,
		Timestamp: time.Now(),
		UserID:    session.UserID,
		Data:      ReadingEventData{Session: session},
	}
}

// NewReadingFinishedEvent creates a reading timer finished event.
func NewReadingFinishedEvent(session *domain.ReadingSession) Event {
	return Event{
		Type:      EventReadingFinished,
		Timestamp: time.Now(),
		UserID:    session.UserID,
		Data:      ReadingEventData{Session: session},
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data:      map[string]string{"status": "alive"},
	}
}
