package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a calendar event
type EventKind string

const (
	EventKindTask     EventKind = "task"
	EventKindMeeting  EventKind = "meeting"
	EventKindDeadline EventKind = "deadline"
)

// Event represents a dated calendar entry owned by a user
type Event struct {
	ID    uuid.UUID
	Title string
	Date  time.Time // date-only, midnight UTC
	Kind  EventKind
}

// Validate ensures the event adheres to domain rules
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: event title cannot be empty", ErrInvalidInput)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: event date cannot be zero", ErrInvalidInput)
	}
	switch e.Kind {
	case EventKindTask, EventKindMeeting, EventKindDeadline:
	default:
		return fmt.Errorf("%w: unknown event kind %q", ErrInvalidInput, e.Kind)
	}
	return nil
}
