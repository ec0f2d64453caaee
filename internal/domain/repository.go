package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CompanyRepository defines the interface for the per-user document store.
// One document per user; there are no transactions across documents and
// writes are last-write-wins.
type CompanyRepository interface {
	// Get retrieves the user's document.
	// Returns (nil, nil) when no document exists; absence is not an error.
	Get(ctx context.Context, userID string) (*UserDocument, error)

	// Save writes the user's document. When merge is true, fields absent
	// from doc are left untouched in the stored document.
	Save(ctx context.Context, userID string, doc *UserDocument, merge bool) error
}

// EventRepository defines the interface for calendar event persistence
type EventRepository interface {
	// Add stores a new event for the user
	Add(ctx context.Context, userID string, event *Event) error

	// ListByRange retrieves the user's events with from <= date <= to,
	// ordered by date ascending
	ListByRange(ctx context.Context, userID string, from, to time.Time) ([]*Event, error)

	// Remove deletes an event by ID. Returns ErrNotFound if absent.
	Remove(ctx context.Context, userID string, id uuid.UUID) error
}

// NotificationRepository defines the interface for the notification feed
type NotificationRepository interface {
	// Add appends a notification to the user's feed
	Add(ctx context.Context, userID string, n *Notification) error

	// List retrieves the user's notifications in insertion order
	List(ctx context.Context, userID string) ([]*Notification, error)

	// MarkRead flags a notification as read. Returns ErrNotFound if absent.
	MarkRead(ctx context.Context, userID string, id uuid.UUID) error

	// Remove deletes a notification. Returns ErrNotFound if absent.
	Remove(ctx context.Context, userID string, id uuid.UUID) error
}

// TokenVerifier exchanges a bearer token issued by the external identity
// provider for a session snapshot. Credential flows (password, OAuth) stay
// with the provider; this interface only verifies already-issued tokens.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (Session, error)
}
