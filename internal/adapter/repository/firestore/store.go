// Package firestore implements the repository interfaces on Cloud
// Firestore: one document per user in the users collection, calendar
// events in a per-user subcollection.
package firestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

const (
	usersCollection  = "users"
	eventsCollection = "events"
)

// Store implements domain.CompanyRepository and domain.EventRepository
// backed by a Firestore client
type Store struct {
	client *firestore.Client
}

// NewStore creates a new Firestore-backed store
func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Get implements domain.CompanyRepository
func (s *Store) Get(ctx context.Context, userID string) (*domain.UserDocument, error) {
	snap, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user document: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode user document: %w", err)
	}
	return doc.toDomain(ctx)
}

// Save implements domain.CompanyRepository.
// With merge, stored fields absent from doc are left untouched
// (last-write-wins per field); without it the document is replaced.
func (s *Store) Save(ctx context.Context, userID string, doc *domain.UserDocument, merge bool) error {
	ref := s.client.Collection(usersCollection).Doc(userID)

	// MergeAll is only accepted with map data, so merge writes go through
	// the map encoding.
	if merge {
		if _, err := ref.Set(ctx, fromDomain(doc).toMap(), firestore.MergeAll); err != nil {
			return fmt.Errorf("merge user document: %w", err)
		}
		return nil
	}
	if _, err := ref.Set(ctx, fromDomain(doc)); err != nil {
		return fmt.Errorf("set user document: %w", err)
	}
	return nil
}

// Add implements domain.EventRepository
func (s *Store) Add(ctx context.Context, userID string, event *domain.Event) error {
	ref := s.eventRef(userID, event.ID.String())
	_, err := ref.Set(ctx, eventDoc{
		Title: event.Title,
		Date:  event.Date,
		Kind:  string(event.Kind),
	})
	if err != nil {
		return fmt.Errorf("set event: %w", err)
	}
	return nil
}

// ListByRange implements domain.EventRepository
func (s *Store) ListByRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Event, error) {
	iter := s.client.Collection(usersCollection).Doc(userID).Collection(eventsCollection).
		Where("date", ">=", from).
		Where("date", "<=", to).
		OrderBy("date", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var events []*domain.Event
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate events: %w", err)
		}

		var doc eventDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", snap.Ref.ID, err)
		}
		event, err := doc.toDomain(snap.Ref.ID)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed event document", "id", snap.Ref.ID, "error", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Remove implements domain.EventRepository
func (s *Store) Remove(ctx context.Context, userID string, id uuid.UUID) error {
	ref := s.eventRef(userID, id.String())
	if _, err := ref.Get(ctx); status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("get event: %w", err)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *Store) eventRef(userID, eventID string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(userID).Collection(eventsCollection).Doc(eventID)
}
