// Package memory provides in-memory repository implementations used by the
// dev backend and by tests. All methods are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// Store holds every per-user collection in memory
type Store struct {
	mu            sync.RWMutex
	documents     map[string]*domain.UserDocument
	events        map[string][]*domain.Event
	notifications map[string][]*domain.Notification
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		documents:     make(map[string]*domain.UserDocument),
		events:        make(map[string][]*domain.Event),
		notifications: make(map[string][]*domain.Notification),
	}
}

// Get implements domain.CompanyRepository
func (s *Store) Get(_ context.Context, userID string) (*domain.UserDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[userID]
	if !ok {
		return nil, nil
	}
	return cloneDocument(doc), nil
}

// Save implements domain.CompanyRepository
func (s *Store) Save(_ context.Context, userID string, doc *domain.UserDocument, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneDocument(doc)
	if merge {
		if existing, ok := s.documents[userID]; ok && next.Company == nil {
			next.Company = cloneCompany(existing.Company)
		}
	}
	s.documents[userID] = next
	return nil
}

// Add implements domain.EventRepository
func (s *Store) Add(_ context.Context, userID string, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *event
	s.events[userID] = append(s.events[userID], &clone)
	return nil
}

// ListByRange implements domain.EventRepository
func (s *Store) ListByRange(_ context.Context, userID string, from, to time.Time) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Event
	for _, event := range s.events[userID] {
		if event.Date.Before(from) || event.Date.After(to) {
			continue
		}
		clone := *event
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Remove implements domain.EventRepository
func (s *Store) Remove(_ context.Context, userID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.events[userID]
	for i, event := range events {
		if event.ID == id {
			s.events[userID] = append(events[:i], events[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// AddNotification implements domain.NotificationRepository.Add
func (s *Store) AddNotification(_ context.Context, userID string, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *n
	s.notifications[userID] = append(s.notifications[userID], &clone)
	return nil
}

// ListNotifications implements domain.NotificationRepository.List
func (s *Store) ListNotifications(_ context.Context, userID string) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Notification, 0, len(s.notifications[userID]))
	for _, n := range s.notifications[userID] {
		clone := *n
		out = append(out, &clone)
	}
	return out, nil
}

// MarkNotificationRead implements domain.NotificationRepository.MarkRead
func (s *Store) MarkNotificationRead(_ context.Context, userID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[userID] {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

// RemoveNotification implements domain.NotificationRepository.Remove
func (s *Store) RemoveNotification(_ context.Context, userID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifications := s.notifications[userID]
	for i, n := range notifications {
		if n.ID == id {
			s.notifications[userID] = append(notifications[:i], notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// Notifications adapts the store to domain.NotificationRepository.
// The event and company methods live directly on Store; the notification
// method set clashes with them by name, hence the view type.
func (s *Store) Notifications() domain.NotificationRepository {
	return notificationView{s}
}

type notificationView struct{ store *Store }

func (v notificationView) Add(ctx context.Context, userID string, n *domain.Notification) error {
	return v.store.AddNotification(ctx, userID, n)
}

func (v notificationView) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return v.store.ListNotifications(ctx, userID)
}

func (v notificationView) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	return v.store.MarkNotificationRead(ctx, userID, id)
}

func (v notificationView) Remove(ctx context.Context, userID string, id uuid.UUID) error {
	return v.store.RemoveNotification(ctx, userID, id)
}

func cloneDocument(doc *domain.UserDocument) *domain.UserDocument {
	if doc == nil {
		return nil
	}
	return &domain.UserDocument{
		CompanyRegistered: doc.CompanyRegistered,
		Company:           cloneCompany(doc.Company),
	}
}

func cloneCompany(c *domain.Company) *domain.Company {
	if c == nil {
		return nil
	}
	clone := *c
	clone.History = domain.FinancialHistory{
		Revenue:          append([]domain.Entry(nil), c.History.Revenue...),
		FixedExpenses:    append([]domain.Entry(nil), c.History.FixedExpenses...),
		VariableExpenses: append([]domain.Entry(nil), c.History.VariableExpenses...),
	}
	return &clone
}
