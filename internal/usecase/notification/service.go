package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// Service handles the user's notification feed
type Service struct {
	NotificationRepo domain.NotificationRepository
}

// NewService creates a new notification Service instance
func NewService(notificationRepo domain.NotificationRepository) *Service {
	return &Service{NotificationRepo: notificationRepo}
}

// Push appends a notification to the user's feed
func (s *Service) Push(ctx context.Context, userID, title, message string, kind domain.NotificationKind) (*domain.Notification, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: notification title cannot be empty", domain.ErrInvalidInput)
	}
	switch kind {
	case domain.NotificationInfo, domain.NotificationSuccess, domain.NotificationWarning, domain.NotificationError:
	default:
		return nil, fmt.Errorf("%w: unknown notification kind %q", domain.ErrInvalidInput, kind)
	}

	n := &domain.Notification{
		ID:      uuid.New(),
		Title:   title,
		Message: message,
		Kind:    kind,
	}
	if err := s.NotificationRepo.Add(ctx, userID, n); err != nil {
		return nil, fmt.Errorf("add notification: %w", err)
	}
	return n, nil
}

// List retrieves the user's notifications in insertion order
func (s *Service) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifications, err := s.NotificationRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// Unread counts the notifications not yet marked as read
func (s *Service) Unread(ctx context.Context, userID string) (int, error) {
	notifications, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead flags a notification as read
func (s *Service) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.NotificationRepo.MarkRead(ctx, userID, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// Remove deletes a notification from the feed
func (s *Service) Remove(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.NotificationRepo.Remove(ctx, userID, id); err != nil {
		return fmt.Errorf("remove notification: %w", err)
	}
	return nil
}
