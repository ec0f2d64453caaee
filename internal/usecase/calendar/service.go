package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// ScheduleInput represents the input for scheduling an event
type ScheduleInput struct {
	Title string
	Date  time.Time
	Kind  domain.EventKind
}

// Service handles calendar event operations
type Service struct {
	EventRepo domain.EventRepository
}

// NewService creates a new calendar Service instance
func NewService(eventRepo domain.EventRepository) *Service {
	return &Service{EventRepo: eventRepo}
}

// Schedule creates a new event on the user's calendar
func (s *Service) Schedule(ctx context.Context, userID string, input ScheduleInput) (*domain.Event, error) {
	event := &domain.Event{
		ID:    uuid.New(),
		Title: input.Title,
		Date:  truncate(input.Date),
		Kind:  input.Kind,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.EventRepo.Add(ctx, userID, event); err != nil {
		return nil, fmt.Errorf("add event: %w", err)
	}
	return event, nil
}

// ListByRange retrieves the user's events between from and to,
// inclusive on both ends, ordered by date ascending
func (s *Service) ListByRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Event, error) {
	from, to = truncate(from), truncate(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end before start", domain.ErrInvalidInput)
	}

	events, err := s.EventRepo.ListByRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListWeek retrieves the events of the Sunday-aligned week containing anchor
func (s *Service) ListWeek(ctx context.Context, userID string, anchor time.Time) ([]*domain.Event, error) {
	start := truncate(anchor)
	start = start.AddDate(0, 0, -int(start.Weekday()))
	return s.ListByRange(ctx, userID, start, start.AddDate(0, 0, 6))
}

// Cancel removes an event from the user's calendar
func (s *Service) Cancel(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.EventRepo.Remove(ctx, userID, id); err != nil {
		return fmt.Errorf("remove event: %w", err)
	}
	return nil
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
