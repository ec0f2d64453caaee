package company

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// EntryKind selects which history sequence an entry is appended to
type EntryKind string

const (
	EntryRevenue         EntryKind = "revenue"
	EntryFixedExpense    EntryKind = "fixed-expense"
	EntryVariableExpense EntryKind = "variable-expense"
)

// RegisterInput represents the input for registering a company
type RegisterInput struct {
	Name             string
	TaxID            string
	Segment          domain.Segment
	CustomSegment    string
	MonthlyRevenue   decimal.Decimal
	FixedExpenses    decimal.Decimal
	VariableExpenses decimal.Decimal
}

// UpdateInput represents the input for updating a registered company.
// Name and TaxID are carried for conflict detection only: both are
// immutable once the company is first saved.
type UpdateInput struct {
	Name             string
	TaxID            string
	Segment          domain.Segment
	CustomSegment    string
	MonthlyRevenue   decimal.Decimal
	FixedExpenses    decimal.Decimal
	VariableExpenses decimal.Decimal
}

// Service handles company registration and maintenance
type Service struct {
	CompanyRepo      domain.CompanyRepository
	NotificationRepo domain.NotificationRepository
}

// NewService creates a new company Service instance
func NewService(companyRepo domain.CompanyRepository, notificationRepo domain.NotificationRepository) *Service {
	return &Service{
		CompanyRepo:      companyRepo,
		NotificationRepo: notificationRepo,
	}
}

// Register creates the user's company and flips CompanyRegistered.
// The flag is set exactly once, here; it is never inferred from the
// presence of company data. Registering twice fails.
func (s *Service) Register(ctx context.Context, userID string, input RegisterInput) (*domain.Company, error) {
	doc, err := s.CompanyRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user document: %w", err)
	}
	if doc != nil && doc.CompanyRegistered {
		return nil, domain.ErrAlreadyRegister
	}

	company := &domain.Company{
		ID:               uuid.NewString(),
		Name:             input.Name,
		TaxID:            input.TaxID,
		Segment:          input.Segment,
		CustomSegment:    input.CustomSegment,
		MonthlyRevenue:   input.MonthlyRevenue,
		FixedExpenses:    input.FixedExpenses,
		VariableExpenses: input.VariableExpenses,
	}
	if err := company.Validate(); err != nil {
		return nil, err
	}

	newDoc := &domain.UserDocument{CompanyRegistered: true, Company: company}
	if err := s.CompanyRepo.Save(ctx, userID, newDoc, false); err != nil {
		return nil, fmt.Errorf("save user document: %w", err)
	}

	// The feed is best effort; a failed notification must not undo a
	// completed registration.
	_ = s.NotificationRepo.Add(ctx, userID, &domain.Notification{
		ID:      uuid.New(),
		Title:   "Company registered",
		Message: fmt.Sprintf("Company %s was registered successfully", company.Name),
		Kind:    domain.NotificationSuccess,
	})

	return company, nil
}

// Update modifies the baseline figures and segment of a registered company.
// Name and TaxID cannot change after the first save.
func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) (*domain.Company, error) {
	doc, err := s.CompanyRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user document: %w", err)
	}
	if doc == nil || !doc.CompanyRegistered || doc.Company == nil {
		return nil, domain.ErrNotRegistered
	}

	company := doc.Company
	if input.Name != "" && input.Name != company.Name {
		return nil, fmt.Errorf("name: %w", domain.ErrImmutableField)
	}
	if input.TaxID != "" && input.TaxID != company.TaxID {
		return nil, fmt.Errorf("tax id: %w", domain.ErrImmutableField)
	}

	company.Segment = input.Segment
	company.CustomSegment = input.CustomSegment
	company.MonthlyRevenue = input.MonthlyRevenue
	company.FixedExpenses = input.FixedExpenses
	company.VariableExpenses = input.VariableExpenses

	if err := company.Validate(); err != nil {
		return nil, err
	}

	if err := s.CompanyRepo.Save(ctx, userID, doc, true); err != nil {
		return nil, fmt.Errorf("save user document: %w", err)
	}
	return company, nil
}

// AppendEntry appends a dated amount to one of the company's history
// sequences. The sequences are append-only; no edit or delete exists.
func (s *Service) AppendEntry(ctx context.Context, userID string, kind EntryKind, entry domain.Entry) error {
	if !entry.Valid() {
		return fmt.Errorf("%w: entry needs a date and a non-negative amount", domain.ErrInvalidInput)
	}

	doc, err := s.CompanyRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user document: %w", err)
	}
	if doc == nil || !doc.CompanyRegistered || doc.Company == nil {
		return domain.ErrNotRegistered
	}

	history := &doc.Company.History
	switch kind {
	case EntryRevenue:
		history.Revenue = append(history.Revenue, entry)
	case EntryFixedExpense:
		history.FixedExpenses = append(history.FixedExpenses, entry)
	case EntryVariableExpense:
		history.VariableExpenses = append(history.VariableExpenses, entry)
	default:
		return fmt.Errorf("%w: unknown entry kind %q", domain.ErrInvalidInput, kind)
	}

	if err := s.CompanyRepo.Save(ctx, userID, doc, false); err != nil {
		return fmt.Errorf("save user document: %w", err)
	}
	return nil
}

// Get retrieves the user's company.
// Returns (nil, nil) when no company is registered: that is a valid
// terminal state, not an error.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Company, error) {
	doc, err := s.CompanyRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user document: %w", err)
	}
	if doc == nil || !doc.CompanyRegistered {
		return nil, nil
	}
	return doc.Company, nil
}
