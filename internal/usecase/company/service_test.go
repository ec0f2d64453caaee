package company

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// MockCompanyRepository is a mock implementation of CompanyRepository for testing
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Get(ctx context.Context, userID string) (*domain.UserDocument, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserDocument), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, userID string, doc *domain.UserDocument, merge bool) error {
	args := m.Called(ctx, userID, doc, merge)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of NotificationRepository for testing
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Add(ctx context.Context, userID string, n *domain.Notification) error {
	args := m.Called(ctx, userID, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) Remove(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func registeredDoc() *domain.UserDocument {
	return &domain.UserDocument{
		CompanyRegistered: true,
		Company: &domain.Company{
			ID:               "c-1",
			Name:             "Padaria Central",
			TaxID:            "12345678000190",
			Segment:          domain.SegmentCommerce,
			MonthlyRevenue:   decimal.NewFromInt(10000),
			FixedExpenses:    decimal.NewFromInt(3000),
			VariableExpenses: decimal.NewFromInt(1500),
		},
	}
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:             "Padaria Central",
		TaxID:            "12345678000190",
		Segment:          domain.SegmentCommerce,
		MonthlyRevenue:   decimal.NewFromInt(10000),
		FixedExpenses:    decimal.NewFromInt(3000),
		VariableExpenses: decimal.NewFromInt(1500),
	}
}

func TestRegister_StandardFlow(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	notificationRepo := new(MockNotificationRepository)
	service := NewService(companyRepo, notificationRepo)

	companyRepo.On("Get", ctx, "u1").Return(nil, nil)
	companyRepo.On("Save", ctx, "u1", mock.MatchedBy(func(doc *domain.UserDocument) bool {
		return doc.CompanyRegistered && doc.Company != nil && doc.Company.ID != ""
	}), false).Return(nil)
	notificationRepo.On("Add", ctx, "u1", mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Kind == domain.NotificationSuccess && !n.Read
	})).Return(nil)

	company, err := service.Register(ctx, "u1", registerInput())

	require.NoError(t, err)
	assert.NotEmpty(t, company.ID)
	assert.Equal(t, "Padaria Central", company.Name)
	companyRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

func TestRegister_AlreadyRegistered(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	service := NewService(companyRepo, new(MockNotificationRepository))

	companyRepo.On("Get", ctx, "u1").Return(registeredDoc(), nil)

	_, err := service.Register(ctx, "u1", registerInput())

	assert.ErrorIs(t, err, domain.ErrAlreadyRegister)
	companyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_InvalidInput(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	service := NewService(companyRepo, new(MockNotificationRepository))

	companyRepo.On("Get", ctx, "u1").Return(nil, nil)

	input := registerInput()
	input.TaxID = "123"

	_, err := service.Register(ctx, "u1", input)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	companyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_BaselineFigures(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	service := NewService(companyRepo, new(MockNotificationRepository))

	doc := registeredDoc()
	companyRepo.On("Get", ctx, "u1").Return(doc, nil)
	companyRepo.On("Save", ctx, "u1", doc, true).Return(nil)

	input := UpdateInput{
		Name:             "Padaria Central",
		TaxID:            "12345678000190",
		Segment:          domain.SegmentServices,
		MonthlyRevenue:   decimal.NewFromInt(12000),
		FixedExpenses:    decimal.NewFromInt(3500),
		VariableExpenses: decimal.NewFromInt(2000),
	}

	company, err := service.Update(ctx, "u1", input)

	require.NoError(t, err)
	assert.Equal(t, domain.SegmentServices, company.Segment)
	assert.True(t, decimal.NewFromInt(12000).Equal(company.MonthlyRevenue))
	companyRepo.AssertExpectations(t)
}

func TestUpdate_ImmutableFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UpdateInput)
	}{
		{name: "name cannot change", mutate: func(in *UpdateInput) { in.Name = "Renamed Bakery" }},
		{name: "tax id cannot change", mutate: func(in *UpdateInput) { in.TaxID = "99999999000199" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			companyRepo := new(MockCompanyRepository)
			service := NewService(companyRepo, new(MockNotificationRepository))

			companyRepo.On("Get", ctx, "u1").Return(registeredDoc(), nil)

			input := UpdateInput{
				Name:             "Padaria Central",
				TaxID:            "12345678000190",
				Segment:          domain.SegmentCommerce,
				MonthlyRevenue:   decimal.NewFromInt(10000),
				FixedExpenses:    decimal.NewFromInt(3000),
				VariableExpenses: decimal.NewFromInt(1500),
			}
			tt.mutate(&input)

			_, err := service.Update(ctx, "u1", input)

			assert.ErrorIs(t, err, domain.ErrImmutableField)
			companyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdate_NotRegistered(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	service := NewService(companyRepo, new(MockNotificationRepository))

	companyRepo.On("Get", ctx, "u1").Return(nil, nil)

	_, err := service.Update(ctx, "u1", UpdateInput{})

	assert.ErrorIs(t, err, domain.ErrNotRegistered)
}

func TestAppendEntry(t *testing.T) {
	ctx := context.Background()
	entryDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	entry := domain.Entry{Amount: decimal.NewFromInt(500), Date: entryDate}

	tests := []struct {
		name string
		kind EntryKind
		peek func(h domain.FinancialHistory) []domain.Entry
	}{
		{name: "revenue", kind: EntryRevenue, peek: func(h domain.FinancialHistory) []domain.Entry { return h.Revenue }},
		{name: "fixed expense", kind: EntryFixedExpense, peek: func(h domain.FinancialHistory) []domain.Entry { return h.FixedExpenses }},
		{name: "variable expense", kind: EntryVariableExpense, peek: func(h domain.FinancialHistory) []domain.Entry { return h.VariableExpenses }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			companyRepo := new(MockCompanyRepository)
			service := NewService(companyRepo, new(MockNotificationRepository))

			doc := registeredDoc()
			companyRepo.On("Get", ctx, "u1").Return(doc, nil)
			companyRepo.On("Save", ctx, "u1", mock.MatchedBy(func(saved *domain.UserDocument) bool {
				entries := tt.peek(saved.Company.History)
				return len(entries) == 1 && entries[0].Amount.Equal(entry.Amount)
			}), false).Return(nil)

			err := service.AppendEntry(ctx, "u1", tt.kind, entry)

			require.NoError(t, err)
			companyRepo.AssertExpectations(t)
		})
	}
}

func TestAppendEntry_Invalid(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	service := NewService(companyRepo, new(MockNotificationRepository))

	err := service.AppendEntry(ctx, "u1", EntryRevenue, domain.Entry{Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	companyRepo.On("Get", ctx, "u1").Return(registeredDoc(), nil)
	err = service.AppendEntry(ctx, "u1", "bonus", domain.Entry{
		Amount: decimal.NewFromInt(10),
		Date:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("registered company is returned", func(t *testing.T) {
		companyRepo := new(MockCompanyRepository)
		service := NewService(companyRepo, new(MockNotificationRepository))
		companyRepo.On("Get", ctx, "u1").Return(registeredDoc(), nil)

		company, err := service.Get(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, "Padaria Central", company.Name)
	})

	t.Run("absent document is not an error", func(t *testing.T) {
		companyRepo := new(MockCompanyRepository)
		service := NewService(companyRepo, new(MockNotificationRepository))
		companyRepo.On("Get", ctx, "u1").Return(nil, nil)

		company, err := service.Get(ctx, "u1")

		require.NoError(t, err)
		assert.Nil(t, company)
	})

	t.Run("unregistered flag hides company data", func(t *testing.T) {
		companyRepo := new(MockCompanyRepository)
		service := NewService(companyRepo, new(MockNotificationRepository))
		doc := registeredDoc()
		doc.CompanyRegistered = false
		companyRepo.On("Get", ctx, "u1").Return(doc, nil)

		company, err := service.Get(ctx, "u1")

		require.NoError(t, err)
		assert.Nil(t, company)
	})
}
