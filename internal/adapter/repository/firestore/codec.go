package firestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// Amounts are stored as strings to keep decimal precision; entry dates are
// ISO calendar dates with no time-of-day.
const dateLayout = "2006-01-02"

type userDoc struct {
	CompanyRegistered bool        `firestore:"companyRegistered"`
	Company           *companyDoc `firestore:"company"`
}

type companyDoc struct {
	ID               string     `firestore:"id"`
	Name             string     `firestore:"name"`
	TaxID            string     `firestore:"taxId"`
	Segment          string     `firestore:"segment"`
	CustomSegment    string     `firestore:"customSegment"`
	MonthlyRevenue   string     `firestore:"monthlyRevenue"`
	FixedExpenses    string     `firestore:"fixedExpenses"`
	VariableExpenses string     `firestore:"variableExpenses"`
	History          historyDoc `firestore:"financialHistory"`
}

type historyDoc struct {
	Revenue          []entryDoc `firestore:"revenue"`
	FixedExpenses    []entryDoc `firestore:"fixedExpenses"`
	VariableExpenses []entryDoc `firestore:"variableExpenses"`
}

type entryDoc struct {
	Amount string `firestore:"amount"`
	Date   string `firestore:"date"`
}

type eventDoc struct {
	Title string    `firestore:"title"`
	Date  time.Time `firestore:"date"`
	Kind  string    `firestore:"kind"`
}

func fromDomain(doc *domain.UserDocument) userDoc {
	out := userDoc{CompanyRegistered: doc.CompanyRegistered}
	if doc.Company == nil {
		return out
	}

	c := doc.Company
	out.Company = &companyDoc{
		ID:               c.ID,
		Name:             c.Name,
		TaxID:            c.TaxID,
		Segment:          string(c.Segment),
		CustomSegment:    c.CustomSegment,
		MonthlyRevenue:   c.MonthlyRevenue.String(),
		FixedExpenses:    c.FixedExpenses.String(),
		VariableExpenses: c.VariableExpenses.String(),
		History: historyDoc{
			Revenue:          entriesFromDomain(c.History.Revenue),
			FixedExpenses:    entriesFromDomain(c.History.FixedExpenses),
			VariableExpenses: entriesFromDomain(c.History.VariableExpenses),
		},
	}
	return out
}

// toMap renders the document as map data, the only form the client
// accepts for MergeAll writes. Keys match the firestore struct tags.
func (d userDoc) toMap() map[string]any {
	out := map[string]any{"companyRegistered": d.CompanyRegistered}
	if d.Company == nil {
		return out
	}

	c := d.Company
	out["company"] = map[string]any{
		"id":               c.ID,
		"name":             c.Name,
		"taxId":            c.TaxID,
		"segment":          c.Segment,
		"customSegment":    c.CustomSegment,
		"monthlyRevenue":   c.MonthlyRevenue,
		"fixedExpenses":    c.FixedExpenses,
		"variableExpenses": c.VariableExpenses,
		"financialHistory": map[string]any{
			"revenue":          entriesToMaps(c.History.Revenue),
			"fixedExpenses":    entriesToMaps(c.History.FixedExpenses),
			"variableExpenses": entriesToMaps(c.History.VariableExpenses),
		},
	}
	return out
}

func entriesToMaps(entries []entryDoc) []any {
	out := make([]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{"amount": e.Amount, "date": e.Date})
	}
	return out
}

func entriesFromDomain(entries []domain.Entry) []entryDoc {
	out := make([]entryDoc, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryDoc{
			Amount: e.Amount.String(),
			Date:   e.Date.Format(dateLayout),
		})
	}
	return out
}

func (d userDoc) toDomain(ctx context.Context) (*domain.UserDocument, error) {
	out := &domain.UserDocument{CompanyRegistered: d.CompanyRegistered}
	if d.Company == nil {
		return out, nil
	}

	c := d.Company
	monthlyRevenue, err := decimal.NewFromString(c.MonthlyRevenue)
	if err != nil {
		return nil, fmt.Errorf("parse monthly revenue %q: %w", c.MonthlyRevenue, err)
	}
	fixedExpenses, err := decimal.NewFromString(c.FixedExpenses)
	if err != nil {
		return nil, fmt.Errorf("parse fixed expenses %q: %w", c.FixedExpenses, err)
	}
	variableExpenses, err := decimal.NewFromString(c.VariableExpenses)
	if err != nil {
		return nil, fmt.Errorf("parse variable expenses %q: %w", c.VariableExpenses, err)
	}

	out.Company = &domain.Company{
		ID:               c.ID,
		Name:             c.Name,
		TaxID:            c.TaxID,
		Segment:          domain.Segment(c.Segment),
		CustomSegment:    c.CustomSegment,
		MonthlyRevenue:   monthlyRevenue,
		FixedExpenses:    fixedExpenses,
		VariableExpenses: variableExpenses,
		History: domain.FinancialHistory{
			Revenue:          entriesToDomain(ctx, d.Company.History.Revenue),
			FixedExpenses:    entriesToDomain(ctx, d.Company.History.FixedExpenses),
			VariableExpenses: entriesToDomain(ctx, d.Company.History.VariableExpenses),
		},
	}
	return out, nil
}

// entriesToDomain converts stored entries, skipping malformed ones.
// Malformed entries are not fatal anywhere in the system.
func entriesToDomain(ctx context.Context, entries []entryDoc) []domain.Entry {
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		amount, err := decimal.NewFromString(e.Amount)
		if err != nil {
			slog.DebugContext(ctx, "Skipping entry with malformed amount", "amount", e.Amount)
			continue
		}
		date, err := time.Parse(dateLayout, e.Date)
		if err != nil {
			slog.DebugContext(ctx, "Skipping entry with malformed date", "date", e.Date)
			continue
		}
		out = append(out, domain.Entry{Amount: amount, Date: date})
	}
	return out
}

func (d eventDoc) toDomain(id string) (*domain.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse event id %q: %w", id, err)
	}

	event := &domain.Event{
		ID:    eventID,
		Title: d.Title,
		Date:  d.Date.UTC(),
		Kind:  domain.EventKind(d.Kind),
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}
