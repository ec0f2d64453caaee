package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// JSON shape of the stored document. Amounts are strings to keep decimal
// precision; entry dates are ISO calendar dates.

type companyJSON struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	TaxID            string      `json:"taxId"`
	Segment          string      `json:"segment"`
	CustomSegment    string      `json:"customSegment,omitempty"`
	MonthlyRevenue   string      `json:"monthlyRevenue"`
	FixedExpenses    string      `json:"fixedExpenses"`
	VariableExpenses string      `json:"variableExpenses"`
	History          historyJSON `json:"financialHistory"`
}

type historyJSON struct {
	Revenue          []entryJSON `json:"revenue"`
	FixedExpenses    []entryJSON `json:"fixedExpenses"`
	VariableExpenses []entryJSON `json:"variableExpenses"`
}

type entryJSON struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

func encodeDocument(doc *domain.UserDocument) (string, error) {
	if doc.Company == nil {
		return "{}", nil
	}

	c := doc.Company
	payload, err := json.Marshal(companyJSON{
		ID:               c.ID,
		Name:             c.Name,
		TaxID:            c.TaxID,
		Segment:          string(c.Segment),
		CustomSegment:    c.CustomSegment,
		MonthlyRevenue:   c.MonthlyRevenue.String(),
		FixedExpenses:    c.FixedExpenses.String(),
		VariableExpenses: c.VariableExpenses.String(),
		History: historyJSON{
			Revenue:          encodeEntries(c.History.Revenue),
			FixedExpenses:    encodeEntries(c.History.FixedExpenses),
			VariableExpenses: encodeEntries(c.History.VariableExpenses),
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode company document: %w", err)
	}
	return string(payload), nil
}

func encodeEntries(entries []domain.Entry) []entryJSON {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{Amount: e.Amount.String(), Date: e.Date.Format(dateLayout)})
	}
	return out
}

func decodeDocument(ctx context.Context, payload string) (*domain.UserDocument, error) {
	if payload == "" || payload == "{}" {
		return &domain.UserDocument{}, nil
	}

	var c companyJSON
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, fmt.Errorf("decode company document: %w", err)
	}

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

	return &domain.UserDocument{
		Company: &domain.Company{
			ID:               c.ID,
			Name:             c.Name,
			TaxID:            c.TaxID,
			Segment:          domain.Segment(c.Segment),
			CustomSegment:    c.CustomSegment,
			MonthlyRevenue:   monthlyRevenue,
			FixedExpenses:    fixedExpenses,
			VariableExpenses: variableExpenses,
			History: domain.FinancialHistory{
				Revenue:          decodeEntries(ctx, c.History.Revenue),
				FixedExpenses:    decodeEntries(ctx, c.History.FixedExpenses),
				VariableExpenses: decodeEntries(ctx, c.History.VariableExpenses),
			},
		},
	}, nil
}

// decodeEntries converts stored entries, skipping malformed ones
func decodeEntries(ctx context.Context, entries []entryJSON) []domain.Entry {
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
