// Package aggregator turns a company's raw financial data into the summary
// rows rendered by the dashboard and report screens.
package aggregator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// Granularity selects the aggregation mode
type Granularity string

const (
	// Monthly produces a single point-in-time snapshot of the baseline
	// figures; the entry history is ignored entirely.
	Monthly Granularity = "monthly"

	// Weekly buckets the entry history into the calendar week containing
	// the anchor date.
	Weekly Granularity = "weekly"
)

// Options tunes aggregation behavior
type Options struct {
	// LegacyExpenseMatch reproduces the historical weekly behavior where a
	// row's expenses are the first fixed-expense entry plus the first
	// variable-expense entry found anywhere in the window, reused across
	// every row. The default matches expense entries by the row's date and
	// sums them.
	LegacyExpenseMatch bool
}

// SummaryRow is one aggregated period ready for chart or table rendering
type SummaryRow struct {
	PeriodLabel string
	Date        time.Time
	Revenue     decimal.Decimal
	Expenses    decimal.Decimal
	Profit      decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// Margin returns the profit margin as a percentage.
// ok is false when revenue is zero; callers must render "N/A" instead of
// a number in that case.
func (r SummaryRow) Margin() (decimal.Decimal, bool) {
	if r.Revenue.IsZero() {
		return decimal.Decimal{}, false
	}
	return r.Profit.Div(r.Revenue).Mul(oneHundred), true
}

// MarginLabel formats the margin with one decimal place, or "N/A" when
// revenue is zero
func (r SummaryRow) MarginLabel() string {
	margin, ok := r.Margin()
	if !ok {
		return "N/A"
	}
	return margin.StringFixed(1) + "%"
}

// Aggregate transforms a company's financial data into summary rows.
//
// A nil company yields an empty result: "company not yet registered" is a
// valid terminal state, not an error. The input is never mutated, so
// repeated calls with the same arguments yield identical output.
func Aggregate(company *domain.Company, granularity Granularity, anchor time.Time, opts Options) []SummaryRow {
	if company == nil {
		return nil
	}

	switch granularity {
	case Monthly:
		return monthlySnapshot(company, anchor)
	case Weekly:
		return weeklyRows(company, anchor, opts)
	default:
		return nil
	}
}

// monthlySnapshot builds exactly one row from the baseline figures
func monthlySnapshot(company *domain.Company, anchor time.Time) []SummaryRow {
	if anchor.IsZero() {
		anchor = time.Now().UTC()
	}

	expenses := company.FixedExpenses.Add(company.VariableExpenses)
	month := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)

	return []SummaryRow{{
		PeriodLabel: month.Format("2006-01"),
		Date:        month,
		Revenue:     company.MonthlyRevenue,
		Expenses:    expenses,
		Profit:      company.MonthlyRevenue.Sub(expenses),
	}}
}

// weeklyRows emits one row per revenue entry inside the calendar week
// containing anchor, ordered by date ascending
func weeklyRows(company *domain.Company, anchor time.Time, opts Options) []SummaryRow {
	if anchor.IsZero() {
		return nil
	}

	start, end := WeekBounds(anchor)
	history := company.History

	var legacyExpenses decimal.Decimal
	if opts.LegacyExpenseMatch {
		// First matching entry from each sequence, reused for every row.
		legacyExpenses = firstInRange(history.FixedExpenses, start, end).
			Add(firstInRange(history.VariableExpenses, start, end))
	}

	var rows []SummaryRow
	for _, entry := range history.Revenue {
		if !entry.Valid() {
			continue
		}
		date := DateOnly(entry.Date)
		if !inRange(date, start, end) {
			continue
		}

		expenses := legacyExpenses
		if !opts.LegacyExpenseMatch {
			expenses = sumOnDate(history.FixedExpenses, date).
				Add(sumOnDate(history.VariableExpenses, date))
		}

		rows = append(rows, SummaryRow{
			PeriodLabel: date.Format("02/01/2006"),
			Date:        date,
			Revenue:     entry.Amount,
			Expenses:    expenses,
			Profit:      entry.Amount.Sub(expenses),
		})
	}

	// History order is not guaranteed; entries with equal dates keep their
	// relative order.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	return rows
}

// WeekBounds returns the Sunday-aligned calendar week containing anchor,
// inclusive on both ends
func WeekBounds(anchor time.Time) (start, end time.Time) {
	day := DateOnly(anchor)
	start = day.AddDate(0, 0, -int(day.Weekday()))
	end = start.AddDate(0, 0, 6)
	return start, end
}

// DateOnly strips any time-of-day component, normalizing to midnight UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// firstInRange returns the amount of the first valid entry within
// [start, end], or zero when none matches
func firstInRange(entries []domain.Entry, start, end time.Time) decimal.Decimal {
	for _, entry := range entries {
		if !entry.Valid() {
			continue
		}
		if inRange(DateOnly(entry.Date), start, end) {
			return entry.Amount
		}
	}
	return decimal.Zero
}

// sumOnDate sums every valid entry dated exactly on date
func sumOnDate(entries []domain.Entry, date time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		if !entry.Valid() {
			continue
		}
		if DateOnly(entry.Date).Equal(date) {
			total = total.Add(entry.Amount)
		}
	}
	return total
}
