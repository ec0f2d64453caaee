package aggregator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func baselineCompany() *domain.Company {
	return &domain.Company{
		ID:               "c-1",
		Name:             "Padaria Central",
		TaxID:            "12345678000190",
		Segment:          domain.SegmentCommerce,
		MonthlyRevenue:   decimal.NewFromInt(10000),
		FixedExpenses:    decimal.NewFromInt(3000),
		VariableExpenses: decimal.NewFromInt(1500),
	}
}

func TestAggregate_MonthlySnapshot(t *testing.T) {
	company := baselineCompany()
	anchor := date(2024, time.March, 15)

	rows := Aggregate(company, Monthly, anchor, Options{})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "2024-03", row.PeriodLabel)
	assert.True(t, decimal.NewFromInt(10000).Equal(row.Revenue))
	assert.True(t, decimal.NewFromInt(4500).Equal(row.Expenses))
	assert.True(t, decimal.NewFromInt(5500).Equal(row.Profit))
	assert.Equal(t, "55.0%", row.MarginLabel())
}

func TestAggregate_MonthlyIgnoresHistory(t *testing.T) {
	company := baselineCompany()
	company.History.Revenue = []domain.Entry{
		{Amount: decimal.NewFromInt(999999), Date: date(2024, time.March, 4)},
	}

	rows := Aggregate(company, Monthly, date(2024, time.March, 15), Options{})

	require.Len(t, rows, 1)
	assert.True(t, decimal.NewFromInt(10000).Equal(rows[0].Revenue))
}

func TestAggregate_NilCompany(t *testing.T) {
	assert.Empty(t, Aggregate(nil, Monthly, date(2024, time.March, 15), Options{}))
	assert.Empty(t, Aggregate(nil, Weekly, date(2024, time.March, 15), Options{}))
}

func TestAggregate_WeeklyWindow(t *testing.T) {
	company := baselineCompany()
	company.History = domain.FinancialHistory{
		Revenue: []domain.Entry{
			{Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 4)},
			{Amount: decimal.NewFromInt(700), Date: date(2024, time.March, 6)},
			{Amount: decimal.NewFromInt(900), Date: date(2024, time.March, 11)}, // next week
		},
	}

	// Anchor 2024-03-05 (Tuesday): week runs Sunday Mar 3 through Saturday Mar 9.
	rows := Aggregate(company, Weekly, date(2024, time.March, 5), Options{})

	require.Len(t, rows, 2)
	assert.Equal(t, "04/03/2024", rows[0].PeriodLabel)
	assert.Equal(t, "06/03/2024", rows[1].PeriodLabel)
	assert.True(t, decimal.NewFromInt(500).Equal(rows[0].Revenue))
	assert.True(t, decimal.NewFromInt(700).Equal(rows[1].Revenue))
}

func TestAggregate_WeeklyBoundariesInclusive(t *testing.T) {
	company := baselineCompany()
	company.History = domain.FinancialHistory{
		Revenue: []domain.Entry{
			{Amount: decimal.NewFromInt(100), Date: date(2024, time.March, 3)},  // Sunday start
			{Amount: decimal.NewFromInt(200), Date: date(2024, time.March, 9)},  // Saturday end
			{Amount: decimal.NewFromInt(300), Date: date(2024, time.March, 2)},  // day before
			{Amount: decimal.NewFromInt(400), Date: date(2024, time.March, 10)}, // day after
		},
	}

	rows := Aggregate(company, Weekly, date(2024, time.March, 5), Options{})

	require.Len(t, rows, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(rows[0].Revenue))
	assert.True(t, decimal.NewFromInt(200).Equal(rows[1].Revenue))
}

func TestAggregate_WeeklyUnsortedHistory(t *testing.T) {
	company := baselineCompany()
	company.History = domain.FinancialHistory{
		Revenue: []domain.Entry{
			{Amount: decimal.NewFromInt(700), Date: date(2024, time.March, 6)},
			{Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 4)},
		},
	}

	rows := Aggregate(company, Weekly, date(2024, time.March, 5), Options{})

	require.Len(t, rows, 2)
	assert.True(t, rows[0].Date.Before(rows[1].Date), "rows must be sorted by date ascending")
	assert.Equal(t, "04/03/2024", rows[0].PeriodLabel)
}

func TestAggregate_WeeklyExpenseMatching(t *testing.T) {
	company := baselineCompany()
	company.History = domain.FinancialHistory{
		Revenue: []domain.Entry{
			{Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 4)},
			{Amount: decimal.NewFromInt(700), Date: date(2024, time.March, 6)},
		},
		FixedExpenses: []domain.Entry{
			{Amount: decimal.NewFromInt(100), Date: date(2024, time.March, 4)},
			{Amount: decimal.NewFromInt(40), Date: date(2024, time.March, 4)},
			{Amount: decimal.NewFromInt(250), Date: date(2024, time.March, 6)},
		},
		VariableExpenses: []domain.Entry{
			{Amount: decimal.NewFromInt(60), Date: date(2024, time.March, 6)},
		},
	}

	t.Run("default sums expense entries sharing the row date", func(t *testing.T) {
		rows := Aggregate(company, Weekly, date(2024, time.March, 5), Options{})

		require.Len(t, rows, 2)
		// Mar 4: fixed 100+40, no variable entry that day.
		assert.True(t, decimal.NewFromInt(140).Equal(rows[0].Expenses))
		assert.True(t, decimal.NewFromInt(360).Equal(rows[0].Profit))
		// Mar 6: fixed 250 + variable 60.
		assert.True(t, decimal.NewFromInt(310).Equal(rows[1].Expenses))
		assert.True(t, decimal.NewFromInt(390).Equal(rows[1].Profit))
	})

	t.Run("legacy reuses the first match across every row", func(t *testing.T) {
		rows := Aggregate(company, Weekly, date(2024, time.March, 5), Options{LegacyExpenseMatch: true})

		require.Len(t, rows, 2)
		// First fixed entry in window (100) + first variable entry (60).
		assert.True(t, decimal.NewFromInt(160).Equal(rows[0].Expenses))
		assert.True(t, decimal.NewFromInt(160).Equal(rows[1].Expenses))
		assert.True(t, decimal.NewFromInt(340).Equal(rows[0].Profit))
		assert.True(t, decimal.NewFromInt(540).Equal(rows[1].Profit))
	})
}

func TestAggregate_WeeklyEmptyCases(t *testing.T) {
	company := baselineCompany()

	t.Run("zero anchor yields no rows", func(t *testing.T) {
		company.History.Revenue = []domain.Entry{
			{Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 4)},
		}
		assert.Empty(t, Aggregate(company, Weekly, time.Time{}, Options{}))
	})

	t.Run("no revenue in window yields no rows", func(t *testing.T) {
		company.History.Revenue = []domain.Entry{
			{Amount: decimal.NewFromInt(500), Date: date(2024, time.February, 1)},
		}
		assert.Empty(t, Aggregate(company, Weekly, date(2024, time.March, 5), Options{}))
	})
}

func TestAggregate_SkipsMalformedEntries(t *testing.T) {
	company := baselineCompany()
	company.History = domain.FinancialHistory{
		Revenue: []domain.Entry{
			{Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 4)},
			{Amount: decimal.NewFromInt(999)},                                  // zero date
			{Amount: decimal.NewFromInt(-5), Date: date(2024, time.March, 4)},  // negative amount
		},
		FixedExpenses: []domain.Entry{
			{Amount: decimal.NewFromInt(-30), Date: date(2024, time.March, 4)}, // skipped
			{Amount: decimal.NewFromInt(70), Date: date(2024, time.March, 4)},
		},
	}

	rows := Aggregate(company, Weekly, date(2024, time.March, 5), Options{})

	require.Len(t, rows, 1)
	assert.True(t, decimal.NewFromInt(70).Equal(rows[0].Expenses))
}

func TestAggregate_Idempotent(t *testing.T) {
	company := baselineCompany()
	company.History = domain.FinancialHistory{
		Revenue: []domain.Entry{
			{Amount: decimal.NewFromInt(700), Date: date(2024, time.March, 6)},
			{Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 4)},
		},
		FixedExpenses: []domain.Entry{
			{Amount: decimal.NewFromInt(100), Date: date(2024, time.March, 4)},
		},
	}
	anchor := date(2024, time.March, 5)

	first := Aggregate(company, Weekly, anchor, Options{})
	second := Aggregate(company, Weekly, anchor, Options{})

	assert.Equal(t, first, second)
	// Input order must survive aggregation (no hidden mutation).
	assert.True(t, decimal.NewFromInt(700).Equal(company.History.Revenue[0].Amount))
}

func TestSummaryRow_MarginZeroRevenue(t *testing.T) {
	row := SummaryRow{
		Revenue:  decimal.Zero,
		Expenses: decimal.NewFromInt(100),
		Profit:   decimal.NewFromInt(-100),
	}

	_, ok := row.Margin()
	assert.False(t, ok)
	assert.Equal(t, "N/A", row.MarginLabel())
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid-week anchor",
			anchor:    date(2024, time.March, 5),
			wantStart: date(2024, time.March, 3),
			wantEnd:   date(2024, time.March, 9),
		},
		{
			name:      "anchor on Sunday starts that day",
			anchor:    date(2024, time.March, 3),
			wantStart: date(2024, time.March, 3),
			wantEnd:   date(2024, time.March, 9),
		},
		{
			name:      "anchor on Saturday ends that day",
			anchor:    date(2024, time.March, 9),
			wantStart: date(2024, time.March, 3),
			wantEnd:   date(2024, time.March, 9),
		},
		{
			name:      "week spanning a month boundary",
			anchor:    date(2024, time.April, 2),
			wantStart: date(2024, time.March, 31),
			wantEnd:   date(2024, time.April, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBounds(tt.anchor)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
