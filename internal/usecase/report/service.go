// Package report builds the tabular representation consumed by the external
// PDF and spreadsheet exporters. Rendering stays with the exporters; this
// package only shapes and formats the data.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestorfacil/gestor-backend/internal/domain"
	"github.com/gestorfacil/gestor-backend/internal/usecase/aggregator"
)

// Table is a fully formatted report: a title, a header row, and data rows
// of display strings
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

var headers = []string{"Period", "Revenue", "Expenses", "Profit", "Margin"}

// Build aggregates a company's financial data and formats it as a report
// table. An unregistered company yields a table with headers and no rows.
func Build(company *domain.Company, granularity aggregator.Granularity, anchor time.Time, opts aggregator.Options) Table {
	table := Table{
		Title:   "Financial Report",
		Headers: headers,
	}
	if company == nil {
		return table
	}

	table.Title = fmt.Sprintf("Financial Report - %s", company.Name)

	for _, row := range aggregator.Aggregate(company, granularity, anchor, opts) {
		table.Rows = append(table.Rows, []string{
			row.PeriodLabel,
			FormatBRL(row.Revenue),
			FormatBRL(row.Expenses),
			FormatBRL(row.Profit),
			row.MarginLabel(),
		})
	}
	return table
}

// FormatBRL renders an amount as Brazilian currency, e.g. "R$ 1.234,56"
func FormatBRL(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "R$ " + b.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
