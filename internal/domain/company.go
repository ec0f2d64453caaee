package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Segment identifies the line of business a company operates in
type Segment string

const (
	SegmentCommerce   Segment = "commerce"
	SegmentServices   Segment = "services"
	SegmentIndustry   Segment = "industry"
	SegmentTechnology Segment = "technology"
	SegmentHealth     Segment = "health"
	SegmentEducation  Segment = "education"
	SegmentOther      Segment = "other"
)

// Segments lists every valid segment value
var Segments = []Segment{
	SegmentCommerce,
	SegmentServices,
	SegmentIndustry,
	SegmentTechnology,
	SegmentHealth,
	SegmentEducation,
	SegmentOther,
}

var taxIDPattern = regexp.MustCompile(`^\d{14}$`)

// Entry is a single dated monetary amount (revenue or expense).
// Dates carry no time-of-day; midnight UTC is the canonical representation.
type Entry struct {
	Amount decimal.Decimal
	Date   time.Time
}

// Valid reports whether the entry carries a usable amount and date.
// Aggregation skips invalid entries instead of failing.
func (e Entry) Valid() bool {
	return !e.Date.IsZero() && !e.Amount.IsNegative()
}

// FinancialHistory holds the three append-only entry sequences of a company.
// The sequences are NOT guaranteed to be sorted by date; consumers must
// filter by date range rather than by position.
type FinancialHistory struct {
	Revenue          []Entry
	FixedExpenses    []Entry
	VariableExpenses []Entry
}

// Company represents a registered company and its baseline financial figures
type Company struct {
	ID            string // client-generated at creation, immutable
	Name          string // immutable after first save
	TaxID         string // immutable after first save
	Segment       Segment
	CustomSegment string // required iff Segment == SegmentOther

	MonthlyRevenue   decimal.Decimal
	FixedExpenses    decimal.Decimal
	VariableExpenses decimal.Decimal

	History FinancialHistory
}

// Validate ensures the company adheres to domain rules
// Returns an error if validation fails
func (c *Company) Validate() error {
	if len(strings.TrimSpace(c.Name)) < 3 {
		return fmt.Errorf("%w: name must have at least 3 characters", ErrInvalidInput)
	}
	if !taxIDPattern.MatchString(c.TaxID) {
		return fmt.Errorf("%w: tax id must have exactly 14 digits", ErrInvalidInput)
	}
	if !validSegment(c.Segment) {
		return fmt.Errorf("%w: unknown segment %q", ErrInvalidInput, c.Segment)
	}
	if c.Segment == SegmentOther && strings.TrimSpace(c.CustomSegment) == "" {
		return fmt.Errorf("%w: custom segment is required when segment is %q", ErrInvalidInput, SegmentOther)
	}
	if c.MonthlyRevenue.IsNegative() {
		return fmt.Errorf("%w: monthly revenue cannot be negative", ErrInvalidInput)
	}
	if c.FixedExpenses.IsNegative() {
		return fmt.Errorf("%w: fixed expenses cannot be negative", ErrInvalidInput)
	}
	if c.VariableExpenses.IsNegative() {
		return fmt.Errorf("%w: variable expenses cannot be negative", ErrInvalidInput)
	}
	return nil
}

func validSegment(s Segment) bool {
	for _, known := range Segments {
		if s == known {
			return true
		}
	}
	return false
}

// UserDocument is the single per-user document held by the document store.
// CompanyRegistered is set exactly once, at company creation; it is never
// inferred from the presence of company data.
type UserDocument struct {
	CompanyRegistered bool
	Company           *Company
}

// Domain sentinel errors shared across use cases
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrImmutableField  = errors.New("field cannot be changed after first save")
	ErrNotFound        = errors.New("not found")
	ErrNotRegistered   = errors.New("company not registered")
	ErrAlreadyRegister = errors.New("company already registered")
)
