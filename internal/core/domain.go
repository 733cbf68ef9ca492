package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ISODate is the storage format for expense dates.
const ISODate = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	// Expense is a single recorded transaction. ID is assigned by the
	// store on creation and is zero until then.
	Expense struct {
		ID       int64
		Date     Date
		Category string
		Name     string
		Amount   decimal.Decimal
		Fixed    bool
		Comment  string
	}
)

// ErrNotFound signals that no live record has the requested id. Callers
// branch on it; it is an outcome, not a failure.
var ErrNotFound = errors.New("expense not found")

// ErrValidation is the umbrella for structurally invalid input. Every
// specific validation sentinel wraps it, so errors.Is(err, ErrValidation)
// holds for all of them. Errors that match neither ErrNotFound nor
// ErrValidation are storage failures.
var ErrValidation = errors.New("invalid expense")

var (
	ErrMissingDate    = fmt.Errorf("%w: missing date", ErrValidation)
	ErrInvalidDate    = fmt.Errorf("%w: malformed date", ErrValidation)
	ErrEmptyCategory  = fmt.Errorf("%w: empty category", ErrValidation)
	ErrInvalidAmount  = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrNegativeAmount = fmt.Errorf("%w: negative amount", ErrValidation)
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrMissingDate
	}
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ISO returns the date formatted as YYYY-MM-DD. Period filters prefix-match
// against this representation.
func (d Date) ISO() string {
	return d.Format(ISODate)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// ParseAmount converts a decimal string to a monetary amount. It accepts both
// dot (12.34) and comma (12,34) separators and rejects negative values; zero
// is a valid amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if v.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return v, nil
}

// Validate checks the required fields. Name and Comment are optional.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Kind returns a display label for the fixed/variable flag.
func (e Expense) Kind() string {
	if e.Fixed {
		return "Fixed"
	}
	return "Variable"
}
