package core

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
)

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annually  Frequency = "annually"
)

// DefaultCurrency is applied when a record is created without one.
const DefaultCurrency = USD

type (
	// Currency is an ISO 4217 code from the supported set.
	Currency string

	// Frequency describes how often an income recurs.
	Frequency string

	// Income is a recurring or one-off income record owned by a user.
	Income struct {
		ID          string
		Owner       string
		Source      string
		Amount      decimal.Decimal
		Currency    Currency
		Frequency   Frequency
		Date        time.Time
		Description string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Expense is a one-off expense record owned by a user. Expenses carry
	// no frequency: each entry is a discrete amount on a discrete date.
	Expense struct {
		ID        string
		Owner     string
		Category  string
		Amount    decimal.Decimal
		Currency  Currency
		Date      time.Time
		Notes     string
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// User is an account that owns income and expense records.
	User struct {
		ID           string
		Email        string
		Name         string
		PasswordHash string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("amount cannot be negative")
	ErrInvalidCurrency  = errors.New("unsupported currency")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidDate      = errors.New("date cannot be zero")
	ErrEmptySource      = errors.New("empty income source")
	ErrEmptyCategory    = errors.New("empty expense category")
	ErrSourceTooLong    = errors.New("source too long (max 200 characters)")
	ErrCategoryTooLong  = errors.New("category too long (max 200 characters)")
	ErrEmptyOwner       = errors.New("missing owner")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrEmptyName        = errors.New("empty name")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// IsValid reports whether the currency is one of the supported codes.
func (c Currency) IsValid() bool {
	switch c {
	case USD, EUR, GBP, JPY, CAD, AUD:
		return true
	default:
		return false
	}
}

// IsValid reports whether the frequency is one of the supported values.
func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Biweekly, Monthly, Quarterly, Annually:
		return true
	default:
		return false
	}
}

// MonthlyFactor returns the multiplier that converts one record's amount
// into a monthly-equivalent amount, so totals across heterogeneous income
// sources stay additive. Unrecognized frequencies normalize with factor 1;
// upstream validation constrains the set, so an unknown value here means
// the record predates the current enum.
func (f Frequency) MonthlyFactor() decimal.Decimal {
	switch f {
	case Daily:
		return decimal.NewFromInt(30)
	case Weekly:
		return decimal.NewFromInt(4)
	case Biweekly:
		return decimal.NewFromInt(2)
	case Monthly:
		return decimal.NewFromInt(1)
	case Quarterly:
		return decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	case Annually:
		return decimal.NewFromInt(1).Div(decimal.NewFromInt(12))
	default:
		return decimal.NewFromInt(1)
	}
}

func (in Income) Validate() error {
	if strings.TrimSpace(in.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(in.Source) == "" {
		return ErrEmptySource
	}
	if len(in.Source) > 200 {
		return ErrSourceTooLong
	}
	if in.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !in.Currency.IsValid() {
		return ErrInvalidCurrency
	}
	if !in.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if in.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Category) > 200 {
		return ErrCategoryTooLong
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !e.Currency.IsValid() {
		return ErrInvalidCurrency
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (u User) Validate() error {
	if !emailPattern.MatchString(u.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
