package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCurrencyIsValid(t *testing.T) {
	for _, c := range []Currency{USD, EUR, GBP, JPY, CAD, AUD} {
		if !c.IsValid() {
			t.Fatalf("expected %s to be valid", c)
		}
	}
	for _, c := range []Currency{"", "usd", "CHF"} {
		if c.IsValid() {
			t.Fatalf("expected %q to be invalid", c)
		}
	}
}

func TestFrequencyMonthlyFactor(t *testing.T) {
	cases := []struct {
		f    Frequency
		want string
	}{
		{Daily, "30"},
		{Weekly, "4"},
		{Biweekly, "2"},
		{Monthly, "1"},
		{Frequency("unknown"), "1"}, // identity for unrecognized values
	}
	for _, tc := range cases {
		if got := tc.f.MonthlyFactor(); !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%s: expected factor %s, got %s", tc.f, tc.want, got)
		}
	}

	// Fractional factors check out against the amount they scale.
	quarterly := decimal.NewFromInt(300).Mul(Quarterly.MonthlyFactor())
	if got := quarterly.InexactFloat64(); got < 99.999 || got > 100.001 {
		t.Fatalf("quarterly 300 expected ~100, got %v", got)
	}
	annually := decimal.NewFromInt(100).Mul(Annually.MonthlyFactor())
	if got := annually.InexactFloat64(); got < 8.333 || got > 8.334 {
		t.Fatalf("annually 100 expected ~8.33, got %v", got)
	}
}

func TestIncomeValidate(t *testing.T) {
	good := Income{
		Owner:     "user-1",
		Source:    "Salary",
		Amount:    decimal.NewFromInt(1000),
		Currency:  USD,
		Frequency: Monthly,
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Income)
		want   error
	}{
		{"missing owner", func(in *Income) { in.Owner = "" }, ErrEmptyOwner},
		{"empty source", func(in *Income) { in.Source = "  " }, ErrEmptySource},
		{"negative amount", func(in *Income) { in.Amount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{"bad currency", func(in *Income) { in.Currency = "XXX" }, ErrInvalidCurrency},
		{"bad frequency", func(in *Income) { in.Frequency = "hourly" }, ErrInvalidFrequency},
		{"zero date", func(in *Income) { in.Date = time.Time{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		in := good
		tc.mutate(&in)
		if err := in.Validate(); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// Zero amounts are allowed, the invariant is amount >= 0.
	zero := good
	zero.Amount = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount: expected ok, got %v", err)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Owner:    "user-1",
		Category: "Groceries",
		Amount:   decimal.NewFromFloat(42.50),
		Currency: EUR,
		Date:     time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Owner: "", Category: "c", Amount: decimal.Zero, Currency: USD, Date: good.Date},
		{Owner: "u", Category: "", Amount: decimal.Zero, Currency: USD, Date: good.Date},
		{Owner: "u", Category: "c", Amount: decimal.NewFromInt(-5), Currency: USD, Date: good.Date},
		{Owner: "u", Category: "c", Amount: decimal.Zero, Currency: "nope", Date: good.Date},
		{Owner: "u", Category: "c", Amount: decimal.Zero, Currency: USD},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestUserValidate(t *testing.T) {
	good := User{Email: "a@b.com", Name: "A"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (User{Email: "not-an-email", Name: "A"}).Validate(); err != ErrInvalidEmail {
		t.Fatalf("expected ErrInvalidEmail")
	}
	if err := (User{Email: "a@b.com", Name: " "}).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Fatalf("got %q", got)
	}
}
