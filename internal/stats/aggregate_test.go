package stats

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func income(amount float64, freq core.Frequency, date time.Time) core.Income {
	return core.Income{
		Owner:     "user-1",
		Source:    "Salary",
		Amount:    decimal.NewFromFloat(amount),
		Currency:  core.USD,
		Frequency: freq,
		Date:      date,
	}
}

func expense(amount float64, date time.Time) core.Expense {
	return core.Expense{
		Owner:    "user-1",
		Category: "Groceries",
		Amount:   decimal.NewFromFloat(amount),
		Currency: core.USD,
		Date:     date,
	}
}

func TestAggregateWindowShape(t *testing.T) {
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	s := AggregateIncomes(nil, now)

	if len(s.Series) != WindowMonths {
		t.Fatalf("expected %d buckets, got %d", WindowMonths, len(s.Series))
	}
	wantKeys := []string{"2023-08", "2023-09", "2023-10", "2023-11", "2023-12", "2024-01"}
	wantLabels := []string{"Aug 2023", "Sep 2023", "Oct 2023", "Nov 2023", "Dec 2023", "Jan 2024"}
	for i, b := range s.Series {
		if b.MonthKey != wantKeys[i] {
			t.Fatalf("bucket %d: expected key %s, got %s", i, wantKeys[i], b.MonthKey)
		}
		if b.Label != wantLabels[i] {
			t.Fatalf("bucket %d: expected label %s, got %s", i, wantLabels[i], b.Label)
		}
		if !b.Total.IsZero() {
			t.Fatalf("bucket %d: expected zero total, got %s", i, b.Total)
		}
	}
	if !s.TotalForCurrentMonth.IsZero() {
		t.Fatalf("expected zero current-month total, got %s", s.TotalForCurrentMonth)
	}
}

func TestAggregateWindowAcrossYearBoundary(t *testing.T) {
	// A reference day near the end of a long month must not skip short
	// months when walking backward.
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	s := AggregateIncomes(nil, now)
	wantKeys := []string{"2023-10", "2023-11", "2023-12", "2024-01", "2024-02", "2024-03"}
	for i, b := range s.Series {
		if b.MonthKey != wantKeys[i] {
			t.Fatalf("bucket %d: expected %s, got %s", i, wantKeys[i], b.MonthKey)
		}
	}
}

func TestAggregateIncomesSingleMonthlyRecord(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	records := []core.Income{
		income(120, core.Monthly, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
	}
	s := AggregateIncomes(records, now)

	last := s.Series[len(s.Series)-1]
	if last.MonthKey != "2024-01" {
		t.Fatalf("expected last bucket 2024-01, got %s", last.MonthKey)
	}
	if !last.Total.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected 120 in last bucket, got %s", last.Total)
	}
	if !s.TotalForCurrentMonth.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected current month total 120, got %s", s.TotalForCurrentMonth)
	}
	for _, b := range s.Series[:len(s.Series)-1] {
		if !b.Total.IsZero() {
			t.Fatalf("bucket %s: expected zero, got %s", b.MonthKey, b.Total)
		}
	}
}

func TestAggregateIncomesNormalization(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	weekly := AggregateIncomes([]core.Income{income(100, core.Weekly, date)}, now)
	if !weekly.TotalForCurrentMonth.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("weekly 100: expected 400, got %s", weekly.TotalForCurrentMonth)
	}

	annually := AggregateIncomes([]core.Income{income(100, core.Annually, date)}, now)
	got := annually.TotalForCurrentMonth.InexactFloat64()
	if math.Abs(got-100.0/12) > 1e-9 {
		t.Fatalf("annually 100: expected ~8.333, got %v", got)
	}

	daily := AggregateIncomes([]core.Income{income(10, core.Daily, date)}, now)
	if !daily.TotalForCurrentMonth.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("daily 10: expected 300, got %s", daily.TotalForCurrentMonth)
	}
}

func TestAggregateRecordsOutsideWindowIgnored(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	records := []core.Income{
		income(100, core.Monthly, time.Date(2023, 7, 31, 0, 0, 0, 0, time.UTC)), // one month too old
		income(100, core.Monthly, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),  // in the future
		income(50, core.Monthly, time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)),   // oldest bucket edge
	}
	s := AggregateIncomes(records, now)
	if !s.Series[0].Total.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("oldest bucket: expected 50, got %s", s.Series[0].Total)
	}
	if !s.TotalForCurrentMonth.IsZero() {
		t.Fatalf("expected zero current-month total, got %s", s.TotalForCurrentMonth)
	}
	var sum decimal.Decimal
	for _, b := range s.Series {
		sum = sum.Add(b.Total)
	}
	if !sum.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("out-of-window records leaked into totals: sum %s", sum)
	}
}

func TestAggregateExpensesNoNormalization(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	records := []core.Expense{
		expense(50, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		expense(25.50, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)),
		expense(10, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)),
	}
	s := AggregateExpenses(records, now)
	if !s.TotalForCurrentMonth.Equal(decimal.NewFromFloat(75.50)) {
		t.Fatalf("expected 75.50, got %s", s.TotalForCurrentMonth)
	}
	if !s.Series[4].Total.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("december bucket: expected 10, got %s", s.Series[4].Total)
	}
}

func TestAggregateSkipsMalformedRecords(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	records := []core.Expense{
		expense(50, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		expense(-5, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)), // negative, skipped
		{Owner: "user-1", Category: "bad", Amount: decimal.NewFromInt(7), Currency: core.USD}, // zero date, skipped
	}
	s := AggregateExpenses(records, now)
	if !s.TotalForCurrentMonth.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected malformed records skipped, total 50, got %s", s.TotalForCurrentMonth)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	records := []core.Income{
		income(120, core.Monthly, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		income(100, core.Weekly, time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC)),
	}
	first := AggregateIncomes(records, now)
	second := AggregateIncomes(records, now)
	if len(first.Series) != len(second.Series) {
		t.Fatalf("series length differs between runs")
	}
	for i := range first.Series {
		if first.Series[i].MonthKey != second.Series[i].MonthKey ||
			!first.Series[i].Total.Equal(second.Series[i].Total) {
			t.Fatalf("bucket %d differs between runs", i)
		}
	}
	if !first.TotalForCurrentMonth.Equal(second.TotalForCurrentMonth) {
		t.Fatalf("current-month total differs between runs")
	}
}
