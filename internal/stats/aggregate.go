// Package stats turns a user's financial records into chartable
// time-series summaries. All functions are pure computations over a
// record snapshot and a reference date: the caller fetches the records,
// stats buckets them.
package stats

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// WindowMonths is the length of the trailing window: the reference month
// and the five preceding calendar months.
const WindowMonths = 6

// MonthlyBucket is one month of the trailing window.
type MonthlyBucket struct {
	MonthKey string          // "2024-01"
	Label    string          // "Jan 2024"
	Total    decimal.Decimal
}

// Summary is the aggregation result for one record kind.
type Summary struct {
	// TotalForCurrentMonth is the total of the bucket containing the
	// reference date, i.e. the last entry of Series.
	TotalForCurrentMonth decimal.Decimal

	// Series holds exactly WindowMonths buckets, oldest first,
	// zero-filled for months without records.
	Series []MonthlyBucket
}

// Aggregate buckets records into the trailing monthly window ending at the
// month containing now. The value function decides what each record
// contributes to its bucket; records whose date falls outside the window
// are ignored. Malformed records (zero date, negative value) are skipped
// with a warning so one bad historical row never blanks a dashboard.
func Aggregate[T any](records []T, now time.Time, date func(T) time.Time, value func(T) decimal.Decimal) Summary {
	// Build buckets newest-first walking backward from now, then reverse.
	// Stepping from the first of the reference month keeps day-of-month
	// overflow (e.g. Jan 31 minus one month) from skipping a bucket.
	ref := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]MonthlyBucket, 0, WindowMonths)
	index := make(map[string]int, WindowMonths)
	for i := 0; i < WindowMonths; i++ {
		m := ref.AddDate(0, -i, 0)
		buckets = append(buckets, MonthlyBucket{
			MonthKey: m.Format("2006-01"),
			Label:    m.Format("Jan 2006"),
			Total:    decimal.Zero,
		})
	}

	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	for i, b := range buckets {
		index[b.MonthKey] = i
	}

	for _, r := range records {
		d := date(r)
		if d.IsZero() {
			slog.Warn("Skipping record with zero date during aggregation")
			continue
		}
		v := value(r)
		if v.IsNegative() {
			slog.Warn("Skipping record with negative amount during aggregation",
				"month", d.Format("2006-01"))
			continue
		}
		i, ok := index[d.Format("2006-01")]
		if !ok {
			// Outside the window, not an error.
			continue
		}
		buckets[i].Total = buckets[i].Total.Add(v)
	}

	return Summary{
		TotalForCurrentMonth: buckets[len(buckets)-1].Total,
		Series:               buckets,
	}
}

// AggregateIncomes produces monthly income totals where every record is
// normalized to its monthly-equivalent amount based on frequency.
func AggregateIncomes(records []core.Income, now time.Time) Summary {
	return Aggregate(records, now,
		func(in core.Income) time.Time { return in.Date },
		func(in core.Income) decimal.Decimal {
			return in.Amount.Mul(in.Frequency.MonthlyFactor())
		})
}

// AggregateExpenses produces monthly expense totals. No normalization:
// the series reflects what was actually spent in each month.
func AggregateExpenses(records []core.Expense, now time.Time) Summary {
	return Aggregate(records, now,
		func(e core.Expense) time.Time { return e.Date },
		func(e core.Expense) decimal.Decimal { return e.Amount })
}
