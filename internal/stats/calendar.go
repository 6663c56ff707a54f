package stats

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// CalendarEvent is a single income displayed on the monthly calendar.
// Amounts are raw per-record values: the calendar answers "what payment
// arrives on what date", not a monthly equivalent.
type CalendarEvent struct {
	ID        string
	Title     string
	Amount    decimal.Decimal
	Currency  core.Currency
	Date      time.Time
	Frequency core.Frequency
}

// ProjectCalendar filters incomes to those dated within the given month
// and maps each to a display event, ascending by date. Same-day records
// keep their input order.
func ProjectCalendar(records []core.Income, year int, month time.Month) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(records))
	for _, in := range records {
		if in.Date.IsZero() {
			slog.Warn("Skipping income with zero date during calendar projection", "id", in.ID)
			continue
		}
		if in.Date.Year() != year || in.Date.Month() != month {
			continue
		}
		events = append(events, CalendarEvent{
			ID:        in.ID,
			Title:     in.Source,
			Amount:    in.Amount,
			Currency:  in.Currency,
			Date:      in.Date,
			Frequency: in.Frequency,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events
}
