package http

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/stats"
)

type bucketResponse struct {
	Month string  `json:"month"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

type summaryResponse struct {
	TotalForCurrentMonth float64          `json:"totalForCurrentMonth"`
	Series               []bucketResponse `json:"series"`
}

type calendarEventResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Date      string  `json:"date"`
	Frequency string  `json:"frequency"`
}

func toSummaryResponse(summary stats.Summary) summaryResponse {
	series := make([]bucketResponse, 0, len(summary.Series))
	for _, b := range summary.Series {
		series = append(series, bucketResponse{
			Month: b.MonthKey,
			Label: b.Label,
			Total: b.Total.InexactFloat64(),
		})
	}
	return summaryResponse{
		TotalForCurrentMonth: summary.TotalForCurrentMonth.InexactFloat64(),
		Series:               series,
	}
}

// statsWindow returns the [from, to] range covering the trailing
// monthly buckets ending at now.
func statsWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(stats.WindowMonths - 1), 0)
	return from, now
}

func (s *Server) handleIncomeStats(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	now := time.Now().UTC()
	from, to := statsWindow(now)
	incomes, err := s.stats.ListIncomesBetween(r.Context(), claims.UserID, from, to)
	if err != nil {
		s.respondRecordError(w, r, err, "income stats")
		return
	}

	respondData(w, http.StatusOK, toSummaryResponse(stats.AggregateIncomes(incomes, now)))
}

func (s *Server) handleExpenseStats(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	now := time.Now().UTC()
	from, to := statsWindow(now)
	expenses, err := s.stats.ListExpensesBetween(r.Context(), claims.UserID, from, to)
	if err != nil {
		s.respondRecordError(w, r, err, "expense stats")
		return
	}

	respondData(w, http.StatusOK, toSummaryResponse(stats.AggregateExpenses(expenses, now)))
}

func (s *Server) handleIncomeCalendar(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	now := time.Now().UTC()
	year, month, ok := parseYearMonth(r, now)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid year or month")
		return
	}

	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := firstOfMonth.AddDate(0, 1, 0).Add(-time.Second)
	incomes, err := s.stats.ListIncomesBetween(r.Context(), claims.UserID, firstOfMonth, endOfMonth)
	if err != nil {
		s.respondRecordError(w, r, err, "income calendar")
		return
	}

	events := stats.ProjectCalendar(incomes, year, month)
	out := make([]calendarEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, calendarEventResponse{
			ID:        e.ID,
			Title:     e.Title,
			Amount:    e.Amount.InexactFloat64(),
			Currency:  string(e.Currency),
			Date:      e.Date.UTC().Format("2006-01-02"),
			Frequency: string(e.Frequency),
		})
	}

	s.logger.DebugContext(r.Context(), "calendar served",
		log.FieldOwnerID, claims.UserID,
		log.FieldYear, year,
		log.FieldMonth, int(month),
		"events", len(out))
	respondData(w, http.StatusOK, out)
}

// parseYearMonth reads year and month query parameters, defaulting to
// the current month.
func parseYearMonth(r *http.Request, now time.Time) (int, time.Month, bool) {
	year := now.Year()
	month := now.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1970 || y > 9999 {
			return 0, 0, false
		}
		year = y
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, false
		}
		month = time.Month(m)
	}
	return year, month, true
}
