package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type incomeRequest struct {
	Source      string      `json:"source"`
	Amount      json.Number `json:"amount"`
	Currency    string      `json:"currency"`
	Frequency   string      `json:"frequency"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
}

type incomeResponse struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Frequency   string  `json:"frequency"`
	Date        string  `json:"date"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func (req incomeRequest) toIncome(owner string) (core.Income, error) {
	amount, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		return core.Income{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Income{}, err
	}
	return core.Income{
		Owner:       owner,
		Source:      req.Source,
		Amount:      amount,
		Currency:    core.Currency(req.Currency),
		Frequency:   core.Frequency(req.Frequency),
		Date:        date,
		Description: req.Description,
	}, nil
}

func toIncomeResponse(in core.Income) incomeResponse {
	return incomeResponse{
		ID:          in.ID,
		Source:      in.Source,
		Amount:      in.Amount.InexactFloat64(),
		Currency:    string(in.Currency),
		Frequency:   string(in.Frequency),
		Date:        in.Date.UTC().Format("2006-01-02"),
		Description: in.Description,
		CreatedAt:   in.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   in.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, core.ErrInvalidDate
}

func listLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	var req incomeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	income, err := req.toIncome(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.records.CreateIncome(r.Context(), income)
	if err != nil {
		s.respondRecordError(w, r, err, "create income")
		return
	}

	s.logger.InfoContext(r.Context(), "income created",
		log.FieldOperation, log.OpCreate,
		log.FieldOwnerID, claims.UserID,
		log.FieldRecordID, created.ID)
	respondData(w, http.StatusCreated, toIncomeResponse(created))
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	incomes, err := s.records.ListIncomes(r.Context(), claims.UserID, listLimit(r))
	if err != nil {
		s.respondRecordError(w, r, err, "list incomes")
		return
	}

	out := make([]incomeResponse, 0, len(incomes))
	for _, in := range incomes {
		out = append(out, toIncomeResponse(in))
	}
	respondData(w, http.StatusOK, out)
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	income, err := s.records.GetIncome(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		s.respondRecordError(w, r, err, "get income")
		return
	}
	respondData(w, http.StatusOK, toIncomeResponse(income))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	var req incomeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	income, err := req.toIncome(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	income.ID = r.PathValue("id")

	updated, err := s.records.UpdateIncome(r.Context(), income)
	if err != nil {
		s.respondRecordError(w, r, err, "update income")
		return
	}

	s.logger.InfoContext(r.Context(), "income updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldOwnerID, claims.UserID,
		log.FieldRecordID, updated.ID)
	respondData(w, http.StatusOK, toIncomeResponse(updated))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())
	id := r.PathValue("id")

	if err := s.records.DeleteIncome(r.Context(), claims.UserID, id); err != nil {
		s.respondRecordError(w, r, err, "delete income")
		return
	}

	s.logger.InfoContext(r.Context(), "income deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldOwnerID, claims.UserID,
		log.FieldRecordID, id)
	respondMessage(w, http.StatusOK, "deleted")
}

// respondRecordError maps service errors onto API status codes.
func (s *Server) respondRecordError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case isValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), op+" failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidCurrency,
		core.ErrInvalidFrequency,
		core.ErrInvalidDate,
		core.ErrEmptySource,
		core.ErrEmptyCategory,
		core.ErrSourceTooLong,
		core.ErrCategoryTooLong,
		core.ErrEmptyOwner,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
