package http

import (
	"encoding/json"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type expenseRequest struct {
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
	Date     string      `json:"date"`
	Notes    string      `json:"notes"`
}

type expenseResponse struct {
	ID        string  `json:"id"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Date      string  `json:"date"`
	Notes     string  `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func (req expenseRequest) toExpense(owner string) (core.Expense, error) {
	amount, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		return core.Expense{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Owner:    owner,
		Category: req.Category,
		Amount:   amount,
		Currency: core.Currency(req.Currency),
		Date:     date,
		Notes:    req.Notes,
	}, nil
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		Category:  e.Category,
		Amount:    e.Amount.InexactFloat64(),
		Currency:  string(e.Currency),
		Date:      e.Date.UTC().Format("2006-01-02"),
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	var req expenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	expense, err := req.toExpense(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.records.CreateExpense(r.Context(), expense)
	if err != nil {
		s.respondRecordError(w, r, err, "create expense")
		return
	}

	s.logger.InfoContext(r.Context(), "expense created",
		log.FieldOperation, log.OpCreate,
		log.FieldOwnerID, claims.UserID,
		log.FieldRecordID, created.ID)
	respondData(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	expenses, err := s.records.ListExpenses(r.Context(), claims.UserID, listLimit(r))
	if err != nil {
		s.respondRecordError(w, r, err, "list expenses")
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	respondData(w, http.StatusOK, out)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	expense, err := s.records.GetExpense(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		s.respondRecordError(w, r, err, "get expense")
		return
	}
	respondData(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	var req expenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	expense, err := req.toExpense(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	expense.ID = r.PathValue("id")

	updated, err := s.records.UpdateExpense(r.Context(), expense)
	if err != nil {
		s.respondRecordError(w, r, err, "update expense")
		return
	}

	s.logger.InfoContext(r.Context(), "expense updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldOwnerID, claims.UserID,
		log.FieldRecordID, updated.ID)
	respondData(w, http.StatusOK, toExpenseResponse(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())
	id := r.PathValue("id")

	if err := s.records.DeleteExpense(r.Context(), claims.UserID, id); err != nil {
		s.respondRecordError(w, r, err, "delete expense")
		return
	}

	s.logger.InfoContext(r.Context(), "expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldOwnerID, claims.UserID,
		log.FieldRecordID, id)
	respondMessage(w, http.StatusOK, "deleted")
}
