package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
	"github.com/DiegoEstrada07/expense-tracker/internal/services"
)

type transactionRequest struct {
	Type        string          `json:"type"`
	Item        string          `json:"item"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

type deleteResponse struct {
	Message      string             `json:"message"`
	Transactions []core.Transaction `json:"transactions"`
}

type reminderRequest struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseLike *bool           `json:"expenseLike"`
}

type budgetPayload struct {
	Budget decimal.Decimal `json:"budget"`
}

type promoteResponse struct {
	Promoted int `json:"promoted"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.List(r.Context())
	if err != nil {
		// A broken store reads as an empty ledger, never a failure.
		slog.WarnContext(r.Context(), "Listing transactions failed, serving empty ledger", "error", err)
		respondJSON(w, http.StatusOK, []core.Transaction{})
		return
	}

	q := r.URL.Query()

	if typ := strings.TrimSpace(q.Get("type")); typ != "" {
		tt := core.TransactionType(typ)
		if tt != core.Income && tt != core.Expense {
			respondError(w, http.StatusBadRequest, "type must be 'income' or 'expense'")
			return
		}
		txs = services.FilterByType(txs, tt)
	}

	var from, to core.Date
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid 'from' date, want YYYY-MM-DD")
			return
		}
		from = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid 'to' date, want YYYY-MM-DD")
			return
		}
		to = d
	}
	if !from.IsZero() || !to.IsZero() {
		txs = services.FilterByDateRange(txs, from, to)
	}

	if text := strings.TrimSpace(q.Get("q")); text != "" {
		txs = services.FilterText(txs, text)
	}

	respondJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	candidate := core.Transaction{
		Type:        core.TransactionType(strings.TrimSpace(req.Type)),
		Item:        sanitizeInput(req.Item),
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		Amount:      req.Amount,
	}
	if v := strings.TrimSpace(req.Date); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "invalid date, want YYYY-MM-DD")
			return
		}
		candidate.Date = d
	}

	created, err := s.ledger.Append(r.Context(), candidate)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transaction created",
		"id", created.ID,
		"type", created.Type,
		"category", created.Category)

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "transaction id must be numeric")
		return
	}

	if err := s.ledger.Remove(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	txs, err := s.ledger.List(r.Context())
	if err != nil {
		txs = []core.Transaction{}
	}

	respondJSON(w, http.StatusOK, deleteResponse{
		Message:      "Transaction deleted",
		Transactions: txs,
	})
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	agg, err := s.queries.Totals(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, agg)
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	entries, err := s.reminders.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenseLike := true
	if req.ExpenseLike != nil {
		expenseLike = *req.ExpenseLike
	}

	entry := core.ReminderEntry{
		Date:     strings.TrimSpace(req.Date),
		Category: sanitizeInput(req.Category),
		Name:     sanitizeInput(req.Name),
		Amount:   req.Amount,
	}

	created, err := s.reminders.Append(r.Context(), entry, expenseLike)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Reminder created", "id", created.ID, "date", created.Date)

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.reminders.Remove(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	entries, err := s.reminders.List(r.Context())
	if err != nil {
		entries = []core.ReminderEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handlePromoteReminders(w http.ResponseWriter, r *http.Request) {
	promoted, err := s.promoter.Promote(r.Context(), core.Today())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, promoteResponse{Promoted: promoted})
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	limit, err := s.reminders.Budget(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, budgetPayload{Budget: limit})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetPayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.reminders.SetBudget(r.Context(), req.Budget); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	agg, err := s.queries.Totals(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	limit, err := s.reminders.Budget(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, services.ComputeBudgetStatus(agg.Expenses, limit))
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.queries.Categories(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleBalanceReport(w http.ResponseWriter, r *http.Request) {
	points, err := s.queries.Balance(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, points)
}
