package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	transactionsdomain "finance-app-go/internal/domain/transactions"
)

type transactionResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	WorkspaceID   *string         `json:"workspace_id"`
	TemplateID    *string         `json:"template_id"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Date          string          `json:"date"`
	Paid          bool            `json:"paid"`
	PaidDate      *string         `json:"paid_date"`
	IsRecurring   bool            `json:"is_recurring"`
	AutoGenerated bool            `json:"auto_generated"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toTransactionResponse(tx transactionsdomain.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:            tx.ID,
		UserID:        tx.UserID,
		WorkspaceID:   tx.WorkspaceID,
		TemplateID:    tx.TemplateID,
		Category:      tx.Category,
		Description:   tx.Description,
		Amount:        tx.Amount,
		Type:          tx.Type,
		Date:          tx.Date.Format("2006-01-02"),
		Paid:          tx.Paid,
		IsRecurring:   tx.IsRecurring,
		AutoGenerated: tx.AutoGenerated,
		PaymentMethod: tx.PaymentMethod,
		Notes:         tx.Notes,
		CreatedAt:     tx.CreatedAt,
	}
	if tx.PaidDate != nil {
		paid := tx.PaidDate.Format("2006-01-02")
		resp.PaidDate = &paid
	}
	return resp
}

type createTransactionRequest struct {
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Date          string          `json:"date"`
	Paid          bool            `json:"paid"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
	WorkspaceID   string          `json:"workspace_id"`
	IsRecurring   bool            `json:"is_recurring"`
	RecurrenceEnd string          `json:"recurrence_end"`
	Installments  int             `json:"installments"`
}

type updateTransactionRequest struct {
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Paid          bool            `json:"paid"`
	PaidDate      string          `json:"paid_date"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	scope, ok := h.resolveScope(w, r, user.ID)
	if !ok {
		return
	}

	query := r.URL.Query()
	year, month, err := parseYearMonth(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.materialize(r.Context(), scope, year, month)

	filter := transactionsdomain.ListFilter{
		Year:  year,
		Month: month,
		Type:  strings.TrimSpace(query.Get("type")),
		Query: strings.TrimSpace(query.Get("q")),
	}
	items, err := h.Transactions.List(r.Context(), txScope(scope), filter)
	if err != nil {
		if errors.Is(err, transactionsdomain.ErrInvalidType) || errors.Is(err, transactionsdomain.ErrInvalidMonth) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.InternalError("transactions.list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]transactionResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toTransactionResponse(item))
	}
	writeSuccess(w, http.StatusOK, envelope{"transactions": response})
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	var recurrenceEnd *time.Time
	if req.IsRecurring {
		recurrenceEnd, err = parseDateParam(req.RecurrenceEnd)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid recurrence_end")
			return
		}
	}

	// Creation picks its destination explicitly; the same membership rules
	// as reads apply to the workspace_id in the body.
	scope, err := h.Workspaces.ResolveScope(r.Context(), user.ID, strings.TrimSpace(req.WorkspaceID))
	if err != nil {
		h.writeScopeError(w, user.ID, err)
		return
	}

	created, err := h.Transactions.Create(r.Context(), transactionsdomain.CreateInput{
		UserID:        user.ID,
		WorkspaceID:   scope.WorkspaceID,
		Category:      strings.TrimSpace(req.Category),
		Description:   strings.TrimSpace(req.Description),
		Amount:        req.Amount,
		Type:          req.Type,
		Date:          date,
		Paid:          req.Paid,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		IsRecurring:   req.IsRecurring,
		RecurrenceEnd: recurrenceEnd,
		Installments:  req.Installments,
	})
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.InternalError("transactions.create failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusCreated, envelope{"transaction": toTransactionResponse(*created)})
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	paidDate, err := parseDateParam(req.PaidDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid paid_date")
		return
	}

	updated, err := h.Transactions.Update(r.Context(), transactionsdomain.UpdateInput{
		ID:            id,
		UserID:        user.ID,
		Category:      strings.TrimSpace(req.Category),
		Description:   strings.TrimSpace(req.Description),
		Amount:        req.Amount,
		Date:          date,
		Paid:          req.Paid,
		PaidDate:      paidDate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, transactionsdomain.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "transaction not found")
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.InternalError("transactions.update failed", err, "user_id", user.ID, "transaction_id", id)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"transaction": toTransactionResponse(*updated)})
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	scope := transactionsdomain.DeleteScope(strings.TrimSpace(r.URL.Query().Get("scope")))
	if scope == "" {
		scope = transactionsdomain.DeleteSingle
	}

	if err := h.Transactions.Delete(r.Context(), user.ID, id, scope); err != nil {
		switch {
		case errors.Is(err, transactionsdomain.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "transaction not found")
		case errors.Is(err, transactionsdomain.ErrInvalidDeleteScope):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.InternalError("transactions.delete failed", err, "user_id", user.ID, "transaction_id", id)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

// BackfillRecurring repairs legacy recurring rows for the caller. It is a
// deliberate maintenance action, never triggered implicitly by reads.
func (h *Handlers) BackfillRecurring(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	report := h.Transactions.RepairHistory(r.Context(), user.ID, h.log)
	writeSuccess(w, http.StatusOK, envelope{
		"linked_transactions": report.LinkedTransactions,
		"realigned_templates": report.RealignedTemplates,
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, transactionsdomain.ErrInvalidType) ||
		errors.Is(err, transactionsdomain.ErrInvalidAmount) ||
		errors.Is(err, transactionsdomain.ErrInvalidMonth) ||
		errors.Is(err, transactionsdomain.ErrInvalidDayOfMonth)
}
