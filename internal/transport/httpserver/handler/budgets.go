package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	budgetsdomain "finance-app-go/internal/domain/budgets"
)

type budgetResponse struct {
	ID          string          `json:"id"`
	WorkspaceID *string         `json:"workspace_id"`
	Category    string          `json:"category"`
	Period      string          `json:"period"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
}

type budgetStatusResponse struct {
	budgetResponse
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

func toBudgetResponse(b budgetsdomain.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		WorkspaceID: b.WorkspaceID,
		Category:    b.Category,
		Period:      b.Period,
		LimitAmount: b.LimitAmount,
	}
}

func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	scope, ok := h.resolveScope(w, r, user.ID)
	if !ok {
		return
	}

	year, month, err := parseYearMonth(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.Budgets.List(r.Context(), budgetsScope(scope), year, month)
	if err != nil {
		h.log.InternalError("budgets.list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]budgetStatusResponse, 0, len(items))
	for _, item := range items {
		response = append(response, budgetStatusResponse{
			budgetResponse: toBudgetResponse(item.Budget),
			Spent:          item.Spent,
			Remaining:      item.Remaining,
		})
	}
	writeSuccess(w, http.StatusOK, envelope{"budgets": response})
}

type upsertBudgetRequest struct {
	Category    string          `json:"category"`
	Period      string          `json:"period"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
	WorkspaceID string          `json:"workspace_id"`
}

func (h *Handlers) UpsertBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req upsertBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	scope, err := h.Workspaces.ResolveScope(r.Context(), user.ID, strings.TrimSpace(req.WorkspaceID))
	if err != nil {
		h.writeScopeError(w, user.ID, err)
		return
	}

	budget, err := h.Budgets.Upsert(r.Context(), budgetsdomain.UpsertInput{
		UserID:      user.ID,
		WorkspaceID: scope.WorkspaceID,
		Category:    category,
		Period:      req.Period,
		LimitAmount: req.LimitAmount,
	})
	if err != nil {
		if errors.Is(err, budgetsdomain.ErrInvalidPeriod) || errors.Is(err, budgetsdomain.ErrInvalidLimit) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.InternalError("budgets.upsert failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"budget": toBudgetResponse(*budget)})
}

func (h *Handlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.Budgets.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, budgetsdomain.ErrBudgetNotFound) {
			writeError(w, http.StatusNotFound, "budget not found")
			return
		}
		h.log.InternalError("budgets.delete failed", err, "user_id", user.ID, "budget_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}
