package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	savingsdomain "finance-app-go/internal/domain/savings"
)

type potResponse struct {
	ID           string          `json:"id"`
	WorkspaceID  *string         `json:"workspace_id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	DueDate      *string         `json:"due_date"`
}

type potStatusResponse struct {
	potResponse
	Saved    decimal.Decimal `json:"saved"`
	Progress decimal.Decimal `json:"progress"`
}

func toPotResponse(pot savingsdomain.Pot) potResponse {
	resp := potResponse{
		ID:           pot.ID,
		WorkspaceID:  pot.WorkspaceID,
		Name:         pot.Name,
		TargetAmount: pot.TargetAmount,
	}
	if pot.DueDate != nil {
		due := pot.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}

func (h *Handlers) ListSavingsPots(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	scope, ok := h.resolveScope(w, r, user.ID)
	if !ok {
		return
	}

	items, err := h.Savings.ListPots(r.Context(), savingsScope(scope))
	if err != nil {
		h.log.InternalError("savings.list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]potStatusResponse, 0, len(items))
	for _, item := range items {
		response = append(response, potStatusResponse{
			potResponse: toPotResponse(item.Pot),
			Saved:       item.Saved,
			Progress:    item.Progress,
		})
	}
	writeSuccess(w, http.StatusOK, envelope{"pots": response})
}

type createPotRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	DueDate      string          `json:"due_date"`
	WorkspaceID  string          `json:"workspace_id"`
}

func (h *Handlers) CreateSavingsPot(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req createPotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	dueDate, err := parseDateParam(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid due_date")
		return
	}

	scope, err := h.Workspaces.ResolveScope(r.Context(), user.ID, strings.TrimSpace(req.WorkspaceID))
	if err != nil {
		h.writeScopeError(w, user.ID, err)
		return
	}

	pot, err := h.Savings.CreatePot(r.Context(), savingsdomain.CreatePotInput{
		UserID:       user.ID,
		WorkspaceID:  scope.WorkspaceID,
		Name:         name,
		TargetAmount: req.TargetAmount,
		DueDate:      dueDate,
	})
	if err != nil {
		if errors.Is(err, savingsdomain.ErrInvalidTarget) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.InternalError("savings.create failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusCreated, envelope{"pot": toPotResponse(*pot)})
}

type contributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Notes  string          `json:"notes"`
}

type contributionResponse struct {
	ID     string          `json:"id"`
	PotID  string          `json:"pot_id"`
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Notes  string          `json:"notes,omitempty"`
}

func (h *Handlers) Contribute(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	potID := chi.URLParam(r, "id")

	var req contributeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	date, err := parseDateParam(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	scope, ok := h.resolveScope(w, r, user.ID)
	if !ok {
		return
	}

	input := savingsdomain.ContributeInput{
		PotID:  potID,
		UserID: user.ID,
		Amount: req.Amount,
		Notes:  req.Notes,
	}
	if date != nil {
		input.Date = *date
	}

	contribution, err := h.Savings.Contribute(r.Context(), savingsScope(scope), input)
	if err != nil {
		switch {
		case errors.Is(err, savingsdomain.ErrPotNotFound):
			writeError(w, http.StatusNotFound, "savings pot not found")
		case errors.Is(err, savingsdomain.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.InternalError("savings.contribute failed", err, "user_id", user.ID, "pot_id", potID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusCreated, envelope{"contribution": contributionResponse{
		ID:     contribution.ID,
		PotID:  contribution.PotID,
		UserID: contribution.UserID,
		Amount: contribution.Amount,
		Date:   contribution.Date.Format("2006-01-02"),
		Notes:  contribution.Notes,
	}})
}

func (h *Handlers) DeleteSavingsPot(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	potID := chi.URLParam(r, "id")

	if err := h.Savings.DeletePot(r.Context(), user.ID, potID); err != nil {
		if errors.Is(err, savingsdomain.ErrPotNotFound) {
			writeError(w, http.StatusNotFound, "savings pot not found")
			return
		}
		h.log.InternalError("savings.delete failed", err, "user_id", user.ID, "pot_id", potID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}
