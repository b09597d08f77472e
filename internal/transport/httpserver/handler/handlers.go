package handler

import (
	"context"
	"errors"
	"net/http"

	analyticsdomain "finance-app-go/internal/domain/analytics"
	budgetsdomain "finance-app-go/internal/domain/budgets"
	savingsdomain "finance-app-go/internal/domain/savings"
	transactionsdomain "finance-app-go/internal/domain/transactions"
	userdomain "finance-app-go/internal/domain/user"
	workspacedomain "finance-app-go/internal/domain/workspace"
	"finance-app-go/internal/transport/httpserver/middleware"
	"finance-app-go/pkg/logger"
)

type Handlers struct {
	Users        *userdomain.Service
	Workspaces   *workspacedomain.Service
	Transactions *transactionsdomain.Service
	Analytics    *analyticsdomain.Service
	Budgets      *budgetsdomain.Service
	Savings      *savingsdomain.Service
	log          logger.Logger
}

func New(
	users *userdomain.Service,
	workspaces *workspacedomain.Service,
	transactions *transactionsdomain.Service,
	analytics *analyticsdomain.Service,
	budgets *budgetsdomain.Service,
	savings *savingsdomain.Service,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Users:        users,
		Workspaces:   workspaces,
		Transactions: transactions,
		Analytics:    analytics,
		Budgets:      budgets,
		Savings:      savings,
		log:          log,
	}
}

func (h *Handlers) requireUser(w http.ResponseWriter, r *http.Request) (middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Não autenticado")
		return middleware.User{}, false
	}
	return user, true
}

// resolveScope turns the optional workspace_id query parameter into the
// request's visibility scope, writing the error response itself when the
// selection is invalid.
func (h *Handlers) resolveScope(w http.ResponseWriter, r *http.Request, userID string) (workspacedomain.Scope, bool) {
	scope, err := h.Workspaces.ResolveScope(r.Context(), userID, r.URL.Query().Get("workspace_id"))
	if err != nil {
		h.writeScopeError(w, userID, err)
		return workspacedomain.Scope{}, false
	}
	return scope, true
}

func (h *Handlers) writeScopeError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, workspacedomain.ErrWorkspaceAmbiguous):
		h.log.BusinessError("scope: ambiguous workspace", err, "user_id", userID)
		writeError(w, http.StatusBadRequest, "workspace_id is required when you belong to several workspaces")
	case errors.Is(err, workspacedomain.ErrNotMember):
		h.log.BusinessError("scope: not a member", err, "user_id", userID)
		writeError(w, http.StatusForbidden, "not a member of this workspace")
	default:
		h.log.InternalError("scope: resolve failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// materialize runs recurring materialization ahead of a read. For a
// workspace it covers every member's templates with the workspace as the
// fallback destination. Failures are logged and swallowed: a transient
// write error must never block a read-only request.
func (h *Handlers) materialize(ctx context.Context, scope workspacedomain.Scope, year, month int) {
	if scope.WorkspaceID == nil {
		if _, err := h.Transactions.EnsureMonth(ctx, scope.UserID, year, month, nil); err != nil {
			h.log.BusinessError("materialize: personal scope failed", err, "user_id", scope.UserID)
		}
		return
	}

	members, err := h.Workspaces.ListMembers(ctx, scope.UserID, *scope.WorkspaceID)
	if err != nil {
		h.log.BusinessError("materialize: list members failed", err, "workspace_id", *scope.WorkspaceID)
		return
	}
	for _, member := range members {
		if _, err := h.Transactions.EnsureMonth(ctx, member.UserID, year, month, scope.WorkspaceID); err != nil {
			h.log.BusinessError("materialize: member failed", err, "user_id", member.UserID, "workspace_id", *scope.WorkspaceID)
		}
	}
}

func txScope(scope workspacedomain.Scope) transactionsdomain.Scope {
	return transactionsdomain.Scope{UserID: scope.UserID, WorkspaceID: scope.WorkspaceID, SharedView: scope.SharedView}
}

func analyticsScope(scope workspacedomain.Scope) analyticsdomain.Scope {
	return analyticsdomain.Scope{UserID: scope.UserID, WorkspaceID: scope.WorkspaceID, SharedView: scope.SharedView}
}

func budgetsScope(scope workspacedomain.Scope) budgetsdomain.Scope {
	return budgetsdomain.Scope{UserID: scope.UserID, WorkspaceID: scope.WorkspaceID, SharedView: scope.SharedView}
}

func savingsScope(scope workspacedomain.Scope) savingsdomain.Scope {
	return savingsdomain.Scope{UserID: scope.UserID, WorkspaceID: scope.WorkspaceID, SharedView: scope.SharedView}
}
