package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	workspacedomain "finance-app-go/internal/domain/workspace"
)

type workspaceResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	OwnerID string `json:"owner_id"`
}

type memberResponse struct {
	UserID      string                     `json:"user_id"`
	Role        string                     `json:"role"`
	SharePrefs  workspacedomain.SharePrefs `json:"share_prefs"`
	JoinedAt    time.Time                  `json:"joined_at"`
	DisplayName string                     `json:"display_name,omitempty"`
	Email       string                     `json:"email,omitempty"`
}

func toWorkspaceResponse(ws workspacedomain.Workspace) workspaceResponse {
	return workspaceResponse{ID: ws.ID, Name: ws.Name, Code: ws.Code, OwnerID: ws.OwnerID}
}

func (h *Handlers) MyWorkspaces(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.Workspaces.MyWorkspaces(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("workspaces.mine failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]workspaceResponse, 0, len(items))
	for _, ws := range items {
		response = append(response, toWorkspaceResponse(ws))
	}
	writeSuccess(w, http.StatusOK, envelope{"workspaces": response})
}

type createWorkspaceRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req createWorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ws, err := h.Workspaces.Create(r.Context(), user.ID, name)
	if err != nil {
		h.log.InternalError("workspaces.create failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusCreated, envelope{"workspace": toWorkspaceResponse(*ws)})
}

type joinWorkspaceRequest struct {
	Code string `json:"code"`
}

func (h *Handlers) JoinWorkspace(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req joinWorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	ws, err := h.Workspaces.Join(r.Context(), user.ID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, workspacedomain.ErrCodeNotFound):
			writeError(w, http.StatusNotFound, "join code not found")
		case errors.Is(err, workspacedomain.ErrAlreadyMember):
			writeError(w, http.StatusBadRequest, "already a member of this workspace")
		default:
			h.log.InternalError("workspaces.join failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"workspace": toWorkspaceResponse(*ws)})
}

func (h *Handlers) LeaveWorkspace(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	workspaceID := chi.URLParam(r, "id")

	if err := h.Workspaces.Leave(r.Context(), user.ID, workspaceID); err != nil {
		switch {
		case errors.Is(err, workspacedomain.ErrNotMember):
			writeError(w, http.StatusForbidden, "not a member of this workspace")
		case errors.Is(err, workspacedomain.ErrWorkspaceNotFound):
			writeError(w, http.StatusNotFound, "workspace not found")
		default:
			h.log.InternalError("workspaces.leave failed", err, "user_id", user.ID, "workspace_id", workspaceID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

type renameWorkspaceRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) RenameWorkspace(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	workspaceID := chi.URLParam(r, "id")

	var req renameWorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.Workspaces.Rename(r.Context(), user.ID, workspaceID, name); err != nil {
		switch {
		case errors.Is(err, workspacedomain.ErrNotMember):
			writeError(w, http.StatusForbidden, "not a member of this workspace")
		case errors.Is(err, workspacedomain.ErrNotOwner):
			writeError(w, http.StatusForbidden, "only the owner can rename a workspace")
		default:
			h.log.InternalError("workspaces.rename failed", err, "user_id", user.ID, "workspace_id", workspaceID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *Handlers) ListWorkspaceMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	workspaceID := chi.URLParam(r, "id")

	members, err := h.Workspaces.ListMembers(r.Context(), user.ID, workspaceID)
	if err != nil {
		if errors.Is(err, workspacedomain.ErrNotMember) {
			writeError(w, http.StatusForbidden, "not a member of this workspace")
			return
		}
		h.log.InternalError("workspaces.members failed", err, "user_id", user.ID, "workspace_id", workspaceID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	userIDs := make([]string, 0, len(members))
	for _, member := range members {
		userIDs = append(userIDs, member.UserID)
	}
	profiles, err := h.Users.GetProfiles(r.Context(), userIDs)
	if err != nil {
		h.log.BusinessError("workspaces.members: profiles lookup failed", err, "workspace_id", workspaceID)
		profiles = nil
	}

	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		item := memberResponse{
			UserID:     member.UserID,
			Role:       member.Role,
			SharePrefs: member.SharePrefs,
			JoinedAt:   member.JoinedAt,
		}
		if profile, ok := profiles[member.UserID]; ok {
			if profile.DisplayName != nil {
				item.DisplayName = *profile.DisplayName
			}
			if profile.Email != nil {
				item.Email = *profile.Email
			}
		}
		response = append(response, item)
	}
	writeSuccess(w, http.StatusOK, envelope{"members": response})
}

type updatePrefsRequest struct {
	ShareTransactions bool `json:"share_transactions"`
	ShareCategories   bool `json:"share_categories"`
}

// UpdateMyPrefs updates the caller's own share preferences inside a
// workspace. Members never edit each other's preferences.
func (h *Handlers) UpdateMyPrefs(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	workspaceID := chi.URLParam(r, "id")

	var req updatePrefsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	prefs := workspacedomain.SharePrefs{
		ShareTransactions: req.ShareTransactions,
		ShareCategories:   req.ShareCategories,
	}
	if err := h.Workspaces.UpdateMemberPrefs(r.Context(), user.ID, workspaceID, prefs); err != nil {
		if errors.Is(err, workspacedomain.ErrNotMember) {
			writeError(w, http.StatusForbidden, "not a member of this workspace")
			return
		}
		h.log.InternalError("workspaces.prefs failed", err, "user_id", user.ID, "workspace_id", workspaceID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *Handlers) RemoveWorkspaceMember(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	workspaceID := chi.URLParam(r, "id")
	memberID := chi.URLParam(r, "userID")

	if err := h.Workspaces.RemoveMember(r.Context(), user.ID, workspaceID, memberID); err != nil {
		switch {
		case errors.Is(err, workspacedomain.ErrNotMember):
			writeError(w, http.StatusForbidden, "not a member of this workspace")
		case errors.Is(err, workspacedomain.ErrNotOwner):
			writeError(w, http.StatusForbidden, "only the owner can remove members")
		case errors.Is(err, workspacedomain.ErrCannotRemoveOwner):
			writeError(w, http.StatusBadRequest, "the owner cannot be removed")
		case errors.Is(err, workspacedomain.ErrMemberNotFound):
			writeError(w, http.StatusNotFound, "member not found")
		default:
			h.log.InternalError("workspaces.remove_member failed", err, "user_id", user.ID, "workspace_id", workspaceID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}
