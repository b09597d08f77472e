package handler

import "net/http"

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, envelope{"status": "ok"})
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Me echoes the authenticated identity. The frontend uses it as a session
// probe right after login.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"user": userResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}})
}
