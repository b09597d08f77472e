package handler

import "net/http"

// Dashboard materializes the target month for every visible member, then
// returns the full aggregation payload.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
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

	h.materialize(r.Context(), scope, year, month)

	dashboard, err := h.Analytics.Dashboard(r.Context(), analyticsScope(scope), year, month)
	if err != nil {
		h.log.InternalError("dashboard failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"dashboard": dashboard})
}
