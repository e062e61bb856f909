package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"geneailogy/tree-service/internal/errs"
	"geneailogy/tree-service/pkg/helpers"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// mapServiceError translates service errors into HTTP responses
func mapServiceError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"fields": helpers.ValidationErrorFields(err),
		})
		return
	}

	switch {
	case errors.Is(err, errs.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "person not found")
	case errors.Is(err, errs.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "notification not found")
	case errors.Is(err, errs.ErrInvalidRelation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// viewerID extracts the authenticated viewer's id. Authentication itself is
// owned by the upstream gateway; by the time requests reach this service the
// identity header/query value is trusted.
func viewerID(r *http.Request) string {
	if id := r.Header.Get("X-Viewer-ID"); id != "" {
		return id
	}
	return r.URL.Query().Get("viewer_id")
}
