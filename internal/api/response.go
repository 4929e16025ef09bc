package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/erazemk/carina/internal/forms"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

type fieldErrorResponse struct {
	Error  string       `json:"error"`
	Fields forms.Errors `json:"fields"`
}

// jsonFieldErrors writes a 422 response listing invalid form fields.
func jsonFieldErrors(w http.ResponseWriter, message string, fields forms.Errors) {
	jsonResponse(w, http.StatusUnprocessableEntity, fieldErrorResponse{Error: message, Fields: fields})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
