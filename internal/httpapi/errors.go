package httpapi

import (
	"encoding/json"
	"net/http"

	"lajed/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSONErrorDetail(w, status, msg, "")
}

func writeJSONErrorDetail(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Detail: detail, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
