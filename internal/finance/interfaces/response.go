package interfaces

import (
	"encoding/json"
	"log/slog"
	"net/http"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("JSON encoding error", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}

	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}

	respondJSON(w, status, payload)
}

// RespondJSON and RespondError are the responders the router hands to the
// handlers.
var (
	RespondJSON  = respondJSON
	RespondError = respondError
)

// statusForError maps a service error onto an HTTP status. Anything that is
// not one of the typed errors is an internal failure.
func statusForError(err error) int {
	switch {
	case financeErrors.IsValidationError(err),
		financeErrors.IsPreconditionError(err),
		financeErrors.IsInvalidArgumentError(err):
		return http.StatusBadRequest
	case financeErrors.IsNotFoundError(err):
		return http.StatusNotFound
	case financeErrors.IsAuthenticationError(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
