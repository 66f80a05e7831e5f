package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"fondo/internal/core"
)

// errorBody is the JSON shape of every failure surfaced to callers. Code
// carries the ledger's wire codes (ERR-BELOW-MINIMUM, ERR-NOT-AUTHORIZED,
// ...) so clients can dispatch without parsing messages.
type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps a ledger error to its wire code and HTTP status.
func writeError(w http.ResponseWriter, err error) {
	code := core.ErrorCode(err)
	writeJSON(w, statusForCode(code), errorBody{Code: code, Error: err.Error()})
}

func statusForCode(code string) int {
	switch code {
	case core.CodeNotAuthorized:
		return http.StatusForbidden
	case core.CodeNotFound:
		return http.StatusNotFound
	case core.CodeAlreadyExists, core.CodeAlreadyApproved, core.CodeInsufficientFunds:
		return http.StatusConflict
	case core.CodeBelowMinimum, core.CodeUnknownCategory, core.CodeInvalidAmount, core.CodeInvalidInput:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Code: core.CodeInvalidInput, Error: msg})
}
