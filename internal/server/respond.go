package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheikh-saqib/account-ledger-system/internal/models"
)

// errorResponse mirrors the domain error over the wire: a stable code
// plus a human-readable message.
type errorResponse struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondInvalidRequest(w http.ResponseWriter) {
	respondJSON(w, http.StatusBadRequest, errorResponse{
		ErrorCode:    "INVALID_REQUEST",
		ErrorMessage: "invalid request",
	})
}

// respondError maps domain errors to HTTP statuses: the not-found family
// is 404, allocation exhaustion is 500, everything else in the taxonomy
// is a 409 conflict. Unknown errors stay opaque 500s.
func respondError(w http.ResponseWriter, err error) {
	var domainErr *models.Error
	if !errors.As(err, &domainErr) {
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			ErrorCode:    "INTERNAL_SERVER_ERROR",
			ErrorMessage: "internal server error",
		})
		return
	}

	status := http.StatusConflict
	switch domainErr {
	case models.ErrUserNotFound, models.ErrAccountNotFound, models.ErrTransactionNotFound:
		status = http.StatusNotFound
	case models.ErrAllocationExhausted:
		status = http.StatusInternalServerError
	}

	respondJSON(w, status, errorResponse{
		ErrorCode:    domainErr.Code,
		ErrorMessage: domainErr.Message,
	})
}
