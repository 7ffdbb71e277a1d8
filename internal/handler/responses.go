package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// VerificationErrorResponse is returned when submitted proof does not satisfy the quest
type VerificationErrorResponse struct {
	Error        string                     `json:"error"`
	Kind         string                     `json:"kind"`
	Verification domain.VerificationOutcome `json:"verification"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode before writing headers so an encoding failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// statusForKind maps a domain error kind to its HTTP status
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidState, domain.KindCapacityExceeded:
		return http.StatusConflict
	case domain.KindVerificationFailed:
		return http.StatusUnprocessableEntity
	case domain.KindInsufficientFunds:
		return http.StatusPaymentRequired
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindStorageConflict:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the response for an error returned by a service
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	if errors.Is(err, domain.ErrEvidenceDisabled) {
		respondError(w, http.StatusServiceUnavailable, ErrMsgEvidenceDisabled)
		return
	}

	kind := domain.KindOf(err)
	status := statusForKind(kind)

	var verr *domain.VerificationError
	if errors.As(err, &verr) {
		log.Info(LogMsgRequestRejected, "path", r.URL.Path, "reason", verr.Outcome.Detail.Reason)
		respondJSON(w, status, VerificationErrorResponse{
			Error:        err.Error(),
			Kind:         string(kind),
			Verification: verr.Outcome,
		})
		return
	}

	switch kind {
	case domain.KindInternal:
		log.Error(LogMsgRequestFailed, "path", r.URL.Path, "error", err)
		respondJSON(w, status, ErrorResponse{Error: ErrMsgGenericServerError, Kind: string(kind)})
	case domain.KindStorageConflict:
		log.Warn(LogMsgRequestFailed, "path", r.URL.Path, "error", err)
		w.Header().Set(HeaderRetryAfter, retryAfterSeconds)
		respondJSON(w, status, ErrorResponse{Error: ErrMsgRetryLater, Kind: string(kind)})
	default:
		log.Info(LogMsgRequestRejected, "path", r.URL.Path, "kind", kind, "error", err)
		respondJSON(w, status, ErrorResponse{Error: err.Error(), Kind: string(kind)})
	}
}
