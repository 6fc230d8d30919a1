// Maps domain errors to API errors and writes error responses.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hubfs/hubfs/internal/server/dto"
	"github.com/hubfs/hubfs/internal/storage/hub"
)

// mapDomainError translates a hub error into an APIError. Errors already
// carrying a status pass through untouched; anything unrecognized becomes a
// 500.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}
	var ews dto.ErrorWithStatus
	if errors.As(err, &ews) {
		return err
	}
	if current, ok := hub.IsVersionConflict(err); ok {
		return dto.VersionConflict(current)
	}
	switch {
	case errors.Is(err, hub.ErrNotFound):
		return dto.NotFound("node")
	case errors.Is(err, hub.ErrInvalidParent):
		return dto.InvalidParent()
	case errors.Is(err, hub.ErrCycleDetected):
		return dto.CycleDetected()
	case errors.Is(err, hub.ErrTreeTooDeep):
		return dto.TreeTooDeep()
	case errors.Is(err, hub.ErrNotDeleted):
		return dto.NotDeleted()
	case errors.Is(err, hub.ErrQuotaExceeded):
		return dto.QuotaExceeded()
	}
	return dto.InternalWithError("operation failed", err)
}

// writeErrorResponse writes an APIError as a JSON response.
// Use this in raw http.HandlerFunc handlers that don't use server.Wrap.
func writeErrorResponse(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorCode := dto.ErrorCodeInternal
	message := "internal error"
	var details map[string]any

	var ewsErr dto.ErrorWithStatus
	if errors.As(err, &ewsErr) {
		statusCode = ewsErr.StatusCode()
		errorCode = ewsErr.Code()
		message = ewsErr.Error()
		details = ewsErr.Details()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := dto.ErrorResponse{
		Error: dto.ErrorDetails{
			Code:    errorCode,
			Message: message,
		},
		Details: details,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
