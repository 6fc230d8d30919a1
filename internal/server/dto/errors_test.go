package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAPIErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   ErrorCode
	}{
		{"not found", NotFound("node"), http.StatusNotFound, ErrorCodeNotFound},
		{"bad request", BadRequest("nope"), http.StatusBadRequest, ErrorCodeValidationFailed},
		{"missing field", MissingField("name"), http.StatusBadRequest, ErrorCodeMissingField},
		{"version conflict", VersionConflict(7), http.StatusConflict, ErrorCodeVersionConflict},
		{"invalid parent", InvalidParent(), http.StatusBadRequest, ErrorCodeInvalidParent},
		{"cycle", CycleDetected(), http.StatusBadRequest, ErrorCodeCycleDetected},
		{"too deep", TreeTooDeep(), http.StatusBadRequest, ErrorCodeTreeTooDeep},
		{"not deleted", NotDeleted(), http.StatusConflict, ErrorCodeNotDeleted},
		{"quota", QuotaExceeded(), http.StatusForbidden, ErrorCodeQuotaExceeded},
		{"internal", Internal("boom"), http.StatusInternalServerError, ErrorCodeInternal},
		{"rate limited", RateLimitExceeded(30), http.StatusTooManyRequests, ErrorCodeRateLimited},
		{"payload too large", PayloadTooLarge(1 << 20), http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
			if tt.err.Code() != tt.wantCode {
				t.Errorf("Code() = %s, want %s", tt.err.Code(), tt.wantCode)
			}
		})
	}
}

func TestVersionConflictDetail(t *testing.T) {
	err := VersionConflict(12)
	if got := err.Details()["currentVersion"]; got != 12 {
		t.Errorf("currentVersion detail = %v, want 12", got)
	}
}

func TestAPIErrorWrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := InternalWithError("failed to persist node", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() lost the cause")
	}
	want := "failed to persist node: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var ews ErrorWithStatus
	if !errors.As(fmt.Errorf("handler: %w", err), &ews) {
		t.Fatal("errors.As() did not find ErrorWithStatus through wrapping")
	}
	if ews.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d", ews.StatusCode())
	}
}

func TestAPIErrorDetails(t *testing.T) {
	err := BadRequest("bad").WithDetail("field", "name").WithDetails(map[string]any{"max": 255})
	d := err.Details()
	if d["field"] != "name" || d["max"] != 255 {
		t.Errorf("Details() = %v", d)
	}
}
