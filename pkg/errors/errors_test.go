package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "no active shift maps to not found",
			err:        errors.New("no active shift"),
			wantCode:   CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "already completed maps to not found",
			err:        errors.New("shift has already been completed"),
			wantCode:   CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "open shift conflict maps to conflict",
			err:        errors.New("employee already has an open shift"),
			wantCode:   CodeConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid input maps to validation",
			err:        errors.New("invalid break kind"),
			wantCode:   CodeValidationError,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown error maps to internal",
			err:        errors.New("connection reset"),
			wantCode:   CodeInternalError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapDomainError(tt.err)
			if appErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", appErr.Code, tt.wantCode)
			}
			if appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", appErr.HTTPStatus, tt.wantStatus)
			}
			if !errors.Is(appErr, tt.err) {
				t.Error("mapped error does not wrap the original")
			}
		})
	}
}

func TestMapDomainError_PassesThroughAppError(t *testing.T) {
	original := ErrConflict("shift already open")

	mapped := MapDomainError(original)
	if mapped != original {
		t.Errorf("MapDomainError() = %#v, want the original AppError", mapped)
	}
}

func TestMapDomainError_Nil(t *testing.T) {
	if mapped := MapDomainError(nil); mapped != nil {
		t.Errorf("MapDomainError(nil) = %#v, want nil", mapped)
	}
}
