package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "error with cause",
			err: &Error{
				Type:    ErrBadRequest,
				Message: "test message",
				Cause:   errors.New("underlying error"),
			},
			want: "bad_request: test message: underlying error",
		},
		{
			name: "error without cause",
			err: &Error{
				Type:    ErrUpstream,
				Message: "test message",
				Cause:   nil,
			},
			want: "upstream: test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.want {
				t.Errorf("Error.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &Error{
		Type:    ErrInternal,
		Message: "test message",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Error.Unwrap() = %v, want %v", got, cause)
	}

	errNoCause := &Error{
		Type:    ErrInternal,
		Message: "test message",
		Cause:   nil,
	}

	if got := errNoCause.Unwrap(); got != nil {
		t.Errorf("Error.Unwrap() = %v, want nil", got)
	}
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		errorType string
		want      int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrUpstream, http.StatusInternalServerError},
		{ErrInternal, http.StatusInternalServerError},
		{"something_else", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.errorType, func(t *testing.T) {
			err := NewError(tt.errorType, "test message", nil)
			if got := err.HTTPStatus(); got != tt.want {
				t.Errorf("Error.HTTPStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	if got := Status(NewNotFoundError("missing", nil)); got != http.StatusNotFound {
		t.Errorf("Status() = %v, want %v", got, http.StatusNotFound)
	}

	wrapped := fmt.Errorf("handling request: %w", NewBadRequestError("bad gzip", nil))
	if got := Status(wrapped); got != http.StatusBadRequest {
		t.Errorf("Status() = %v, want %v", got, http.StatusBadRequest)
	}

	if got := Status(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("Status() = %v, want %v", got, http.StatusInternalServerError)
	}
}

func TestIsType(t *testing.T) {
	err := NewUpstreamError("git exited nonzero", errors.New("exit status 128"))

	if !IsUpstream(err) {
		t.Error("IsUpstream() = false, want true")
	}
	if IsNotFound(err) {
		t.Error("IsNotFound() = true, want false")
	}

	wrapped := fmt.Errorf("invoking backend: %w", err)
	if !IsUpstream(wrapped) {
		t.Error("IsUpstream() on wrapped error = false, want true")
	}
}
