package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("content is required", map[string]any{"field": "content"})
	if !IsValidation(err) {
		t.Fatal("IsValidation = false, want true")
	}
	de := ToDomainError(err)
	if de.Code != "VALIDATION_FAILED" {
		t.Fatalf("Code = %q, want VALIDATION_FAILED", de.Code)
	}
	if de.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("HTTPStatus = %d, want %d", de.HTTPStatus, http.StatusBadRequest)
	}
	if de.Details["field"] != "content" {
		t.Fatalf("Details[field] = %v, want content", de.Details["field"])
	}
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := NewNotFound("query", nil)
	if !IsNotFound(err) {
		t.Fatal("IsNotFound = false, want true")
	}
	de := ToDomainError(err)
	if de.HTTPStatus != http.StatusNotFound {
		t.Fatalf("HTTPStatus = %d, want %d", de.HTTPStatus, http.StatusNotFound)
	}
	if de.Message != "query not found" {
		t.Fatalf("Message = %q, want %q", de.Message, "query not found")
	}
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("load query: %w", pgx.ErrNoRows)
	de := ToDomainError(wrapped)
	if de.Code != "NOT_FOUND" {
		t.Fatalf("Code = %q, want NOT_FOUND", de.Code)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	de := ToDomainError(cause)
	if de.Code != "INTERNAL_ERROR" {
		t.Fatalf("Code = %q, want INTERNAL_ERROR", de.Code)
	}
	if !errors.Is(de, cause) {
		t.Fatal("DomainError does not wrap the original cause")
	}
}

func TestToDomainErrorNil(t *testing.T) {
	t.Parallel()

	if de := ToDomainError(nil); de != nil {
		t.Fatalf("ToDomainError(nil) = %v, want nil", de)
	}
}
