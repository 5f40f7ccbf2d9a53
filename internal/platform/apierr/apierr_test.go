package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusAndCodeSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("user_not_found", "User not found"))
	if got := StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("StatusOf: want=%d got=%d", http.StatusNotFound, got)
	}
	if got := CodeOf(err); got != "user_not_found" {
		t.Fatalf("CodeOf: want=user_not_found got=%s", got)
	}
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("IsStatus: want=true")
	}
}

func TestPlainErrorsDefaultToInternal(t *testing.T) {
	err := errors.New("boom")
	if got := StatusOf(err); got != http.StatusInternalServerError {
		t.Fatalf("StatusOf: want=500 got=%d", got)
	}
	if got := CodeOf(err); got != "internal_error" {
		t.Fatalf("CodeOf: want=internal_error got=%s", got)
	}
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("conn refused")
	err := Internal("store_unavailable", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is: want wrapped cause")
	}
	if err.Error() != "conn refused" {
		t.Fatalf("Error: got=%q", err.Error())
	}
}
