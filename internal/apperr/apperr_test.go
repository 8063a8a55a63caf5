package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	base := Validation("early_return_date", "date out of range")
	wrapped := fmt.Errorf("lifecycle: %w", base)

	if got := KindOf(wrapped); got != KindValidation {
		t.Fatalf("KindOf=%q, want %q", got, KindValidation)
	}
	var e *Error
	if !errors.As(wrapped, &e) || e.Field != "early_return_date" {
		t.Fatalf("expected field to survive wrapping, got %+v", e)
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("plain errors must be internal")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindValidation:   http.StatusBadRequest,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindInternal:     http.StatusInternalServerError,
		Kind("other"):    http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := HTTPStatus(kind); got != want {
			t.Fatalf("HTTPStatus(%q)=%d, want %d", kind, got, want)
		}
	}
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("failed to store file", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
}
