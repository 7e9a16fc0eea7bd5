package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{InvalidArgument("bad"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Unavailable("not ready"), http.StatusServiceUnavailable},
		{Internal("boom"), http.StatusInternalServerError},
		{New(KindUnknown, "?"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Fatalf("kind %s: expected status %d, got %d", tc.err.Kind, tc.want, got)
		}
	}
}

func TestGetKindFollowsWrappedChain(t *testing.T) {
	base := InvalidArgument("latitude out of range").WithOp("trucks.FindNearest")
	wrapped := fmt.Errorf("handler: %w", base)

	if !Is(wrapped, KindInvalidArgument) {
		t.Fatalf("expected wrapped error to carry KindInvalidArgument, got %s", GetKind(wrapped))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected plain error to be KindUnknown")
	}
}

func TestErrorMessageIncludesOpAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindUnavailable, "registry load failed", cause).WithOp("loader.Reload")

	want := "loader.Reload: registry load failed: connection refused"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the cause")
	}
}
