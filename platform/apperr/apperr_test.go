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
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("busy"), http.StatusConflict},
		{Unauthorized("no"), http.StatusUnauthorized},
		{Transport("down", errors.New("dial")), http.StatusBadGateway},
		{Internal("boom"), http.StatusInternalServerError},
		{New(KindUnknown, "?"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err.Kind, got, tc.want)
		}
	}
}

func TestGetKindFollowsWrappedChain(t *testing.T) {
	base := errors.New("connection refused")
	err := fmt.Errorf("refresh: %w", Transport("store unavailable", base))

	if !Is(err, KindTransport) {
		t.Fatalf("expected transport kind, got %v", GetKind(err))
	}
	if !errors.Is(err, base) {
		t.Fatal("expected underlying error to stay reachable")
	}
	if GetKind(base) != KindUnknown {
		t.Fatal("plain errors must report KindUnknown")
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := Validation("status is required").WithOp("queue.ConfirmStatus")
	if err.Error() != "queue.ConfirmStatus: status is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
