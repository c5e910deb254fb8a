package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/engine"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEngineErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{engine.ErrRoomNotFound, http.StatusNotFound},
		{engine.ErrBookingNotFound, http.StatusNotFound},
		{engine.ErrRoomUnavailable, http.StatusConflict},
		{engine.ErrInvalidTransition, http.StatusConflict},
		{engine.ErrUnauthorized, http.StatusForbidden},
		{engine.ErrTransient, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		c, rec := newTestContext(t)
		if err := engineError(c, tc.err); err != nil {
			t.Fatalf("engineError(%v): %v", tc.err, err)
		}
		if rec.Code != tc.want {
			t.Errorf("engineError(%v) = %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}

func TestEngineErrorUnwrapsWrappedErrors(t *testing.T) {
	c, rec := newTestContext(t)
	wrapped := fmt.Errorf("%w: dial tcp: connection refused", engine.ErrTransient)
	if err := engineError(c, wrapped); err != nil {
		t.Fatalf("engineError: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("wrapped transient got %d, want 503", rec.Code)
	}
}

func TestGetUserIDClaimTypes(t *testing.T) {
	// JWT claims decode numbers as float64; middleware may also store the
	// parsed uint64 directly.
	for _, v := range []any{uint64(7), int64(7), float64(7), "7"} {
		c, _ := newTestContext(t)
		c.Set("user_id", v)
		id, err := getUserID(c)
		if err != nil {
			t.Fatalf("getUserID(%T): %v", v, err)
		}
		if id != 7 {
			t.Errorf("getUserID(%T) = %d, want 7", v, id)
		}
	}

	c, _ := newTestContext(t)
	if _, err := getUserID(c); err == nil {
		t.Fatal("missing user_id should error")
	}
}

func TestGetActorNormalizesRole(t *testing.T) {
	c, _ := newTestContext(t)
	c.Set("user_id", uint64(3))
	c.Set("role", "admin")
	actor, err := getActor(c)
	if err != nil {
		t.Fatalf("getActor: %v", err)
	}
	if actor.UserID != 3 || string(actor.Role) != "ADMIN" {
		t.Fatalf("got %+v", actor)
	}
}
