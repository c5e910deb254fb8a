package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/model"
)

func callWithRole(t *testing.T, mw echo.MiddlewareFunc, role any) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec.Code
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	mw := RequireRole(model.RoleAdmin)
	if code := callWithRole(t, mw, "ADMIN"); code != http.StatusOK {
		t.Fatalf("admin got %d, want 200", code)
	}
	// Tokens issued by older clients carry lower-case roles.
	if code := callWithRole(t, mw, "admin"); code != http.StatusOK {
		t.Fatalf("lower-case admin got %d, want 200", code)
	}
}

func TestRequireRoleRejectsOthers(t *testing.T) {
	mw := RequireRole(model.RoleAdmin)
	if code := callWithRole(t, mw, "USER"); code != http.StatusForbidden {
		t.Fatalf("user got %d, want 403", code)
	}
	if code := callWithRole(t, mw, nil); code != http.StatusForbidden {
		t.Fatalf("missing role got %d, want 403", code)
	}
	if code := callWithRole(t, mw, 42); code != http.StatusForbidden {
		t.Fatalf("non-string role got %d, want 403", code)
	}
}

func TestRequireRoleMultiple(t *testing.T) {
	mw := RequireRole(model.RoleUser, model.RoleAgent, model.RoleAdmin)
	for _, role := range []string{"USER", "AGENT", "ADMIN"} {
		if code := callWithRole(t, mw, role); code != http.StatusOK {
			t.Fatalf("%s got %d, want 200", role, code)
		}
	}
}
