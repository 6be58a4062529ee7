package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newRoleServer() *echo.Echo {
	e := echo.New()
	api := e.Group("/api", ExtractRole())
	api.GET("/admin", okHandler, RequireRole(RoleAdmin))
	api.GET("/pharmacy", okHandler, RequireRole(RolePharmacist))
	api.GET("/frontdesk", okHandler, RequireRole(RoleEmployee))
	return e
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, RoleFromContext(c))
}

func doReq(e *echo.Echo, path, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		req.Header.Set(HeaderRole, role)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMissingRoleRejected(t *testing.T) {
	e := newRoleServer()
	if rec := doReq(e, "/api/pharmacy", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestUnknownRoleRejected(t *testing.T) {
	e := newRoleServer()
	if rec := doReq(e, "/api/pharmacy", "janitor"); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRoleGatePerGroup(t *testing.T) {
	e := newRoleServer()

	cases := []struct {
		path, role string
		want       int
	}{
		{"/api/pharmacy", RolePharmacist, http.StatusOK},
		{"/api/pharmacy", RoleEmployee, http.StatusForbidden},
		{"/api/frontdesk", RoleEmployee, http.StatusOK},
		{"/api/frontdesk", RolePharmacist, http.StatusForbidden},
		{"/api/admin", RoleEmployee, http.StatusForbidden},
		{"/api/admin", RoleAdmin, http.StatusOK},
		// Admin passes every gate.
		{"/api/pharmacy", RoleAdmin, http.StatusOK},
		{"/api/frontdesk", RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		if rec := doReq(e, tc.path, tc.role); rec.Code != tc.want {
			t.Errorf("%s as %s: status = %d, want %d", tc.path, tc.role, rec.Code, tc.want)
		}
	}
}

func TestRoleHeaderNormalized(t *testing.T) {
	e := newRoleServer()
	rec := doReq(e, "/api/pharmacy", "  Pharmacist ")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != RolePharmacist {
		t.Errorf("context role = %q", rec.Body.String())
	}
}
