package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/config"
	domainErrors "github.com/gridbill/gridbill/internal/domain/errors"
	"github.com/gridbill/gridbill/internal/domain/model"
	testhelpers "github.com/gridbill/gridbill/internal/test"
)

func newTestRouter(facade *testhelpers.PortalFacadeStub) http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(facade, &config.Config{TokenTTL: time.Hour}, logger)
}

func portalUser(role model.Role) *model.User {
	return &model.User{ID: uuid.New(), Email: "jane@example.com", Role: role, IsActive: true}
}

func TestPublicRoutesReachable(t *testing.T) {
	router := newTestRouter(&testhelpers.PortalFacadeStub{User: portalUser(model.RoleCustomer)})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", nil))
	if w.Code == http.StatusNotFound || w.Code == http.StatusUnauthorized {
		t.Fatalf("register must be public, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(&testhelpers.PortalFacadeStub{User: portalUser(model.RoleCustomer)})

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users/profile"},
		{http.MethodPut, "/api/users/profile"},
		{http.MethodGet, "/api/bills"},
		{http.MethodGet, "/api/users/dashboard"},
		{http.MethodGet, "/api/admin/users"},
	}
	for _, p := range paths {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestProtectedRouteWithSession(t *testing.T) {
	router := newTestRouter(&testhelpers.PortalFacadeStub{User: portalUser(model.RoleCustomer)})

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "session-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAdminRoutesGatedByRole(t *testing.T) {
	router := newTestRouter(&testhelpers.PortalFacadeStub{User: portalUser(model.RoleCustomer)})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "session-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route: expected 403, got %d", w.Code)
	}

	router = newTestRouter(&testhelpers.PortalFacadeStub{User: portalUser(model.RoleAdmin)})
	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "session-token"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin on admin route: expected 200, got %d", w.Code)
	}
}

func TestVerifyRouteDistinguishesMissingUser(t *testing.T) {
	facade := &testhelpers.PortalFacadeStub{VerifySessionFn: func(context.Context, string) (*model.User, error) {
		return nil, domainErrors.ErrNotFound
	}}
	router := newTestRouter(facade)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "stale"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for vanished user, got %d", w.Code)
	}
}
