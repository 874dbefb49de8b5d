package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/api/middleware"
	"github.com/phonemart/marketplace-api/internal/core/domain"
)

type captureSink struct {
	entries []domain.AuditEntry
}

func (s *captureSink) Enqueue(entry domain.AuditEntry) {
	s.entries = append(s.entries, entry)
}

func newAuditTestServer(sink *captureSink) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())

	setAdmin := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxUserID, "admin-1")
			return next(c)
		}
	}

	g := e.Group("/api/admin", setAdmin, middleware.Audit(sink))
	g.GET("/users", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	})
	g.GET("/users/:id", func(c echo.Context) error {
		return domain.ErrUserNotFound
	})
	return e
}

func TestAudit_RecordsSuccessStatus(t *testing.T) {
	sink := &captureSink{}
	e := newAuditTestServer(sink)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("User-Agent", "audit-test")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(sink.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.StatusCode != http.StatusOK {
		t.Fatalf("expected recorded status 200, got %d", entry.StatusCode)
	}
	if entry.AdminID != "admin-1" || entry.Route != "/api/admin/users" || entry.Method != http.MethodGet {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.UserAgent != "audit-test" {
		t.Fatalf("unexpected user agent %q", entry.UserAgent)
	}
}

func TestAudit_RecordsStatusTheClientReceived(t *testing.T) {
	// Handlers return bare domain errors; the status only exists once the
	// global error handler has written the response. The audit entry must
	// carry that status, not the pre-error default.
	sink := &captureSink{}
	e := newAuditTestServer(sink)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/ghost", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if len(sink.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(sink.entries))
	}
	if got := sink.entries[0].StatusCode; got != http.StatusNotFound {
		t.Fatalf("audit recorded status %d, client received %d", got, rec.Code)
	}
	if sink.entries[0].Route != "/api/admin/users/:id" {
		t.Fatalf("expected route pattern, got %q", sink.entries[0].Route)
	}
}
