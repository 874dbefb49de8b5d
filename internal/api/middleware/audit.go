package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// AuditSink receives audit entries for asynchronous persistence.
type AuditSink interface {
	Enqueue(entry domain.AuditEntry)
}

// Audit records every admin request once its response is written. The
// entry is captured on response finish rather than on handler return:
// domain errors are only mapped to their HTTP status by the global error
// handler after the middleware chain unwinds, so the finished response is
// the only place the status the client actually received is known. Entries
// are enqueued rather than written inline so a slow audit store cannot
// slow down moderation.
func Audit(sink AuditSink) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			recorded := false
			c.Response().After(func() {
				// After hooks fire on every write; audit one entry per request.
				if recorded {
					return
				}
				recorded = true

				adminID, _ := c.Get(CtxUserID).(string)
				sink.Enqueue(domain.AuditEntry{
					AdminID:    adminID,
					Route:      c.Path(),
					Method:     c.Request().Method,
					StatusCode: c.Response().Status,
					DurationMs: time.Since(start).Milliseconds(),
					Timestamp:  start.UTC(),
					IP:         c.RealIP(),
					UserAgent:  c.Request().UserAgent(),
				})
			})
			return next(c)
		}
	}
}
