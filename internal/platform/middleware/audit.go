package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medcrm/medcrm/internal/domain/audit"
	"github.com/medcrm/medcrm/internal/platform/auth"
)

// AuditRecorder is satisfied by audit.Service.
type AuditRecorder interface {
	Record(ctx context.Context, ev *audit.Event)
}

// Audit records every mutating request made by an authenticated identity.
// Reads are not audited.
func Audit(svc AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return err
			}
			identity := auth.IdentityFromContext(c.Request().Context())
			if identity == nil {
				return err
			}

			ev := &audit.Event{
				ActorID: identity.SubjectID,
				Action:  fmt.Sprintf("%s %s", method, c.Path()),
			}
			if identity.RoleName != "" {
				role := identity.RoleName
				ev.ActorRole = &role
			}
			if rid, ok := c.Get("request_id").(string); ok && rid != "" {
				ev.RequestID = &rid
			}
			if status := c.Response().Status; err == nil && status >= 200 && status < 300 {
				svc.Record(c.Request().Context(), ev)
			}
			return err
		}
	}
}
