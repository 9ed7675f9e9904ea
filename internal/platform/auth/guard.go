package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequirePermission returns middleware that allows the request when the
// resolved identity's grant satisfies any of the listed capabilities.
// Without an identity it rejects with 401; with an identity whose grant
// satisfies none of the capabilities it rejects with 403.
func RequirePermission(capabilities ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFromContext(c.Request().Context())
			if id == nil {
				return AuthenticationRequired()
			}
			if evaluateAny(id, capabilities) {
				return next(c)
			}
			return PermissionDenied()
		}
	}
}

// evaluateAny checks the capabilities in order and allows on the first
// match. A panic during evaluation denies.
func evaluateAny(id *Identity, capabilities []string) (allowed bool) {
	defer func() {
		if recover() != nil {
			allowed = false
		}
	}()
	for _, capability := range capabilities {
		if Evaluate(id, capability) {
			return true
		}
	}
	return false
}

// RequireRole returns middleware that allows the request when the resolved
// identity's role name equals one of the given names. This is a coarse,
// capability-agnostic gate: the permission grant is not consulted.
func RequireRole(names ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFromContext(c.Request().Context())
			if id == nil {
				return AuthenticationRequired()
			}
			for _, name := range names {
				if id.RoleName == name {
					return next(c)
				}
			}
			return &Error{
				Kind:    KindPermissionDenied,
				Status:  http.StatusForbidden,
				Message: fmt.Sprintf("required role: %s", strings.Join(names, " or ")),
			}
		}
	}
}
