package billing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcrm/medcrm/internal/platform/auth"
	"github.com/medcrm/medcrm/internal/platform/middleware"
)

func newBillingServer(t *testing.T, id *auth.Identity) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(zerolog.Nop())
	api := e.Group("/api/v1")
	api.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id != nil {
				c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
			}
			return next(c)
		}
	})
	NewHandler(NewService(newMockInvoiceRepo())).RegisterRoutes(api)
	return e
}

func getInvoices(e *echo.Echo) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// The invoice listing is shared between billing staff and patient-facing
// staff: either capability admits, both spellings included.
func TestInvoiceListSharedGuard(t *testing.T) {
	cases := []struct {
		name string
		id   *auth.Identity
		want int
	}{
		{
			name: "billing flat grant",
			id: &auth.Identity{SubjectID: "u-1", RoleName: "billing",
				Role: auth.Role{Permissions: auth.FlatGrant("billing.read")}},
			want: http.StatusOK,
		},
		{
			name: "patient staff tree grant",
			id: &auth.Identity{SubjectID: "u-2", RoleName: "reception",
				Role: auth.Role{Permissions: auth.TreeGrant(map[string]map[string]map[string]bool{
					"pages": {"patients": {"access": true}},
				})}},
			want: http.StatusOK,
		},
		{
			name: "billing tree grant",
			id: &auth.Identity{SubjectID: "u-3", RoleName: "billing",
				Role: auth.Role{Permissions: auth.TreeGrant(map[string]map[string]map[string]bool{
					"pages": {"billing": {"access": true}},
				})}},
			want: http.StatusOK,
		},
		{
			name: "neither capability",
			id: &auth.Identity{SubjectID: "u-4", RoleName: "audit",
				Role: auth.Role{Permissions: auth.FlatGrant("audit.read")}},
			want: http.StatusForbidden,
		},
		{
			name: "no identity",
			id:   nil,
			want: http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newBillingServer(t, tc.id)
			rec := getInvoices(e)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestInvoiceWriteRequiresBillingCreate(t *testing.T) {
	readOnly := &auth.Identity{SubjectID: "u-1", RoleName: "billing",
		Role: auth.Role{Permissions: auth.TreeGrant(map[string]map[string]map[string]bool{
			"pages": {"billing": {"access": true}},
		})}}
	e := newBillingServer(t, readOnly)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
