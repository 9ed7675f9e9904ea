package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcrm/medcrm/internal/platform/auth"
	"github.com/medcrm/medcrm/internal/platform/middleware"
)

// newTestServer wires the handler behind the real guards and error handler,
// with a middleware injecting the given identity the way the verifier would.
func newTestServer(t *testing.T, id *auth.Identity) (*echo.Echo, *Service) {
	t.Helper()
	svc, _, _ := newTestService()

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
	NewHandler(svc).RegisterRoutes(api)
	return e, svc
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	return body
}

func receptionIdentity() *auth.Identity {
	return &auth.Identity{
		SubjectID: "u-reception",
		RoleName:  "reception",
		Role: auth.Role{Name: "reception", Permissions: auth.TreeGrant(map[string]map[string]map[string]bool{
			"pages": {"patients": {"access": true, "create": true, "edit": true}},
		})},
	}
}

func TestPatientRoutesRequireIdentity(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := doJSON(e, http.MethodGet, "/api/v1/patients", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	body := errorBody(t, rec)
	if body["success"] != false {
		t.Errorf("error body success = %v, want false", body["success"])
	}
	if body["error"] == "" {
		t.Error("error body missing message")
	}
}

func TestPatientCreateAndGet(t *testing.T) {
	e, _ := newTestServer(t, receptionIdentity())

	rec := doJSON(e, http.MethodPost, "/api/v1/patients",
		`{"first_name": "Ada", "last_name": "Lovelace"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/patients/"+created.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
}

func TestPatientDeleteDeniedWithoutCapability(t *testing.T) {
	e, _ := newTestServer(t, receptionIdentity())

	rec := doJSON(e, http.MethodDelete,
		"/api/v1/patients/6f1b26b2-7e38-4a56-bb63-111111111111", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	body := errorBody(t, rec)
	if body["error"] != "Insufficient permissions" {
		t.Errorf("error = %q", body["error"])
	}
}

// Record routes declare legacy capability names; a tree grant holding the
// granular equivalents must satisfy them through translation.
func TestRecordRoutesAcceptTranslatedGrant(t *testing.T) {
	clinician := &auth.Identity{
		SubjectID: "u-clinician",
		RoleName:  "clinician",
		Role: auth.Role{Name: "clinician", Permissions: auth.TreeGrant(map[string]map[string]map[string]bool{
			"pages": {
				"patients": {"access": true},
				"clinical": {"access": true, "create_records": true},
			},
		})},
	}
	e, svc := newTestServer(t, clinician)

	p := &Patient{FirstName: "Ada", LastName: "Lovelace"}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/patients/"+p.ID.String()+"/records",
		`{"title": "Initial consult", "record_type": "consultation"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create record status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created ClinicalRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.AuthorID == nil || *created.AuthorID != "u-clinician" {
		t.Errorf("author = %v, want acting subject", created.AuthorID)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/patients/"+p.ID.String()+"/records", "")
	if rec.Code != http.StatusOK {
		t.Errorf("list records status = %d", rec.Code)
	}
}

func TestRecordRoutesDenyReceptionist(t *testing.T) {
	e, _ := newTestServer(t, receptionIdentity())

	rec := doJSON(e, http.MethodGet,
		"/api/v1/patients/6f1b26b2-7e38-4a56-bb63-111111111111/records", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
