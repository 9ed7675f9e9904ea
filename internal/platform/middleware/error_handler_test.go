package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcrm/medcrm/internal/platform/auth"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(zerolog.Nop())(err, c)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	return rec, body
}

func TestErrorHandlerAuthError(t *testing.T) {
	cases := []struct {
		err     *auth.Error
		status  int
		message string
	}{
		{auth.MissingCredential(), http.StatusUnauthorized, "Access token required"},
		{auth.AuthenticationRequired(), http.StatusUnauthorized, "Authentication required"},
		{auth.InvalidCredential(http.StatusUnauthorized, "Token expired"), http.StatusUnauthorized, "Token expired"},
		{auth.AuthorityUnavailable(), http.StatusServiceUnavailable, "Identity service unavailable"},
		{auth.PermissionDenied(), http.StatusForbidden, "Insufficient permissions"},
	}

	for _, tc := range cases {
		rec, body := renderError(t, tc.err)
		if rec.Code != tc.status {
			t.Errorf("%v: status = %d, want %d", tc.err.Kind, rec.Code, tc.status)
		}
		if body["success"] != false {
			t.Errorf("%v: success = %v, want false", tc.err.Kind, body["success"])
		}
		if body["error"] != tc.message {
			t.Errorf("%v: error = %q, want %q", tc.err.Kind, body["error"], tc.message)
		}
	}
}

func TestErrorHandlerEchoHTTPError(t *testing.T) {
	rec, body := renderError(t, echo.NewHTTPError(http.StatusNotFound, "patient not found"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if body["error"] != "patient not found" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestErrorHandlerUnclassified(t *testing.T) {
	rec, body := renderError(t, fmt.Errorf("pgx: connection reset"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if body["error"] != "internal server error" {
		t.Errorf("internal detail leaked: %q", body["error"])
	}
}
