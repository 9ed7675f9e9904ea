package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// DefaultVerifyTimeout bounds each outbound call to the identity service so
// a slow authority cannot hold a request handler indefinitely.
const DefaultVerifyTimeout = 5 * time.Second

// Verifier delegates bearer-credential verification to the identity service.
// Tokens are forwarded opaque and never decoded locally; only the identity
// service can mint or invalidate them.
//
// Construct one Verifier at startup with an explicit HTTP client and share
// it across handlers. It performs no caching: every protected request is
// re-verified, so a revoked or expired token is rejected on the very next
// request.
type Verifier struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewVerifier creates a Verifier against the identity service at baseURL.
// A nil client falls back to a plain http.Client; a non-positive timeout
// falls back to DefaultVerifyTimeout.
func NewVerifier(baseURL string, timeout time.Duration, client *http.Client) *Verifier {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	return &Verifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		timeout: timeout,
	}
}

// Verify forwards the Authorization header to the identity service's
// verification endpoint and returns the resolved identity.
func (v *Verifier) Verify(ctx context.Context, authorization string) (*Identity, error) {
	return v.fetchIdentity(ctx, "/auth/verify", authorization)
}

// Profile fetches the subject's role and permission detail from the
// identity service's profile endpoint.
func (v *Verifier) Profile(ctx context.Context, authorization string) (*Identity, error) {
	return v.fetchIdentity(ctx, "/auth/profile", authorization)
}

func (v *Verifier) fetchIdentity(ctx context.Context, path, authorization string) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+path, nil)
	if err != nil {
		return nil, AuthorityUnavailable()
	}
	req.Header.Set("Authorization", authorization)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, AuthorityUnavailable()
	}
	defer resp.Body.Close()

	// A 5xx is not a verdict on the credential.
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, AuthorityUnavailable()
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, InvalidCredential(resp.StatusCode, issuerErrorMessage(resp))
	}

	var payload struct {
		User *Identity `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.User == nil {
		return nil, AuthorityUnavailable()
	}
	return payload.User, nil
}

// issuerErrorMessage extracts a human-readable message from an identity
// service error body, tolerating both {error} and {message} field names.
func issuerErrorMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

// bearerToken extracts the token from an Authorization header value,
// returning "" when the header is absent or not a bearer credential.
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Middleware returns echo middleware that authenticates every request
// through the identity service and attaches the resolved identity to the
// request context. Requests without a bearer token are rejected before any
// outbound call is made.
func (v *Verifier) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if bearerToken(header) == "" {
				return MissingCredential()
			}
			id, err := v.Verify(c.Request().Context(), header)
			if err != nil {
				return err
			}
			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	}
}

// OptionalMiddleware attempts verification but proceeds without an identity
// on any failure. Use it only for routes that vary behavior by whether a
// user is present without requiring one.
func (v *Verifier) OptionalMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if bearerToken(header) == "" {
				return next(c)
			}
			id, err := v.Verify(c.Request().Context(), header)
			if err != nil {
				return next(c)
			}
			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	}
}
