package auth

import "net/http"

// Kind classifies an authorization failure.
type Kind int

const (
	// KindMissingCredential: no bearer token on the request. The identity
	// service is never called.
	KindMissingCredential Kind = iota
	// KindInvalidCredential: the identity service explicitly rejected the
	// token. Its status code is propagated; the request is not retried.
	KindInvalidCredential
	// KindAuthorityUnavailable: the identity service gave no definitive
	// verdict (network error, timeout, or 5xx). Distinct from rejection;
	// callers may retry the whole request later.
	KindAuthorityUnavailable
	// KindPermissionDenied: identity resolved but the grant does not satisfy
	// the required capability.
	KindPermissionDenied
)

func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindAuthorityUnavailable:
		return "authority_unavailable"
	case KindPermissionDenied:
		return "permission_denied"
	}
	return "unknown"
}

// Error is a terminal per-request authorization failure. The HTTP error
// handler renders it as a {success:false, error:...} JSON body with the
// carried status code.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// MissingCredential is returned when the Authorization header carries no
// bearer token.
func MissingCredential() *Error {
	return &Error{Kind: KindMissingCredential, Status: http.StatusUnauthorized, Message: "Access token required"}
}

// AuthenticationRequired is returned by guards when no identity is present
// on the request context.
func AuthenticationRequired() *Error {
	return &Error{Kind: KindMissingCredential, Status: http.StatusUnauthorized, Message: "Authentication required"}
}

// InvalidCredential propagates an explicit rejection from the identity
// service, keeping its status code where one was given.
func InvalidCredential(status int, message string) *Error {
	if status < 400 || status >= 500 {
		status = http.StatusUnauthorized
	}
	if message == "" {
		message = "Invalid or expired token"
	}
	return &Error{Kind: KindInvalidCredential, Status: status, Message: message}
}

// AuthorityUnavailable signals that the identity service could not be
// reached or returned no definitive verdict.
func AuthorityUnavailable() *Error {
	return &Error{Kind: KindAuthorityUnavailable, Status: http.StatusServiceUnavailable, Message: "Identity service unavailable"}
}

// PermissionDenied signals that the resolved identity's grant does not
// satisfy the required capability.
func PermissionDenied() *Error {
	return &Error{Kind: KindPermissionDenied, Status: http.StatusForbidden, Message: "Insufficient permissions"}
}
