package auth

import "context"

type contextKey string

const identityKey contextKey = "identity"

// Role is a named role together with its permission grant, as returned by
// the identity service. Roles are managed by the identity service's
// administration screens; this package only reads them.
type Role struct {
	Name        string          `json:"name"`
	Permissions PermissionGrant `json:"permissions"`
}

// Identity is the resolved, request-scoped representation of the acting
// user. It is constructed fresh on every request from the identity service's
// verification response and discarded when the request completes.
type Identity struct {
	SubjectID string `json:"subject_id"`
	Username  string `json:"username"`
	RoleName  string `json:"role_name"`
	Role      Role   `json:"role"`
}

// WithIdentity returns a context carrying the resolved identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity attached by the verifier
// middleware, or nil when the request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}
