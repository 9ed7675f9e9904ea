package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// DevIssuer is a built-in identity authority for development. It mints
// HS256 tokens and serves the same /auth/verify and /auth/profile contract
// as the production identity service, so the verifier can be pointed at the
// server itself when no external authority is configured.
//
// Production deployments always delegate to an external authority; tokens
// are never decoded locally outside this development path.
type DevIssuer struct {
	secret []byte
	ttl    time.Duration
	users  map[string]*Identity
}

type devClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// NewDevIssuer creates a dev issuer seeded with a handful of fixture users
// covering both grant shapes.
func NewDevIssuer(secret []byte) *DevIssuer {
	d := &DevIssuer{
		secret: secret,
		ttl:    8 * time.Hour,
		users:  make(map[string]*Identity),
	}

	d.AddUser(&Identity{
		SubjectID: "dev-admin",
		Username:  "admin",
		RoleName:  "admin",
		Role:      Role{Name: "admin", Permissions: FlatGrant("*")},
	})
	d.AddUser(&Identity{
		SubjectID: "dev-reception",
		Username:  "reception",
		RoleName:  "reception",
		Role: Role{Name: "reception", Permissions: TreeGrant(map[string]map[string]map[string]bool{
			"pages": {
				"patients": {"access": true, "create": true, "edit": true},
				"groups":   {"access": true},
			},
		})},
	})
	d.AddUser(&Identity{
		SubjectID: "dev-clinician",
		Username:  "clinician",
		RoleName:  "clinician",
		Role: Role{Name: "clinician", Permissions: TreeGrant(map[string]map[string]map[string]bool{
			"pages": {
				"patients": {"access": true, "edit": true},
				"clinical": {"access": true, "create_records": true},
			},
		})},
	})
	d.AddUser(&Identity{
		SubjectID: "dev-billing",
		Username:  "billing",
		RoleName:  "billing",
		Role:      Role{Name: "billing", Permissions: FlatGrant("billing.read", "billing.write", "patients.read")},
	})

	return d
}

// AddUser registers a fixture user keyed by username.
func (d *DevIssuer) AddUser(id *Identity) {
	d.users[id.Username] = id
}

// RegisterRoutes mounts the dev authority's endpoints on the given group.
func (d *DevIssuer) RegisterRoutes(g *echo.Group) {
	g.POST("/token", d.Token)
	g.GET("/verify", d.VerifyHandler)
	g.GET("/profile", d.ProfileHandler)
}

// IssueToken mints a signed token for the given fixture username.
func (d *DevIssuer) IssueToken(username string) (string, error) {
	id, ok := d.users[username]
	if !ok {
		return "", echo.NewHTTPError(http.StatusNotFound, "unknown user")
	}
	now := time.Now()
	claims := devClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d.ttl)),
		},
		Username: id.Username,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
}

// Token issues a token for a fixture user. Development only: no password.
func (d *DevIssuer) Token(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
	}
	if err := c.Bind(&body); err != nil || body.Username == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "username is required",
		})
	}
	token, err := d.IssueToken(body.Username)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"error":   "unknown user",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
	})
}

func (d *DevIssuer) resolve(c echo.Context) (*Identity, error) {
	token := bearerToken(c.Request().Header.Get("Authorization"))
	if token == "" {
		return nil, MissingCredential()
	}
	claims := &devClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return d.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return nil, InvalidCredential(http.StatusUnauthorized, "Invalid or expired token")
	}
	id, ok := d.users[claims.Username]
	if !ok {
		return nil, InvalidCredential(http.StatusUnauthorized, "Unknown subject")
	}
	return id, nil
}

// VerifyHandler implements GET /auth/verify.
func (d *DevIssuer) VerifyHandler(c echo.Context) error {
	id, err := d.resolve(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": id})
}

// ProfileHandler implements GET /auth/profile. The dev issuer returns the
// same payload as verify; a real authority may include more role detail.
func (d *DevIssuer) ProfileHandler(c echo.Context) error {
	id, err := d.resolve(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": id})
}
