package middleware

import (
	"context"
	"net/http"

	"github.com/betis-escocia/backend/internal/server"
	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/labstack/echo/v4"
)

const (
	// RoleAdmin is the Identity role of club administrators.
	RoleAdmin = "admin"
	// RoleUser is the Identity role of every other signed-in supporter.
	RoleUser = "user"
)

// Identity is the caller resolved from a Clerk session token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// sessionClaims are the custom claims added to the Clerk session token
// template: {"metadata": "{{user.public_metadata}}", "email": "{{user.primary_email_address}}"}.
type sessionClaims struct {
	Email    string `json:"email"`
	Metadata struct {
		Role string `json:"role"`
	} `json:"metadata"`
}

// AuthMiddleware resolves the caller identity from the Authorization header.
type AuthMiddleware struct {
	server *server.Server
}

// NewAuthMiddleware constructs an AuthMiddleware and configures the Clerk
// secret key used to fetch the JWKS.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthMiddleware{
		server: s,
	}
}

// ResolveIdentity is a global, non-rejecting middleware.
//
// A request without an Authorization header continues anonymously. A request
// whose token does not verify is logged and also continues anonymously, so
// routes that need an identity answer 401 from the handler wrapper and public
// routes keep working with a stale token. A verified token places an
// *Identity on the echo context under IdentityKey.
func (auth *AuthMiddleware) ResolveIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var nextErr error

		failure := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth.server.Logger.Warn().
				Str("function", "ResolveIdentity").
				Str("request_id", GetRequestID(c)).
				Msg("session token rejected, continuing anonymously")
			nextErr = next(c)
		})

		resolved := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.SetRequest(r)
			if claims, ok := clerk.SessionClaimsFromContext(r.Context()); ok {
				SetIdentity(c, identityFromClaims(claims, auth.server.Config.Auth.AdminRole))
			}
			nextErr = next(c)
		})

		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(failure),
			clerkhttp.CustomClaimsConstructor(func(context.Context) any {
				return &sessionClaims{}
			}),
		)(resolved).ServeHTTP(c.Response(), c.Request())

		return nextErr
	}
}

func identityFromClaims(claims *clerk.SessionClaims, adminRole string) *Identity {
	id := &Identity{UserID: claims.Subject, Role: RoleUser}

	if custom, ok := claims.Custom.(*sessionClaims); ok && custom != nil {
		id.Email = custom.Email
		if adminRole != "" && custom.Metadata.Role == adminRole {
			id.Role = RoleAdmin
		}
	}

	return id
}
