package middleware

import (
	"log/slog"
	"strings"

	"github.com/denizgokce/inkpad-backend/internal/auth"
	"github.com/denizgokce/inkpad-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const (
	// AccessTokenCookie is checked before the Authorization header.
	AccessTokenCookie  = "sb-access-token"
	RefreshTokenCookie = "sb-refresh-token"

	identityKey = "identity"
)

// Authenticator resolves a bearer credential to an identity through an
// ordered chain: local signature verification first, then one call to
// the remote authority. Every successful resolution provisions the
// local user row before the handler runs.
type Authenticator struct {
	verifier    *auth.Verifier
	authority   auth.TokenResolver
	provisioner *auth.Provisioner
}

func NewAuthenticator(verifier *auth.Verifier, authority auth.TokenResolver, provisioner *auth.Provisioner) *Authenticator {
	return &Authenticator{
		verifier:    verifier,
		authority:   authority,
		provisioner: provisioner,
	}
}

// RequireAuth rejects requests that cannot be resolved to an identity.
func (a *Authenticator) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ExtractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Access token required",
			})
		}

		identity := a.resolve(c, token)
		if identity == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid or expired token",
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// OptionalAuth attaches an identity when one can be resolved and
// proceeds anonymously otherwise.
func (a *Authenticator) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := ExtractToken(c); token != "" {
			if identity := a.resolve(c, token); identity != nil {
				c.Locals(identityKey, identity)
			}
		}
		return c.Next()
	}
}

// resolve runs the verification chain and, on success, the provisioning
// step. Provisioning failures are logged and swallowed: the local
// mirror lagging must not turn an authenticated request away.
func (a *Authenticator) resolve(c *fiber.Ctx, token string) *auth.Identity {
	identity, err := a.verifier.Verify(token)
	if err != nil {
		identity, err = a.authority.ResolveToken(c.UserContext(), token)
		if err != nil {
			return nil
		}
	}

	if err := a.provisioner.EnsureExists(c.UserContext(), identity); err != nil {
		slog.Error("user provisioning failed", "user_id", identity.ID, "error", err)
	}
	return identity
}

// ExtractToken pulls the bearer credential from the access-token cookie
// or, failing that, the Authorization header.
func ExtractToken(c *fiber.Ctx) string {
	if token := c.Cookies(AccessTokenCookie); token != "" {
		return token
	}
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// GetIdentity returns the authenticated identity, or nil on routes
// using OptionalAuth when no credential resolved.
func GetIdentity(c *fiber.Ctx) *auth.Identity {
	if identity, ok := c.Locals(identityKey).(*auth.Identity); ok {
		return identity
	}
	return nil
}
