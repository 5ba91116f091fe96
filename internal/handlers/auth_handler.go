package handlers

import (
	"github.com/denizgokce/inkpad-backend/internal/auth"
	"github.com/denizgokce/inkpad-backend/internal/dto"
	"github.com/denizgokce/inkpad-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler proxies session management to the identity authority.
// This service never sees or stores passwords; it only transports the
// resulting session tokens as httpOnly cookies.
type AuthHandler struct {
	authority *auth.AuthorityClient
}

func NewAuthHandler(authority *auth.AuthorityClient) *AuthHandler {
	return &AuthHandler{authority: authority}
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Email and password are required",
		})
	}

	session, err := h.authority.SignUp(c.UserContext(), req.Email, req.Password, req.FullName)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	h.setSessionCookies(c, session)
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(session))
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Email and password are required",
		})
	}

	session, err := h.authority.SignInWithPassword(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid email or password",
		})
	}

	h.setSessionCookies(c, session)
	return c.JSON(sessionResponse(session))
}

// Callback completes a PKCE flow: the frontend hands over the auth
// code, we exchange it for a session.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	var req dto.CallbackRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Authorization code is required",
		})
	}

	session, err := h.authority.ExchangeCodeForSession(c.UserContext(), req.Code, req.CodeVerifier)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Code exchange failed",
		})
	}

	h.setSessionCookies(c, session)
	return c.JSON(sessionResponse(session))
}

func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if token := middleware.ExtractToken(c); token != "" {
		// Best effort: an already-dead session should still clear cookies.
		_ = h.authority.SignOut(c.UserContext(), token)
	}

	h.clearSessionCookies(c)
	return c.JSON(dto.MessageResponse{Message: "Signed out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	return c.JSON(dto.IdentityResponse{
		ID:            identity.ID,
		Email:         identity.Email,
		Name:          identity.DisplayName(),
		EmailVerified: identity.EmailVerified,
	})
}

func (h *AuthHandler) setSessionCookies(c *fiber.Ctx, session *auth.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    session.AccessToken,
		MaxAge:   session.ExpiresIn,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    session.RefreshToken,
		MaxAge:   60 * 60 * 24 * 30,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

func (h *AuthHandler) clearSessionCookies(c *fiber.Ctx) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			MaxAge:   -1,
			HTTPOnly: true,
			SameSite: "Lax",
			Path:     "/",
		})
	}
}

func sessionResponse(session *auth.Session) fiber.Map {
	resp := fiber.Map{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
	}
	if session.Identity != nil {
		resp["user"] = dto.IdentityResponse{
			ID:            session.Identity.ID,
			Email:         session.Identity.Email,
			Name:          session.Identity.DisplayName(),
			EmailVerified: session.Identity.EmailVerified,
		}
	}
	return resp
}
