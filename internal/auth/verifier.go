package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMissing = errors.New("no access token presented")
	ErrTokenInvalid = errors.New("invalid or expired access token")
)

// Verifier checks self-contained signed credentials against a shared
// secret. It performs no I/O; a failure here only means the fast path
// is unavailable, the caller decides whether to fall back.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	if _, err := uuid.Parse(sub); err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrTokenInvalid)
	}

	identity := &Identity{
		ID:           sub,
		UserMetadata: map[string]interface{}{},
		AppMetadata:  map[string]interface{}{},
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		identity.UserMetadata = meta
	}
	if meta, ok := claims["app_metadata"].(map[string]interface{}); ok {
		identity.AppMetadata = meta
	}
	if verified, ok := identity.UserMetadata["email_verified"].(bool); ok {
		identity.EmailVerified = verified
	}

	return identity, nil
}
