package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key"
	testIssuer = "https://auth.example.com/auth/v1"
	testUserID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   testIssuer,
		"sub":   testUserID,
		"email": "ada@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
		"user_metadata": map[string]interface{}{
			"full_name":      "Ada Lovelace",
			"email_verified": true,
		},
	}
}

func TestVerifier_Verify_Valid(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer)
	token := signToken(t, testSecret, jwt.SigningMethodHS256, validClaims())

	identity, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testUserID, identity.ID)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "Ada Lovelace", identity.DisplayName())
}

func TestVerifier_Verify_EmptyToken(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer)

	identity, err := v.Verify("")
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestVerifier_Verify_WrongSecret(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer)
	token := signToken(t, "some-other-secret", jwt.SigningMethodHS256, validClaims())

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifier_Verify_WrongIssuer(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer)
	claims := validClaims()
	claims["iss"] = "https://rogue.example.com"
	token := signToken(t, testSecret, jwt.SigningMethodHS256, claims)

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifier_Verify_Expired(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer)
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signToken(t, testSecret, jwt.SigningMethodHS256, claims)

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifier_Verify_MissingExpiry(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer)
	claims := validClaims()
	delete(claims, "exp")
	token := signToken(t, testSecret, jwt.SigningMethodHS256, claims)

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifier_Verify_UnexpectedAlgorithm(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer)
	token := signToken(t, testSecret, jwt.SigningMethodHS512, validClaims())

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifier_Verify_MalformedSubject(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer)
	claims := validClaims()
	claims["sub"] = "not-a-uuid"
	token := signToken(t, testSecret, jwt.SigningMethodHS256, claims)

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifier_Verify_Garbage(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer)

	_, err := v.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIdentity_DisplayName_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		want     string
	}{
		{
			name: "full_name wins",
			identity: Identity{
				Email:        "grace@example.com",
				UserMetadata: map[string]interface{}{"full_name": "Grace Hopper", "name": "grace"},
			},
			want: "Grace Hopper",
		},
		{
			name: "name when no full_name",
			identity: Identity{
				Email:        "grace@example.com",
				UserMetadata: map[string]interface{}{"name": "grace"},
			},
			want: "grace",
		},
		{
			name: "email local part last",
			identity: Identity{
				Email:        "grace@example.com",
				UserMetadata: map[string]interface{}{},
			},
			want: "grace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.DisplayName())
		})
	}
}
