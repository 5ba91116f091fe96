package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorityClient_ResolveToken(t *testing.T) {
	confirmedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		require.Equal(t, "Bearer opaque-token", r.Header.Get("Authorization"))
		require.Equal(t, "anon-key", r.Header.Get("apikey"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                 testUserID,
			"email":              "ada@example.com",
			"email_confirmed_at": confirmedAt,
			"user_metadata":      map[string]interface{}{"full_name": "Ada Lovelace"},
		})
	}))
	defer srv.Close()

	client := NewAuthorityClient(srv.URL, "anon-key", 5*time.Second)
	identity, err := client.ResolveToken(context.Background(), "opaque-token")
	require.NoError(t, err)
	assert.Equal(t, testUserID, identity.ID)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "Ada Lovelace", identity.DisplayName())
}

func TestAuthorityClient_ResolveToken_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"msg": "invalid JWT"})
	}))
	defer srv.Close()

	client := NewAuthorityClient(srv.URL, "anon-key", 5*time.Second)
	identity, err := client.ResolveToken(context.Background(), "bad-token")
	assert.Nil(t, identity)
	assert.ErrorContains(t, err, "invalid JWT")
}

func TestAuthorityClient_ResolveToken_EmptyUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
	}))
	defer srv.Close()

	client := NewAuthorityClient(srv.URL, "anon-key", 5*time.Second)
	_, err := client.ResolveToken(context.Background(), "token")
	assert.ErrorContains(t, err, "no user id")
}

func TestAuthorityClient_SignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ada@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "at",
			"refresh_token": "rt",
			"expires_in":    3600,
			"user":          map[string]interface{}{"id": testUserID, "email": "ada@example.com"},
		})
	}))
	defer srv.Close()

	client := NewAuthorityClient(srv.URL, "anon-key", 5*time.Second)
	session, err := client.SignInWithPassword(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "rt", session.RefreshToken)
	assert.Equal(t, 3600, session.ExpiresIn)
	require.NotNil(t, session.Identity)
	assert.Equal(t, testUserID, session.Identity.ID)
}

func TestAuthorityClient_SignIn_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	}))
	defer srv.Close()

	client := NewAuthorityClient(srv.URL, "anon-key", 5*time.Second)
	_, err := client.SignInWithPassword(context.Background(), "ada@example.com", "wrong")
	assert.ErrorContains(t, err, "Invalid login credentials")
}

func TestAuthorityClient_SignOut(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Equal(t, "/auth/v1/logout", r.URL.Path)
		require.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewAuthorityClient(srv.URL, "anon-key", 5*time.Second)
	require.NoError(t, client.SignOut(context.Background(), "at"))
	assert.True(t, called)
}

func TestAuthorityClient_Unreachable(t *testing.T) {
	client := NewAuthorityClient("http://127.0.0.1:1", "anon-key", 100*time.Millisecond)

	_, err := client.ResolveToken(context.Background(), "token")
	assert.Error(t, err)
}
