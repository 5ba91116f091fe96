package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TokenResolver is the slice of the identity authority the request
// authentication chain depends on.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*Identity, error)
}

// Session is the authority-issued credential pair.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	Identity     *Identity `json:"-"`
}

// AuthorityClient talks to the remote identity authority over HTTP.
// A single failed call surfaces as unauthenticated; no retries here.
type AuthorityClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewAuthorityClient(baseURL, apiKey string, timeout time.Duration) *AuthorityClient {
	return &AuthorityClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type authorityUser struct {
	ID               string                 `json:"id"`
	Email            string                 `json:"email"`
	EmailConfirmedAt *time.Time             `json:"email_confirmed_at"`
	CreatedAt        time.Time              `json:"created_at"`
	UserMetadata     map[string]interface{} `json:"user_metadata"`
	AppMetadata      map[string]interface{} `json:"app_metadata"`
}

func (u *authorityUser) identity() *Identity {
	id := &Identity{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailConfirmedAt != nil,
		CreatedAt:     u.CreatedAt,
		UserMetadata:  u.UserMetadata,
		AppMetadata:   u.AppMetadata,
	}
	if id.UserMetadata == nil {
		id.UserMetadata = map[string]interface{}{}
	}
	if id.AppMetadata == nil {
		id.AppMetadata = map[string]interface{}{}
	}
	return id
}

type sessionPayload struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int            `json:"expires_in"`
	User         *authorityUser `json:"user"`
}

type authorityError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

// ResolveToken verifies an opaque bearer token with the authority and
// returns the principal it belongs to.
func (c *AuthorityClient) ResolveToken(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build authority request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authority call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("authority rejected token: %s", readAuthorityError(resp))
	}

	var user authorityUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode authority user: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("authority returned no user id")
	}
	return user.identity(), nil
}

func (c *AuthorityClient) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	if fullName != "" {
		body["data"] = map[string]string{"full_name": fullName}
	}
	return c.postSession(ctx, "/auth/v1/signup", body)
}

func (c *AuthorityClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	return c.postSession(ctx, "/auth/v1/token?grant_type=password", map[string]interface{}{
		"email":    email,
		"password": password,
	})
}

// ExchangeCodeForSession completes a PKCE flow started by the frontend.
func (c *AuthorityClient) ExchangeCodeForSession(ctx context.Context, code, verifier string) (*Session, error) {
	return c.postSession(ctx, "/auth/v1/token?grant_type=pkce", map[string]interface{}{
		"auth_code":     code,
		"code_verifier": verifier,
	})
}

func (c *AuthorityClient) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to build authority request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("authority call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sign-out failed: %s", readAuthorityError(resp))
	}
	return nil
}

func (c *AuthorityClient) postSession(ctx context.Context, path string, body map[string]interface{}) (*Session, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build authority request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authority call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("authority returned status %d: %s", resp.StatusCode, readAuthorityError(resp))
	}

	var sp sessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&sp); err != nil {
		return nil, fmt.Errorf("failed to decode authority session: %w", err)
	}

	session := &Session{
		AccessToken:  sp.AccessToken,
		RefreshToken: sp.RefreshToken,
		ExpiresIn:    sp.ExpiresIn,
	}
	if sp.User != nil {
		session.Identity = sp.User.identity()
	}
	return session, nil
}

func readAuthorityError(resp *http.Response) string {
	var ae authorityError
	if err := json.NewDecoder(resp.Body).Decode(&ae); err == nil {
		if ae.ErrorDescription != "" {
			return ae.ErrorDescription
		}
		if ae.Message != "" {
			return ae.Message
		}
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
