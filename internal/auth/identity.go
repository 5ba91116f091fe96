package auth

import (
	"strings"
	"time"
)

// Identity is a verified principal resolved from a bearer credential.
// It lives for the duration of one request; nothing caches it.
type Identity struct {
	ID            string
	Email         string
	EmailVerified bool
	CreatedAt     time.Time

	// Provider-supplied metadata: user-controlled and provider-controlled.
	UserMetadata map[string]interface{}
	AppMetadata  map[string]interface{}
}

// DisplayName resolves a human-readable name: metadata full_name, then
// metadata name, then the local part of the email.
func (i *Identity) DisplayName() string {
	if name, ok := i.UserMetadata["full_name"].(string); ok && name != "" {
		return name
	}
	if name, ok := i.UserMetadata["name"].(string); ok && name != "" {
		return name
	}
	return strings.Split(i.Email, "@")[0]
}
