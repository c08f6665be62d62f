// Package auth is the token authority: it issues, verifies, rotates and
// revokes the access/refresh token pairs every authenticated request rides on.
package auth

import (
	"github.com/google/uuid"
)

// TokenPair is what callers get on login, register and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}

// Identity is the verified actor a valid access token resolves to. The
// transport layer threads it into request context for audit linkage.
type Identity struct {
	UserID  uuid.UUID
	TokenID string
}
