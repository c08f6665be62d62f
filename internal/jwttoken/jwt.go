// Package jwttoken handles minting and parsing of the signed, self-describing
// access and refresh tokens. Tokens are not persisted; only revoked token IDs
// are (see internal/auth/store/revocation).
package jwttoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"docket/pkg/platform/sentinel"
)

// TokenType discriminates access from refresh tokens. Carried explicitly in
// the claims so a refresh token can never pass an access check.
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

// Claims are the JWT claims for both token types. The registered ID claim
// (jti) is the unique, unguessable token ID rotation and revocation key on.
type Claims struct {
	UserID    string    `json:"user_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Service signs and parses tokens with a shared HMAC key.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

// NewService constructs a token service.
func NewService(signingKey, issuer, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// Generate mints a signed token of the given type and returns it with its jti.
func (s *Service) Generate(userID uuid.UUID, typ TokenType, ttl time.Duration, now time.Time) (string, string, error) {
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID.String(),
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        jti,
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, jti, nil
}

// Parse validates signature and registered claims.
//
// Error contract: an expired-but-otherwise-valid token returns its claims
// alongside sentinel.ErrExpired (callers like logout tolerate expiry);
// anything else returns sentinel.ErrInvalidState with nil claims.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && parsed != nil {
			if claims, ok := parsed.Claims.(*Claims); ok {
				return claims, fmt.Errorf("token: %w", sentinel.ErrExpired)
			}
		}
		return nil, fmt.Errorf("token: %w", sentinel.ErrInvalidState)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("token claims: %w", sentinel.ErrInvalidState)
	}
	return claims, nil
}
