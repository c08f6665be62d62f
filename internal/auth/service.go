package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"docket/internal/audit"
	"docket/internal/auth/store/revocation"
	"docket/internal/jwttoken"
	dErrors "docket/pkg/domain-errors"
	"docket/pkg/platform/sentinel"
	"docket/pkg/requestcontext"
)

var (
	tokenPairsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docket_token_pairs_issued_total",
		Help: "Total access/refresh token pairs issued",
	})
	tokenReuseDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docket_token_reuse_detected_total",
		Help: "Refresh attempts presenting an already-rotated refresh token",
	})
)

// Default token lifetimes.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Service is the token authority. Session state machine per logical session:
// Issued -> Refreshed (old refresh revoked) -> Expired | Revoked.
type Service struct {
	jwt         *jwttoken.Service
	revocations revocation.List
	auditor     *audit.Publisher
	logger      *slog.Logger
	accessTTL   time.Duration
	refreshTTL  time.Duration

	// refreshGroup deduplicates concurrent rotations of the same refresh
	// token: one rotation runs, every concurrent caller observes its pair.
	refreshGroup singleflight.Group
}

// NewService constructs the token authority. Zero TTLs fall back to defaults.
func NewService(jwt *jwttoken.Service, revocations revocation.List, auditor *audit.Publisher, logger *slog.Logger, accessTTL, refreshTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Service{
		jwt:         jwt,
		revocations: revocations,
		auditor:     auditor,
		logger:      logger,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

// Issue mints a fresh access/refresh pair for a user. Called on login and
// register success.
func (s *Service) Issue(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	now := requestcontext.Now(ctx)

	access, _, err := s.jwt.Generate(userID, jwttoken.TypeAccess, s.accessTTL, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint access token")
	}
	refresh, _, err := s.jwt.Generate(userID, jwttoken.TypeRefresh, s.refreshTTL, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint refresh token")
	}

	tokenPairsIssued.Inc()
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

// Verify validates an access token and resolves the actor behind it. Expired
// and malformed tokens both come back as CodeUnauthorized; they are logged
// distinctly for diagnostics.
func (s *Service) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := s.jwt.Parse(tokenString)
	if err != nil {
		if errors.Is(err, sentinel.ErrExpired) {
			s.logger.DebugContext(ctx, "access token expired")
		} else {
			s.logger.WarnContext(ctx, "access token invalid", "error", err)
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}
	if claims.TokenType != jwttoken.TypeAccess {
		s.logger.WarnContext(ctx, "non-access token presented for verification",
			"token_type", string(claims.TokenType))
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}
	return &Identity{UserID: userID, TokenID: claims.ID}, nil
}

// Refresh rotates a refresh token: the presented token's ID is revoked and a
// brand-new pair is issued. Reuse of an already-rotated token fails with
// CodeTokenReused and is treated as suspicious.
//
// Concurrent calls presenting the same token are collapsed by jti, so exactly
// one rotation runs and every caller observes the same new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.Parse(refreshToken)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
	}
	if claims.TokenType != jwttoken.TypeRefresh {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
	}

	pair, err, _ := s.refreshGroup.Do(claims.ID, func() (any, error) {
		return s.rotate(ctx, userID, claims)
	})
	if err != nil {
		return nil, err
	}
	return pair.(*TokenPair), nil
}

func (s *Service) rotate(ctx context.Context, userID uuid.UUID, claims *jwttoken.Claims) (*TokenPair, error) {
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Fail closed: allowing rotation while the list is unreadable would
		// let a stolen token through.
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "revocation store unavailable")
	}
	if revoked {
		tokenReuseDetected.Inc()
		s.logger.ErrorContext(ctx, "refresh token reuse detected",
			"user_id", userID.String(),
			"jti", claims.ID,
		)
		s.auditor.Emit(ctx, audit.Record{
			ActorID:       &userID,
			Action:        audit.ActionAuthRefresh,
			ResourceType:  "token",
			ResourceID:    claims.ID,
			Outcome:       audit.OutcomeFailure,
			FailureReason: "refresh token reuse",
		})
		return nil, dErrors.New(dErrors.CodeTokenReused, "refresh token already used")
	}

	// Revoke before minting: if the insert fails the old token stays live,
	// which is safe; the reverse order would not be.
	remaining := time.Until(claims.ExpiresAt.Time)
	if err := s.revocations.Revoke(ctx, claims.ID, remaining); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "revocation store unavailable")
	}

	pair, err := s.Issue(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.auditor.Emit(ctx, audit.Record{
		ActorID:      &userID,
		Action:       audit.ActionAuthRefresh,
		ResourceType: "token",
		ResourceID:   claims.ID,
		Outcome:      audit.OutcomeSuccess,
	})
	return pair, nil
}

// Revoke invalidates the presented refresh token (logout). An already-expired
// token is a no-op, not an error.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.Parse(refreshToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrExpired) {
			return nil
		}
		return dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
	}
	if claims.TokenType != jwttoken.TypeRefresh {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if err := s.revocations.Revoke(ctx, claims.ID, remaining); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "revocation store unavailable")
	}

	if userID, parseErr := uuid.Parse(claims.UserID); parseErr == nil {
		s.auditor.Emit(ctx, audit.Record{
			ActorID:      &userID,
			Action:       audit.ActionAuthLogout,
			ResourceType: "token",
			ResourceID:   claims.ID,
			Outcome:      audit.OutcomeSuccess,
		})
	}
	return nil
}
