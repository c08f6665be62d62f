package user

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"docket/internal/audit"
	"docket/internal/auth"
	dErrors "docket/pkg/domain-errors"
	"docket/pkg/platform/sentinel"
	"docket/pkg/requestcontext"
)

const minPasswordLen = 8

// Service wires account creation and login to the token authority.
type Service struct {
	users   Store
	tokens  *auth.Service
	auditor *audit.Publisher
	logger  *slog.Logger
}

// NewService constructs the user service.
func NewService(users Store, tokens *auth.Service, auditor *audit.Publisher, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, auditor: auditor, logger: logger}
}

// Register creates an account and issues its first token pair.
func (s *Service) Register(ctx context.Context, email, name, password string) (*User, *auth.TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "invalid email address")
	}
	if len(password) < minPasswordLen {
		return nil, nil, dErrors.Newf(dErrors.CodeBadRequest, "password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	now := requestcontext.Now(ctx)
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "user store unavailable")
	}

	pair, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}

	s.auditor.Emit(ctx, audit.Record{
		ActorID:      &u.ID,
		Action:       audit.ActionAuthRegister,
		ResourceType: "user",
		ResourceID:   u.ID.String(),
		Outcome:      audit.OutcomeSuccess,
	})
	return u, pair, nil
}

// Login verifies credentials and issues a token pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *auth.TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.emitLoginFailure(ctx, "unknown email")
			return nil, nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "user store unavailable")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.emitLoginFailure(ctx, "password mismatch")
		return nil, nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	pair, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}

	s.auditor.Emit(ctx, audit.Record{
		ActorID:      &u.ID,
		Action:       audit.ActionAuthLogin,
		ResourceType: "user",
		ResourceID:   u.ID.String(),
		Outcome:      audit.OutcomeSuccess,
	})
	return u, pair, nil
}

// GetByID loads an account.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "user store unavailable")
	}
	return u, nil
}

// emitLoginFailure records a failed attempt with no actor: the caller was
// never authenticated, so only the hashed IP and request ID identify it.
func (s *Service) emitLoginFailure(ctx context.Context, reason string) {
	s.auditor.Emit(ctx, audit.Record{
		Action:        audit.ActionAuthLogin,
		ResourceType:  "user",
		Outcome:       audit.OutcomeFailure,
		FailureReason: reason,
	})
}
