package user

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/internal/audit"
	"docket/internal/auth"
	"docket/internal/auth/store/revocation"
	"docket/internal/jwttoken"
	dErrors "docket/pkg/domain-errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T) (*Service, *audit.MemoryStore) {
	t.Helper()
	logger := discardLogger()
	auditStore := audit.NewMemoryStore()
	pub := audit.NewPublisher(auditStore, logger)
	tokens := auth.NewService(
		jwttoken.NewService("test-key", "docket", "docket-api"),
		revocation.NewMemoryList(), pub, logger,
		15*time.Minute, 7*24*time.Hour,
	)
	return NewService(NewMemoryStore(), tokens, pub, logger), auditStore
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc, auditStore := newService(t)

	u, pair, err := svc.Register(context.Background(), "Alice@Example.com", "Alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)

	recs := auditStore.All()
	require.NotEmpty(t, recs)
	assert.Equal(t, audit.ActionAuthRegister, recs[len(recs)-1].Action)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.Register(context.Background(), "a@example.com", "A", "password123")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "a@example.com", "A2", "password456")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeConflict))
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.Register(context.Background(), "not-an-email", "A", "password123")
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	_, _, err = svc.Register(context.Background(), "a@example.com", "A", "short")
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.Register(context.Background(), "a@example.com", "A", "password123")
	require.NoError(t, err)

	u, pair, err := svc.Login(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, auditStore := newService(t)

	_, _, err := svc.Register(context.Background(), "a@example.com", "A", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "a@example.com", "wrong-password")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))

	// Failure is audited with no actor attached.
	recs := auditStore.All()
	last := recs[len(recs)-1]
	assert.Equal(t, audit.ActionAuthLogin, last.Action)
	assert.Equal(t, audit.OutcomeFailure, last.Outcome)
	assert.Nil(t, last.ActorID)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "password123")
	require.Error(t, err)
	// Indistinguishable from a wrong password.
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}
