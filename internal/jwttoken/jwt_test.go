package jwttoken

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/pkg/platform/sentinel"
)

func newTestService() *Service {
	return NewService("test-signing-key", "docket", "docket-api")
}

func TestGenerateAndParse(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, jti, err := svc.Generate(userID, TypeAccess, 15*time.Minute, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.Equal(t, jti, claims.ID)
}

func TestJTIsAreUnique(t *testing.T) {
	svc := newTestService()
	_, jti1, err := svc.Generate(uuid.New(), TypeRefresh, time.Hour, time.Now())
	require.NoError(t, err)
	_, jti2, err := svc.Generate(uuid.New(), TypeRefresh, time.Hour, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, jti1, jti2)
}

func TestParseExpiredReturnsClaims(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()
	token, jti, err := svc.Generate(userID, TypeRefresh, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrExpired))
	// Claims survive expiry so logout can still read the jti.
	require.NotNil(t, claims)
	assert.Equal(t, jti, claims.ID)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	svc := newTestService()
	token, _, err := svc.Generate(uuid.New(), TypeAccess, time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := svc.Parse(token[:len(token)-2] + "xx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrInvalidState))
	assert.Nil(t, claims)
}

func TestParseRejectsForeignKey(t *testing.T) {
	token, _, err := NewService("other-key", "docket", "docket-api").
		Generate(uuid.New(), TypeAccess, time.Hour, time.Now())
	require.NoError(t, err)

	_, err = newTestService().Parse(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrInvalidState))
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	token, _, err := NewService("test-signing-key", "someone-else", "docket-api").
		Generate(uuid.New(), TypeAccess, time.Hour, time.Now())
	require.NoError(t, err)

	_, err = newTestService().Parse(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrInvalidState))
}
