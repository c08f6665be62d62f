//go:build integration

package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"docket/internal/auth/store/revocation"
	"docket/pkg/testutil/containers"
)

type RedisListSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	list  *revocation.RedisList
}

func TestRedisListSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisListSuite))
}

func (s *RedisListSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.list = revocation.NewRedisList(s.redis.Client)
}

func (s *RedisListSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisListSuite) TestRevokeThenCheck() {
	ctx := context.Background()

	s.Require().NoError(s.list.Revoke(ctx, "jti-abc", time.Hour))

	revoked, err := s.list.IsRevoked(ctx, "jti-abc")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = s.list.IsRevoked(ctx, "jti-other")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *RedisListSuite) TestEntryExpiresWithTTL() {
	ctx := context.Background()

	s.Require().NoError(s.list.Revoke(ctx, "jti-short", 500*time.Millisecond))

	revoked, err := s.list.IsRevoked(ctx, "jti-short")
	s.Require().NoError(err)
	s.True(revoked)

	s.Eventually(func() bool {
		revoked, err := s.list.IsRevoked(ctx, "jti-short")
		return err == nil && !revoked
	}, 5*time.Second, 100*time.Millisecond)
}

func (s *RedisListSuite) TestNonPositiveTTLIsNoOp() {
	ctx := context.Background()

	s.Require().NoError(s.list.Revoke(ctx, "jti-expired", -time.Minute))

	revoked, err := s.list.IsRevoked(ctx, "jti-expired")
	s.Require().NoError(err)
	s.False(revoked)
}
