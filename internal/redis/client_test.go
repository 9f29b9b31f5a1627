package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/redis"
)

type ClientTestSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestNewClientRequiresEndpoint() {
	_, err := redis.NewClient("", nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ClientTestSuite) TestPing() {
	mr := miniredis.RunT(s.T())

	client, err := redis.NewClient(mr.Addr(), &redis.Options{PoolSize: 2})
	s.Require().NoError(err)
	defer client.Close()

	s.NoError(redis.Ping(context.Background(), client, time.Second))

	mr.Close()
	err = redis.Ping(context.Background(), client, 200*time.Millisecond)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}
