package db_test

import (
	"context"
	"testing"

	"cafe_ordering/internal/config"
	"cafe_ordering/internal/db"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := db.OpenRedis(context.Background(), &config.Config{RedisAddr: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, rdb)
	assert.NoError(t, rdb.Close())
}

func TestOpenRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	rdb, err := db.OpenRedis(context.Background(), &config.Config{RedisAddr: addr})
	assert.Error(t, err)
	assert.Nil(t, rdb)
}
