package app

import (
	"testing"
	"time"

	"github.com/geocoder89/userapi/internal/cache"
	"github.com/geocoder89/userapi/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache(t *testing.T) {
	c, closeFn := NewCache(config.Config{CacheBackend: config.CacheNone})
	assert.Nil(t, c)
	require.NotNil(t, closeFn)
	assert.NoError(t, closeFn())

	c, closeFn = NewCache(config.Config{CacheBackend: config.CacheMemory, CacheTTL: time.Minute})
	assert.IsType(t, &cache.Memory{}, c)
	assert.NoError(t, closeFn())

	// go-redis dials lazily, so building the client needs no server
	c, closeFn = NewCache(config.Config{CacheBackend: config.CacheRedis, RedisAddr: "127.0.0.1:0"})
	assert.IsType(t, &cache.Redis{}, c)
	assert.NoError(t, closeFn())
}

func TestStoreConfig(t *testing.T) {
	sc := StoreConfig(config.Config{MongoURI: "mongodb://db:27017", MongoDB: "MyDatabase", DBTimeout: time.Second})

	assert.Equal(t, "mongodb://db:27017", sc.URI)
	assert.Equal(t, "MyDatabase", sc.Database)
	assert.Equal(t, time.Second, sc.Timeout)
}
