// Package app holds the wiring shared by the HTTP server and the Lambda entry point.
package app

import (
	"github.com/geocoder89/userapi/internal/cache"
	"github.com/geocoder89/userapi/internal/config"
	"github.com/geocoder89/userapi/internal/http/handlers"
	"github.com/geocoder89/userapi/internal/store/mongostore"
)

// NewCache builds the configured read-through cache. The returned close func is
// never nil.
func NewCache(cfg config.Config) (handlers.UserCache, func() error) {
	switch cfg.CacheBackend {
	case config.CacheMemory:
		return cache.NewMemory(cfg.CacheTTL), func() error { return nil }
	case config.CacheRedis:
		c := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.CacheTTL)
		return c, c.Close
	default:
		return nil, func() error { return nil }
	}
}

func StoreConfig(cfg config.Config) mongostore.Config {
	return mongostore.Config{URI: cfg.MongoURI, Database: cfg.MongoDB, Timeout: cfg.DBTimeout}
}
