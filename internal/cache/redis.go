package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/geocoder89/userapi/internal/domain/user"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Redis stores users BSON-encoded so extra fields and the ObjectID round-trip.
// Any Redis fault degrades to a miss.
type Redis struct {
	rdb     *redis.Client
	ttl     time.Duration
	breaker *Breaker
}

func NewRedis(cfg RedisConfig, ttl time.Duration) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return NewRedisFromClient(rdb, ttl)
}

func NewRedisFromClient(rdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Redis{rdb: rdb, ttl: ttl, breaker: NewBreaker(BreakerConfig{})}
}

func (c *Redis) Get(ctx context.Context, userID int64) (user.User, bool) {
	var raw []byte
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		raw, err = c.rdb.Get(ctx, key(userID)).Bytes()
		if errors.Is(err, redis.Nil) {
			// a miss is a healthy answer
			return nil
		}
		return err
	})

	if err == nil && raw == nil {
		return user.User{}, false
	}

	if err != nil {
		if !errors.Is(err, ErrCircuitOpen) {
			slog.Default().WarnContext(ctx, "cache get failed", "user_id", userID, "err", err)
		}
		return user.User{}, false
	}

	var u user.User
	if err := bson.Unmarshal(raw, &u); err != nil {
		slog.Default().WarnContext(ctx, "cache decode failed", "user_id", userID, "err", err)
		return user.User{}, false
	}

	return u, true
}

func (c *Redis) Set(ctx context.Context, u user.User) {
	raw, err := bson.Marshal(u)
	if err != nil {
		slog.Default().WarnContext(ctx, "cache encode failed", "user_id", u.UserID, "err", err)
		return
	}

	err = c.breaker.Do(ctx, func(ctx context.Context) error {
		return c.rdb.Set(ctx, key(u.UserID), raw, c.ttl).Err()
	})
	if err != nil && !errors.Is(err, ErrCircuitOpen) {
		slog.Default().WarnContext(ctx, "cache set failed", "user_id", u.UserID, "err", err)
	}
}

func (c *Redis) Delete(ctx context.Context, userID int64) {
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		return c.rdb.Del(ctx, key(userID)).Err()
	})
	if err != nil && !errors.Is(err, ErrCircuitOpen) {
		slog.Default().WarnContext(ctx, "cache delete failed", "user_id", userID, "err", err)
	}
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.rdb.Close()
}
