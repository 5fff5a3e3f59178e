package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthModeJWT  = "jwt"
	AuthModeNone = "none"

	UpdatePolicyPermissive = "permissive"
	UpdatePolicyStrict     = "strict"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set when AUTH_MODE=jwt")

type Config struct {
	Env  string
	Port int

	MongoURI  string
	MongoDB   string
	DBTimeout time.Duration

	AuthMode          string
	JWTSecret         string
	TokenTTL          time.Duration
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string

	UpdatePolicy string

	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins []string

	OTLPEndpoint string
	ServiceName  string
}

// Load reads the configuration from the environment. A .env file in the working
// directory is honoured when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		MongoURI:  getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:   getEnv("MONGO_DB", "MyDatabase"),
		DBTimeout: getEnvDuration("DB_TIMEOUT", 5*time.Second),

		AuthMode:          strings.ToLower(getEnv("AUTH_MODE", AuthModeJWT)),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          getEnvDuration("TOKEN_TTL", time.Hour),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "password"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		UpdatePolicy: strings.ToLower(getEnv("UPDATE_POLICY", UpdatePolicyPermissive)),

		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", CacheNone)),
		CacheTTL:      getEnvDuration("CACHE_TTL", 30*time.Second),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "userapi"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.AuthMode {
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return ErrMissingJWTSecret
		}
	case AuthModeNone:
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	switch c.UpdatePolicy {
	case UpdatePolicyPermissive, UpdatePolicyStrict:
	default:
		return fmt.Errorf("unknown UPDATE_POLICY %q", c.UpdatePolicy)
	}

	switch c.CacheBackend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	return nil
}

func (c Config) AuthEnabled() bool {
	return c.AuthMode == AuthModeJWT
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			return fallback
		}

		return d
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
