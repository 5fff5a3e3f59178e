package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const usersCollection = "users"

type Config struct {
	URI      string
	Database string
	// Timeout bounds server selection and the initial connect.
	Timeout time.Duration
}

func clientOptions(cfg Config) *options.ClientOptions {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName("userapi").
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
}

// NewClient connects and pings, for callers that keep one client for the process.
func NewClient(ctx context.Context, cfg Config) (*mongo.Client, error) {
	client, err := mongo.Connect(clientOptions(cfg))

	if err != nil {
		return nil, err
	}

	err = client.Ping(ctx, readpref.Primary())

	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
