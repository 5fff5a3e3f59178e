package mongostore

import (
	"context"
	"log/slog"

	"github.com/geocoder89/userapi/internal/domain/user"
	"github.com/geocoder89/userapi/internal/observability"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Conn is one acquired client. Release disconnects it when the provider owns it.
type Conn struct {
	client *mongo.Client
	users  *UsersRepo
	owned  bool
}

func (c *Conn) Users() user.Repository {
	return c.users
}

func (c *Conn) Release(ctx context.Context) error {
	if !c.owned || c.client == nil {
		return nil
	}

	client := c.client
	c.client = nil

	return client.Disconnect(ctx)
}

// Dialer opens a fresh client per Acquire and closes it on Release. This is the
// serverless mode: nothing survives the request-handling cycle.
type Dialer struct {
	cfg  Config
	prom *observability.Prom
}

func NewDialer(cfg Config, prom *observability.Prom) *Dialer {
	return &Dialer{cfg: cfg, prom: prom}
}

func (d *Dialer) Acquire(ctx context.Context) (user.Session, error) {
	client, err := mongo.Connect(clientOptions(d.cfg))

	if err != nil {
		return nil, err
	}

	slog.Default().DebugContext(ctx, "mongo client connected", "database", d.cfg.Database)

	db := client.Database(d.cfg.Database)

	return &Conn{
		client: client,
		users:  NewUsersRepo(db, d.prom),
		owned:  true,
	}, nil
}

// Shared hands out one long-lived client. Release is a no-op; call Close at shutdown.
type Shared struct {
	client *mongo.Client
	users  *UsersRepo
}

func NewShared(client *mongo.Client, database string, prom *observability.Prom) *Shared {
	return &Shared{
		client: client,
		users:  NewUsersRepo(client.Database(database), prom),
	}
}

func (s *Shared) Acquire(ctx context.Context) (user.Session, error) {
	return &Conn{client: s.client, users: s.users}, nil
}

func (s *Shared) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Shared) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
