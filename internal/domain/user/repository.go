package user

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmptyUpdate = errors.New("no fields to update")
)

// Repository is the data access surface for users keyed by user_id.
type Repository interface {
	FindByUserID(ctx context.Context, userID int64) (User, error)
	Insert(ctx context.Context, u User) (User, error)
	UpdateByUserID(ctx context.Context, userID int64, fields bson.M) (matched int64, err error)
	DeleteByUserID(ctx context.Context, userID int64) (deleted int64, err error)
}

// Session is one acquired store connection. Release must be called on every path.
type Session interface {
	Users() Repository
	Release(ctx context.Context) error
}

type SessionProvider interface {
	Acquire(ctx context.Context) (Session, error)
}
