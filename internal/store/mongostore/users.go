package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/userapi/internal/domain/user"
	"github.com/geocoder89/userapi/internal/observability"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type UsersRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewUsersRepo(db *mongo.Database, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		coll: db.Collection(usersCollection),
		prom: prom,
	}
}

func byUserID(userID int64) bson.M {
	return bson.M{"user_id": userID}
}

func (r *UsersRepo) FindByUserID(ctx context.Context, userID int64) (user.User, error) {
	var u user.User

	err := r.prom.ObserveDB("users.find", func() error {
		return r.coll.FindOne(ctx, byUserID(userID)).Decode(&u)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	var res *mongo.InsertOneResult

	err := r.prom.ObserveDB("users.insert", func() error {
		var err error
		res, err = r.coll.InsertOne(ctx, u)
		return err
	})

	if err != nil {
		return user.User{}, err
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return user.User{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	u.ID = id
	return u, nil
}

func (r *UsersRepo) UpdateByUserID(ctx context.Context, userID int64, fields bson.M) (int64, error) {
	var res *mongo.UpdateResult

	err := r.prom.ObserveDB("users.update", func() error {
		var err error
		res, err = r.coll.UpdateOne(ctx, byUserID(userID), bson.M{"$set": fields})
		return err
	})

	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *UsersRepo) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	var res *mongo.DeleteResult

	err := r.prom.ObserveDB("users.delete", func() error {
		var err error
		res, err = r.coll.DeleteOne(ctx, byUserID(userID))
		return err
	})

	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
