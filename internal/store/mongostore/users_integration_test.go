package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/userapi/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// These run against a real server: TEST_MONGO_URI=mongodb://127.0.0.1:27017 go test ./...
func testConfig(t *testing.T) Config {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	return Config{
		URI:      uri,
		Database: "userapi_test_" + bson.NewObjectID().Hex(),
		Timeout:  3 * time.Second,
	}
}

func TestUsersRepo_Lifecycle(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	client, err := NewClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Database(cfg.Database).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo := NewUsersRepo(client.Database(cfg.Database), nil)

	created, err := repo.Insert(ctx, user.User{UserID: 7, Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())

	got, err := repo.FindByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, "a@x.com", got.Email)

	matched, err := repo.UpdateByUserID(ctx, 7, bson.M{"name": "B", "nickname": "bee"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	got, err = repo.FindByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
	assert.Equal(t, "bee", got.Extra["nickname"])

	deleted, err := repo.DeleteByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindByUserID(ctx, 7)
	assert.ErrorIs(t, err, user.ErrNotFound)

	matched, err = repo.UpdateByUserID(ctx, 7, bson.M{"name": "C"})
	require.NoError(t, err)
	assert.Zero(t, matched)

	deleted, err = repo.DeleteByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestUsersRepo_MistypedUpdateReadsBack(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	client, err := NewClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Database(cfg.Database).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo := NewUsersRepo(client.Database(cfg.Database), nil)

	_, err = repo.Insert(ctx, user.User{UserID: 7, Name: "A", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = repo.UpdateByUserID(ctx, 7, bson.M{"name": int64(5), "email": bson.A{"a"}})
	require.NoError(t, err)

	got, err := repo.FindByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, int64(5), got.Extra["name"])
	assert.Equal(t, bson.A{"a"}, got.Extra["email"])
}

func TestDialer_ReleaseDisconnects(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	sess, err := NewDialer(cfg, nil).Acquire(ctx)
	require.NoError(t, err)

	_, err = sess.Users().FindByUserID(ctx, 424242)
	assert.ErrorIs(t, err, user.ErrNotFound)

	require.NoError(t, sess.Release(ctx))
	// second release is a no-op
	require.NoError(t, sess.Release(ctx))
}
