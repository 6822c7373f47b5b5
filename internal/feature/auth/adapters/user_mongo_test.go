package adapters

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"descripto_backend/internal/feature/auth/domain/entity"
	"descripto_backend/internal/feature/auth/usecase"
	"descripto_backend/internal/platform/password"
)

// setupMongoRepo はMONGO_URIが設定されている場合のみテスト用データベースを用意します。
func setupMongoRepo(t *testing.T) *userMongo {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database(fmt.Sprintf("descripto_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo, err := NewUserMongo(ctx, db, password.NewBcryptHasher(bcrypt.MinCost))
	require.NoError(t, err)
	return repo
}

func TestUserMongo_CreateAndFind(t *testing.T) {
	repo := setupMongoRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, entity.NewUser{Email: "A@Example.com", Password: "Abcd123!"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, entity.NewUser{Email: "b@example.com", GoogleID: "g-1"})
	require.NoError(t, err)

	assert.Equal(t, uint(1), a.ID)
	assert.Equal(t, uint(2), b.ID)
	assert.Equal(t, "a@example.com", a.Email)
	assert.True(t, a.HasPassword())
	assert.True(t, a.IsActive)

	got, err := repo.FindByEmail(ctx, "a@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = repo.FindByGoogleID(ctx, "g-1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	got, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", got.Email)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestUserMongo_Duplicates(t *testing.T) {
	repo := setupMongoRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, entity.NewUser{Email: "a@example.com", GoogleID: "g-1"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, entity.NewUser{Email: "a@example.com", Password: "Abcd123!"})
	assert.ErrorIs(t, err, usecase.ErrDuplicateIdentity)

	_, err = repo.Create(ctx, entity.NewUser{Email: "c@example.com", GoogleID: "g-1"})
	assert.ErrorIs(t, err, usecase.ErrDuplicateIdentity)

	// google_idを持たないユーザーは複数作成できる
	_, err = repo.Create(ctx, entity.NewUser{Email: "d@example.com", Password: "Abcd123!"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, entity.NewUser{Email: "e@example.com", Password: "Abcd123!"})
	require.NoError(t, err)
}

func TestUserMongo_CreateRequiresOneIdentity(t *testing.T) {
	repo := setupMongoRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, entity.NewUser{Email: "none@example.com"})
	assert.ErrorIs(t, err, entity.ErrIdentityRequired)

	_, err = repo.Create(ctx, entity.NewUser{Email: "both@example.com", Password: "Abcd123!", GoogleID: "g-2"})
	assert.ErrorIs(t, err, entity.ErrIdentityRequired)

	n, err := repo.users.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Zero(t, n)

	// 拒否されたユーザーはIDを消費しない
	u, err := repo.Create(ctx, entity.NewUser{Email: "ok@example.com", GoogleID: "g-3"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), u.ID)
}

func TestUserMongo_Save(t *testing.T) {
	repo := setupMongoRepo(t)
	ctx := context.Background()

	u, err := repo.Create(ctx, entity.NewUser{Email: "a@example.com", Password: "Abcd123!"})
	require.NoError(t, err)

	u.GoogleID = "g-7"
	u.FirstName = "Ann"
	u.MarkLoggedIn(time.Now())
	require.NoError(t, repo.Save(ctx, u))

	got, err := repo.FindByGoogleID(ctx, "g-7")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Ann", got.FirstName)
	assert.NotNil(t, got.LastLogin)
	assert.True(t, got.HasPassword())

	err = repo.Save(ctx, &entity.User{ID: 404, Email: "ghost@example.com"})
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}
