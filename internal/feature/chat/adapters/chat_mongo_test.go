package adapters

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"descripto_backend/internal/feature/chat/domain/entity"
	"descripto_backend/internal/feature/chat/usecase"
	descentity "descripto_backend/internal/feature/description/domain/entity"
)

// setupMongoRepo はMONGO_URIが設定されている場合のみテスト用データベースを用意します。
func setupMongoRepo(t *testing.T) *chatMongo {
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

	db := client.Database(fmt.Sprintf("descripto_chat_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo, err := NewChatMongo(ctx, db)
	require.NoError(t, err)
	return repo
}

func TestChatMongo_TabsAndMessages(t *testing.T) {
	repo := setupMongoRepo(t)
	ctx := context.Background()

	a, err := repo.CreateTab(ctx, 7, "Mug_fun")
	require.NoError(t, err)
	b, err := repo.CreateTab(ctx, 7, "Lamp_professional")
	require.NoError(t, err)
	assert.Equal(t, uint(1), a.ID)
	assert.Equal(t, uint(2), b.ID)

	_, err = repo.FindTab(ctx, 99)
	assert.ErrorIs(t, err, usecase.ErrTabNotFound)

	tabs, err := repo.ListTabs(ctx, 7, entity.NewPage(0, 20))
	require.NoError(t, err)
	require.Len(t, tabs, 2)
	assert.Equal(t, b.ID, tabs[0].ID)

	msg := &entity.Message{TabID: a.ID, UserID: 7, Title: "Mug", Features: "x", Tone: descentity.ToneFun, Descriptions: []string{"One."}}
	require.NoError(t, repo.AddMessage(ctx, msg))
	assert.Equal(t, uint(1), msg.ID)

	msgs, err := repo.ListMessages(ctx, a.ID, entity.NewPage(0, 20))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"One."}, msgs[0].Descriptions)
}
