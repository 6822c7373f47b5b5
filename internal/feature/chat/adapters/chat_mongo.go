package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"descripto_backend/internal/feature/chat/domain/entity"
	"descripto_backend/internal/feature/chat/usecase"
	descentity "descripto_backend/internal/feature/description/domain/entity"
)

const (
	tabsCollection     = "tabs"
	messagesCollection = "messages"
	countersCollection = "counters"
)

type tabDocument struct {
	ID        int64     `bson:"_id"`
	UserID    int64     `bson:"user_id"`
	Name      string    `bson:"name"`
	IsActive  bool      `bson:"is_active"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d *tabDocument) toEntity() entity.Tab {
	return entity.Tab{ID: uint(d.ID), UserID: uint(d.UserID), Name: d.Name, CreatedAt: d.CreatedAt}
}

type messageDocument struct {
	ID           int64     `bson:"_id"`
	TabID        int64     `bson:"tab_id"`
	UserID       int64     `bson:"user_id"`
	Title        string    `bson:"title"`
	Features     string    `bson:"features"`
	Tone         string    `bson:"tone"`
	Descriptions []string  `bson:"descriptions"`
	IsActive     bool      `bson:"is_active"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d *messageDocument) toEntity() entity.Message {
	items := d.Descriptions
	if items == nil {
		items = []string{}
	}
	return entity.Message{
		ID:           uint(d.ID),
		TabID:        uint(d.TabID),
		UserID:       uint(d.UserID),
		Title:        d.Title,
		Features:     d.Features,
		Tone:         descentity.Tone(d.Tone),
		Descriptions: items,
		CreatedAt:    d.CreatedAt,
	}
}

// chatMongo はRepositoryインターフェースのMongoDB実装です。
// 数値IDはusersと同じcountersコレクションで採番します。
type chatMongo struct {
	tabs     *mongo.Collection
	messages *mongo.Collection
	counters *mongo.Collection
}

var _ usecase.Repository = (*chatMongo)(nil)

// NewChatMongo はchatMongoを生成し、一覧用のインデックスを作成します。
func NewChatMongo(ctx context.Context, db *mongo.Database) (*chatMongo, error) {
	r := &chatMongo{
		tabs:     db.Collection(tabsCollection),
		messages: db.Collection(messagesCollection),
		counters: db.Collection(countersCollection),
	}
	if _, err := r.tabs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_tabs_user_created"),
	}); err != nil {
		return nil, fmt.Errorf("failed to create tab indexes: %w", err)
	}
	if _, err := r.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tab_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("idx_messages_tab_created"),
	}); err != nil {
		return nil, fmt.Errorf("failed to create message indexes: %w", err)
	}
	return r, nil
}

func (r *chatMongo) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", name, err)
	}
	return counter.Seq, nil
}

// CreateTab はタブを挿入します。
func (r *chatMongo) CreateTab(ctx context.Context, userID uint, name string) (*entity.Tab, error) {
	id, err := r.nextID(ctx, tabsCollection)
	if err != nil {
		return nil, err
	}
	doc := &tabDocument{
		ID:        id,
		UserID:    int64(userID),
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.tabs.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	tab := doc.toEntity()
	return &tab, nil
}

// FindTab は有効なタブをIDで取得します。
func (r *chatMongo) FindTab(ctx context.Context, id uint) (*entity.Tab, error) {
	var doc tabDocument
	if err := r.tabs.FindOne(ctx, bson.M{"_id": int64(id), "is_active": true}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrTabNotFound
		}
		return nil, err
	}
	tab := doc.toEntity()
	return &tab, nil
}

// ListTabs はユーザーの有効なタブを新しい順に返します。
func (r *chatMongo) ListTabs(ctx context.Context, userID uint, page entity.Page) ([]entity.Tab, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size))
	cur, err := r.tabs.Find(ctx, bson.M{"user_id": int64(userID), "is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	var docs []tabDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	tabs := make([]entity.Tab, len(docs))
	for i := range docs {
		tabs[i] = docs[i].toEntity()
	}
	return tabs, nil
}

// AddMessage はメッセージを挿入し、採番されたIDと作成日時を設定します。
func (r *chatMongo) AddMessage(ctx context.Context, msg *entity.Message) error {
	id, err := r.nextID(ctx, messagesCollection)
	if err != nil {
		return err
	}
	doc := &messageDocument{
		ID:           id,
		TabID:        int64(msg.TabID),
		UserID:       int64(msg.UserID),
		Title:        msg.Title,
		Features:     msg.Features,
		Tone:         string(msg.Tone),
		Descriptions: msg.Descriptions,
		IsActive:     true,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.messages.InsertOne(ctx, doc); err != nil {
		return err
	}
	msg.ID = uint(doc.ID)
	msg.CreatedAt = doc.CreatedAt
	return nil
}

// ListMessages はタブの有効なメッセージを古い順に返します。
func (r *chatMongo) ListMessages(ctx context.Context, tabID uint, page entity.Page) ([]entity.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size))
	cur, err := r.messages.Find(ctx, bson.M{"tab_id": int64(tabID), "is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	var docs []messageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	msgs := make([]entity.Message, len(docs))
	for i := range docs {
		msgs[i] = docs[i].toEntity()
	}
	return msgs, nil
}
