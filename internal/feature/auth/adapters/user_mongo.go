package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"descripto_backend/internal/feature/auth/domain/entity"
	"descripto_backend/internal/feature/auth/usecase"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
)

// userDocument is the BSON shape of a user.
type userDocument struct {
	ID            int64      `bson:"_id"`
	Email         string     `bson:"email"`
	PasswordHash  string     `bson:"password_hash,omitempty"`
	GoogleID      *string    `bson:"google_id,omitempty"`
	GoogleEmail   string     `bson:"google_email,omitempty"`
	GoogleName    string     `bson:"google_name,omitempty"`
	GooglePicture string     `bson:"google_picture,omitempty"`
	FirstName     string     `bson:"first_name,omitempty"`
	LastName      string     `bson:"last_name,omitempty"`
	IsActive      bool       `bson:"is_active"`
	IsVerified    bool       `bson:"is_verified"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
	LastLogin     *time.Time `bson:"last_login,omitempty"`
}

func (d *userDocument) toEntity() *entity.User {
	u := &entity.User{
		ID:            uint(d.ID),
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		GoogleEmail:   d.GoogleEmail,
		GoogleName:    d.GoogleName,
		GooglePicture: d.GooglePicture,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		IsActive:      d.IsActive,
		IsVerified:    d.IsVerified,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		LastLogin:     d.LastLogin,
	}
	if d.GoogleID != nil {
		u.GoogleID = *d.GoogleID
	}
	return u
}

func documentFromEntity(u *entity.User) *userDocument {
	return &userDocument{
		ID:            int64(u.ID),
		Email:         entity.NormalizeEmail(u.Email),
		PasswordHash:  u.PasswordHash,
		GoogleID:      nullable(u.GoogleID),
		GoogleEmail:   u.GoogleEmail,
		GoogleName:    u.GoogleName,
		GooglePicture: u.GooglePicture,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		IsActive:      u.IsActive,
		IsVerified:    u.IsVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		LastLogin:     u.LastLogin,
	}
}

// userMongo はUserRepositoryインターフェースのMongoDB実装です。
// 数値IDはcountersコレクションで採番します。
type userMongo struct {
	users    *mongo.Collection
	counters *mongo.Collection
	hasher   usecase.PasswordHasher
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo はuserMongoを生成し、一意インデックスを作成します。
func NewUserMongo(ctx context.Context, db *mongo.Database, hasher usecase.PasswordHasher) (*userMongo, error) {
	r := &userMongo{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
		hasher:   hasher,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *userMongo) ensureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			// google_idを持たないドキュメントは対象外
			Keys: bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_google_id").
				SetPartialFilterExpression(bson.M{"google_id": bson.M{"$type": "string"}}),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *userMongo) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate user id: %w", err)
	}
	return counter.Seq, nil
}

// Create はユーザーを挿入します。
// パスワードとGoogle IDがちょうど一方だけ指定されていない場合はentity.ErrIdentityRequiredを返します。
// メールアドレスまたはGoogle IDが既に存在する場合、usecase.ErrDuplicateIdentityを返します。
func (r *userMongo) Create(ctx context.Context, nu entity.NewUser) (*entity.User, error) {
	if err := nu.Validate(); err != nil {
		return nil, err
	}
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := &userDocument{
		ID:            id,
		Email:         entity.NormalizeEmail(nu.Email),
		GoogleID:      nullable(nu.GoogleID),
		GoogleEmail:   nu.GoogleEmail,
		GoogleName:    nu.GoogleName,
		GooglePicture: nu.GooglePicture,
		FirstName:     nu.FirstName,
		LastName:      nu.LastName,
		IsActive:      true,
		IsVerified:    nu.IsVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
		LastLogin:     nu.LastLogin,
	}
	if nu.Password != "" {
		hashed, err := r.hasher.Hash(nu.Password)
		if err != nil {
			return nil, err
		}
		doc.PasswordHash = hashed
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, usecase.ErrDuplicateIdentity
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *userMongo) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": entity.NormalizeEmail(email)})
}

// FindByGoogleID はGoogle IDでユーザーを取得します。
func (r *userMongo) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	if googleID == "" {
		return nil, usecase.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"google_id": googleID})
}

// FindByID はIDでユーザーを取得します。
func (r *userMongo) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": int64(id)})
}

// Save はドキュメント全体を置き換えます。
func (r *userMongo) Save(ctx context.Context, u *entity.User) error {
	doc := documentFromEntity(u)
	doc.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	res, err := r.users.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrDuplicateIdentity
		}
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrUserNotFound
	}
	u.Email = doc.Email
	u.UpdatedAt = doc.UpdatedAt
	return nil
}
