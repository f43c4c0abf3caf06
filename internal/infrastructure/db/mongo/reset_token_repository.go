package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

const collectionResetTokens = "resettokens"

// ResetTokenRepository stores reset tokens keyed by a random UUID, so ids
// cannot be guessed from creation order.
type ResetTokenRepository struct {
	col   *mongo.Collection
	now   func() time.Time
	newID func() string
}

func NewResetTokenRepository(db *mongo.Database) *ResetTokenRepository {
	return &ResetTokenRepository{
		col:   db.Collection(collectionResetTokens),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type resetTokenDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Expired   bool      `bson:"expired"`
	ExpiresAt time.Time `bson:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d *resetTokenDocument) toDomain() *domain.ResetToken {
	return &domain.ResetToken{
		ID:        d.ID,
		UserID:    d.UserID,
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
		Expired:   d.Expired,
	}
}

func (r *ResetTokenRepository) Create(ctx context.Context, userID string, expiresAt time.Time) (*domain.ResetToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now().UTC()
	doc := resetTokenDocument{
		ID:        r.newID(),
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, storeErr("insert reset token", err)
	}
	return doc.toDomain(), nil
}

func (r *ResetTokenRepository) FindByID(ctx context.Context, id string) (*domain.ResetToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc resetTokenDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrResetTokenNotFound
		}
		return nil, storeErr("find reset token", err)
	}
	return doc.toDomain(), nil
}

// MarkExpired claims the token with a single conditional update. Only a
// token that is unexpired and inside its window at now matches, so of two
// concurrent claims exactly one sees a document.
func (r *ResetTokenRepository) MarkExpired(ctx context.Context, id string, now time.Time) (*domain.ResetToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc resetTokenDocument
	err := r.col.FindOneAndUpdate(ctx, claimFilter(id, now), claimUpdate(now),
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrResetTokenExpired
		}
		return nil, storeErr("claim reset token", err)
	}
	return doc.toDomain(), nil
}

// claimFilter matches id only while it is unused and now is before expiresAt.
func claimFilter(id string, now time.Time) bson.M {
	return bson.M{
		"_id":       id,
		"expired":   false,
		"expiresAt": bson.M{"$gt": now.UTC()},
	}
}

func claimUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{"expired": true, "updatedAt": now.UTC()}}
}

func (r *ResetTokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return storeErr("reset token indexes", err)
	}
	return nil
}
