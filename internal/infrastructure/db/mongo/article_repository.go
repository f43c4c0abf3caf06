package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

const collectionArticles = "articles"

type ArticleRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{col: db.Collection(collectionArticles), now: time.Now}
}

type articleDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Author    string             `bson:"author"`
	Category  string             `bson:"category"`
	Date      string             `bson:"date"`
	ReadTime  string             `bson:"readTime"`
	Image     string             `bson:"image,omitempty"`
	User      string             `bson:"user"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *articleDocument) toDomain() *domain.Article {
	return &domain.Article{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Author:    d.Author,
		Category:  d.Category,
		Date:      d.Date,
		ReadTime:  d.ReadTime,
		Image:     d.Image,
		UserID:    d.User,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now().UTC()
	doc := articleDocument{
		Title:     a.Title,
		Content:   a.Content,
		Author:    a.Author,
		Category:  a.Category,
		Date:      a.Date,
		ReadTime:  a.ReadTime,
		Image:     a.Image,
		User:      a.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, storeErr("insert article", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// ListByUser returns userID's articles, newest first.
func (r *ArticleRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, storeErr("list articles", err)
	}
	defer cur.Close(ctx)

	var docs []articleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("list articles", err)
	}
	out := make([]*domain.Article, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ArticleRepository) Update(ctx context.Context, userID string, a *domain.Article) (*domain.Article, error) {
	oid, ok := objectID(a.ID)
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":     a.Title,
		"content":   a.Content,
		"author":    a.Author,
		"category":  a.Category,
		"date":      a.Date,
		"readTime":  a.ReadTime,
		"image":     a.Image,
		"updatedAt": r.now().UTC(),
	}

	var doc articleDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, storeErr("update article", err)
	}
	return doc.toDomain(), nil
}

func (r *ArticleRepository) Delete(ctx context.Context, userID, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrArticleNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "user": userID})
	if err != nil {
		return storeErr("delete article", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return storeErr("article indexes", err)
	}
	return nil
}
