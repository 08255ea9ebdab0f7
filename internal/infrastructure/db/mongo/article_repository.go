package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

const collectionArticles = "articles"

type ArticleRepository struct {
	col *mongo.Collection
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{col: db.Collection(collectionArticles)}
}

type mongoArticle struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Content     string             `bson:"content"`
	Author      string             `bson:"author"`
	PublishDate time.Time          `bson:"publish_date"`
}

func (d mongoArticle) toDomain() *domain.Article {
	return &domain.Article{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Content:     d.Content,
		Author:      d.Author,
		PublishDate: d.PublishDate.UTC(),
	}
}

// Create inserts a new article document and sets a.ID.
func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoArticle{
		Title:       a.Title,
		Content:     a.Content,
		Author:      a.Author,
		PublishDate: a.PublishDate,
	})
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert article: unexpected id type %T", res.InsertedID)
	}
	a.ID = oid.Hex()
	return nil
}

// FindByID treats a malformed id the same as a missing one.
func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrArticleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoArticle
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns articles newest first, filtered by a case-insensitive title
// substring, together with the total count of matching documents.
func (r *ArticleRepository) List(ctx context.Context, f ports.ListArticlesFilter) ([]*domain.Article, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Title != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "publish_date", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find articles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoArticle
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode articles: %w", err)
	}

	items := make([]*domain.Article, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}

// Update rewrites title and content only; author and publish_date are never
// touched after creation.
func (r *ArticleRepository) Update(ctx context.Context, a *domain.Article) error {
	oid, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		return domain.ErrArticleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"title": a.Title, "content": a.Content},
	})
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrArticleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes used by listing.
func (r *ArticleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "publish_date", Value: -1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
