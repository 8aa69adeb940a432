package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/eventflow/backend/internal/apperr"
	"github.com/eventflow/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlogFilter narrows listing queries. At most one of Tag, Query, Author is set;
// non-draft filtering is always applied by the repository.
type BlogFilter struct {
	Tag           string
	Query         string
	Author        *primitive.ObjectID
	ExcludeBlogID string
}

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlogByBlogID(ctx context.Context, blogID string) (*models.Blog, error)
	UpdateContent(ctx context.Context, blogID string, blog *models.Blog) error
	IncrementReadsAndGet(ctx context.Context, blogID string, delta int64) (*models.Blog, error)
	AttachComment(ctx context.Context, blogID, commentID primitive.ObjectID, parentDelta int64) error
	IncrementLikesAndGet(ctx context.Context, blogID primitive.ObjectID, delta int64) (*models.Blog, error)
	SetActivity(ctx context.Context, blogID primitive.ObjectID, activity models.BlogActivity) error
	GetLatest(ctx context.Context, skip, limit int64) ([]models.Blog, error)
	GetTrending(ctx context.Context, limit int64) ([]models.Blog, error)
	Search(ctx context.Context, filter BlogFilter, skip, limit int64) ([]models.Blog, error)
	Count(ctx context.Context, filter BlogFilter) (int64, error)
	GetByAuthor(ctx context.Context, author primitive.ObjectID, draft bool, query string, skip, limit int64) ([]models.Blog, error)
	CountByAuthor(ctx context.Context, author primitive.ObjectID, draft bool, query string) (int64, error)
	DeleteBlog(ctx context.Context, blogID string) (*models.Blog, error)
}

// MongoBlogRepository implements BlogRepository for MongoDB
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blogs")}
}

// listProjection trims heavy fields from listing results
var listProjection = bson.M{
	"blog_id":     1,
	"title":       1,
	"banner":      1,
	"des":         1,
	"tags":        1,
	"author":      1,
	"activity":    1,
	"publishedAt": 1,
}

// CreateBlog inserts a new blog. The unique index on blog_id turns a random
// suffix collision into a conflict instead of a silent duplicate.
func (r *MongoBlogRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.PublishedAt = time.Now()
	if blog.Comments == nil {
		blog.Comments = []primitive.ObjectID{}
	}
	if _, err := r.collection.InsertOne(ctx, blog); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("blog id already exists")
		}
		return apperr.Internal(err)
	}
	return nil
}

// GetBlogByBlogID retrieves a blog by its human-readable id
func (r *MongoBlogRepository) GetBlogByBlogID(ctx context.Context, blogID string) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOne(ctx, bson.M{"blog_id": blogID}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("blog not found")
		}
		return nil, apperr.Internal(err)
	}
	return &blog, nil
}

// UpdateContent overwrites the mutable fields of an existing blog. Author,
// activity counters and the comments array are never touched here.
func (r *MongoBlogRepository) UpdateContent(ctx context.Context, blogID string, blog *models.Blog) error {
	update := bson.M{"$set": bson.M{
		"title":   blog.Title,
		"des":     blog.Des,
		"banner":  blog.Banner,
		"content": blog.Content,
		"tags":    blog.Tags,
		"draft":   blog.Draft,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"blog_id": blogID}, update)
	if err != nil {
		return apperr.Internal(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("blog not found")
	}
	return nil
}

// IncrementReadsAndGet atomically bumps total_reads and returns the updated
// document. A zero delta degrades to a plain read (edit-mode fetches).
func (r *MongoBlogRepository) IncrementReadsAndGet(ctx context.Context, blogID string, delta int64) (*models.Blog, error) {
	if delta == 0 {
		return r.GetBlogByBlogID(ctx, blogID)
	}
	update := bson.M{"$inc": bson.M{"activity.total_reads": delta}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var blog models.Blog
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"blog_id": blogID}, update, opts).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("blog not found")
		}
		return nil, apperr.Internal(err)
	}
	return &blog, nil
}

// AttachComment pushes a comment reference and bumps the comment counters in a
// single atomic update. parentDelta is 1 for top-level comments, 0 for replies.
func (r *MongoBlogRepository) AttachComment(ctx context.Context, blogID, commentID primitive.ObjectID, parentDelta int64) error {
	update := bson.M{
		"$push": bson.M{"comments": commentID},
		"$inc": bson.M{
			"activity.total_comments":        1,
			"activity.total_parent_comments": parentDelta,
		},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": blogID}, update); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// IncrementLikesAndGet atomically bumps total_likes by delta (negative to
// decrement) and returns the updated document.
func (r *MongoBlogRepository) IncrementLikesAndGet(ctx context.Context, blogID primitive.ObjectID, delta int64) (*models.Blog, error) {
	update := bson.M{"$inc": bson.M{"activity.total_likes": delta}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var blog models.Blog
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": blogID}, update, opts).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("blog not found")
		}
		return nil, apperr.Internal(err)
	}
	return &blog, nil
}

// SetActivity overwrites the activity counters, used by the reconcile pass
func (r *MongoBlogRepository) SetActivity(ctx context.Context, blogID primitive.ObjectID, activity models.BlogActivity) error {
	update := bson.M{"$set": bson.M{
		"activity.total_likes":           activity.TotalLikes,
		"activity.total_comments":        activity.TotalComments,
		"activity.total_parent_comments": activity.TotalParentComments,
	}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": blogID}, update); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// GetLatest returns published blogs sorted by publish time descending
func (r *MongoBlogRepository) GetLatest(ctx context.Context, skip, limit int64) ([]models.Blog, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetProjection(listProjection)
	return r.findBlogs(ctx, bson.M{"draft": false}, findOptions)
}

// GetTrending returns the top published blogs by reads, then likes, then recency
func (r *MongoBlogRepository) GetTrending(ctx context.Context, limit int64) ([]models.Blog, error) {
	findOptions := options.Find().
		SetLimit(limit).
		SetSort(bson.D{
			{Key: "activity.total_reads", Value: -1},
			{Key: "activity.total_likes", Value: -1},
			{Key: "publishedAt", Value: -1},
		}).
		SetProjection(listProjection)
	return r.findBlogs(ctx, bson.M{"draft": false}, findOptions)
}

// Search returns published blogs matching the filter, newest first
func (r *MongoBlogRepository) Search(ctx context.Context, filter BlogFilter, skip, limit int64) ([]models.Blog, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetProjection(listProjection)
	return r.findBlogs(ctx, buildSearchFilter(filter), findOptions)
}

// Count counts published blogs matching the filter
func (r *MongoBlogRepository) Count(ctx context.Context, filter BlogFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, buildSearchFilter(filter))
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

// GetByAuthor lists an author's own blogs, optionally narrowed by a title query.
// Unlike Search this deliberately includes drafts when draft is true.
func (r *MongoBlogRepository) GetByAuthor(ctx context.Context, author primitive.ObjectID, draft bool, query string, skip, limit int64) ([]models.Blog, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetProjection(listProjection)
	return r.findBlogs(ctx, buildAuthorFilter(author, draft, query), findOptions)
}

// CountByAuthor counts an author's own blogs under the same filter as GetByAuthor
func (r *MongoBlogRepository) CountByAuthor(ctx context.Context, author primitive.ObjectID, draft bool, query string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, buildAuthorFilter(author, draft, query))
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

// DeleteBlog removes a blog by its human-readable id and returns the deleted
// document so the caller can unwind counters and fan-out.
func (r *MongoBlogRepository) DeleteBlog(ctx context.Context, blogID string) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOneAndDelete(ctx, bson.M{"blog_id": blogID}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("blog not found")
		}
		return nil, apperr.Internal(err)
	}
	return &blog, nil
}

func (r *MongoBlogRepository) findBlogs(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]models.Blog, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var blogs []models.Blog
	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, apperr.Internal(err)
	}
	return blogs, nil
}

func buildSearchFilter(filter BlogFilter) bson.M {
	query := bson.M{"draft": false}
	switch {
	case filter.Tag != "":
		query["tags"] = filter.Tag
	case filter.Query != "":
		query["title"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}}
	case filter.Author != nil:
		query["author"] = *filter.Author
	}
	if filter.ExcludeBlogID != "" {
		query["blog_id"] = bson.M{"$ne": filter.ExcludeBlogID}
	}
	return query
}

func buildAuthorFilter(author primitive.ObjectID, draft bool, query string) bson.M {
	filter := bson.M{"author": author, "draft": draft}
	if query != "" {
		filter["title"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}
	}
	return filter
}
