package repositories

import (
	"context"
	"time"

	"github.com/eventflow/backend/internal/apperr"
	"github.com/eventflow/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByBlogID(ctx context.Context, blogID primitive.ObjectID, skip, limit int64) ([]models.Comment, error)
	CountByBlogID(ctx context.Context, blogID primitive.ObjectID, parentOnly bool) (int64, error)
	DeleteByBlogID(ctx context.Context, blogID primitive.ObjectID) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment inserts a new comment
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CommentedAt = time.Now()
	if comment.Children == nil {
		comment.Children = []primitive.ObjectID{}
	}
	if _, err := r.collection.InsertOne(ctx, comment); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// GetCommentsByBlogID retrieves top-level comments for a blog, newest first
func (r *MongoCommentRepository) GetCommentsByBlogID(ctx context.Context, blogID primitive.ObjectID, skip, limit int64) ([]models.Comment, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "commentedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"blog_id": blogID, "isReply": false}, findOptions)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, apperr.Internal(err)
	}
	return comments, nil
}

// CountByBlogID counts a blog's comments, optionally top-level only
func (r *MongoCommentRepository) CountByBlogID(ctx context.Context, blogID primitive.ObjectID, parentOnly bool) (int64, error) {
	filter := bson.M{"blog_id": blogID}
	if parentOnly {
		filter["isReply"] = false
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

// DeleteByBlogID removes every comment belonging to a deleted blog
func (r *MongoCommentRepository) DeleteByBlogID(ctx context.Context, blogID primitive.ObjectID) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"blog_id": blogID}); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
