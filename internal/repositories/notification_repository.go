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

// NotificationRepository defines the interface for notification operations.
// A like notification is the durable like record, so the like-specific methods
// operate on the {user, type, blog} composite key.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	LikeExists(ctx context.Context, userID, blogID primitive.ObjectID) (bool, error)
	DeleteLike(ctx context.Context, userID, blogID primitive.ObjectID) (bool, error)
	CountLikes(ctx context.Context, blogID primitive.ObjectID) (int64, error)
	HasUnseen(ctx context.Context, recipientID primitive.ObjectID) (bool, error)
	GetByRecipient(ctx context.Context, recipientID primitive.ObjectID, filter string, skip, limit int64) ([]models.Notification, error)
	CountByRecipient(ctx context.Context, recipientID primitive.ObjectID, filter string) (int64, error)
	MarkSeen(ctx context.Context, notificationID primitive.ObjectID) error
	DeleteByBlogID(ctx context.Context, blogID primitive.ObjectID) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification inserts a notification. For like notifications the partial
// unique index on {user, type, blog} rejects a concurrent duplicate.
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, notification); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("notification already exists")
		}
		return apperr.Internal(err)
	}
	return nil
}

func likeKey(userID, blogID primitive.ObjectID) bson.M {
	return bson.M{"user": userID, "type": models.NotificationLike, "blog": blogID}
}

// LikeExists checks for a live like record on the composite key
func (r *MongoNotificationRepository) LikeExists(ctx context.Context, userID, blogID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, likeKey(userID, blogID), options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Internal(err)
	}
	return count > 0, nil
}

// DeleteLike removes the like record, reporting whether one actually existed
func (r *MongoNotificationRepository) DeleteLike(ctx context.Context, userID, blogID primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, likeKey(userID, blogID))
	if err != nil {
		return false, apperr.Internal(err)
	}
	return res.DeletedCount > 0, nil
}

// CountLikes counts live like records for a blog, used by the reconcile pass
func (r *MongoNotificationRepository) CountLikes(ctx context.Context, blogID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"type": models.NotificationLike, "blog": blogID})
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

// HasUnseen reports whether the recipient has any unseen notification
func (r *MongoNotificationRepository) HasUnseen(ctx context.Context, recipientID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"notification_for": recipientID,
		"seen":             false,
		"user":             bson.M{"$ne": recipientID},
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Internal(err)
	}
	return count > 0, nil
}

func recipientFilter(recipientID primitive.ObjectID, filter string) bson.M {
	query := bson.M{
		"notification_for": recipientID,
		"user":             bson.M{"$ne": recipientID},
	}
	if filter != "" && filter != "all" {
		query["type"] = filter
	}
	return query
}

// GetByRecipient lists a user's notifications, newest first, excluding the
// user's own activity on their own blogs.
func (r *MongoNotificationRepository) GetByRecipient(ctx context.Context, recipientID primitive.ObjectID, filter string, skip, limit int64) ([]models.Notification, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, recipientFilter(recipientID, filter), findOptions)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, apperr.Internal(err)
	}
	return notifications, nil
}

// CountByRecipient counts a user's notifications under the same filter
func (r *MongoNotificationRepository) CountByRecipient(ctx context.Context, recipientID primitive.ObjectID, filter string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, recipientFilter(recipientID, filter))
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

// MarkSeen flags a single notification as seen
func (r *MongoNotificationRepository) MarkSeen(ctx context.Context, notificationID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"seen": true}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": notificationID}, update)
	if err != nil {
		return apperr.Internal(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// DeleteByBlogID removes every notification referencing a deleted blog
func (r *MongoNotificationRepository) DeleteByBlogID(ctx context.Context, blogID primitive.ObjectID) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"blog": blogID}); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
