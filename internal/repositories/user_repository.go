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

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	RegisterBlog(ctx context.Context, userID, blogID primitive.ObjectID, postsDelta int64) error
	UnregisterBlog(ctx context.Context, userID, blogID primitive.ObjectID, postsDelta int64) error
	IncrementTotalReads(ctx context.Context, userID primitive.ObjectID, delta int64) error
	SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user. A duplicate email or username surfaces as a
// conflict from the unique indexes, the final backstop for allocation races.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.JoinedAt = time.Now()
	if user.Blogs == nil {
		user.Blogs = []primitive.ObjectID{}
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("email or username already exists")
		}
		return apperr.Internal(err)
	}
	return nil
}

// GetUserByID retrieves a user by its object id
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"personal_info.email": email})
}

// GetUserByUsername retrieves a user by username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"personal_info.username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// UsernameExists checks whether any user already holds the given username
func (r *MongoUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"personal_info.username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Internal(err)
	}
	return count > 0, nil
}

// RegisterBlog appends a blog reference to the author's blogs array and bumps
// total_posts in one atomic update, so concurrent creations cannot lose writes.
// postsDelta is 1 for a published blog and 0 for a draft.
func (r *MongoUserRepository) RegisterBlog(ctx context.Context, userID, blogID primitive.ObjectID, postsDelta int64) error {
	update := bson.M{
		"$inc":  bson.M{"account_info.total_posts": postsDelta},
		"$push": bson.M{"blogs": blogID},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// UnregisterBlog removes a blog reference and decrements total_posts atomically
func (r *MongoUserRepository) UnregisterBlog(ctx context.Context, userID, blogID primitive.ObjectID, postsDelta int64) error {
	update := bson.M{
		"$inc":  bson.M{"account_info.total_posts": -postsDelta},
		"$pull": bson.M{"blogs": blogID},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// IncrementTotalReads bumps the author-level read aggregate
func (r *MongoUserRepository) IncrementTotalReads(ctx context.Context, userID primitive.ObjectID, delta int64) error {
	update := bson.M{"$inc": bson.M{"account_info.total_reads": delta}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// SearchUsers matches usernames case-insensitively by substring, returning a
// projection without password hashes or auth flags.
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	filter := bson.M{"personal_info.username": bson.M{
		"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"},
	}}
	findOptions := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{
			"personal_info.fullname":    1,
			"personal_info.username":    1,
			"personal_info.profile_img": 1,
		})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}
