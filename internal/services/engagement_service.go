package services

import (
	"context"
	"strings"

	"github.com/eventflow/backend/internal/apperr"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngagementService couples like and comment writes to the blog counters and
// the notification fan-out. Each multi-document effect is a saga of
// independently-atomic steps, ordered so the source-of-truth record lands first.
type EngagementService struct {
	blogRepo         repositories.BlogRepository
	commentRepo      repositories.CommentRepository
	notificationRepo repositories.NotificationRepository
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(blogRepo repositories.BlogRepository, commentRepo repositories.CommentRepository, notificationRepo repositories.NotificationRepository) *EngagementService {
	return &EngagementService{
		blogRepo:         blogRepo,
		commentRepo:      commentRepo,
		notificationRepo: notificationRepo,
	}
}

// SetLiked toggles the like state of a blog for a user. Liking twice or
// unliking twice are no-ops: the like-notification record is the durable
// truth, and total_likes only moves when that record is created or deleted.
func (s *EngagementService) SetLiked(ctx context.Context, userID, blogID primitive.ObjectID, like bool) error {
	if like {
		liked, err := s.notificationRepo.LikeExists(ctx, userID, blogID)
		if err != nil {
			return err
		}
		if liked {
			return nil
		}

		blog, err := s.blogRepo.IncrementLikesAndGet(ctx, blogID, 1)
		if err != nil {
			return err
		}
		notification := &models.Notification{
			Type:            models.NotificationLike,
			Blog:            blogID,
			NotificationFor: blog.Author,
			User:            userID,
		}
		if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
			if apperr.IsKind(err, apperr.KindConflict) {
				// A concurrent like won the race on the unique index; undo our
				// increment so the counter stays equal to the record count.
				_, decErr := s.blogRepo.IncrementLikesAndGet(ctx, blogID, -1)
				return decErr
			}
			return err
		}
		return nil
	}

	deleted, err := s.notificationRepo.DeleteLike(ctx, userID, blogID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}
	_, err = s.blogRepo.IncrementLikesAndGet(ctx, blogID, -1)
	return err
}

// IsLiked reports whether the user currently likes the blog.
func (s *EngagementService) IsLiked(ctx context.Context, userID, blogID primitive.ObjectID) (bool, error) {
	return s.notificationRepo.LikeExists(ctx, userID, blogID)
}

// AddComment creates a top-level comment, attaches it to the blog with an
// atomic counter-and-array update, and notifies the blog author. A crash
// between the steps leaves an orphaned comment; ReconcileBlogCounters repairs
// the counters from the comment documents.
func (s *EngagementService) AddComment(ctx context.Context, userID, blogID, blogAuthorID primitive.ObjectID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("write something to leave a comment")
	}

	comment := &models.Comment{
		BlogID:      blogID,
		BlogAuthor:  blogAuthorID,
		Comment:     text,
		CommentedBy: userID,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.blogRepo.AttachComment(ctx, blogID, comment.ID, 1); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		Type:            models.NotificationComment,
		Blog:            blogID,
		NotificationFor: blogAuthorID,
		User:            userID,
		Comment:         &comment.ID,
	}
	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments pages through a blog's top-level comments, newest first.
func (s *EngagementService) ListComments(ctx context.Context, blogID primitive.ObjectID, skip, limit int64) ([]models.Comment, error) {
	return s.commentRepo.GetCommentsByBlogID(ctx, blogID, skip, limit)
}

// ReconcileBlogCounters rebuilds a blog's like and comment counters from the
// comment and notification collections, the sources of truth. It repairs the
// drift a crashed saga can leave behind.
func (s *EngagementService) ReconcileBlogCounters(ctx context.Context, blogID primitive.ObjectID) error {
	totalComments, err := s.commentRepo.CountByBlogID(ctx, blogID, false)
	if err != nil {
		return err
	}
	parentComments, err := s.commentRepo.CountByBlogID(ctx, blogID, true)
	if err != nil {
		return err
	}
	totalLikes, err := s.notificationRepo.CountLikes(ctx, blogID)
	if err != nil {
		return err
	}
	return s.blogRepo.SetActivity(ctx, blogID, models.BlogActivity{
		TotalLikes:          totalLikes,
		TotalComments:       totalComments,
		TotalParentComments: parentComments,
	})
}
