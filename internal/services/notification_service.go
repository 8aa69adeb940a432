package services

import (
	"context"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const notificationPageSize = 10

// NotificationService exposes the recipient-facing notification feed.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// HasUnseen reports whether the user has any unseen notification.
func (s *NotificationService) HasUnseen(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	return s.notificationRepo.HasUnseen(ctx, userID)
}

// List returns one page of the user's notifications, optionally narrowed to a
// single type ("like", "comment", "reply"); "all" or empty means no filter.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, filter string, page int64) ([]models.Notification, error) {
	if page < 1 {
		page = 1
	}
	return s.notificationRepo.GetByRecipient(ctx, userID, filter, (page-1)*notificationPageSize, notificationPageSize)
}

// Count counts the user's notifications under the same filter as List.
func (s *NotificationService) Count(ctx context.Context, userID primitive.ObjectID, filter string) (int64, error) {
	return s.notificationRepo.CountByRecipient(ctx, userID, filter)
}

// MarkSeen flags a notification as seen.
func (s *NotificationService) MarkSeen(ctx context.Context, notificationID primitive.ObjectID) error {
	return s.notificationRepo.MarkSeen(ctx, notificationID)
}
