package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types. A "like" notification doubles as the durable record of
// the like relationship itself: deleting it is the unlike operation.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationReply   = "reply"
)

// Notification represents an engagement event addressed to a user.
// NotificationFor is the recipient, User the acting user.
type Notification struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Type            string              `json:"type" bson:"type"`
	Blog            primitive.ObjectID  `json:"blog" bson:"blog"`
	NotificationFor primitive.ObjectID  `json:"notification_for" bson:"notification_for"`
	User            primitive.ObjectID  `json:"user" bson:"user"`
	Comment         *primitive.ObjectID `json:"comment,omitempty" bson:"comment,omitempty"`
	Seen            bool                `json:"seen" bson:"seen"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
}

// LikeBlogRequest defines the request body for toggling a like
type LikeBlogRequest struct {
	BlogID  string `json:"_id" validate:"required"`
	IsLiked bool   `json:"islikedByUser"`
}

// ListNotificationsRequest defines the request body for the notification feed
type ListNotificationsRequest struct {
	Page   int64  `json:"page"`
	Filter string `json:"filter,omitempty"`
}
