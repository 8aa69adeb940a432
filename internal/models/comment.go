package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a blog. BlogAuthor is denormalized from the
// blog at creation time so notification fan-out never needs a second lookup.
// Parent and Children carry reply threading; only top-level creation is wired.
type Comment struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	BlogID      primitive.ObjectID   `json:"blog_id" bson:"blog_id"`
	BlogAuthor  primitive.ObjectID   `json:"blog_author" bson:"blog_author"`
	Comment     string               `json:"comment" bson:"comment"`
	CommentedBy primitive.ObjectID   `json:"commented_by" bson:"commented_by"`
	CommentedAt time.Time            `json:"commentedAt" bson:"commentedAt"`
	IsReply     bool                 `json:"isReply,omitempty" bson:"isReply"`
	Children    []primitive.ObjectID `json:"children,omitempty" bson:"children"`
	Parent      *primitive.ObjectID  `json:"parent,omitempty" bson:"parent,omitempty"`
}

// AddCommentRequest defines the request body for commenting on a blog
type AddCommentRequest struct {
	BlogID     string `json:"_id" validate:"required"`
	Comment    string `json:"comment"`
	BlogAuthor string `json:"blog_author" validate:"required"`
}

// ListCommentsRequest defines the request body for paging through a blog's comments
type ListCommentsRequest struct {
	BlogID string `json:"blog_id" validate:"required"`
	Skip   int64  `json:"skip"`
}
