package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogActivity aggregates the engagement counters for a blog. The counters are
// maintained with atomic $inc updates; total_likes mirrors the number of live
// like-notifications and total_comments the number of comment documents.
type BlogActivity struct {
	TotalReads          int64 `json:"total_reads" bson:"total_reads"`
	TotalLikes          int64 `json:"total_likes" bson:"total_likes"`
	TotalComments       int64 `json:"total_comments" bson:"total_comments"`
	TotalParentComments int64 `json:"total_parent_comments" bson:"total_parent_comments"`
}

// Blog represents a blog post stored in MongoDB. BlogID is the human-readable
// identifier (slugified title plus random suffix) and is immutable once created.
type Blog struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	BlogID      string               `json:"blog_id" bson:"blog_id"`
	Title       string               `json:"title" bson:"title"`
	Banner      string               `json:"banner,omitempty" bson:"banner,omitempty"`
	Des         string               `json:"des,omitempty" bson:"des,omitempty"`
	Content     string               `json:"content,omitempty" bson:"content,omitempty"`
	Tags        []string             `json:"tags,omitempty" bson:"tags,omitempty"`
	Author      primitive.ObjectID   `json:"author" bson:"author"`
	Activity    BlogActivity         `json:"activity" bson:"activity"`
	Comments    []primitive.ObjectID `json:"comments,omitempty" bson:"comments"`
	Draft       bool                 `json:"draft" bson:"draft"`
	PublishedAt time.Time            `json:"publishedAt" bson:"publishedAt"`
}

// PublishBlogRequest defines the request body for creating or updating a blog.
// A non-empty ID makes this an update of the blog with that blog_id.
type PublishBlogRequest struct {
	ID      string   `json:"id,omitempty"`
	Title   string   `json:"title"`
	Banner  string   `json:"banner,omitempty"`
	Des     string   `json:"des,omitempty"`
	Content string   `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Draft   bool     `json:"draft"`
}

// GetBlogRequest defines the request body for fetching a single blog
type GetBlogRequest struct {
	BlogID string `json:"blog_id" validate:"required"`
	Draft  bool   `json:"draft"`
	Mode   string `json:"mode,omitempty"`
}
