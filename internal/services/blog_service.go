package services

import (
	"context"
	"strings"

	"github.com/eventflow/backend/internal/apperr"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/repositories"
	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxDesLength = 200
	maxTags      = 10
	blogIDSuffix = 10
)

// FetchModeEdit marks a fetch that must not count as a read.
const FetchModeEdit = "edit"

// BlogService manages blog creation, updates, reads and deletion, keeping the
// author's post counters in step with the blog documents.
type BlogService struct {
	blogRepo         repositories.BlogRepository
	userRepo         repositories.UserRepository
	commentRepo      repositories.CommentRepository
	notificationRepo repositories.NotificationRepository
}

// NewBlogService creates a new BlogService
func NewBlogService(blogRepo repositories.BlogRepository, userRepo repositories.UserRepository, commentRepo repositories.CommentRepository, notificationRepo repositories.NotificationRepository) *BlogService {
	return &BlogService{
		blogRepo:         blogRepo,
		userRepo:         userRepo,
		commentRepo:      commentRepo,
		notificationRepo: notificationRepo,
	}
}

// CreateOrUpdate persists a blog. A non-empty req.ID updates the existing blog
// with that blog_id in place; otherwise a new blog is created and registered
// against the author in a single atomic user update.
func (s *BlogService) CreateOrUpdate(ctx context.Context, authorID primitive.ObjectID, req *models.PublishBlogRequest) (string, error) {
	if strings.TrimSpace(req.Title) == "" {
		return "", apperr.Validation("you must provide a title")
	}
	if !req.Draft {
		if strings.TrimSpace(req.Des) == "" || len(req.Des) > maxDesLength {
			return "", apperr.Validation("you must provide a blog description under 200 characters")
		}
		if strings.TrimSpace(req.Content) == "" {
			return "", apperr.Validation("there must be some blog content to publish it")
		}
		if len(req.Tags) == 0 || len(req.Tags) > maxTags {
			return "", apperr.Validation("provide tags in order to publish the blog, maximum 10")
		}
	}

	tags := make([]string, len(req.Tags))
	for i, tag := range req.Tags {
		tags[i] = strings.ToLower(tag)
	}

	blog := &models.Blog{
		Title:   req.Title,
		Des:     req.Des,
		Banner:  req.Banner,
		Content: req.Content,
		Tags:    tags,
		Author:  authorID,
		Draft:   req.Draft,
	}

	if req.ID != "" {
		existing, err := s.blogRepo.GetBlogByBlogID(ctx, req.ID)
		if err != nil {
			return "", err
		}
		if existing.Author != authorID {
			return "", apperr.AccessDenied("you can not edit someone else's blog")
		}
		if err := s.blogRepo.UpdateContent(ctx, req.ID, blog); err != nil {
			return "", err
		}
		return req.ID, nil
	}

	blogID, err := newBlogID(req.Title)
	if err != nil {
		return "", err
	}
	blog.BlogID = blogID
	if err := s.blogRepo.CreateBlog(ctx, blog); err != nil {
		return "", err
	}

	postsDelta := int64(1)
	if req.Draft {
		postsDelta = 0
	}
	if err := s.userRepo.RegisterBlog(ctx, authorID, blog.ID, postsDelta); err != nil {
		return "", err
	}
	return blogID, nil
}

// FetchForRead returns a blog, counting the fetch as a read unless mode is
// "edit". The read increments land before the draft gate: a denied draft peek
// still counts, matching the platform's historical behavior.
func (s *BlogService) FetchForRead(ctx context.Context, blogID string, wantDraft bool, mode string) (*models.Blog, error) {
	var delta int64 = 1
	if mode == FetchModeEdit {
		delta = 0
	}

	blog, err := s.blogRepo.IncrementReadsAndGet(ctx, blogID, delta)
	if err != nil {
		return nil, err
	}
	if delta > 0 {
		// Second, independent step of the read-count saga. A crash between the
		// two leaves the author aggregate behind the blog counter, accepted drift.
		if err := s.userRepo.IncrementTotalReads(ctx, blog.Author, delta); err != nil {
			return nil, err
		}
	}

	if blog.Draft && !wantDraft {
		return nil, apperr.AccessDenied("you can not access draft blogs")
	}
	return blog, nil
}

// ListWritten lists the caller's own blogs, drafts included when asked for.
func (s *BlogService) ListWritten(ctx context.Context, authorID primitive.ObjectID, draft bool, query string, skip, limit int64) ([]models.Blog, error) {
	return s.blogRepo.GetByAuthor(ctx, authorID, draft, query, skip, limit)
}

// CountWritten counts the caller's own blogs under the same filter
func (s *BlogService) CountWritten(ctx context.Context, authorID primitive.ObjectID, draft bool, query string) (int64, error) {
	return s.blogRepo.CountByAuthor(ctx, authorID, draft, query)
}

// Delete removes a blog along with its comments and notifications, and unwinds
// the author's blogs array and post counter. Only the author may delete.
func (s *BlogService) Delete(ctx context.Context, authorID primitive.ObjectID, blogID string) error {
	existing, err := s.blogRepo.GetBlogByBlogID(ctx, blogID)
	if err != nil {
		return err
	}
	if existing.Author != authorID {
		return apperr.AccessDenied("you can not delete someone else's blog")
	}

	blog, err := s.blogRepo.DeleteBlog(ctx, blogID)
	if err != nil {
		return err
	}
	if err := s.notificationRepo.DeleteByBlogID(ctx, blog.ID); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteByBlogID(ctx, blog.ID); err != nil {
		return err
	}

	postsDelta := int64(1)
	if blog.Draft {
		postsDelta = 0
	}
	return s.userRepo.UnregisterBlog(ctx, authorID, blog.ID, postsDelta)
}

// newBlogID derives a human-readable id from the title plus a random suffix.
func newBlogID(title string) (string, error) {
	suffix, err := gonanoid.New(blogIDSuffix)
	if err != nil {
		return "", apperr.Internal(err)
	}
	base := slug.Make(title)
	if base == "" {
		base = "blog"
	}
	return base + "-" + suffix, nil
}
