package services

import (
	"context"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/repositories"
)

const (
	latestPageSize   = 5
	trendingLimit    = 5
	userSearchLimit  = 50
	defaultPageLimit = 5
)

// SearchService serves the read-only listing queries. Every result is a
// partial projection over published blogs; drafts and secrets never appear.
type SearchService struct {
	blogRepo repositories.BlogRepository
	userRepo repositories.UserRepository
}

// NewSearchService creates a new SearchService
func NewSearchService(blogRepo repositories.BlogRepository, userRepo repositories.UserRepository) *SearchService {
	return &SearchService{blogRepo: blogRepo, userRepo: userRepo}
}

// LatestBlogs returns one fixed-size page of published blogs, newest first.
// Pages are 1-based.
func (s *SearchService) LatestBlogs(ctx context.Context, page int64) ([]models.Blog, error) {
	if page < 1 {
		page = 1
	}
	return s.blogRepo.GetLatest(ctx, (page-1)*latestPageSize, latestPageSize)
}

// CountLatest counts all published blogs
func (s *SearchService) CountLatest(ctx context.Context) (int64, error) {
	return s.blogRepo.Count(ctx, repositories.BlogFilter{})
}

// TrendingBlogs returns the top five published blogs by reads, likes, recency.
func (s *SearchService) TrendingBlogs(ctx context.Context) ([]models.Blog, error) {
	return s.blogRepo.GetTrending(ctx, trendingLimit)
}

// SearchBlogs pages through published blogs matching exactly one of tag,
// title query or author. A zero limit falls back to the default page size.
func (s *SearchService) SearchBlogs(ctx context.Context, filter repositories.BlogFilter, page, limit int64) ([]models.Blog, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return s.blogRepo.Search(ctx, filter, (page-1)*limit, limit)
}

// CountBlogs counts published blogs matching the filter
func (s *SearchService) CountBlogs(ctx context.Context, filter repositories.BlogFilter) (int64, error) {
	return s.blogRepo.Count(ctx, filter)
}

// SearchUsers matches usernames case-insensitively by substring, capped at 50.
func (s *SearchService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	return s.userRepo.SearchUsers(ctx, query, userSearchLimit)
}
