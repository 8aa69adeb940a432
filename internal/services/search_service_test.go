package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedBlog(t *testing.T, blogs *fakeBlogRepo, blog *models.Blog) *models.Blog {
	t.Helper()
	require.NoError(t, blogs.CreateBlog(context.Background(), blog))
	return blog
}

func TestLatestBlogs(t *testing.T) {
	blogs := newFakeBlogRepo()
	svc := NewSearchService(blogs, newFakeUserRepo())
	author := primitive.NewObjectID()

	for i := 0; i < 7; i++ {
		seedBlog(t, blogs, &models.Blog{
			BlogID: fmt.Sprintf("post-%d", i),
			Title:  fmt.Sprintf("Post %d", i),
			Author: author,
		})
	}
	seedBlog(t, blogs, &models.Blog{BlogID: "hidden-draft", Title: "Hidden", Author: author, Draft: true})

	first, err := svc.LatestBlogs(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, "post-6", first[0].BlogID, "newest first")
	assert.Equal(t, "post-2", first[4].BlogID)

	second, err := svc.LatestBlogs(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	for _, b := range append(first, second...) {
		assert.False(t, b.Draft, "drafts never appear in listings")
	}

	count, err := svc.CountLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestTrendingBlogs(t *testing.T) {
	blogs := newFakeBlogRepo()
	svc := NewSearchService(blogs, newFakeUserRepo())
	author := primitive.NewObjectID()

	seedBlog(t, blogs, &models.Blog{BlogID: "quiet", Author: author, Activity: models.BlogActivity{TotalReads: 1}})
	seedBlog(t, blogs, &models.Blog{BlogID: "popular", Author: author, Activity: models.BlogActivity{TotalReads: 100, TotalLikes: 2}})
	seedBlog(t, blogs, &models.Blog{BlogID: "liked", Author: author, Activity: models.BlogActivity{TotalReads: 100, TotalLikes: 9}})
	seedBlog(t, blogs, &models.Blog{BlogID: "viral-draft", Author: author, Draft: true, Activity: models.BlogActivity{TotalReads: 9999}})

	trending, err := svc.TrendingBlogs(context.Background())
	require.NoError(t, err)
	require.Len(t, trending, 3)
	assert.Equal(t, "liked", trending[0].BlogID, "likes break the reads tie")
	assert.Equal(t, "popular", trending[1].BlogID)
	assert.Equal(t, "quiet", trending[2].BlogID)
}

func TestSearchBlogs(t *testing.T) {
	blogs := newFakeBlogRepo()
	svc := NewSearchService(blogs, newFakeUserRepo())
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	seedBlog(t, blogs, &models.Blog{BlogID: "go-basics", Title: "Go Basics", Tags: []string{"go"}, Author: alice})
	seedBlog(t, blogs, &models.Blog{BlogID: "go-advanced", Title: "Advanced Go", Tags: []string{"go", "concurrency"}, Author: bob})
	seedBlog(t, blogs, &models.Blog{BlogID: "cooking", Title: "Weeknight Cooking", Tags: []string{"food"}, Author: alice})

	t.Run("by tag", func(t *testing.T) {
		got, err := svc.SearchBlogs(context.Background(), repositories.BlogFilter{Tag: "go"}, 1, 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by title query", func(t *testing.T) {
		got, err := svc.SearchBlogs(context.Background(), repositories.BlogFilter{Query: "cooking"}, 1, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "cooking", got[0].BlogID)
	})

	t.Run("by author", func(t *testing.T) {
		got, err := svc.SearchBlogs(context.Background(), repositories.BlogFilter{Author: &alice}, 1, 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("exclude current blog", func(t *testing.T) {
		got, err := svc.SearchBlogs(context.Background(), repositories.BlogFilter{Tag: "go", ExcludeBlogID: "go-basics"}, 1, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "go-advanced", got[0].BlogID)
	})

	t.Run("count matches filter", func(t *testing.T) {
		count, err := svc.CountBlogs(context.Background(), repositories.BlogFilter{Tag: "go"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestSearchUsers(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewSearchService(newFakeBlogRepo(), users)

	for _, username := range []string{"anna", "annabel", "bruno"} {
		require.NoError(t, users.CreateUser(context.Background(), &models.User{
			PersonalInfo: models.PersonalInfo{
				Email:    username + "@example.com",
				Username: username,
				Fullname: username,
			},
		}))
	}

	got, err := svc.SearchUsers(context.Background(), "ANN")
	require.NoError(t, err)
	assert.Len(t, got, 2, "matching is case-insensitive substring")
	for _, u := range got {
		assert.Empty(t, u.PersonalInfo.Email, "search results carry no private fields")
	}

	none, err := svc.SearchUsers(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}
