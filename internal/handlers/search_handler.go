package handlers

import (
	"net/http"
	"strings"

	"github.com/eventflow/backend/internal/repositories"
	"github.com/eventflow/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SearchHandler handles the read-only listing and search routes
type SearchHandler struct {
	search *services.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// RegisterSearchRoutes registers the public listing routes
func (h *SearchHandler) RegisterSearchRoutes(e *echo.Echo) {
	e.POST("/latest-blogs", h.LatestBlogs)
	e.POST("/all-latest-blogs-count", h.LatestBlogsCount)
	e.GET("/trending-blogs", h.TrendingBlogs)
	e.POST("/search-blogs", h.SearchBlogs)
	e.POST("/search-blogs-count", h.SearchBlogsCount)
	e.POST("/search-users", h.SearchUsers)
}

// LatestBlogsRequest selects a page of the latest published blogs
type LatestBlogsRequest struct {
	Page int64 `json:"page"`
}

// LatestBlogs returns one page of published blogs, newest first
func (h *SearchHandler) LatestBlogs(c echo.Context) error {
	var req LatestBlogsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	blogs, err := h.search.LatestBlogs(c.Request().Context(), req.Page)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"blogs": blogs})
}

// LatestBlogsCount counts all published blogs
func (h *SearchHandler) LatestBlogsCount(c echo.Context) error {
	count, err := h.search.CountLatest(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"totalDocs": count})
}

// TrendingBlogs returns the top five published blogs by engagement
func (h *SearchHandler) TrendingBlogs(c echo.Context) error {
	blogs, err := h.search.TrendingBlogs(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"blogs": blogs})
}

// SearchBlogsRequest narrows a blog search by exactly one of tag, query, author
type SearchBlogsRequest struct {
	Tag           string `json:"tag,omitempty"`
	Query         string `json:"query,omitempty"`
	Author        string `json:"author,omitempty"`
	Page          int64  `json:"page"`
	Limit         int64  `json:"limit,omitempty"`
	EliminateBlog string `json:"eliminate_blog,omitempty"`
}

func (req *SearchBlogsRequest) filter() (repositories.BlogFilter, error) {
	filter := repositories.BlogFilter{
		Tag:           strings.ToLower(req.Tag),
		Query:         req.Query,
		ExcludeBlogID: req.EliminateBlog,
	}
	if req.Author != "" {
		author, err := primitive.ObjectIDFromHex(req.Author)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid author ID format")
		}
		filter.Author = &author
	}
	return filter, nil
}

// SearchBlogs pages through published blogs matching the filter
func (h *SearchHandler) SearchBlogs(c echo.Context) error {
	var req SearchBlogsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	filter, err := req.filter()
	if err != nil {
		return err
	}

	blogs, err := h.search.SearchBlogs(c.Request().Context(), filter, req.Page, req.Limit)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"blogs": blogs})
}

// SearchBlogsCount counts published blogs matching the filter
func (h *SearchHandler) SearchBlogsCount(c echo.Context) error {
	var req SearchBlogsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	filter, err := req.filter()
	if err != nil {
		return err
	}

	count, err := h.search.CountBlogs(c.Request().Context(), filter)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"totalDocs": count})
}

// SearchUsersRequest matches usernames by substring
type SearchUsersRequest struct {
	Query string `json:"query" validate:"required"`
}

// SearchUsers returns up to fifty users whose username contains the query
func (h *SearchHandler) SearchUsers(c echo.Context) error {
	var req SearchUsersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	users, err := h.search.SearchUsers(c.Request().Context(), req.Query)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}
