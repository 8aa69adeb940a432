package handlers

import (
	"net/http"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// BlogHandler handles HTTP requests for the blog lifecycle
type BlogHandler struct {
	blogService *services.BlogService
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogService *services.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// RegisterBlogRoutes registers the authenticated blog lifecycle routes
func (h *BlogHandler) RegisterBlogRoutes(g *echo.Group) {
	g.POST("/create-blog", h.CreateBlog)
	g.POST("/user-written-blogs", h.UserWrittenBlogs)
	g.POST("/user-written-blogs-count", h.UserWrittenBlogsCount)
	g.POST("/delete-blog", h.DeleteBlog)
}

// RegisterPublicBlogRoutes registers the blog routes that need no session
func (h *BlogHandler) RegisterPublicBlogRoutes(e *echo.Echo) {
	e.POST("/get-blog", h.GetBlog)
}

// CreateBlog creates a new blog or updates an existing one in place
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	authorID := middleware.UserID(c)

	var req models.PublishBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	blogID, err := h.blogService.CreateOrUpdate(c.Request().Context(), authorID, &req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": blogID})
}

// GetBlog fetches a single blog, counting the fetch as a read unless editing
func (h *BlogHandler) GetBlog(c echo.Context) error {
	var req models.GetBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog, err := h.blogService.FetchForRead(c.Request().Context(), req.BlogID, req.Draft, req.Mode)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"blog": blog})
}

// UserWrittenBlogsRequest pages through the caller's own blogs
type UserWrittenBlogsRequest struct {
	Page  int64  `json:"page"`
	Draft bool   `json:"draft"`
	Query string `json:"query,omitempty"`
}

const writtenBlogsPageSize = 5

// UserWrittenBlogs lists the caller's own blogs, drafts included when asked
func (h *BlogHandler) UserWrittenBlogs(c echo.Context) error {
	authorID := middleware.UserID(c)

	var req UserWrittenBlogsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Page < 1 {
		req.Page = 1
	}

	blogs, err := h.blogService.ListWritten(c.Request().Context(), authorID, req.Draft, req.Query, (req.Page-1)*writtenBlogsPageSize, writtenBlogsPageSize)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"blogs": blogs})
}

// UserWrittenBlogsCount counts the caller's own blogs under the same filter
func (h *BlogHandler) UserWrittenBlogsCount(c echo.Context) error {
	authorID := middleware.UserID(c)

	var req UserWrittenBlogsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	count, err := h.blogService.CountWritten(c.Request().Context(), authorID, req.Draft, req.Query)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"totalDocs": count})
}

// DeleteBlogRequest identifies the blog to delete
type DeleteBlogRequest struct {
	BlogID string `json:"blog_id" validate:"required"`
}

// DeleteBlog removes one of the caller's blogs with its comments and notifications
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	authorID := middleware.UserID(c)

	var req DeleteBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.blogService.Delete(c.Request().Context(), authorID, req.BlogID); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "done"})
}
