package handlers

import (
	"net/http"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const commentsPageSize = 5

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	engagement *services.EngagementService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engagement *services.EngagementService) *CommentHandler {
	return &CommentHandler{engagement: engagement}
}

// RegisterCommentRoutes registers the authenticated comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/add-comment", h.AddComment)
}

// RegisterPublicCommentRoutes registers the comment routes that need no session
func (h *CommentHandler) RegisterPublicCommentRoutes(e *echo.Echo) {
	e.POST("/get-blog-comments", h.GetBlogComments)
}

// AddComment creates a top-level comment on a blog and notifies its author
func (h *CommentHandler) AddComment(c echo.Context) error {
	userID := middleware.UserID(c)

	var req models.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	blogID, err := primitive.ObjectIDFromHex(req.BlogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid blog ID format")
	}
	blogAuthor, err := primitive.ObjectIDFromHex(req.BlogAuthor)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid blog author ID format")
	}

	comment, err := h.engagement.AddComment(c.Request().Context(), userID, blogID, blogAuthor, req.Comment)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// GetBlogComments pages through a blog's top-level comments
func (h *CommentHandler) GetBlogComments(c echo.Context) error {
	var req models.ListCommentsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	blogID, err := primitive.ObjectIDFromHex(req.BlogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid blog ID format")
	}
	if req.Skip < 0 {
		req.Skip = 0
	}

	comments, err := h.engagement.ListComments(c.Request().Context(), blogID, req.Skip, commentsPageSize)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}
