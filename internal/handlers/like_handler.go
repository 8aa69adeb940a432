package handlers

import (
	"net/http"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	engagement *services.EngagementService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engagement *services.EngagementService) *LikeHandler {
	return &LikeHandler{engagement: engagement}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/like-blog", h.LikeBlog)
	g.POST("/isliked-by-user", h.IsLikedByUser)
}

// LikeBlog toggles the like state of a blog. The client sends the state it
// currently sees; the new state is its negation.
func (h *LikeHandler) LikeBlog(c echo.Context) error {
	userID := middleware.UserID(c)

	var req models.LikeBlogRequest
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

	like := !req.IsLiked
	if err := h.engagement.SetLiked(c.Request().Context(), userID, blogID, like); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked_by_user": like})
}

// IsLikedByUser reports whether the caller currently likes the blog
func (h *LikeHandler) IsLikedByUser(c echo.Context) error {
	userID := middleware.UserID(c)

	var req struct {
		BlogID string `json:"_id" validate:"required"`
	}
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

	liked, err := h.engagement.IsLiked(c.Request().Context(), userID, blogID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"result": liked})
}
