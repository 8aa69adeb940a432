package handlers

import (
	"net/http"

	"github.com/eventflow/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	identity *services.IdentityService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(identity *services.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// RegisterProfileRoutes registers the public profile routes
func (h *UserHandler) RegisterProfileRoutes(e *echo.Echo) {
	e.POST("/get-profile", h.GetProfile)
}

// GetProfileRequest identifies the profile to fetch
type GetProfileRequest struct {
	Username string `json:"username" validate:"required"`
}

// GetProfile returns a user's public profile by username
func (h *UserHandler) GetProfile(c echo.Context) error {
	var req GetProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.identity.GetProfile(c.Request().Context(), req.Username)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
