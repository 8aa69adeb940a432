package handlers

import (
	"net/http"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles HTTP requests for the notification feed
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers the authenticated notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/new-notification", h.NewNotification)
	g.POST("/notifications", h.Notifications)
	g.POST("/all-notifications-count", h.NotificationsCount)
	g.POST("/seen-notification", h.SeenNotification)
}

// NewNotification reports whether the caller has any unseen notification
func (h *NotificationHandler) NewNotification(c echo.Context) error {
	userID := middleware.UserID(c)

	hasUnseen, err := h.notifications.HasUnseen(c.Request().Context(), userID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"new_notification_available": hasUnseen})
}

// Notifications returns one page of the caller's notification feed
func (h *NotificationHandler) Notifications(c echo.Context) error {
	userID := middleware.UserID(c)

	var req models.ListNotificationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	notifications, err := h.notifications.List(c.Request().Context(), userID, req.Filter, req.Page)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

// NotificationsCount counts the caller's notifications under the same filter
func (h *NotificationHandler) NotificationsCount(c echo.Context) error {
	userID := middleware.UserID(c)

	var req models.ListNotificationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	count, err := h.notifications.Count(c.Request().Context(), userID, req.Filter)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"totalDocs": count})
}

// SeenNotificationRequest identifies the notification to mark as seen
type SeenNotificationRequest struct {
	NotificationID string `json:"notification_id" validate:"required"`
}

// SeenNotification flags a notification as seen
func (h *NotificationHandler) SeenNotification(c echo.Context) error {
	var req SeenNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	notificationID, err := primitive.ObjectIDFromHex(req.NotificationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID format")
	}

	if err := h.notifications.MarkSeen(c.Request().Context(), notificationID); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "done"})
}
