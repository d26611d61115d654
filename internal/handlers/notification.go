package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/todocollab/backend/internal/dto"
	apierrors "github.com/todocollab/backend/internal/errors"
	"github.com/todocollab/backend/internal/middleware"
	"github.com/todocollab/backend/internal/services"
)

// NotificationHandler serves a user's notification inbox.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns the current user's notifications, newest
// first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	notifications, err := h.notificationService.ListForUser(actor)
	if err != nil {
		logrus.WithError(err).Error("Failed to list notifications")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationDTOs(notifications))
}

// MarkRead marks one of the current user's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid notification ID")
		return
	}

	notification, err := h.notificationService.MarkRead(actor, notificationID)
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		logrus.WithError(err).Error("Failed to mark notification read")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationDTO(*notification))
}
