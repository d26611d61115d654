package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/todocollab/backend/internal/constants"
	"github.com/todocollab/backend/internal/dto"
	apierrors "github.com/todocollab/backend/internal/errors"
	"github.com/todocollab/backend/internal/middleware"
	"github.com/todocollab/backend/internal/services"
)

// UserHandler serves the user directory and profile uploads.
type UserHandler struct {
	authService *services.AuthService
	blobs       services.BlobStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, blobs services.BlobStore) *UserHandler {
	return &UserHandler{
		authService: authService,
		blobs:       blobs,
	}
}

// ListUsers returns active users for the assignee picker.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListActiveUsers()
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// UploadAvatar stores a profile picture for the current user.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		apierrors.BadRequest(c, "No file uploaded")
		return
	}
	if fileHeader.Size > constants.MaxAvatarSizeBytes {
		apierrors.BadRequest(c, "File too large")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "No file uploaded")
		return
	}
	defer src.Close()

	path, err := h.blobs.Save("avatars", fileHeader.Filename, src)
	if err != nil {
		logrus.WithError(err).Error("Failed to store avatar")
		apierrors.InternalError(c, "")
		return
	}

	avatarURL := "/api/uploads/avatars/" + filepath.Base(path)
	if err := h.authService.SetAvatar(actor.ID, avatarURL); err != nil {
		logrus.WithError(err).Error("Failed to update avatar")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "avatar": avatarURL})
}

// ServeAvatar streams a stored profile picture.
func (h *UserHandler) ServeAvatar(c *gin.Context) {
	path, err := h.blobs.Resolve("avatars", c.Param("filename"))
	if err != nil {
		apierrors.NotFound(c, "")
		return
	}
	if !h.blobs.Exists(path) {
		apierrors.NotFound(c, "")
		return
	}
	c.File(path)
}
