package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/todocollab/backend/internal/dto"
	apierrors "github.com/todocollab/backend/internal/errors"
	"github.com/todocollab/backend/internal/middleware"
	"github.com/todocollab/backend/internal/services"
)

// FileHandler serves the cross-task file listing.
type FileHandler struct {
	taskService *services.TaskService
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(taskService *services.TaskService) *FileHandler {
	return &FileHandler{
		taskService: taskService,
	}
}

// ListFiles returns every attachment visible to the current user, with
// parent task and uploader metadata. Admins see all attachments.
func (h *FileHandler) ListFiles(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	attachments, err := h.taskService.ListAttachments(actor)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentDTOs(attachments))
}
