package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/todocollab/backend/internal/dto"
	apierrors "github.com/todocollab/backend/internal/errors"
	"github.com/todocollab/backend/internal/middleware"
	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/services"
)

// TaskHandler adapts the task lifecycle operations to HTTP.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task with optional assignees and file uploads.
// Accepts either a JSON body or a multipart form; the assignees field is
// normalized to a list of IDs either way before any business logic runs.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input, closers, err := h.decodeCreateRequest(c, actor)
	defer func() {
		for _, closeFile := range closers {
			closeFile()
		}
	}()
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(*input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListMyTasks returns tasks created by the current user.
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListOwned(actor)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListAssignedTasks returns tasks the current user is assigned to.
func (h *TaskHandler) ListAssignedTasks(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListAssigned(actor)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a single task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(actor, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateStatus transitions a task's status and fans out notifications.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateStatus(actor, taskID, req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ReorderTasks rewrites the manual sort key for a batch of tasks.
func (h *TaskHandler) ReorderTasks(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ReorderRequest struct {
		OrderedIDs json.RawMessage `json:"ordered_ids" binding:"required"`
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	orderedIDs, err := dto.ParseIDList(req.OrderedIDs)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.ReorderTasks(actor, orderedIDs)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTaskStatus returns the status board view of one task.
func (h *TaskHandler) GetTaskStatus(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(actor, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskStatusDTO(*task))
}

// ListTaskStatuses returns the status board view of every task.
func (h *TaskHandler) ListTaskStatuses(c *gin.Context) {
	if _, exists := middleware.GetActor(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListAll()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	result := make([]dto.TaskStatusDTO, len(tasks))
	for i, task := range tasks {
		result[i] = dto.ToTaskStatusDTO(task)
	}
	c.JSON(http.StatusOK, result)
}

// DownloadAttachment streams an attachment's bytes with its stored
// filename and mime type.
func (h *TaskHandler) DownloadAttachment(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	attachmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid file ID")
		return
	}

	att, reader, err := h.taskService.DownloadAttachment(actor, attachmentID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	defer reader.Close()

	contentType := att.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", att.Filename),
	}
	c.DataFromReader(http.StatusOK, att.SizeBytes, contentType, reader, extraHeaders)
}

// decodeCreateRequest normalizes JSON and multipart submissions into one
// CreateTaskInput. Returned closers must be invoked after the service
// call to release opened upload streams.
func (h *TaskHandler) decodeCreateRequest(c *gin.Context, actor services.Actor) (*services.CreateTaskInput, []func() error, error) {
	input := &services.CreateTaskInput{Actor: actor}
	var closers []func() error

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			return input, closers, fmt.Errorf("invalid multipart form")
		}

		input.Title = formValue(form, "title")
		input.Description = formValue(form, "description")

		if raw := formValue(form, "due_date"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return input, closers, fmt.Errorf("invalid due_date")
			}
			input.DueDate = &parsed
		}

		if raw := formValue(form, "assignees"); raw != "" {
			ids, err := dto.ParseIDList(json.RawMessage(strconv.Quote(raw)))
			if err != nil {
				return input, closers, err
			}
			input.AssigneeIDs = ids
		}

		for _, fileHeader := range form.File["files"] {
			src, err := fileHeader.Open()
			if err != nil {
				return input, closers, fmt.Errorf("failed to read uploaded file")
			}
			closers = append(closers, src.Close)
			input.Files = append(input.Files, services.UploadedFile{
				Filename: fileHeader.Filename,
				MimeType: fileHeader.Header.Get("Content-Type"),
				Size:     fileHeader.Size,
				Content:  src,
			})
		}

		return input, closers, nil
	}

	type CreateTaskRequest struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		DueDate     *time.Time      `json:"due_date"`
		Assignees   json.RawMessage `json:"assignees"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return input, closers, fmt.Errorf("invalid request body")
	}

	input.Title = req.Title
	input.Description = req.Description
	input.DueDate = req.DueDate

	ids, err := dto.ParseIDList(req.Assignees)
	if err != nil {
		return input, closers, err
	}
	input.AssigneeIDs = ids

	return input, closers, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrAttachmentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskForbidden),
		errors.Is(err, services.ErrAttachmentForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrNoTaskIDs):
		apierrors.BadRequest(c, err.Error())
	default:
		logrus.WithError(err).Error("Unexpected task error")
		apierrors.InternalError(c, "")
	}
}
