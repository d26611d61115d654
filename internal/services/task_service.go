package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskForbidden       = errors.New("no access to this task")
	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidAssignee     = errors.New("one or more assignees do not exist")
	ErrNoTaskIDs           = errors.New("at least one task ID is required")
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrAttachmentForbidden = errors.New("no access to this attachment")
)

// taskPreloads are the relations populated on every task returned to a
// client.
var taskPreloads = []string{"Creator", "Assignees", "Assignees.User", "Attachments"}

// Notifier pushes an event to a user's private realtime channel.
// Delivery is best-effort; implementations must not block.
type Notifier interface {
	NotifyUser(userID uint64, message string, taskID uint64)
}

// BlobStore is the storage backend for attachment and avatar bytes.
type BlobStore interface {
	Save(subdir, originalName string, src io.Reader) (string, error)
	Exists(path string) bool
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
	Resolve(subdir, filename string) (string, error)
}

// TaskService orchestrates the task lifecycle: creation, listing, status
// transitions, reordering, and attachment downloads.
type TaskService struct {
	taskRepo         repository.TaskRepository
	userRepo         repository.UserRepository
	attachmentRepo   repository.AttachmentRepository
	notificationRepo repository.NotificationRepository
	notifier         Notifier
	blobs            BlobStore
}

// NewTaskService creates a new TaskService. The notifier may be nil, in
// which case status changes produce durable notifications only.
func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	attachmentRepo repository.AttachmentRepository,
	notificationRepo repository.NotificationRepository,
	notifier Notifier,
	blobs BlobStore,
) *TaskService {
	return &TaskService{
		taskRepo:         taskRepo,
		userRepo:         userRepo,
		attachmentRepo:   attachmentRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		blobs:            blobs,
	}
}

// UploadedFile is one file received with a create request, decoded at
// the boundary.
type UploadedFile struct {
	Filename string
	MimeType string
	Size     int64
	Content  io.Reader
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Actor       Actor
	Title       string
	Description string
	DueDate     *time.Time
	AssigneeIDs []uint64
	Files       []UploadedFile
}

// CreateTask creates a task with its assignee and attachment rows as one
// atomic unit. Duplicate assignee IDs collapse to one row. If the
// transaction fails, stored blobs are removed and nothing persists.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	assigneeIDs := uniqueUint64(input.AssigneeIDs)
	if len(assigneeIDs) > 0 {
		count, err := s.userRepo.CountByIDs(assigneeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to verify assignees: %w", err)
		}
		if int(count) != len(assigneeIDs) {
			return nil, ErrInvalidAssignee
		}
	}

	attachments := make([]models.Attachment, 0, len(input.Files))
	storedPaths := make([]string, 0, len(input.Files))
	for _, f := range input.Files {
		path, err := s.blobs.Save("attachments", f.Filename, f.Content)
		if err != nil {
			s.removeBlobs(storedPaths)
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		storedPaths = append(storedPaths, path)
		attachments = append(attachments, models.Attachment{
			Filename:    f.Filename,
			StoragePath: path,
			MimeType:    f.MimeType,
			SizeBytes:   f.Size,
			UploaderID:  input.Actor.ID,
		})
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		DueDate:     input.DueDate,
		CreatorID:   input.Actor.ID,
	}

	if err := s.taskRepo.CreateWithRelations(task, assigneeIDs, attachments); err != nil {
		s.removeBlobs(storedPaths)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// ListOwned returns tasks created by the actor, newest first.
func (s *TaskService) ListOwned(actor Actor) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByCreator(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned tasks: %w", err)
	}
	return tasks, nil
}

// ListAssigned returns tasks the actor is assigned to, newest first.
func (s *TaskService) ListAssigned(actor Actor) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByAssignee(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	return tasks, nil
}

// ListAll returns every task with relations, newest first. Used by the
// shared status board; any authenticated user may call it.
func (s *TaskService) ListAll() ([]models.Task, error) {
	tasks, err := s.taskRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with full relations if the actor passes the
// access predicate.
func (s *TaskService) GetTask(actor Actor, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !CanAccessTask(actor, task) {
		return nil, ErrTaskForbidden
	}

	return task, nil
}

// UpdateStatus transitions a task to the given status. Any of the three
// states may move to any other. On success one notification row is
// inserted per assignee other than the actor and a realtime event is
// pushed to each; push failures are logged and swallowed.
func (s *TaskService) UpdateStatus(actor Actor, taskID uint64, newStatus models.TaskStatus) (*models.Task, error) {
	if !models.ValidTaskStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	task, err := s.taskRepo.FindByID(taskID, "Assignees")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !CanAccessTask(actor, task) {
		return nil, ErrTaskForbidden
	}

	task.Status = newStatus
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	affected := make([]uint64, 0, len(task.Assignees))
	for _, a := range task.Assignees {
		if a.UserID != actor.ID {
			affected = append(affected, a.UserID)
		}
	}

	if len(affected) > 0 {
		message := fmt.Sprintf("Status changed to %s for %q", newStatus, task.Title)

		notifications := make([]models.Notification, len(affected))
		for i, userID := range affected {
			notifications[i] = models.Notification{
				UserID:  userID,
				Message: message,
				TaskID:  task.ID,
			}
		}
		if err := s.notificationRepo.CreateBatch(notifications); err != nil {
			return nil, fmt.Errorf("failed to create notifications: %w", err)
		}

		if s.notifier != nil {
			for _, userID := range affected {
				s.notifier.NotifyUser(userID, message, task.ID)
			}
		}
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// ReorderTasks assigns order = index for each ID in sequence. If the
// actor lacks access to any referenced task the whole batch fails and no
// order changes. Returns the tasks in their new order.
func (s *TaskService) ReorderTasks(actor Actor, orderedIDs []uint64) ([]models.Task, error) {
	if len(orderedIDs) == 0 {
		return nil, ErrNoTaskIDs
	}

	tasks, err := s.taskRepo.FindByIDs(orderedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(tasks) != len(uniqueUint64(orderedIDs)) {
		return nil, ErrTaskNotFound
	}

	for i := range tasks {
		if !CanAccessTask(actor, &tasks[i]) {
			return nil, ErrTaskForbidden
		}
	}

	if err := s.taskRepo.Reorder(orderedIDs); err != nil {
		return nil, fmt.Errorf("failed to reorder tasks: %w", err)
	}

	return s.taskRepo.ListByIDsOrdered(orderedIDs)
}

// DownloadAttachment returns an attachment's metadata and a reader over
// its stored bytes. Missing rows and missing bytes are both not-found;
// access requires being the uploader, passing the parent task's
// predicate, or the admin role.
func (s *TaskService) DownloadAttachment(actor Actor, attachmentID uint64) (*models.Attachment, io.ReadCloser, error) {
	att, err := s.attachmentRepo.FindByID(attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAttachmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to find attachment: %w", err)
	}

	if !CanAccessAttachment(actor, att) {
		return nil, nil, ErrAttachmentForbidden
	}

	if !s.blobs.Exists(att.StoragePath) {
		return nil, nil, ErrAttachmentNotFound
	}

	reader, err := s.blobs.Open(att.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open attachment: %w", err)
	}

	return att, reader, nil
}

// ListAttachments returns attachments visible to the actor; admins see
// every attachment.
func (s *TaskService) ListAttachments(actor Actor) ([]models.Attachment, error) {
	var (
		attachments []models.Attachment
		err         error
	)
	if actor.IsAdmin() {
		attachments, err = s.attachmentRepo.ListAll()
	} else {
		attachments, err = s.attachmentRepo.ListVisibleTo(actor.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

func (s *TaskService) removeBlobs(paths []string) {
	for _, p := range paths {
		if err := s.blobs.Remove(p); err != nil {
			logrus.WithError(err).WithField("path", p).Warn("Failed to remove stored blob after rollback")
		}
	}
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
