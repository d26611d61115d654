package repository

import (
	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/utils"
)

// UserWithCounts decorates a user row with task aggregates for the
// admin listing.
type UserWithCounts struct {
	models.User
	CreatedCount  int64 `json:"created_count"`
	AssignedCount int64 `json:"assigned_count"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ListActive lists all active users (for the assignee picker)
	ListActive() ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// ListWithCounts lists users newest-first with created/assigned task
	// counts, paginated
	ListWithCounts(params utils.PaginationParams) ([]UserWithCounts, int64, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(userIDs []uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateWithRelations creates a task, its assignee rows, and its
	// attachment rows as one atomic unit
	CreateWithRelations(task *models.Task, assigneeIDs []uint64, attachments []models.Attachment) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByCreator lists tasks created by a user, newest first
	ListByCreator(userID uint64) ([]models.Task, error)

	// ListByAssignee lists tasks the user is assigned to, newest first
	ListByAssignee(userID uint64) ([]models.Task, error)

	// ListAll lists every task with relations, newest first
	ListAll() ([]models.Task, error)

	// FindByIDs loads the tasks with the given IDs, assignees included
	FindByIDs(ids []uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Reorder assigns sort_order = index for each ID in sequence, as one
	// atomic batch
	Reorder(orderedIDs []uint64) error

	// ListByIDsOrdered loads tasks by ID ordered by their sort key
	ListByIDsOrdered(ids []uint64) ([]models.Task, error)
}

// AttachmentRepository defines the interface for attachment metadata access
type AttachmentRepository interface {
	// FindByID finds an attachment with its parent task and the task's
	// assignee rows loaded
	FindByID(id uint64) (*models.Attachment, error)

	// ListVisibleTo lists attachments the user uploaded, or belonging to
	// tasks the user created or is assigned to, newest first
	ListVisibleTo(userID uint64) ([]models.Attachment, error)

	// ListAll lists every attachment, newest first (admin view)
	ListAll() ([]models.Attachment, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// CreateBatch inserts one row per recipient
	CreateBatch(notifications []models.Notification) error

	// ListByUser lists a user's notifications, newest first
	ListByUser(userID uint64) ([]models.Notification, error)

	// FindByID finds a notification by ID
	FindByID(id uint64) (*models.Notification, error)

	// Update persists changes to a notification
	Update(notification *models.Notification) error
}
