package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// ValidTaskStatus reports whether s is one of the three task states.
// Transitions between states are unrestricted in every direction.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	DueDate     *time.Time     `json:"due_date"`
	Order       int            `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator     User           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignees   []TaskAssignee `gorm:"foreignKey:TaskID" json:"assignees,omitempty"`
	Attachments []Attachment   `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}

// AssigneeIDs returns the user IDs of all loaded assignee rows.
func (t *Task) AssigneeIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		ids = append(ids, a.UserID)
	}
	return ids
}

// IsAssignee reports whether the given user has a loaded assignee row.
func (t *Task) IsAssignee(userID uint64) bool {
	for _, a := range t.Assignees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}
