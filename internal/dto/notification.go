package dto

import (
	"time"

	"github.com/todocollab/backend/internal/models"
)

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Message   string    `json:"message"`
	TaskID    uint64    `json:"task_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		UserID:    n.UserID,
		Message:   n.Message,
		TaskID:    n.TaskID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationDTOs converts a slice of notifications
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	result := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		result[i] = ToNotificationDTO(n)
	}
	return result
}
