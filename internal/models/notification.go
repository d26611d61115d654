package models

import "time"

// Notification is the durable record of a status change delivered to one
// recipient. The websocket push is advisory; this row is the source of
// truth for the polling endpoint.
type Notification struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"type:varchar(512);not null" json:"message"`
	TaskID    uint64    `gorm:"not null" json:"task_id"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
