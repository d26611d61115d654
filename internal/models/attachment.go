package models

import "time"

// Attachment records metadata for a file uploaded alongside a task.
// Rows are immutable after creation; the bytes live in blob storage
// under StoragePath.
type Attachment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Filename    string    `gorm:"type:varchar(255);not null" json:"filename"`
	StoragePath string    `gorm:"type:varchar(512);not null" json:"-"`
	MimeType    string    `gorm:"type:varchar(127)" json:"mime_type"`
	SizeBytes   int64     `json:"size_bytes"`
	TaskID      uint64    `gorm:"not null;index" json:"task_id"`
	UploaderID  uint64    `gorm:"not null" json:"uploader_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Task     Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Uploader User `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}
