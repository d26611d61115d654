package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/todocollab/backend/internal/models"
)

// TaskAssigneeDTO represents an assignee in API responses
type TaskAssigneeDTO struct {
	User UserDTO `json:"user"`
}

// AttachmentDTO represents an attachment in API responses
type AttachmentDTO struct {
	ID         uint64    `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	TaskID     uint64    `json:"task_id"`
	UploaderID uint64    `json:"uploader_id"`
	CreatedAt  time.Time `json:"created_at"`
	Task       *TaskRef  `json:"task,omitempty"`
	Uploader   *UserDTO  `json:"uploader,omitempty"`
}

// TaskRef is a minimal task reference embedded in attachment listings.
type TaskRef struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	CreatorID uint64 `json:"creator_id"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *time.Time        `json:"due_date"`
	Order       int               `json:"order"`
	CreatorID   uint64            `json:"creator_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Creator     *UserDTO          `json:"creator,omitempty"`
	Assignees   []TaskAssigneeDTO `json:"assignees,omitempty"`
	Attachments []AttachmentDTO   `json:"attachments,omitempty"`
}

// TaskStatusDTO is the reduced shape served by the status board.
type TaskStatusDTO struct {
	ID        uint64            `json:"id"`
	Title     string            `json:"title"`
	Status    models.TaskStatus `json:"status"`
	Creator   *UserDTO          `json:"creator,omitempty"`
	Assignees []UserDTO         `json:"assignees"`
	Files     []AttachmentDTO   `json:"files,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		Order:       task.Order,
		CreatorID:   task.CreatorID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}

	if len(task.Assignees) > 0 {
		dto.Assignees = make([]TaskAssigneeDTO, len(task.Assignees))
		for i, assignee := range task.Assignees {
			dto.Assignees[i] = TaskAssigneeDTO{
				User: ToUserDTO(assignee.User),
			}
		}
	}

	if len(task.Attachments) > 0 {
		dto.Attachments = make([]AttachmentDTO, len(task.Attachments))
		for i, att := range task.Attachments {
			dto.Attachments[i] = ToAttachmentDTO(att)
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	result := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		result[i] = ToTaskDTO(task)
	}
	return result
}

// ToTaskStatusDTO converts a Task model to its status board shape
func ToTaskStatusDTO(task models.Task) TaskStatusDTO {
	dto := TaskStatusDTO{
		ID:        task.ID,
		Title:     task.Title,
		Status:    task.Status,
		Assignees: make([]UserDTO, 0, len(task.Assignees)),
	}

	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}

	for _, assignee := range task.Assignees {
		dto.Assignees = append(dto.Assignees, ToUserDTO(assignee.User))
	}

	if len(task.Attachments) > 0 {
		dto.Files = make([]AttachmentDTO, len(task.Attachments))
		for i, att := range task.Attachments {
			dto.Files[i] = ToAttachmentDTO(att)
		}
	}

	return dto
}

// ToAttachmentDTO converts an Attachment model to AttachmentDTO
func ToAttachmentDTO(att models.Attachment) AttachmentDTO {
	dto := AttachmentDTO{
		ID:         att.ID,
		Filename:   att.Filename,
		MimeType:   att.MimeType,
		SizeBytes:  att.SizeBytes,
		TaskID:     att.TaskID,
		UploaderID: att.UploaderID,
		CreatedAt:  att.CreatedAt,
	}

	if att.Task.ID != 0 {
		dto.Task = &TaskRef{
			ID:        att.Task.ID,
			Title:     att.Task.Title,
			CreatorID: att.Task.CreatorID,
		}
	}

	if att.Uploader.ID != 0 {
		uploader := ToUserDTO(att.Uploader)
		dto.Uploader = &uploader
	}

	return dto
}

// ToAttachmentDTOs converts a slice of attachments
func ToAttachmentDTOs(attachments []models.Attachment) []AttachmentDTO {
	result := make([]AttachmentDTO, len(attachments))
	for i, att := range attachments {
		result[i] = ToAttachmentDTO(att)
	}
	return result
}

// ParseIDList normalizes an identifier-list field into []uint64. JSON
// submissions send a native array; multipart submissions send the array
// JSON-encoded as a string. Both decode here so business logic only ever
// sees a list of IDs. Elements may be numbers or numeric strings.
func ParseIDList(raw json.RawMessage) ([]uint64, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	// Unwrap a JSON-encoded string payload first.
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return nil, nil
		}
		raw = json.RawMessage(asString)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("expected a list of numeric identifiers")
	}

	ids := make([]uint64, 0, len(elements))
	for _, el := range elements {
		var n uint64
		if err := json.Unmarshal(el, &n); err == nil {
			ids = append(ids, n)
			continue
		}
		var s string
		if err := json.Unmarshal(el, &s); err == nil {
			parsed, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid identifier %q", s)
			}
			ids = append(ids, parsed)
			continue
		}
		return nil, fmt.Errorf("expected a list of numeric identifiers")
	}

	return ids, nil
}
