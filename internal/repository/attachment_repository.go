package repository

import (
	"github.com/todocollab/backend/internal/models"
	"gorm.io/gorm"
)

// GormAttachmentRepository is a GORM implementation of AttachmentRepository
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// FindByID finds an attachment with its parent task and assignees loaded
func (r *GormAttachmentRepository) FindByID(id uint64) (*models.Attachment, error) {
	var att models.Attachment
	if err := r.db.
		Preload("Task").
		Preload("Task.Assignees").
		First(&att, id).Error; err != nil {
		return nil, err
	}
	return &att, nil
}

// ListVisibleTo lists attachments the user uploaded, or belonging to
// tasks the user created or is assigned to, newest first
func (r *GormAttachmentRepository) ListVisibleTo(userID uint64) ([]models.Attachment, error) {
	assignmentSubQuery := r.db.Model(&models.TaskAssignee{}).
		Select("1").
		Where("task_assignees.task_id = attachments.task_id").
		Where("task_assignees.user_id = ?", userID).
		Where("task_assignees.deleted_at IS NULL")

	var attachments []models.Attachment
	err := r.db.
		Joins("JOIN tasks ON tasks.id = attachments.task_id AND tasks.deleted_at IS NULL").
		Where("attachments.uploader_id = ? OR tasks.creator_id = ? OR EXISTS (?)",
			userID, userID, assignmentSubQuery).
		Preload("Task").
		Preload("Uploader").
		Order("attachments.created_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// ListAll lists every attachment, newest first
func (r *GormAttachmentRepository) ListAll() ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.db.
		Preload("Task").
		Preload("Uploader").
		Order("created_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}
