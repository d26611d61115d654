package repository

import (
	"github.com/todocollab/backend/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// CreateBatch inserts one row per recipient
func (r *GormNotificationRepository) CreateBatch(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Create(&notifications).Error
}

// ListByUser lists a user's notifications, newest first
func (r *GormNotificationRepository) ListByUser(userID uint64) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(id uint64) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// Update persists changes to a notification
func (r *GormNotificationRepository) Update(notification *models.Notification) error {
	return r.db.Save(notification).Error
}
