package services

import (
	"errors"
	"fmt"

	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/repository"
	"gorm.io/gorm"
)

// ErrNotificationNotFound covers both a missing row and a row owned by
// another user. The two cases are deliberately indistinguishable to the
// caller.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService reads and mutates a user's notification outbox.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// ListForUser returns the actor's notifications, newest first.
func (s *NotificationService) ListForUser(actor Actor) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips a notification to read. Marking an already-read
// notification succeeds and is a no-op.
func (s *NotificationService) MarkRead(actor Actor, notificationID uint64) (*models.Notification, error) {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	if notification.UserID != actor.ID {
		return nil, ErrNotificationNotFound
	}

	if !notification.Read {
		notification.Read = true
		if err := s.notificationRepo.Update(notification); err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
	}

	return notification, nil
}
