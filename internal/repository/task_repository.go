package repository

import (
	"github.com/todocollab/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// taskPreloads are the relations populated on every full task read.
var taskPreloads = []string{"Creator", "Assignees", "Assignees.User", "Attachments"}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithRelations creates the task, assignee rows, and attachment
// rows atomically. If any insert fails no rows persist.
func (r *GormTaskRepository) CreateWithRelations(task *models.Task, assigneeIDs []uint64, attachments []models.Attachment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		if len(assigneeIDs) > 0 {
			assignees := make([]models.TaskAssignee, len(assigneeIDs))
			for i, userID := range assigneeIDs {
				assignees[i] = models.TaskAssignee{
					TaskID: task.ID,
					UserID: userID,
				}
			}
			if err := tx.
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
					DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
				}).
				Create(&assignees).Error; err != nil {
				return err
			}
		}

		if len(attachments) > 0 {
			for i := range attachments {
				attachments[i].TaskID = task.ID
			}
			if err := tx.Create(&attachments).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByCreator lists tasks created by a user, newest first
func (r *GormTaskRepository) ListByCreator(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	query := r.db.Where("creator_id = ?", userID).Order("created_at DESC")
	for _, p := range taskPreloads {
		query = query.Preload(p)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByAssignee lists tasks the user is assigned to, newest first
func (r *GormTaskRepository) ListByAssignee(userID uint64) ([]models.Task, error) {
	assignmentSubQuery := r.db.Model(&models.TaskAssignee{}).
		Select("1").
		Where("task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID).
		Where("task_assignees.deleted_at IS NULL")

	var tasks []models.Task
	query := r.db.Where("EXISTS (?)", assignmentSubQuery).Order("created_at DESC")
	for _, p := range taskPreloads {
		query = query.Preload(p)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAll lists every task with relations, newest first
func (r *GormTaskRepository) ListAll() ([]models.Task, error) {
	var tasks []models.Task
	query := r.db.Order("created_at DESC")
	for _, p := range taskPreloads {
		query = query.Preload(p)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByIDs loads the tasks with the given IDs, assignees included
func (r *GormTaskRepository) FindByIDs(ids []uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Assignees").Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Reorder assigns sort_order = index for each ID, as one atomic batch
func (r *GormTaskRepository) Reorder(orderedIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range orderedIDs {
			if err := tx.Model(&models.Task{}).
				Where("id = ?", id).
				Update("sort_order", idx).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByIDsOrdered loads tasks by ID ordered by their sort key
func (r *GormTaskRepository) ListByIDsOrdered(ids []uint64) ([]models.Task, error) {
	var tasks []models.Task
	query := r.db.Where("id IN ?", ids).Order("sort_order ASC")
	for _, p := range taskPreloads {
		query = query.Preload(p)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
