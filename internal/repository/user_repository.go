package repository

import (
	"github.com/todocollab/backend/internal/database"
	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActive lists all active users
func (r *GormUserRepository) ListActive() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("status = ?", models.UserStatusActive).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// ListWithCounts lists users newest-first decorated with task counts
func (r *GormUserRepository) ListWithCounts(params utils.PaginationParams) ([]UserWithCounts, int64, error) {
	var total int64
	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := r.db.
		Scopes(database.Paginate(params)).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	result := make([]UserWithCounts, len(users))
	for i, u := range users {
		var createdCount, assignedCount int64
		if err := r.db.Model(&models.Task{}).
			Where("creator_id = ?", u.ID).
			Count(&createdCount).Error; err != nil {
			return nil, 0, err
		}
		if err := r.db.Model(&models.TaskAssignee{}).
			Where("user_id = ?", u.ID).
			Count(&assignedCount).Error; err != nil {
			return nil, 0, err
		}
		result[i] = UserWithCounts{
			User:          u,
			CreatedCount:  createdCount,
			AssignedCount: assignedCount,
		}
	}

	return result, total, nil
}

// CountByIDs counts how many of the given user IDs exist
func (r *GormUserRepository) CountByIDs(userIDs []uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("id IN ?", userIDs).
		Count(&count).Error
	return count, err
}
