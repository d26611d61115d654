package services

import (
	"errors"
	"fmt"

	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/repository"
	"github.com/todocollab/backend/internal/utils"
	"gorm.io/gorm"
)

var ErrInvalidUserStatus = errors.New("invalid user status")

// AdminService implements the admin-only account views and mutations.
// Role enforcement happens in middleware; these methods assume an admin
// caller.
type AdminService struct {
	userRepo repository.UserRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repository.UserRepository) *AdminService {
	return &AdminService{
		userRepo: userRepo,
	}
}

// ListUsersWithCounts returns every user decorated with counts of tasks
// created and assignments held, newest first.
func (s *AdminService) ListUsersWithCounts(params utils.PaginationParams) ([]repository.UserWithCounts, int64, error) {
	users, total, err := s.userRepo.ListWithCounts(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// SetUserStatus enables or disables an account. Disabling takes effect
// on the user's next authenticated request; outstanding tokens are not
// revoked.
func (s *AdminService) SetUserStatus(userID uint64, status models.UserStatus) (*models.User, error) {
	if !models.ValidUserStatus(status) {
		return nil, ErrInvalidUserStatus
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Status = status
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	return user, nil
}
