package dto

import (
	"time"

	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/repository"
)

// UserDTO represents a user in API responses. The password hash is never
// part of any response shape.
type UserDTO struct {
	ID             uint64            `json:"id"`
	Email          string            `json:"email"`
	Name           string            `json:"name"`
	Role           models.UserRole   `json:"role"`
	Status         models.UserStatus `json:"status"`
	ProfilePicture string            `json:"profile_picture,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// AdminUserDTO is a user row in the admin listing, with task aggregates.
type AdminUserDTO struct {
	UserDTO
	CreatedCount  int64 `json:"created_count"`
	AssignedCount int64 `json:"assigned_count"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Role:           user.Role,
		Status:         user.Status,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
	}
}

// ToAdminUserDTO converts a decorated user row to AdminUserDTO
func ToAdminUserDTO(row repository.UserWithCounts) AdminUserDTO {
	return AdminUserDTO{
		UserDTO:       ToUserDTO(row.User),
		CreatedCount:  row.CreatedCount,
		AssignedCount: row.AssignedCount,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	result := make([]UserDTO, len(users))
	for i, u := range users {
		result[i] = ToUserDTO(u)
	}
	return result
}
