package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMember UserRole = "MEMBER"
	RoleAdmin  UserRole = "ADMIN"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)

// ValidUserStatus reports whether s is an admin-settable account status.
func ValidUserStatus(s UserStatus) bool {
	return s == UserStatusActive || s == UserStatusDisabled
}

type User struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string         `gorm:"type:varchar(255);not null" json:"-"`
	Name           string         `gorm:"type:varchar(255)" json:"name"`
	Role           UserRole       `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	Status         UserStatus     `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	ProfilePicture string         `gorm:"type:varchar(512)" json:"profile_picture"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedTodos []Task         `gorm:"foreignKey:CreatorID" json:"-"`
	Assignments  []TaskAssignee `gorm:"foreignKey:UserID" json:"-"`
}
