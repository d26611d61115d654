package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/repository"
	"github.com/todocollab/backend/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AdminServiceTestSuite defines the test suite for AdminService
type AdminServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AdminService
}

// SetupTest runs before each test
func (suite *AdminServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAssignee{},
	)
	suite.Require().NoError(err)

	suite.service = NewAdminService(repository.NewUserRepository(suite.db))
}

// TearDownTest runs after each test
func (suite *AdminServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AdminServiceTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         models.RoleMember,
		Status:       models.UserStatusActive,
	}
	suite.db.Create(user)
	return user
}

// TestListUsersWithCounts tests the per-user created and assigned counts
func (suite *AdminServiceTestSuite) TestListUsersWithCounts() {
	creator := suite.createTestUser("creator@example.com")
	assignee := suite.createTestUser("assignee@example.com")

	task := &models.Task{Title: "Task", CreatorID: creator.ID}
	suite.Require().NoError(suite.db.Create(task).Error)
	suite.Require().NoError(suite.db.Create(&models.TaskAssignee{TaskID: task.ID, UserID: assignee.ID}).Error)

	users, total, err := suite.service.ListUsersWithCounts(utils.PaginationParams{Page: 1, Limit: 20})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), total)
	suite.Require().Len(users, 2)

	counts := make(map[uint64][2]int64, len(users))
	for _, u := range users {
		counts[u.ID] = [2]int64{u.CreatedCount, u.AssignedCount}
	}
	assert.Equal(suite.T(), [2]int64{1, 0}, counts[creator.ID])
	assert.Equal(suite.T(), [2]int64{0, 1}, counts[assignee.ID])
}

// TestSetUserStatus_Disable tests disabling an account
func (suite *AdminServiceTestSuite) TestSetUserStatus_Disable() {
	user := suite.createTestUser("user@example.com")

	updated, err := suite.service.SetUserStatus(user.ID, models.UserStatusDisabled)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.UserStatusDisabled, updated.Status)

	var reloaded models.User
	suite.Require().NoError(suite.db.First(&reloaded, user.ID).Error)
	assert.Equal(suite.T(), models.UserStatusDisabled, reloaded.Status)
}

// TestSetUserStatus_InvalidStatus tests rejection of unknown states
func (suite *AdminServiceTestSuite) TestSetUserStatus_InvalidStatus() {
	user := suite.createTestUser("user@example.com")

	_, err := suite.service.SetUserStatus(user.ID, "SUSPENDED")
	assert.ErrorIs(suite.T(), err, ErrInvalidUserStatus)
}

// TestSetUserStatus_UserNotFound tests the missing-user error
func (suite *AdminServiceTestSuite) TestSetUserStatus_UserNotFound() {
	_, err := suite.service.SetUserStatus(9999, models.UserStatusDisabled)
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

// TestSuite runs the test suite
func TestAdminServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}
