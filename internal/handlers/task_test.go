package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/todocollab/backend/internal/constants"
	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/repository"
	"github.com/todocollab/backend/internal/services"
	"github.com/todocollab/backend/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
	service *services.TaskService
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAssignee{},
		&models.Attachment{},
		&models.Notification{},
	)
	suite.Require().NoError(err)

	blobs, err := storage.NewDiskStore(suite.T().TempDir())
	suite.Require().NoError(err)

	suite.service = services.NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewUserRepository(suite.db),
		repository.NewAttachmentRepository(suite.db),
		repository.NewNotificationRepository(suite.db),
		nil,
		blobs,
	)
	suite.handler = NewTaskHandler(suite.service)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         models.RoleMember,
		Status:       models.UserStatusActive,
	}
	suite.db.Create(user)
	return user
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyActor, services.Actor{ID: user.ID, Role: user.Role})
	}

	return c, w
}

// TestCreateTask_Success tests task creation from a JSON body
func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	user := suite.createTestUser("creator@example.com")
	assignee := suite.createTestUser("assignee@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"title":       "New Task",
		"description": "Task Description",
		"assignees":   []uint64{assignee.ID},
	})

	c, w := suite.createAuthContext("POST", "/api/todos", body, user)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New Task", response["title"])
	assert.Equal(suite.T(), string(models.TaskStatusTodo), response["status"])
}

// TestCreateTask_StringAssignees tests that a JSON-encoded string field
// and numeric-string elements decode to the same assignee list
func (suite *TaskHandlerTestSuite) TestCreateTask_StringAssignees() {
	user := suite.createTestUser("creator@example.com")
	a1 := suite.createTestUser("a1@example.com")
	a2 := suite.createTestUser("a2@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"title":     "Normalized",
		"assignees": `["` + jsonNumber(a1.ID) + `", ` + jsonNumber(a2.ID) + `]`,
	})

	c, w := suite.createAuthContext("POST", "/api/todos", body, user)
	suite.handler.CreateTask(c)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task models.Task
	suite.Require().NoError(suite.db.Preload("Assignees").Where("title = ?", "Normalized").First(&task).Error)
	assert.Len(suite.T(), task.Assignees, 2)
}

// TestCreateTask_EmptyTitle tests rejection of a blank title
func (suite *TaskHandlerTestSuite) TestCreateTask_EmptyTitle() {
	user := suite.createTestUser("creator@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"title": "  ",
	})

	c, w := suite.createAuthContext("POST", "/api/todos", body, user)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_Unauthorized tests creation without authentication
func (suite *TaskHandlerTestSuite) TestCreateTask_Unauthorized() {
	body, _ := json.Marshal(map[string]interface{}{"title": "Task"})

	c, w := suite.createAuthContext("POST", "/api/todos", body, nil)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestGetTask_Forbidden tests reading another user's task
func (suite *TaskHandlerTestSuite) TestGetTask_Forbidden() {
	creator := suite.createTestUser("creator@example.com")
	outsider := suite.createTestUser("outsider@example.com")

	task, err := suite.service.CreateTask(services.CreateTaskInput{
		Actor: services.Actor{ID: creator.ID, Role: creator.Role},
		Title: "Private",
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("GET", "/api/todos/1", nil, outsider)
	c.Params = gin.Params{{Key: "id", Value: jsonNumber(task.ID)}}
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestGetTask_InvalidID tests a non-numeric path parameter
func (suite *TaskHandlerTestSuite) TestGetTask_InvalidID() {
	user := suite.createTestUser("user@example.com")

	c, w := suite.createAuthContext("GET", "/api/todos/abc", nil, user)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateStatus_Success tests a status transition over HTTP
func (suite *TaskHandlerTestSuite) TestUpdateStatus_Success() {
	creator := suite.createTestUser("creator@example.com")

	task, err := suite.service.CreateTask(services.CreateTaskInput{
		Actor: services.Actor{ID: creator.ID, Role: creator.Role},
		Title: "Task",
	})
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]interface{}{"status": "DONE"})
	c, w := suite.createAuthContext("PUT", "/api/todos/1/status", body, creator)
	c.Params = gin.Params{{Key: "id", Value: jsonNumber(task.ID)}}
	suite.handler.UpdateStatus(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "DONE", response["status"])
}

// TestUpdateStatus_InvalidStatus tests rejection of an unknown state
func (suite *TaskHandlerTestSuite) TestUpdateStatus_InvalidStatus() {
	creator := suite.createTestUser("creator@example.com")

	task, err := suite.service.CreateTask(services.CreateTaskInput{
		Actor: services.Actor{ID: creator.ID, Role: creator.Role},
		Title: "Task",
	})
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]interface{}{"status": "ARCHIVED"})
	c, w := suite.createAuthContext("PUT", "/api/todos/1/status", body, creator)
	c.Params = gin.Params{{Key: "id", Value: jsonNumber(task.ID)}}
	suite.handler.UpdateStatus(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestReorderTasks_Success tests the reorder endpoint
func (suite *TaskHandlerTestSuite) TestReorderTasks_Success() {
	creator := suite.createTestUser("creator@example.com")
	actor := services.Actor{ID: creator.ID, Role: creator.Role}

	t1, err := suite.service.CreateTask(services.CreateTaskInput{Actor: actor, Title: "First"})
	suite.Require().NoError(err)
	t2, err := suite.service.CreateTask(services.CreateTaskInput{Actor: actor, Title: "Second"})
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]interface{}{
		"ordered_ids": []uint64{t2.ID, t1.ID},
	})
	c, w := suite.createAuthContext("PUT", "/api/todos/order", body, creator)
	suite.handler.ReorderTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	suite.Require().NoError(err)
	suite.Require().Len(response, 2)
	assert.Equal(suite.T(), "Second", response[0]["title"])
	assert.Equal(suite.T(), "First", response[1]["title"])
}

// TestReorderTasks_ForbiddenTask tests that an inaccessible task fails
// the whole batch
func (suite *TaskHandlerTestSuite) TestReorderTasks_ForbiddenTask() {
	creator := suite.createTestUser("creator@example.com")
	other := suite.createTestUser("other@example.com")

	mine, err := suite.service.CreateTask(services.CreateTaskInput{
		Actor: services.Actor{ID: creator.ID, Role: creator.Role},
		Title: "Mine",
	})
	suite.Require().NoError(err)
	theirs, err := suite.service.CreateTask(services.CreateTaskInput{
		Actor: services.Actor{ID: other.ID, Role: other.Role},
		Title: "Theirs",
	})
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]interface{}{
		"ordered_ids": []uint64{theirs.ID, mine.ID},
	})
	c, w := suite.createAuthContext("PUT", "/api/todos/order", body, creator)
	suite.handler.ReorderTasks(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListTaskStatuses tests the shared status board listing
func (suite *TaskHandlerTestSuite) TestListTaskStatuses() {
	creator := suite.createTestUser("creator@example.com")
	viewer := suite.createTestUser("viewer@example.com")

	_, err := suite.service.CreateTask(services.CreateTaskInput{
		Actor: services.Actor{ID: creator.ID, Role: creator.Role},
		Title: "Visible to all",
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("GET", "/api/todos/status", nil, viewer)
	suite.handler.ListTaskStatuses(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	suite.Require().NoError(err)
	suite.Require().Len(response, 1)
	assert.Equal(suite.T(), "Visible to all", response[0]["title"])
}

func jsonNumber(id uint64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

// TestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
