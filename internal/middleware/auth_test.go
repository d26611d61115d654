package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/todocollab/backend/internal/database"
	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AuthMiddlewareTestSuite defines the test suite for the auth middleware
type AuthMiddlewareTestSuite struct {
	suite.Suite
	db     *gorm.DB
	tokens *token.Manager
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *AuthMiddlewareTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	database.SetDB(suite.db)
	suite.tokens = token.NewManager("test-secret", time.Hour)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.GET("/protected", RequireAuth(suite.tokens), func(c *gin.Context) {
		actor, _ := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.ID})
	})
	suite.router.GET("/admin", RequireAuth(suite.tokens), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

// TearDownTest runs after each test
func (suite *AuthMiddlewareTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthMiddlewareTestSuite) createTestUser(email string, role models.UserRole, status models.UserStatus) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		Status:       status,
	}
	suite.db.Create(user)
	return user
}

func (suite *AuthMiddlewareTestSuite) request(url, bearer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", url, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	suite.router.ServeHTTP(w, req)
	return w
}

// TestRequireAuth_NoToken tests rejection without a credential
func (suite *AuthMiddlewareTestSuite) TestRequireAuth_NoToken() {
	w := suite.request("/protected", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestRequireAuth_InvalidToken tests rejection of a garbage token
func (suite *AuthMiddlewareTestSuite) TestRequireAuth_InvalidToken() {
	w := suite.request("/protected", "not-a-token")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestRequireAuth_ValidToken tests a successful bearer credential
func (suite *AuthMiddlewareTestSuite) TestRequireAuth_ValidToken() {
	user := suite.createTestUser("alice@example.com", models.RoleMember, models.UserStatusActive)
	signed, err := suite.tokens.Issue(user.ID, user.Role)
	suite.Require().NoError(err)

	w := suite.request("/protected", signed)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestRequireAuth_CookieFallback tests the token cookie fallback
func (suite *AuthMiddlewareTestSuite) TestRequireAuth_CookieFallback() {
	user := suite.createTestUser("alice@example.com", models.RoleMember, models.UserStatusActive)
	signed, err := suite.tokens.Issue(user.ID, user.Role)
	suite.Require().NoError(err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signed})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestRequireAuth_DisabledAccount tests that disabling takes effect on
// the next request even with a previously issued token
func (suite *AuthMiddlewareTestSuite) TestRequireAuth_DisabledAccount() {
	user := suite.createTestUser("alice@example.com", models.RoleMember, models.UserStatusActive)
	signed, err := suite.tokens.Issue(user.ID, user.Role)
	suite.Require().NoError(err)

	w := suite.request("/protected", signed)
	suite.Require().Equal(http.StatusOK, w.Code)

	user.Status = models.UserStatusDisabled
	suite.db.Save(user)

	w = suite.request("/protected", signed)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestRequireAuth_DeletedUser tests that a token for a removed account
// is rejected
func (suite *AuthMiddlewareTestSuite) TestRequireAuth_DeletedUser() {
	user := suite.createTestUser("alice@example.com", models.RoleMember, models.UserStatusActive)
	signed, err := suite.tokens.Issue(user.ID, user.Role)
	suite.Require().NoError(err)

	suite.db.Delete(user)

	w := suite.request("/protected", signed)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestRequireAdmin_Member tests that members are rejected
func (suite *AuthMiddlewareTestSuite) TestRequireAdmin_Member() {
	user := suite.createTestUser("member@example.com", models.RoleMember, models.UserStatusActive)
	signed, err := suite.tokens.Issue(user.ID, user.Role)
	suite.Require().NoError(err)

	w := suite.request("/admin", signed)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestRequireAdmin_Admin tests that admins pass
func (suite *AuthMiddlewareTestSuite) TestRequireAdmin_Admin() {
	user := suite.createTestUser("admin@example.com", models.RoleAdmin, models.UserStatusActive)
	signed, err := suite.tokens.Issue(user.ID, user.Role)
	suite.Require().NoError(err)

	w := suite.request("/admin", signed)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestSuite runs the test suite
func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
