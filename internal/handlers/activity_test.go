package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/docuserve/activity-api/internal/constants"
	"github.com/docuserve/activity-api/internal/database"
	"github.com/docuserve/activity-api/internal/dto"
	"github.com/docuserve/activity-api/internal/models"
	"github.com/docuserve/activity-api/internal/repository"
	"github.com/docuserve/activity-api/internal/services"
)

// ActivityHandlerTestSuite defines the test suite for ActivityHandler
type ActivityHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ActivityHandler
}

// SetupTest runs before each test
func (suite *ActivityHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.UserActivity{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	activityRepo := repository.NewActivityRepository(suite.db)
	recoveryRepo := repository.NewPasswordRecoveryRepository(suite.db)

	log := zap.NewNop()
	authService := services.NewAuthService(userRepo, recoveryRepo, log)
	activityService := services.NewActivityService(activityRepo)
	suite.handler = NewActivityHandler(activityService, authService, log)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ActivityHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helpers to create test data

func (suite *ActivityHandlerTestSuite) createTestUser(username string, admin bool) *models.User {
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "hashedpassword",
		Admin:        admin,
	}
	suite.db.Create(user)
	return user
}

func (suite *ActivityHandlerTestSuite) createTestActivity(user *models.User, entityID string, progress int, createDate time.Time) *models.UserActivity {
	activity := &models.UserActivity{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		ActivityType: models.ActivityDocumentReview,
		EntityID:     entityID,
		Progress:     progress,
		CreateDate:   createDate,
	}
	suite.db.Create(activity)
	return activity
}

func (suite *ActivityHandlerTestSuite) createAuthContext(method, url string, body []byte, userID string) (*gin.Context, *httptest.ResponseRecorder) {
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
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *ActivityHandlerTestSuite) TestList_Success() {
	admin := suite.createTestUser("admin", true)
	alice := suite.createTestUser("alice", false)
	suite.createTestActivity(alice, "doc-1", 50, time.Now().UTC())
	suite.createTestActivity(alice, "doc-2", 100, time.Now().UTC().Add(-time.Hour))

	c, w := suite.createAuthContext("GET", "/useractivity?offset=0&limit=10", nil, admin.ID)
	suite.handler.List(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.ActivityListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), int64(2), response.Total)
	assert.Len(suite.T(), response.Activities, 2)
	assert.Equal(suite.T(), "alice", response.Activities[0].Username)
	// Default sort is create date, newest first.
	assert.Equal(suite.T(), "doc-1", response.Activities[0].EntityID)
}

func (suite *ActivityHandlerTestSuite) TestList_FilterByUserAndType() {
	admin := suite.createTestUser("admin", true)
	alice := suite.createTestUser("alice", false)
	bob := suite.createTestUser("bob", false)
	suite.createTestActivity(alice, "doc-1", 10, time.Now().UTC())
	suite.createTestActivity(bob, "doc-2", 20, time.Now().UTC())

	c, w := suite.createAuthContext("GET", "/useractivity?user_id="+bob.ID+"&activity_type=document_review", nil, admin.ID)
	suite.handler.List(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.ActivityListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), int64(1), response.Total)
	suite.Require().Len(response.Activities, 1)
	assert.Equal(suite.T(), bob.ID, response.Activities[0].UserID)
}

func (suite *ActivityHandlerTestSuite) TestList_Pagination() {
	admin := suite.createTestUser("admin", true)
	alice := suite.createTestUser("alice", false)
	for i := 0; i < 5; i++ {
		suite.createTestActivity(alice, "doc", 0, time.Now().UTC().Add(-time.Duration(i)*time.Hour))
	}

	c, w := suite.createAuthContext("GET", "/useractivity?offset=3&limit=2", nil, admin.ID)
	suite.handler.List(c)

	var response dto.ActivityListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), int64(5), response.Total)
	assert.Len(suite.T(), response.Activities, 2)
}

func (suite *ActivityHandlerTestSuite) TestListForCurrentUser_ScopedToEntity() {
	alice := suite.createTestUser("alice", false)
	bob := suite.createTestUser("bob", false)
	suite.createTestActivity(alice, "doc-1", 40, time.Now().UTC().Add(-2*time.Hour))
	newest := suite.createTestActivity(alice, "doc-1", 60, time.Now().UTC())
	suite.createTestActivity(alice, "doc-2", 10, time.Now().UTC())
	suite.createTestActivity(bob, "doc-1", 90, time.Now().UTC())

	c, w := suite.createAuthContext("GET", "/useractivity/user?entity_id=doc-1&limit=1", nil, alice.ID)
	suite.handler.ListForCurrentUser(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.ActivityListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Activities, 1)
	assert.Equal(suite.T(), newest.ID, response.Activities[0].ID)
	assert.Equal(suite.T(), int64(2), response.Total)
}

func (suite *ActivityHandlerTestSuite) TestUpsert_Create() {
	alice := suite.createTestUser("alice", false)

	body, _ := json.Marshal(map[string]interface{}{
		"activity_type":          "document_review",
		"entity_id":              "doc-1",
		"progress":               25,
		"planned_date_timestamp": 1709251200000,
	})

	c, w := suite.createAuthContext("PUT", "/useractivity", body, alice.ID)
	suite.handler.Upsert(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().NotEmpty(response["id"])

	var activity models.UserActivity
	suite.Require().NoError(suite.db.First(&activity, "id = ?", response["id"]).Error)
	assert.Equal(suite.T(), alice.ID, activity.UserID)
	assert.Equal(suite.T(), 25, activity.Progress)
	suite.Require().NotNil(activity.PlannedDate)
	assert.Equal(suite.T(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), activity.PlannedDate.UTC())
	assert.Nil(suite.T(), activity.CompletedDate)
}

func (suite *ActivityHandlerTestSuite) TestUpsert_UpdateStampsCompletion() {
	alice := suite.createTestUser("alice", false)
	activity := suite.createTestActivity(alice, "doc-1", 50, time.Now().UTC())

	body, _ := json.Marshal(map[string]interface{}{
		"id":       activity.ID,
		"progress": 100,
	})

	c, w := suite.createAuthContext("PUT", "/useractivity", body, alice.ID)
	suite.handler.Upsert(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.UserActivity
	suite.Require().NoError(suite.db.First(&updated, "id = ?", activity.ID).Error)
	assert.Equal(suite.T(), 100, updated.Progress)
	assert.NotNil(suite.T(), updated.CompletedDate)
}

func (suite *ActivityHandlerTestSuite) TestUpsert_UpdateClearsPlannedDate() {
	alice := suite.createTestUser("alice", false)
	activity := suite.createTestActivity(alice, "doc-1", 50, time.Now().UTC())

	planned := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	activity.PlannedDate = &planned
	suite.Require().NoError(suite.db.Save(activity).Error)

	// Saving the form without a date removes the previously set one.
	body, _ := json.Marshal(map[string]interface{}{
		"id":       activity.ID,
		"progress": 60,
	})

	c, w := suite.createAuthContext("PUT", "/useractivity", body, alice.ID)
	suite.handler.Upsert(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.UserActivity
	suite.Require().NoError(suite.db.First(&updated, "id = ?", activity.ID).Error)
	assert.Equal(suite.T(), 60, updated.Progress)
	assert.Nil(suite.T(), updated.PlannedDate)
}

func (suite *ActivityHandlerTestSuite) TestUpsert_CannotUpdateForeignActivity() {
	alice := suite.createTestUser("alice", false)
	bob := suite.createTestUser("bob", false)
	activity := suite.createTestActivity(alice, "doc-1", 50, time.Now().UTC())

	body, _ := json.Marshal(map[string]interface{}{
		"id":       activity.ID,
		"progress": 10,
	})

	c, w := suite.createAuthContext("PUT", "/useractivity", body, bob.ID)
	suite.handler.Upsert(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *ActivityHandlerTestSuite) TestUpsert_InvalidProgress() {
	alice := suite.createTestUser("alice", false)

	body, _ := json.Marshal(map[string]interface{}{
		"activity_type": "document_review",
		"progress":      150,
	})

	c, w := suite.createAuthContext("PUT", "/useractivity", body, alice.ID)
	suite.handler.Upsert(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ActivityHandlerTestSuite) TestDelete_OwnerRemovesRecord() {
	alice := suite.createTestUser("alice", false)
	activity := suite.createTestActivity(alice, "doc-1", 50, time.Now().UTC())
	suite.createTestActivity(alice, "doc-2", 10, time.Now().UTC())

	c, w := suite.createAuthContext("DELETE", "/useractivity/"+activity.ID, nil, alice.ID)
	c.Params = gin.Params{{Key: "id", Value: activity.ID}}
	suite.handler.Delete(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.UserActivity{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *ActivityHandlerTestSuite) TestDelete_ForeignRecordForbidden() {
	alice := suite.createTestUser("alice", false)
	bob := suite.createTestUser("bob", false)
	activity := suite.createTestActivity(alice, "doc-1", 50, time.Now().UTC())

	c, w := suite.createAuthContext("DELETE", "/useractivity/"+activity.ID, nil, bob.ID)
	c.Params = gin.Params{{Key: "id", Value: activity.ID}}
	suite.handler.Delete(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *ActivityHandlerTestSuite) TestDelete_AdminRemovesForeignRecord() {
	admin := suite.createTestUser("admin", true)
	alice := suite.createTestUser("alice", false)
	activity := suite.createTestActivity(alice, "doc-1", 50, time.Now().UTC())

	c, w := suite.createAuthContext("DELETE", "/useractivity/"+activity.ID, nil, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: activity.ID}}
	suite.handler.Delete(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *ActivityHandlerTestSuite) TestDelete_NotFound() {
	alice := suite.createTestUser("alice", false)

	c, w := suite.createAuthContext("DELETE", "/useractivity/missing", nil, alice.ID)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	suite.handler.Delete(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestActivityHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ActivityHandlerTestSuite))
}
