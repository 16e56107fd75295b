package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/docuserve/activity-api/internal/database"
	apierrors "github.com/docuserve/activity-api/internal/errors"
	"github.com/docuserve/activity-api/internal/models"
	"github.com/docuserve/activity-api/internal/repository"
	"github.com/docuserve/activity-api/internal/services"
)

type authTestEnv struct {
	db           *gorm.DB
	router       *gin.Engine
	handler      *AuthHandler
	guestService *services.GuestLoginService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.LoginRequest{},
		&models.PasswordRecovery{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	log := zap.NewNop()
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewLoginRequestRepository(db)
	recoveryRepo := repository.NewPasswordRecoveryRepository(db)
	authService := services.NewAuthService(userRepo, recoveryRepo, log)
	guestService := services.NewGuestLoginService(requestRepo, userRepo, log)
	handler := NewAuthHandler(authService, guestService, log)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("test_session", store))
	router.POST("/user/login", handler.Login)
	router.POST("/user/login_request", handler.LoginRequest)
	router.POST("/user/password_lost", handler.PasswordLost)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:           db,
		router:       router,
		handler:      handler,
		guestService: guestService,
	}
}

func (env authTestEnv) createUser(t *testing.T, username, password, totpKey string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		TotpKey:      totpKey,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "alice", "correct horse", "")

	w := postJSON(env.router, "/user/login", gin.H{
		"username": "alice",
		"password": "correct horse",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "alice", "correct horse", "")

	w := postJSON(env.router, "/user/login", gin.H{
		"username": "alice",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(env.router, "/user/login", gin.H{
		"username": "nobody",
		"password": "whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_ValidationCodeRequired(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "alice", "correct horse", "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ")

	w := postJSON(env.router, "/user/login", gin.H{
		"username": "alice",
		"password": "correct horse",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, apierrors.TypeValidationCodeRequired, apiErr.Type)
}

func TestLoginRequest_FirstPollRegistersPending(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(env.router, "/user/login_request", gin.H{"token": "tok-1"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, services.GuestStatusPending, resp["status"])

	var request models.LoginRequest
	require.NoError(t, env.db.First(&request, "token = ?", "tok-1").Error)
	assert.Equal(t, models.LoginRequestPending, request.Status)
}

func TestLoginRequest_AcceptedCarriesCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	// First poll registers the request.
	postJSON(env.router, "/user/login_request", gin.H{"token": "tok-2"})

	var request models.LoginRequest
	require.NoError(t, env.db.First(&request, "token = ?", "tok-2").Error)
	_, err := env.guestService.Accept(request.ID, "guest")
	require.NoError(t, err)

	w := postJSON(env.router, "/user/login_request", gin.H{"token": "tok-2"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, services.GuestStatusAccepted, resp["status"])
	assert.Equal(t, "guest", resp["username"])
	require.NotEmpty(t, resp["password"])

	// The issued credentials actually work.
	login := postJSON(env.router, "/user/login", gin.H{
		"username": "guest",
		"password": resp["password"],
	})
	assert.Equal(t, http.StatusOK, login.Code)
}

func TestLoginRequest_ReacceptIssuesWorkingCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	postJSON(env.router, "/user/login_request", gin.H{"token": "tok-first"})

	var first models.LoginRequest
	require.NoError(t, env.db.First(&first, "token = ?", "tok-first").Error)
	_, err := env.guestService.Accept(first.ID, "guest")
	require.NoError(t, err)

	// A later session reuses the guest account; its password is rotated
	// and the freshly issued one must be the one that authenticates.
	postJSON(env.router, "/user/login_request", gin.H{"token": "tok-second"})

	var second models.LoginRequest
	require.NoError(t, env.db.First(&second, "token = ?", "tok-second").Error)
	accepted, err := env.guestService.Accept(second.ID, "guest")
	require.NoError(t, err)

	login := postJSON(env.router, "/user/login", gin.H{
		"username": "guest",
		"password": accepted.GuestPassword,
	})
	assert.Equal(t, http.StatusOK, login.Code)
}

func TestLoginRequest_Rejected(t *testing.T) {
	env := setupAuthTestEnv(t)

	postJSON(env.router, "/user/login_request", gin.H{"token": "tok-3"})

	var request models.LoginRequest
	require.NoError(t, env.db.First(&request, "token = ?", "tok-3").Error)
	require.NoError(t, env.guestService.Reject(request.ID))

	w := postJSON(env.router, "/user/login_request", gin.H{"token": "tok-3"})

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, services.GuestStatusRejected, resp["status"])
	assert.Nil(t, resp["username"])
}

func TestPasswordLost_CreatesRecovery(t *testing.T) {
	env := setupAuthTestEnv(t)
	user := env.createUser(t, "alice", "correct horse", "")

	w := postJSON(env.router, "/user/password_lost", gin.H{"username": "alice"})

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	env.db.Model(&models.PasswordRecovery{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPasswordLost_UnknownUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(env.router, "/user/password_lost", gin.H{"username": "nobody"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
