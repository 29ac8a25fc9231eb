package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskhub/project-management-api/internal/auth"
	"github.com/taskhub/project-management-api/internal/database"
	"github.com/taskhub/project-management-api/internal/models"
	"github.com/taskhub/project-management-api/internal/repository"
	"github.com/taskhub/project-management-api/internal/services"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	tokens      *auth.TokenService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectAssignment{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", 24)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, tokens)
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	gin.SetMode(gin.TestMode)

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		tokens:      tokens,
	}
}

func registerPayload(username string) map[string]interface{} {
	return map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "supersecret",
		"dob":      "1990-01-01T00:00:00Z",
		"address":  "42 Main St",
		"location": "Berlin",
	}
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/register", env.handler.Register)

	w := postJSON(t, r, "/api/register", registerPayload("newuser"))

	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	user := response["user"].(map[string]interface{})
	require.Equal(t, "newuser", user["username"])
	require.Equal(t, "employee", user["role"])
	require.NotContains(t, user, "password")
	require.NotContains(t, user, "password_hash")

	// The stored password must be hashed, never plaintext.
	var stored models.User
	require.NoError(t, env.db.First(&stored, "username = ?", "newuser").Error)
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "supersecret", stored.PasswordHash)
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/register", env.handler.Register)

	w := postJSON(t, r, "/api/register", registerPayload("dupe"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Same username, different email.
	payload := registerPayload("dupe")
	payload["email"] = "other@example.com"
	w = postJSON(t, r, "/api/register", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/register", env.handler.Register)

	w := postJSON(t, r, "/api/register", registerPayload("first"))
	require.Equal(t, http.StatusCreated, w.Code)

	payload := registerPayload("second")
	payload["email"] = "first@example.com"
	w = postJSON(t, r, "/api/register", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/register", env.handler.Register)

	payload := registerPayload("shorty")
	payload["password"] = "short"
	w := postJSON(t, r, "/api/register", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestAuthHandler_Register_InvalidRole(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/register", env.handler.Register)

	payload := registerPayload("roleuser")
	payload["role"] = "superadmin"
	w := postJSON(t, r, "/api/register", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
		Role:     models.RoleManager,
		DOB:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/login", env.handler.Login)

	w := postJSON(t, r, "/api/login", map[string]string{
		"username": "existing",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	details := response["userDetails"].(map[string]interface{})
	require.Equal(t, "existing", details["username"])
	require.Equal(t, "manager", details["role"])

	// The issued token must verify and carry the user's identity.
	token := response["token"].(string)
	claims, err := env.tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "existing@example.com", claims.Email)
	require.Equal(t, models.RoleManager, claims.Role)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
		DOB:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/login", env.handler.Login)

	w := postJSON(t, r, "/api/login", map[string]string{
		"username": "existing",
		"password": "wrongpassword",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotContains(t, w.Body.String(), "token")
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/login", env.handler.Login)

	w := postJSON(t, r, "/api/login", map[string]string{
		"username": "ghost",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Login_DeletedUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Username: "leaver",
		Email:    "leaver@example.com",
		Password: "supersecret",
		DOB:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, env.db.Delete(user).Error)

	r := gin.New()
	r.POST("/api/login", env.handler.Login)

	w := postJSON(t, r, "/api/login", map[string]string{
		"username": "leaver",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.GET("/api/logout", env.handler.Logout)

	req := httptest.NewRequest(http.MethodGet, "/api/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Logout successful")
}
