package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskhub/project-management-api/internal/auth"
	"github.com/taskhub/project-management-api/internal/constants"
	"github.com/taskhub/project-management-api/internal/database"
	"github.com/taskhub/project-management-api/internal/models"
	"github.com/taskhub/project-management-api/internal/repository"
	"github.com/taskhub/project-management-api/internal/services"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ProjectHandler
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectAssignment{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, projectRepo)
	suite.handler = NewProjectHandler(projectService, taskService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *ProjectHandlerTestSuite) createTestUser(username string, role models.Role) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
		DOB:          time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	suite.db.Create(user)
	return user
}

func (suite *ProjectHandlerTestSuite) createTestProject(title string, creatorID uint64) *models.Project {
	project := &models.Project{
		Title:       title,
		Description: "Test Description",
		CreatedByID: creatorID,
		Status:      models.ProjectStatusNotStarted,
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 1, 0),
	}
	suite.db.Create(project)
	return project
}

// provisionMember inserts the provisioning row that marks a user as
// assignable to a project
func (suite *ProjectHandlerTestSuite) provisionMember(projectID, userID uint64) {
	suite.db.Create(&models.ProjectAssignment{
		ProjectID: projectID,
		UserID:    userID,
	})
}

// Helper function to create an authenticated context
func (suite *ProjectHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
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
	c.Set(constants.ContextKeyClaims, &auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})

	return c, w
}

func projectRequestBody(members []uint64) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"title":        "New Website",
		"description":  "Company website rebuild",
		"start_date":   time.Now().Format(time.RFC3339),
		"end_date":     time.Now().AddDate(0, 2, 0).Format(time.RFC3339),
		"team_members": members,
	})
	return body
}

// TestCreateProject_Success tests creating a project with provisioned members
func (suite *ProjectHandlerTestSuite) TestCreateProject_Success() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	employee1 := suite.createTestUser("employee1", models.RoleEmployee)
	employee2 := suite.createTestUser("employee2", models.RoleEmployee)

	// Fresh database, so the project row will receive ID 1.
	suite.provisionMember(1, employee1.ID)
	suite.provisionMember(1, employee2.ID)

	c, w := suite.createAuthContext("POST", "/api/projects", projectRequestBody([]uint64{employee1.ID, employee2.ID}), admin)
	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	project := response["project"].(map[string]interface{})
	assert.Equal(suite.T(), "New Website", project["title"])
	assert.Equal(suite.T(), float64(admin.ID), project["created_by_id"])

	members := project["team_members"].([]interface{})
	assert.Len(suite.T(), members, 2)
}

// TestCreateProject_NoMembers tests creating a project with an empty team
func (suite *ProjectHandlerTestSuite) TestCreateProject_NoMembers() {
	admin := suite.createTestUser("admin", models.RoleAdmin)

	c, w := suite.createAuthContext("POST", "/api/projects", projectRequestBody(nil), admin)
	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
}

// TestCreateProject_UnprovisionedMember tests that an unprovisioned member
// fails the request without persisting a project row
func (suite *ProjectHandlerTestSuite) TestCreateProject_UnprovisionedMember() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	employee1 := suite.createTestUser("employee1", models.RoleEmployee)
	employee2 := suite.createTestUser("employee2", models.RoleEmployee)

	suite.provisionMember(1, employee1.ID)

	c, w := suite.createAuthContext("POST", "/api/projects", projectRequestBody([]uint64{employee1.ID, employee2.ID}), admin)
	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// The transaction rolled back; not even a soft-deleted row remains.
	var count int64
	suite.db.Unscoped().Model(&models.Project{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateProject_UnknownMember tests creating a project with a
// nonexistent user ID
func (suite *ProjectHandlerTestSuite) TestCreateProject_UnknownMember() {
	admin := suite.createTestUser("admin", models.RoleAdmin)

	c, w := suite.createAuthContext("POST", "/api/projects", projectRequestBody([]uint64{999}), admin)
	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCreateProject_MissingFields tests creating a project without a title
func (suite *ProjectHandlerTestSuite) TestCreateProject_MissingFields() {
	admin := suite.createTestUser("admin", models.RoleAdmin)

	body, _ := json.Marshal(map[string]interface{}{
		"description": "No title here",
	})

	c, w := suite.createAuthContext("POST", "/api/projects", body, admin)
	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListProjects_ExcludesDeleted tests that soft-deleted projects are
// not listed
func (suite *ProjectHandlerTestSuite) TestListProjects_ExcludesDeleted() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	suite.createTestProject("Kept", admin.ID)
	deleted := suite.createTestProject("Deleted", admin.ID)
	suite.db.Delete(deleted)

	c, w := suite.createAuthContext("GET", "/api/projects", nil, admin)
	suite.handler.ListProjects(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	projects := response["projects"].([]interface{})
	assert.Len(suite.T(), projects, 1)
	assert.Equal(suite.T(), float64(1), response["total_count"])
}

// TestUpdateProject_Success tests updating a project's status
func (suite *ProjectHandlerTestSuite) TestUpdateProject_Success() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	project := suite.createTestProject("Test Project", admin.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "in-progress",
	})

	c, w := suite.createAuthContext("PUT", fmt.Sprintf("/api/projects/%d", project.ID), body, admin)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}
	suite.handler.UpdateProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.Project
	suite.db.First(&updated, project.ID)
	assert.Equal(suite.T(), models.ProjectStatusInProgress, updated.Status)
	assert.Equal(suite.T(), "Test Project", updated.Title)
}

// TestUpdateProject_InvalidStatus tests updating with a bad status value
func (suite *ProjectHandlerTestSuite) TestUpdateProject_InvalidStatus() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	project := suite.createTestProject("Test Project", admin.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "paused",
	})

	c, w := suite.createAuthContext("PUT", fmt.Sprintf("/api/projects/%d", project.ID), body, admin)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}
	suite.handler.UpdateProject(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateProject_NotFound tests updating a project that doesn't exist
func (suite *ProjectHandlerTestSuite) TestUpdateProject_NotFound() {
	admin := suite.createTestUser("admin", models.RoleAdmin)

	body, _ := json.Marshal(map[string]interface{}{
		"title": "Renamed",
	})

	c, w := suite.createAuthContext("PUT", "/api/projects/999", body, admin)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	suite.handler.UpdateProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteProject_TasksSurvive tests that deleting a project does not
// cascade to its tasks
func (suite *ProjectHandlerTestSuite) TestDeleteProject_TasksSurvive() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	employee := suite.createTestUser("employee", models.RoleEmployee)
	project := suite.createTestProject("Test Project", admin.ID)

	task := &models.Task{
		Title:        "Orphan task",
		AssignedToID: employee.ID,
		AssignedByID: admin.ID,
		ProjectID:    project.ID,
		Status:       models.TaskStatusPending,
		Priority:     models.TaskPriorityMedium,
		DueDate:      time.Now().AddDate(0, 0, 7),
	}
	suite.db.Create(task)

	c, w := suite.createAuthContext("DELETE", fmt.Sprintf("/api/projects/%d", project.ID), nil, admin)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}
	suite.handler.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var projectCount int64
	suite.db.Model(&models.Project{}).Count(&projectCount)
	assert.Equal(suite.T(), int64(0), projectCount)

	var taskCount int64
	suite.db.Model(&models.Task{}).Count(&taskCount)
	assert.Equal(suite.T(), int64(1), taskCount)
}

// TestDeleteProject_NotFound tests deleting a project that doesn't exist
func (suite *ProjectHandlerTestSuite) TestDeleteProject_NotFound() {
	admin := suite.createTestUser("admin", models.RoleAdmin)

	c, w := suite.createAuthContext("DELETE", "/api/projects/999", nil, admin)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	suite.handler.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestListProjectTasks_Success tests listing the tasks of a project
func (suite *ProjectHandlerTestSuite) TestListProjectTasks_Success() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	employee := suite.createTestUser("employee", models.RoleEmployee)
	project := suite.createTestProject("Test Project", admin.ID)
	other := suite.createTestProject("Other Project", admin.ID)

	for i, projectID := range []uint64{project.ID, project.ID, other.ID} {
		suite.db.Create(&models.Task{
			Title:        fmt.Sprintf("Task %d", i+1),
			AssignedToID: employee.ID,
			AssignedByID: admin.ID,
			ProjectID:    projectID,
			Status:       models.TaskStatusPending,
			Priority:     models.TaskPriorityMedium,
			DueDate:      time.Now().AddDate(0, 0, 7),
		})
	}

	// Any authenticated role may read a project's task list.
	c, w := suite.createAuthContext("GET", fmt.Sprintf("/api/projects/%d/tasks", project.ID), nil, employee)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}
	suite.handler.ListProjectTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 2)
}

// TestListProjectTasks_NotFound tests listing tasks for a missing project
func (suite *ProjectHandlerTestSuite) TestListProjectTasks_NotFound() {
	admin := suite.createTestUser("admin", models.RoleAdmin)

	c, w := suite.createAuthContext("GET", "/api/projects/999/tasks", nil, admin)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	suite.handler.ListProjectTasks(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestProjectHandlerTestSuite runs the test suite
func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
