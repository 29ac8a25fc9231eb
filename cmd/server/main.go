package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/project-management-api/internal/auth"
	"github.com/taskhub/project-management-api/internal/config"
	"github.com/taskhub/project-management-api/internal/database"
	"github.com/taskhub/project-management-api/internal/handlers"
	"github.com/taskhub/project-management-api/internal/middleware"
	"github.com/taskhub/project-management-api/internal/models"
	"github.com/taskhub/project-management-api/internal/repository"
	"github.com/taskhub/project-management-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Token service
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTLHours)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, projectRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	requireAuth := middleware.RequireAuth(tokens)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	adminOrManager := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/logout", authHandler.Logout)

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", adminOnly, userHandler.ListUsers)
			users.GET("/:id", adminOrManager, userHandler.GetUser)
			users.PUT("/:id", adminOnly, userHandler.UpdateUser)
			users.DELETE("/:id", adminOnly, userHandler.DeleteUser)
		}
		api.GET("/employees", requireAuth, adminOrManager, userHandler.ListEmployees)

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/tasks", projectHandler.ListProjectTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("", adminOrManager, taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
