package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/taskhub/project-management-api/internal/authz"
	"github.com/taskhub/project-management-api/internal/models"
	"github.com/taskhub/project-management-api/internal/repository"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskTitleRequired   = errors.New("title is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
)

// TaskService applies the authorization matrix to task operations.
type TaskService struct {
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title        string
	Description  string
	AssignedToID uint64
	ProjectID    uint64
	Status       models.TaskStatus
	Priority     models.TaskPriority
	DueDate      time.Time
}

// CreateTask resolves the assignee and project, consults the matrix, and
// records the actor as the task's assigner.
func (s *TaskService) CreateTask(actor authz.Actor, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTaskTitleRequired
	}

	assignee, err := s.userRepo.FindByID(input.AssignedToID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve assignee: %w", err)
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to resolve project: %w", err)
	}

	if err := authz.CanCreateTask(actor, assignee.Role); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		AssignedToID: input.AssignedToID,
		AssignedByID: actor.ID,
		ProjectID:    input.ProjectID,
		Status:       input.Status,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "AssignedTo", "AssignedBy", "Project")
}

// ListTasks returns the tasks visible to the actor under the matrix's
// read scope.
func (s *TaskService) ListTasks(actor authz.Actor, page, pageSize int) ([]models.Task, int64, error) {
	scope, err := authz.TaskReadScope(actor)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.TaskFilter{
		Page:     page,
		PageSize: pageSize,
	}
	if scope.AssignedByID != 0 {
		filter.AssignedByID = &scope.AssignedByID
	}
	if scope.AssignedToID != 0 {
		filter.AssignedToID = &scope.AssignedToID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListTasksByProject returns the non-deleted tasks of a project. No role
// scope applies here; any authenticated caller sees the full project list.
func (s *TaskService) ListTasksByProject(projectID uint64) ([]models.Task, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to resolve project: %w", err)
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTaskInput carries the fields a task update may overwrite. Nil
// fields are left untouched.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	AssignedToID *uint64
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	DueDate      *time.Time
}

// UpdateTask applies the matrix's update rules. Employees may only change
// the status of their own tasks; every other submitted field is discarded
// for them.
func (s *TaskService) UpdateTask(actor authz.Actor, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	grant, err := authz.CanUpdateTask(actor, task)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}

	if !grant.StatusOnly {
		if input.Title != nil {
			if *input.Title == "" {
				return nil, ErrTaskTitleRequired
			}
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.AssignedToID != nil {
			if _, err := s.userRepo.FindByID(*input.AssignedToID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrUserNotFound
				}
				return nil, fmt.Errorf("failed to resolve assignee: %w", err)
			}
			task.AssignedToID = *input.AssignedToID
		}
		if input.Priority != nil {
			if !input.Priority.Valid() {
				return nil, ErrInvalidTaskPriority
			}
			task.Priority = *input.Priority
		}
		if input.DueDate != nil {
			task.DueDate = *input.DueDate
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "AssignedTo", "AssignedBy", "Project")
}

// DeleteTask soft-deletes a task if the matrix permits the actor.
func (s *TaskService) DeleteTask(actor authz.Actor, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := authz.CanDeleteTask(actor, task); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
