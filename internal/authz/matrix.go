// Package authz holds the role/ownership decision matrix for tasks and
// projects. Services consult it instead of branching on roles themselves.
package authz

import (
	"errors"

	"github.com/taskhub/project-management-api/internal/models"
)

var (
	ErrInvalidRole         = errors.New("invalid role")
	ErrRoleDenied          = errors.New("role is not permitted to perform this action")
	ErrAssigneeNotEmployee = errors.New("managers can assign tasks only to employees")
	ErrNotTaskAssigner     = errors.New("only tasks assigned by the actor can be modified")
	ErrNotTaskAssignee     = errors.New("only tasks assigned to the actor can be modified")
)

// Actor identifies the authenticated user a decision is made for.
type Actor struct {
	ID   uint64
	Role models.Role
}

// TaskScope restricts which tasks an actor may read. A zero field means no
// restriction on that axis; the zero value reads everything.
type TaskScope struct {
	AssignedByID uint64
	AssignedToID uint64
}

// UpdateGrant describes what an allowed task update may touch.
type UpdateGrant struct {
	// StatusOnly limits the update to the status field; every other
	// submitted field is discarded.
	StatusOnly bool
}

// TaskReadScope returns the result-set filter for listing tasks.
//
//	admin:    all tasks
//	manager:  tasks the actor assigned
//	employee: tasks assigned to the actor
func TaskReadScope(actor Actor) (TaskScope, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return TaskScope{}, nil
	case models.RoleManager:
		return TaskScope{AssignedByID: actor.ID}, nil
	case models.RoleEmployee:
		return TaskScope{AssignedToID: actor.ID}, nil
	default:
		return TaskScope{}, ErrInvalidRole
	}
}

// CanCreateTask decides whether the actor may create a task for the given
// assignee. Admins may assign to anyone; managers only to employees.
func CanCreateTask(actor Actor, assigneeRole models.Role) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleManager:
		if assigneeRole != models.RoleEmployee {
			return ErrAssigneeNotEmployee
		}
		return nil
	case models.RoleEmployee:
		return ErrRoleDenied
	default:
		return ErrInvalidRole
	}
}

// CanUpdateTask decides whether the actor may update the task and, for
// employees, narrows the update to the status field.
func CanUpdateTask(actor Actor, task *models.Task) (UpdateGrant, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return UpdateGrant{}, nil
	case models.RoleManager:
		if task.AssignedByID != actor.ID {
			return UpdateGrant{}, ErrNotTaskAssigner
		}
		return UpdateGrant{}, nil
	case models.RoleEmployee:
		if task.AssignedToID != actor.ID {
			return UpdateGrant{}, ErrNotTaskAssignee
		}
		return UpdateGrant{StatusOnly: true}, nil
	default:
		return UpdateGrant{}, ErrInvalidRole
	}
}

// CanDeleteTask decides whether the actor may soft-delete the task.
func CanDeleteTask(actor Actor, task *models.Task) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleManager:
		if task.AssignedByID != actor.ID {
			return ErrNotTaskAssigner
		}
		return nil
	case models.RoleEmployee:
		return ErrRoleDenied
	default:
		return ErrInvalidRole
	}
}
