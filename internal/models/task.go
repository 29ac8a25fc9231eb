package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	AssignedToID uint64         `gorm:"not null" json:"assigned_to_id"`
	AssignedByID uint64         `gorm:"not null" json:"assigned_by_id"`
	ProjectID    uint64         `gorm:"not null" json:"project_id"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority     TaskPriority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate      time.Time      `gorm:"not null" json:"due_date"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AssignedTo User    `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	AssignedBy User    `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
	Project    Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
