package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	DOB          time.Time      `gorm:"not null" json:"dob"`
	Address      string         `gorm:"type:varchar(255);default:'NA'" json:"address"`
	Location     string         `gorm:"type:varchar(255);default:'NA'" json:"location"`
	DeletedBy    string         `gorm:"type:varchar(50)" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AssignedProjects []ProjectAssignment `gorm:"foreignKey:UserID" json:"-"`
	AssignedTasks    []Task              `gorm:"foreignKey:AssignedToID" json:"-"`
	DelegatedTasks   []Task              `gorm:"foreignKey:AssignedByID" json:"-"`
}
