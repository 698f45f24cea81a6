package models

import "time"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusCompleted ProjectStatus = "Completed"
	ProjectStatusPending   ProjectStatus = "Pending"
)

type Project struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	Title         string        `json:"title" gorm:"not null"`
	Branch        string        `json:"branch"`
	Description   string        `json:"description"`
	AssignedUsers []string      `json:"assigned_users" gorm:"serializer:json"`
	Status        ProjectStatus `json:"status" gorm:"not null;default:'Pending'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
