package models

import (
	"fmt"
	"time"
)

type TaskType string

const (
	TaskTypeSOS        TaskType = "SOS"
	TaskTypeDaily      TaskType = "1 Day"
	TaskTypeTenDays    TaskType = "10 Days"
	TaskTypeMonthly    TaskType = "Monthly"
	TaskTypeQuarterly  TaskType = "Quarterly"
	TaskTypeIndividual TaskType = "Individual"
	TaskTypeGroup      TaskType = "Group"
)

func ParseTaskType(s string) (TaskType, error) {
	switch TaskType(s) {
	case TaskTypeSOS, TaskTypeDaily, TaskTypeTenDays, TaskTypeMonthly,
		TaskTypeQuarterly, TaskTypeIndividual, TaskTypeGroup:
		return TaskType(s), nil
	}
	return "", fmt.Errorf("unknown task type %q", s)
}

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "Pending"
	TaskStatusCompleted TaskStatus = "Completed"
	TaskStatusSubmitted TaskStatus = "Submitted"
	TaskStatusOverdue   TaskStatus = "Overdue"
)

type Task struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"not null"`
	Type        TaskType      `json:"type" gorm:"not null"`
	Status      TaskStatus    `json:"status" gorm:"not null;default:'Pending'"`
	AssignedTo  []string      `json:"assigned_to" gorm:"serializer:json;not null"`
	AssignedBy  string        `json:"assigned_by" gorm:"not null"`
	Deadline    time.Time     `json:"deadline"`
	Description string        `json:"description"`
	ProjectID   string        `json:"project_id"`
	Messages    []ChatMessage `json:"messages" gorm:"foreignKey:TaskID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Task) IsAssignedTo(userID string) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// ChatMessage is a decorative placeholder on the task detail view. There is
// no send or delivery operation over these.
type ChatMessage struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TaskID    string    `json:"task_id" gorm:"not null"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	FileURL   string    `json:"file_url,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Emoji     string    `json:"emoji,omitempty"`
}
