package services

import (
	"errors"
	"time"

	"planeteye/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotAuthorized is returned when a mutation is attempted by an actor
	// whose role does not permit it. Capability checks live in the command
	// handlers themselves, not only in what a client chooses to render.
	ErrNotAuthorized = errors.New("actor is not authorized for this operation")
	ErrUserNotFound  = errors.New("user not found")
)

type TaskService interface {
	QuickCreate(db *gorm.DB, actor *models.User, taskType models.TaskType, targetID string) (*models.Task, error)
	Delegate(db *gorm.DB, actor *models.User, targetUserID string) (*models.Task, error)
	ToggleComplete(db *gorm.DB, actor *models.User, taskID string) (*models.Task, error)
	ListAll(db *gorm.DB) ([]models.Task, error)
	GetVisible(db *gorm.DB, actor *models.User, typeFilter models.TaskType) ([]models.Task, error)
	GetByID(db *gorm.DB, actor *models.User, taskID string) (*models.Task, error)
	MarkOverdue(db *gorm.DB, now time.Time) (int64, error)
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// QuickCreate builds a new task. With no target the actor self-assigns;
// with a target the task goes to that user alone. SOS dispatch is open to
// every role, any other targeted create requires the group capability.
func (s *TaskServiceImpl) QuickCreate(db *gorm.DB, actor *models.User, taskType models.TaskType, targetID string) (*models.Task, error) {
	assignees := []string{actor.ID}
	if targetID != "" {
		if targetID != actor.ID && taskType != models.TaskTypeSOS && !actor.CanCreateGroup() {
			return nil, ErrNotAuthorized
		}
		var target models.User
		if err := db.First(&target, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		assignees = []string{targetID}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ID:          id.String(),
		Title:       "New " + string(taskType) + " Task",
		Type:        taskType,
		Status:      models.TaskStatusPending,
		AssignedTo:  assignees,
		AssignedBy:  actor.ID,
		Deadline:    time.Now().Add(24 * time.Hour),
		Description: "Task created via quick action.",
	}
	if taskType == models.TaskTypeSOS {
		task.Title = "URGENT: SOS Request"
		task.Description = "Critical intervention required immediately."
	}

	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Delegate assigns a fresh Individual task to an explicit target user.
func (s *TaskServiceImpl) Delegate(db *gorm.DB, actor *models.User, targetUserID string) (*models.Task, error) {
	if targetUserID != actor.ID && !actor.CanCreateGroup() {
		return nil, ErrNotAuthorized
	}
	return s.QuickCreate(db, actor, models.TaskTypeIndividual, targetUserID)
}

// ToggleComplete flips a task between Pending and Completed. The actor must
// be able to see the task under the visibility rules; anything it cannot
// see it cannot toggle.
func (s *TaskServiceImpl) ToggleComplete(db *gorm.DB, actor *models.User, taskID string) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", taskID).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	if !CanSee(actor, &task, users) {
		return nil, ErrNotAuthorized
	}

	if task.Status == models.TaskStatusCompleted {
		task.Status = models.TaskStatusPending
	} else {
		task.Status = models.TaskStatusCompleted
	}

	if err := db.Model(&task).Update("status", task.Status).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListAll returns every task, most recent first, without visibility
// filtering. Callers that act on behalf of a user go through GetVisible.
func (s *TaskServiceImpl) ListAll(db *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetVisible resolves the actor's task view, most recent first, with the
// optional type filter applied after role filtering.
func (s *TaskServiceImpl) GetVisible(db *gorm.DB, actor *models.User, typeFilter models.TaskType) ([]models.Task, error) {
	tasks, err := s.ListAll(db)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return FilterByType(VisibleTasks(actor, tasks, users), typeFilter), nil
}

func (s *TaskServiceImpl) GetByID(db *gorm.DB, actor *models.User, taskID string) (*models.Task, error) {
	var task models.Task
	if err := db.Preload("Messages").First(&task, "id = ?", taskID).Error; err != nil {
		return nil, err
	}
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	if !CanSee(actor, &task, users) {
		return nil, ErrNotAuthorized
	}
	return &task, nil
}

// MarkOverdue flips Pending tasks whose deadline has passed to Overdue and
// reports how many changed. Completed and Submitted tasks are untouched.
func (s *TaskServiceImpl) MarkOverdue(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.Task{}).
		Where("status = ? AND deadline < ?", models.TaskStatusPending, now).
		Update("status", models.TaskStatusOverdue)
	return result.RowsAffected, result.Error
}
