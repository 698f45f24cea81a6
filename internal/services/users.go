package services

import (
	"errors"

	"planeteye/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrDuplicateUser = errors.New("user id already exists")

type OnboardInput struct {
	Name        string
	Role        string
	Designation string
	Birthdate   string
	JoinDate    string
	TeamID      string
	Photo       string
}

type UserService interface {
	ListUsers(db *gorm.DB) ([]models.User, error)
	GetUser(db *gorm.DB, userID string) (*models.User, error)
	Onboard(db *gorm.DB, actor *models.User, input OnboardInput) (*models.User, error)
}

type UserServiceImpl struct{}

func NewUserService() *UserServiceImpl {
	return &UserServiceImpl{}
}

func (s *UserServiceImpl) ListUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Preload("Leaves").Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserServiceImpl) GetUser(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := db.Preload("Leaves").First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Onboard adds a user to the directory. Only Boss and Admin carry the
// manage-employees capability; the role value must parse, there is no
// fallthrough for unknown roles.
func (s *UserServiceImpl) Onboard(db *gorm.DB, actor *models.User, input OnboardInput) (*models.User, error) {
	if !actor.CanManageEmployees() {
		return nil, ErrNotAuthorized
	}

	role, err := models.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:          id.String(),
		Name:        input.Name,
		Role:        role,
		Designation: input.Designation,
		Birthdate:   input.Birthdate,
		JoinDate:    input.JoinDate,
		TeamID:      input.TeamID,
		Photo:       input.Photo,
		Tours:       []string{},
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
