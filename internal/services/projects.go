package services

import (
	"planeteye/backend/internal/models"

	"gorm.io/gorm"
)

type ProjectService interface {
	ListProjects(db *gorm.DB) ([]models.Project, error)
	GetProject(db *gorm.DB, projectID string) (*models.Project, error)
}

type ProjectServiceImpl struct{}

func NewProjectService() *ProjectServiceImpl {
	return &ProjectServiceImpl{}
}

func (s *ProjectServiceImpl) ListProjects(db *gorm.DB) ([]models.Project, error) {
	var projects []models.Project
	if err := db.Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *ProjectServiceImpl) GetProject(db *gorm.DB, projectID string) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "id = ?", projectID).Error; err != nil {
		return nil, err
	}
	return &project, nil
}
