package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/pkg/response"
)

// ProjectService manages the owner-scoped project surface. The API key is
// issued once at creation and is immutable afterwards.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// Create issues a new project with a fresh API key for the owner.
func (s *ProjectService) Create(ownerID uint, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, response.NewBadRequest("name is required")
	}

	project := models.Project{
		Name:    name,
		APIKey:  uuid.New().String(),
		OwnerID: ownerID,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, response.NewServerErrorWithDetails("failed to create project", err.Error())
	}
	return &project, nil
}

// List returns all projects owned by the user, newest first.
func (s *ProjectService) List(ownerID uint) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, response.NewServerErrorWithDetails("failed to list projects", err.Error())
	}
	return projects, nil
}

// Get returns one owned project; unowned ids read as not found.
func (s *ProjectService) Get(ownerID, projectID uint) (*models.Project, error) {
	var project models.Project
	err := s.db.Where("id = ? AND owner_id = ?", projectID, ownerID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, response.NewServerErrorWithDetails("failed to load project", err.Error())
	}
	return &project, nil
}

// Rename updates the project name. The API key cannot be changed.
func (s *ProjectService) Rename(ownerID, projectID uint, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, response.NewBadRequest("name is required")
	}

	project, err := s.Get(ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(project).Update("name", name).Error; err != nil {
		return nil, response.NewServerErrorWithDetails("failed to update project", err.Error())
	}
	project.Name = name
	return project, nil
}

// Delete soft-deletes an owned project. Stored events remain (retention is
// out of scope for the core).
func (s *ProjectService) Delete(ownerID, projectID uint) error {
	project, err := s.Get(ownerID, projectID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(project).Error; err != nil {
		return response.NewServerErrorWithDetails("failed to delete project", err.Error())
	}
	return nil
}
