package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/kmabbott81/ai-hub-production/internal/domain"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	model := ProjectFromDomain(project)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	project.ID = model.ID
	project.CreatedAt = model.CreatedAt
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*domain.Project, error) {
	var model ProjectModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.Project, error) {
	var models []*ProjectModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	projects := make([]*domain.Project, len(models))
	for i, m := range models {
		projects[i] = m.ToDomain()
	}
	return projects, nil
}

// Delete removes the project and its files, and unlinks any threads that
// pointed at it. All three steps commit in one transaction so a thread is
// never left referencing a dead project.
func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&FileModel{}).Error; err != nil {
			return fmt.Errorf("delete project files: %w", err)
		}
		if err := tx.Model(&ThreadModel{}).
			Where("project_id = ?", id).
			Update("project_id", nil).Error; err != nil {
			return fmt.Errorf("unlink project threads: %w", err)
		}
		if err := tx.Delete(&ProjectModel{}, id).Error; err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return nil
	})
}

func (r *ProjectRepository) AddFile(ctx context.Context, file *domain.File) error {
	// Size is derived from content here, once, and never recomputed.
	file.Size = int64(len(file.Content))
	model := FileFromDomain(file)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	file.ID = model.ID
	file.CreatedAt = model.CreatedAt
	return nil
}

func (r *ProjectRepository) ListFiles(ctx context.Context, projectID uint) ([]*domain.File, error) {
	var models []*FileModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	files := make([]*domain.File, len(models))
	for i, m := range models {
		files[i] = m.ToDomain()
	}
	return files, nil
}
