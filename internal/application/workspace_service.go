package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

const threadTitleMaxLen = 50

// WorkspaceService covers project, file, and thread CRUD. Every operation
// takes the authenticated user id and enforces ownership before touching
// anything; ownership is set at creation and never transfers.
type WorkspaceService struct {
	projects domain.ProjectRepository
	threads  domain.ThreadRepository
	logger   *slog.Logger
}

func NewWorkspaceService(projects domain.ProjectRepository, threads domain.ThreadRepository, logger *slog.Logger) *WorkspaceService {
	return &WorkspaceService{
		projects: projects,
		threads:  threads,
		logger:   logger,
	}
}

func (s *WorkspaceService) CreateProject(ctx context.Context, userID uint, name, description string) (*domain.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: project name is required", domain.ErrValidation)
	}
	project := &domain.Project{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *WorkspaceService) ListProjects(ctx context.Context, userID uint) ([]*domain.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

func (s *WorkspaceService) DeleteProject(ctx context.Context, userID, projectID uint) error {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	s.logger.Info("project deleted", "project_id", projectID, "user_id", userID)
	return nil
}

func (s *WorkspaceService) AddFile(ctx context.Context, userID, projectID uint, name, content, fileType string) (*domain.File, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	file := &domain.File{
		ProjectID: projectID,
		Name:      name,
		Content:   content,
		FileType:  fileType,
	}
	if err := s.projects.AddFile(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *WorkspaceService) ListFiles(ctx context.Context, userID, projectID uint) ([]*domain.File, error) {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.projects.ListFiles(ctx, projectID)
}

// CreateThread creates a thread, optionally scoped to one of the caller's
// projects. Title falls back to the first message content, truncated, like
// the chat UI always did.
func (s *WorkspaceService) CreateThread(ctx context.Context, userID uint, title string, projectID *uint) (*domain.Thread, error) {
	if projectID != nil {
		if _, err := s.ownedProject(ctx, userID, *projectID); err != nil {
			return nil, err
		}
	}
	thread := &domain.Thread{
		UserID:    userID,
		ProjectID: projectID,
	}
	if strings.TrimSpace(title) == "" {
		title = "New chat"
	}
	thread.SetTitle(title, threadTitleMaxLen)
	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *WorkspaceService) ListThreads(ctx context.Context, userID uint) ([]*domain.Thread, error) {
	return s.threads.ListByUser(ctx, userID)
}

func (s *WorkspaceService) DeleteThread(ctx context.Context, userID, threadID uint) error {
	if _, err := s.ownedThread(ctx, userID, threadID); err != nil {
		return err
	}
	if err := s.threads.Delete(ctx, threadID); err != nil {
		return err
	}
	s.logger.Info("thread deleted", "thread_id", threadID, "user_id", userID)
	return nil
}

// ListMessages returns the ordered conversation for the presentation layer
// to pull after a dispatch.
func (s *WorkspaceService) ListMessages(ctx context.Context, userID, threadID uint) ([]*domain.Message, error) {
	if _, err := s.ownedThread(ctx, userID, threadID); err != nil {
		return nil, err
	}
	return s.threads.ListMessages(ctx, threadID)
}

func (s *WorkspaceService) ownedProject(ctx context.Context, userID, projectID uint) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return project, nil
}

func (s *WorkspaceService) ownedThread(ctx context.Context, userID, threadID uint) (*domain.Thread, error) {
	thread, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return thread, nil
}
