package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kmabbott81/ai-hub-production/internal/application"
	"github.com/kmabbott81/ai-hub-production/internal/domain"
	"github.com/kmabbott81/ai-hub-production/internal/handler/middleware"

	"github.com/gin-gonic/gin"
)

type WorkspaceHandler struct {
	workspace *application.WorkspaceService
}

func NewWorkspaceHandler(workspace *application.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspace: workspace}
}

func (h *WorkspaceHandler) CreateProject(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	project, err := h.workspace.CreateProject(c.Request.Context(), middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *WorkspaceHandler) ListProjects(c *gin.Context) {
	projects, err := h.workspace.ListProjects(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *WorkspaceHandler) DeleteProject(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workspace.DeleteProject(c.Request.Context(), middleware.UserID(c), projectID); err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *WorkspaceHandler) AddFile(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name     string `json:"name" binding:"required"`
		Content  string `json:"content"`
		FileType string `json:"file_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	file, err := h.workspace.AddFile(c.Request.Context(), middleware.UserID(c), projectID, req.Name, req.Content, req.FileType)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

func (h *WorkspaceHandler) ListFiles(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	files, err := h.workspace.ListFiles(c.Request.Context(), middleware.UserID(c), projectID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *WorkspaceHandler) CreateThread(c *gin.Context) {
	var req struct {
		Title     string `json:"title"`
		ProjectID *uint  `json:"project_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	thread, err := h.workspace.CreateThread(c.Request.Context(), middleware.UserID(c), req.Title, req.ProjectID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, thread)
}

func (h *WorkspaceHandler) ListThreads(c *gin.Context) {
	threads, err := h.workspace.ListThreads(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

func (h *WorkspaceHandler) DeleteThread(c *gin.Context) {
	threadID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workspace.DeleteThread(c.Request.Context(), middleware.UserID(c), threadID); err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *WorkspaceHandler) ListMessages(c *gin.Context) {
	threadID, ok := pathID(c, "id")
	if !ok {
		return
	}
	messages, err := h.workspace.ListMessages(c.Request.Context(), middleware.UserID(c), threadID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the owner"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
