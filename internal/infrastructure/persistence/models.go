// Package persistence is the gorm-backed system of record. Table and column
// names follow the original aihub schema exactly; compatibility with existing
// databases depends on it.
package persistence

import (
	"time"

	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

type UserModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement;column:id"`
	Username     string    `gorm:"uniqueIndex;size:255;not null;column:username"`
	Email        string    `gorm:"uniqueIndex;size:255;not null;column:email"`
	PasswordHash string    `gorm:"size:255;not null;column:password_hash"`
	MFASecret    string    `gorm:"size:32;column:mfa_secret"`
	MFAEnabled   bool      `gorm:"not null;default:false;column:mfa_enabled"`
	CreatedAt    time.Time `gorm:"autoCreateTime;not null;column:created_at"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		MFASecret:    m.MFASecret,
		MFAEnabled:   m.MFAEnabled,
		CreatedAt:    m.CreatedAt,
	}
}

func UserFromDomain(u *domain.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		MFASecret:    u.MFASecret,
		MFAEnabled:   u.MFAEnabled,
		CreatedAt:    u.CreatedAt,
	}
}

type ProjectModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:id"`
	UserID      uint      `gorm:"index;not null;column:user_id"`
	Name        string    `gorm:"size:255;not null;column:name"`
	Description string    `gorm:"type:text;column:description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;not null;column:created_at"`
}

func (ProjectModel) TableName() string { return "projects" }

func (m *ProjectModel) ToDomain() *domain.Project {
	return &domain.Project{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

func ProjectFromDomain(p *domain.Project) *ProjectModel {
	return &ProjectModel{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

type FileModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id"`
	ProjectID uint      `gorm:"index;not null;column:project_id"`
	Name      string    `gorm:"size:255;not null;column:name"`
	Content   string    `gorm:"type:text;column:content"`
	Size      int64     `gorm:"not null;column:size"`
	FileType  string    `gorm:"size:100;column:file_type"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null;column:created_at"`
}

func (FileModel) TableName() string { return "files" }

func (m *FileModel) ToDomain() *domain.File {
	return &domain.File{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Name:      m.Name,
		Content:   m.Content,
		Size:      m.Size,
		FileType:  m.FileType,
		CreatedAt: m.CreatedAt,
	}
}

func FileFromDomain(f *domain.File) *FileModel {
	return &FileModel{
		ID:        f.ID,
		ProjectID: f.ProjectID,
		Name:      f.Name,
		Content:   f.Content,
		Size:      f.Size,
		FileType:  f.FileType,
		CreatedAt: f.CreatedAt,
	}
}

type ThreadModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    uint      `gorm:"index;not null;column:user_id"`
	ProjectID *uint     `gorm:"index;column:project_id"`
	Title     string    `gorm:"size:500;not null;column:title"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null;column:created_at"`
}

func (ThreadModel) TableName() string { return "threads" }

func (m *ThreadModel) ToDomain() *domain.Thread {
	return &domain.Thread{
		ID:        m.ID,
		UserID:    m.UserID,
		ProjectID: m.ProjectID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
	}
}

func ThreadFromDomain(t *domain.Thread) *ThreadModel {
	return &ThreadModel{
		ID:        t.ID,
		UserID:    t.UserID,
		ProjectID: t.ProjectID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
	}
}

type MessageModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id"`
	ThreadID  uint      `gorm:"index;not null;column:thread_id"`
	Role      string    `gorm:"size:50;not null;column:role"`
	Content   string    `gorm:"type:text;not null;column:content"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null;column:created_at"`
}

func (MessageModel) TableName() string { return "messages" }

func (m *MessageModel) ToDomain() *domain.Message {
	return &domain.Message{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		Role:      domain.Role(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func MessageFromDomain(msg *domain.Message) *MessageModel {
	return &MessageModel{
		ID:        msg.ID,
		ThreadID:  msg.ThreadID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}
