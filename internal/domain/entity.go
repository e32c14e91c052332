package domain

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one of the three stored roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// User 账户实体
type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	MFASecret    string    `json:"-"`
	MFAEnabled   bool      `json:"mfa_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

type Project struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// File belongs to exactly one project. Size is derived from the content
// at creation and never changes afterwards.
type File struct {
	ID        uint      `json:"id"`
	ProjectID uint      `json:"project_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content,omitempty"`
	Size      int64     `json:"size"`
	FileType  string    `json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Thread 会话实体 (Aggregate Root). ProjectID is nil for project-less threads.
type Thread struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	ProjectID *uint     `json:"project_id,omitempty"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// SetTitle derives a thread title from the first message content.
// Handles length limits internally so callers never worry about it.
func (t *Thread) SetTitle(content string, maxLen int) {
	runes := []rune(content)
	if len(runes) > maxLen {
		t.Title = string(runes[:maxLen])
	} else {
		t.Title = content
	}
}

// Message rows are append-only: never mutated, never reordered.
type Message struct {
	ID        uint      `json:"id"`
	ThreadID  uint      `json:"thread_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// IsUser checks if the message is from a user
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// ChatMessage is the role+content pair sent to providers. Internal ids
// never cross the wire.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
