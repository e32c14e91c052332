package domain

import "context"

// UserRepository 定义用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	SetMFA(ctx context.Context, id uint, secret string, enabled bool) error
}

// ProjectRepository owns projects and their files. Delete cascades files
// and unlinks threads inside one transaction.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id uint) (*Project, error)
	ListByUser(ctx context.Context, userID uint) ([]*Project, error)
	Delete(ctx context.Context, id uint) error
	AddFile(ctx context.Context, file *File) error
	ListFiles(ctx context.Context, projectID uint) ([]*File, error)
}

// ThreadRepository owns threads and their append-only message log.
// There is deliberately no way to edit or delete a single message.
type ThreadRepository interface {
	Create(ctx context.Context, thread *Thread) error
	FindByID(ctx context.Context, id uint) (*Thread, error)
	ListByUser(ctx context.Context, userID uint) ([]*Thread, error)
	Delete(ctx context.Context, id uint) error
	AppendMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, threadID uint) ([]*Message, error)
}

// CostTracker keeps the running usage cost per thread. Totals are derived
// data and can always be recomputed, so a cache is the right home for them.
type CostTracker interface {
	Add(ctx context.Context, threadID uint, cost float64) (float64, error)
	Total(ctx context.Context, threadID uint) (float64, error)
}
