package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/kmabbott81/ai-hub-production/internal/domain"

	"gorm.io/gorm"
)

type ThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

func (r *ThreadRepository) Create(ctx context.Context, thread *domain.Thread) error {
	model := ThreadFromDomain(thread)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("create thread: %w", err)
	}
	thread.ID = model.ID
	thread.CreatedAt = model.CreatedAt
	return nil
}

func (r *ThreadRepository) FindByID(ctx context.Context, id uint) (*domain.Thread, error) {
	var model ThreadModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find thread: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *ThreadRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.Thread, error) {
	var models []*ThreadModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	threads := make([]*domain.Thread, len(models))
	for i, m := range models {
		threads[i] = m.ToDomain()
	}
	return threads, nil
}

// Delete removes the thread and its messages in one transaction.
func (r *ThreadRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", id).Delete(&MessageModel{}).Error; err != nil {
			return fmt.Errorf("delete thread messages: %w", err)
		}
		if err := tx.Delete(&ThreadModel{}, id).Error; err != nil {
			return fmt.Errorf("delete thread: %w", err)
		}
		return nil
	})
}

// AppendMessage inserts one row. The log is append-only: there is no update
// or single-message delete anywhere in this package.
func (r *ThreadRepository) AppendMessage(ctx context.Context, msg *domain.Message) error {
	model := MessageFromDomain(msg)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	msg.ID = model.ID
	msg.CreatedAt = model.CreatedAt
	return nil
}

// ListMessages returns the full ordered log. Ties on created_at fall back
// to id, which is assignment order.
func (r *ThreadRepository) ListMessages(ctx context.Context, threadID uint) ([]*domain.Message, error) {
	var models []*MessageModel
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at asc, id asc").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	messages := make([]*domain.Message, len(models))
	for i, m := range models {
		messages[i] = m.ToDomain()
	}
	return messages, nil
}
