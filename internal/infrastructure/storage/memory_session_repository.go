package storage

import (
	"context"
	"sync"

	"line-detector/internal/domain/entity"
	"line-detector/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий чатов
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает копию сессии чата, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, chatID int64) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[chatID]
	if !exists {
		session = entity.NewSession(chatID)
		r.sessions[chatID] = session
	}

	snapshot := *session
	return &snapshot, nil
}

// Save сохраняет сессию
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	stored := *session

	r.mu.Lock()
	r.sessions[session.ChatID] = &stored
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
