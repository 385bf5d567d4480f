package storage

import (
	"context"
	"sync"

	"line-detector/internal/domain/port"
)

// MemoryArtifactStore in-memory хранилище артефактов
type MemoryArtifactStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryArtifactStore создаёт новое in-memory хранилище
func NewMemoryArtifactStore() *MemoryArtifactStore {
	return &MemoryArtifactStore{
		items: make(map[string][]byte),
	}
}

// Put сохраняет копию данных под ссылкой "<requestID>/<name>"
func (s *MemoryArtifactStore) Put(ctx context.Context, requestID, name string, data []byte) (string, error) {
	ref, err := makeRef(requestID, name)
	if err != nil {
		return "", err
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.items[ref] = buf
	s.mu.Unlock()

	return ref, nil
}

// Get возвращает данные по ссылке
func (s *MemoryArtifactStore) Get(ctx context.Context, ref string) ([]byte, error) {
	if _, _, err := splitRef(ref); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, exists := s.items[ref]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrArtifactNotFound
	}
	return data, nil
}

// Len возвращает число сохранённых артефактов
func (s *MemoryArtifactStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Проверка реализации интерфейса
var _ port.ArtifactStore = (*MemoryArtifactStore)(nil)
