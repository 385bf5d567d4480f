package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"line-detector/internal/domain/port"
)

// FileArtifactStore хранит артефакты на диске: <root>/<requestID>/<name>.
// Каталог на запрос исключает гонку за общими именами файлов.
type FileArtifactStore struct {
	root string
}

// NewFileArtifactStore создаёт корневой каталог, если его нет.
func NewFileArtifactStore(root string) (*FileArtifactStore, error) {
	if root == "" {
		return nil, errors.New("artifact root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &FileArtifactStore{root: root}, nil
}

// Root возвращает корневой каталог хранилища.
func (s *FileArtifactStore) Root() string {
	return s.root
}

// Put записывает данные и возвращает ссылку "<requestID>/<name>".
func (s *FileArtifactStore) Put(ctx context.Context, requestID, name string, data []byte) (string, error) {
	ref, err := makeRef(requestID, name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, requestID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create request dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return ref, nil
}

// Get читает артефакт по ссылке.
func (s *FileArtifactStore) Get(ctx context.Context, ref string) ([]byte, error) {
	requestID, name, err := splitRef(ref)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.root, requestID, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

// Проверка реализации интерфейса
var _ port.ArtifactStore = (*FileArtifactStore)(nil)
