package port

import "context"

// ArtifactStore хранилище загрузок и диагностических изображений
type ArtifactStore interface {
	// Put сохраняет данные в пространстве имён запроса и возвращает ссылку
	Put(ctx context.Context, requestID, name string, data []byte) (string, error)

	// Get возвращает данные по ссылке, полученной из Put
	Get(ctx context.Context, ref string) ([]byte, error)
}
