package port

import (
	"context"

	"line-detector/internal/domain/entity"
)

// LineDetector интерфейс конвейера поиска прямых линий
type LineDetector interface {
	// Detect прогоняет изображение через конвейер. Всегда возвращает результат,
	// сбои отражаются статусом, а не ошибкой.
	Detect(ctx context.Context, req entity.DetectionRequest) *entity.DetectionResult
}
