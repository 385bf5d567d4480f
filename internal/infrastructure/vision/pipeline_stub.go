//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"github.com/rs/zerolog"

	"line-detector/internal/domain/entity"
	"line-detector/internal/domain/port"
)

// Pipeline заглушка конвейера для сборки без OpenCV.
type Pipeline struct {
	cfg   entity.DetectionConfig
	store port.ArtifactStore
	log   zerolog.Logger
}

// NewPipeline создаёт конвейер-заглушку (без OpenCV).
func NewPipeline(cfg entity.DetectionConfig, store port.ArtifactStore, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		store: store,
		log:   logger.With().Str("component", "pipeline").Logger(),
	}
}

// Detect возвращает ProcessingError, если сборка без тега gocv.
func (p *Pipeline) Detect(ctx context.Context, req entity.DetectionRequest) *entity.DetectionResult {
	_ = ctx
	p.log.Warn().Str("request_id", req.RequestID).Msg("detection requested in a build without gocv")
	return entity.NewFailedResult(entity.StatusProcessingError, ErrOpenCVDisabled)
}
