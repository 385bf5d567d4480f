package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"line-detector/internal/domain/entity"
	"line-detector/internal/domain/port"
)

var (
	ErrMissingImage          = errors.New("image file not found in request")
	ErrEmptyFilename         = errors.New("image filename is empty")
	ErrDetectorNotConfigured = errors.New("detector is not configured")
)

// DetectionService принимает загрузку, сохраняет её и запускает конвейер.
type DetectionService struct {
	detector port.LineDetector
	store    port.ArtifactStore
	log      zerolog.Logger
	newID    func() string
}

// DetectionOutput результат прогона вместе с идентификатором запроса.
type DetectionOutput struct {
	RequestID string
	Result    *entity.DetectionResult
}

// NewDetectionService создаёт сервис детекции.
func NewDetectionService(detector port.LineDetector, store port.ArtifactStore, logger zerolog.Logger) *DetectionService {
	return &DetectionService{
		detector: detector,
		store:    store,
		log:      logger.With().Str("component", "detection").Logger(),
		newID:    newRequestID,
	}
}

// Detect проверяет загрузку и прогоняет её через детектор. Ошибка возвращается
// только для некорректного запроса; сбои обработки отражены в статусе результата.
func (s *DetectionService) Detect(ctx context.Context, filename string, data []byte) (*DetectionOutput, error) {
	if s.detector == nil || s.store == nil {
		return nil, ErrDetectorNotConfigured
	}
	if len(data) == 0 {
		return nil, ErrMissingImage
	}
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	safe := SanitizeFilename(filename)
	requestID := s.newID()
	log := s.log.With().Str("request_id", requestID).Str("filename", safe).Logger()

	// загрузку сохраняем рядом с артефактами, чтобы прогон можно было повторить
	if _, err := s.store.Put(ctx, requestID, "upload_"+safe, data); err != nil {
		log.Error().Err(err).Msg("failed to persist upload")
		return &DetectionOutput{
			RequestID: requestID,
			Result:    entity.NewFailedResult(entity.StatusProcessingError, fmt.Errorf("persist upload: %w", err)),
		}, nil
	}

	log.Debug().Int("bytes", len(data)).Msg("upload stored")
	result := s.detector.Detect(ctx, entity.DetectionRequest{
		RequestID: requestID,
		Filename:  safe,
		Data:      data,
	})
	if result == nil {
		result = entity.NewFailedResult(entity.StatusProcessingError, errors.New("detector returned no result"))
	}

	return &DetectionOutput{RequestID: requestID, Result: result}, nil
}

// Artifact возвращает сохранённый артефакт по ссылке из результата.
func (s *DetectionService) Artifact(ctx context.Context, ref string) ([]byte, error) {
	if s.store == nil {
		return nil, ErrDetectorNotConfigured
	}
	return s.store.Get(ctx, ref)
}

// newRequestID время запроса плюс случайный суффикс: сортируется и не повторяется.
func newRequestID() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102T150405"), time.Now().UnixNano())
	}
	return time.Now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(b[:])
}
