package entity

import (
	"path/filepath"
	"strings"
)

// DetectionStatus итоговый статус прогона детектора.
type DetectionStatus string

const (
	StatusLoadFailed       DetectionStatus = "load_failed"       // изображение не декодируется
	StatusInsufficientArea DetectionStatus = "insufficient_area" // мало пикселей целевого цвета
	StatusNoLinesFound     DetectionStatus = "no_lines_found"    // цвет есть, прямых нет
	StatusSuccess          DetectionStatus = "success"           // найдены отрезки
	StatusProcessingError  DetectionStatus = "processing_error"  // сбой внутри конвейера
)

// Сообщения для каждого статуса.
const (
	MsgLoadFailed       = "Image could not be loaded"
	MsgInsufficientArea = "Not enough blue area detected"
	MsgNoLinesFound     = "No straight blue lines detected in the image"
	MsgSuccess          = "Straight blue lines detected"
	MsgProcessingError  = "Error processing image"
)

// IsSoft сообщает, является ли статус штатным исходом (не ошибкой).
func (s DetectionStatus) IsSoft() bool {
	return s == StatusSuccess || s == StatusInsufficientArea || s == StatusNoLinesFound
}

// DetectionRequest входные данные одного прогона.
type DetectionRequest struct {
	RequestID string // уникален для каждого вызова, задаёт пространство имён артефактов
	Filename  string // исходное имя файла, используется для выбора формата артефактов
	Data      []byte // закодированное изображение
}

// artifactExts форматы, в которых артефакты сохраняются как у входа.
var artifactExts = map[string]string{
	".png":  ".png",
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".bmp":  ".bmp",
	".webp": ".webp",
	".tif":  ".tiff",
	".tiff": ".tiff",
}

// ArtifactExt возвращает расширение для маски и аннотированного изображения.
func (r DetectionRequest) ArtifactExt() string {
	if ext, ok := artifactExts[strings.ToLower(filepath.Ext(r.Filename))]; ok {
		return ext
	}
	return ".png"
}

// DetectionResult структурированный итог, который всегда получает вызывающая сторона.
type DetectionResult struct {
	Status       DetectionStatus `json:"status"`
	Message      string          `json:"message"`
	MaskRef      string          `json:"mask_image,omitempty"`
	AnnotatedRef string          `json:"output_image,omitempty"`
	Lines        []LineSegment   `json:"lines"`
	BlueArea     int             `json:"blue_area"`
	Error        string          `json:"error,omitempty"`
}

// NewFailedResult строит терминальный результат для LoadFailed или ProcessingError.
func NewFailedResult(status DetectionStatus, err error) *DetectionResult {
	msg := MsgProcessingError
	if status == StatusLoadFailed {
		msg = MsgLoadFailed
	}
	res := &DetectionResult{
		Status:  status,
		Message: msg,
		Lines:   []LineSegment{},
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
