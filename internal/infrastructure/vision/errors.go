package vision

import (
	"errors"

	"line-detector/internal/domain/port"
)

var (
	// ErrEmptyImage входной буфер пуст или имеет нулевой размер.
	ErrEmptyImage = errors.New("empty image")

	// ErrOpenCVDisabled сборка без тега gocv.
	ErrOpenCVDisabled = errors.New("gocv build tag is not enabled")
)

// PassesArea правило пропуска по площади. Граница включающая: count == threshold
// проходит, на один пиксель меньше уже нет.
func PassesArea(count, threshold int) bool {
	return count >= threshold
}

// Проверка реализации интерфейса
var _ port.LineDetector = (*Pipeline)(nil)
