//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"line-detector/internal/domain/entity"
)

// FindLines ищет отрезки вероятностным преобразованием Хафа.
//
// Бин аккумулятора (rho, theta) рассматривается, когда число голосов не
// меньше p.Threshold: OpenCV отбрасывает бин только при max_val < threshold.
// Отрезок принимается при длине не меньше p.MinLineLength с разрывами не
// больше p.MaxLineGap. Порядок выборки в OpenCV задаётся фиксированным
// зерном, поэтому результат на одинаковом входе повторяется.
//
// Пустой список без ошибки означает, что подходящих отрезков нет.
// Стоимость растёт с числом граничных пикселей, поэтому поиск идёт в
// отдельной горутине над собственной копией карты и прерывается по ctx.
func FindLines(ctx context.Context, edges gocv.Mat, p entity.HoughParams) ([]entity.LineSegment, error) {
	if edges.Empty() {
		return nil, ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("line detection: %w", err)
	}

	// копия остаётся живой, даже если вызывающий закроет edges по таймауту
	src := edges.Clone()
	done := make(chan []entity.LineSegment, 1)
	go func() {
		defer src.Close()
		done <- houghLines(src, p)
	}()

	select {
	case lines := <-done:
		return lines, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("line detection: %w", ctx.Err())
	}
}

func houghLines(edges gocv.Mat, p entity.HoughParams) []entity.LineSegment {
	raw := gocv.NewMat()
	defer raw.Close()
	gocv.HoughLinesPWithParams(edges, &raw,
		float32(p.Rho), float32(p.ThetaRadians()), p.Threshold,
		float32(p.MinLineLength), float32(p.MaxLineGap))

	width, height := edges.Cols(), edges.Rows()
	lines := make([]entity.LineSegment, 0, raw.Rows())
	for i := 0; i < raw.Rows(); i++ {
		v := raw.GetVeciAt(i, 0)
		if len(v) < 4 {
			continue
		}
		seg := entity.LineSegment{X1: int(v[0]), Y1: int(v[1]), X2: int(v[2]), Y2: int(v[3])}
		lines = append(lines, seg.Clamp(width, height))
	}
	return lines
}
