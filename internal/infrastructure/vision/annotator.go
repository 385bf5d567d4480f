//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"line-detector/internal/domain/entity"
)

// Draw рисует отрезки поверх копии изображения, оригинал не меняется.
func Draw(img gocv.Mat, lines []entity.LineSegment, c color.RGBA, thickness int) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.NewMat(), ErrEmptyImage
	}
	if thickness <= 0 {
		return gocv.NewMat(), fmt.Errorf("draw: thickness %d must be positive", thickness)
	}

	out := img.Clone()
	for _, l := range lines {
		gocv.Line(&out, image.Pt(l.X1, l.Y1), image.Pt(l.X2, l.Y2), c, thickness)
	}
	return out, nil
}
