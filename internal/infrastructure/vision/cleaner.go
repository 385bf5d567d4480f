//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Clean убирает шум маски квадратным ядром kernelSize x kernelSize:
// сначала закрытие (заполняет разрывы внутри линии), затем открытие
// (удаляет одиночные пиксели). Обратный порядок стирает тонкие линии.
func Clean(mask gocv.Mat, kernelSize int) (gocv.Mat, error) {
	if mask.Empty() {
		return gocv.NewMat(), ErrEmptyImage
	}
	if kernelSize <= 0 || kernelSize%2 == 0 {
		return gocv.NewMat(), fmt.Errorf("clean: kernel size %d must be odd and positive", kernelSize)
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernelSize, kernelSize))
	defer kernel.Close()

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(mask, &closed, gocv.MorphClose, kernel)

	cleaned := gocv.NewMat()
	gocv.MorphologyEx(closed, &cleaned, gocv.MorphOpen, kernel)
	return cleaned, nil
}
