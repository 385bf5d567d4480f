//go:build gocv
// +build gocv

package vision

import (
	"fmt"

	"gocv.io/x/gocv"
)

// DetectEdges строит карту границ детектором Кэнни с гистерезисом low/high.
func DetectEdges(mask gocv.Mat, low, high float64) (gocv.Mat, error) {
	if mask.Empty() {
		return gocv.NewMat(), ErrEmptyImage
	}
	if low < 0 || low >= high {
		return gocv.NewMat(), fmt.Errorf("edges: thresholds must satisfy 0 <= low < high (got %.1f, %.1f)", low, high)
	}

	edges := gocv.NewMat()
	gocv.Canny(mask, &edges, float32(low), float32(high))
	return edges, nil
}
