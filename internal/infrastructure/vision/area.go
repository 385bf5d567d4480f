//go:build gocv
// +build gocv

package vision

import "gocv.io/x/gocv"

// EvaluateArea считает ненулевые пиксели маски и применяет PassesArea.
func EvaluateArea(mask gocv.Mat, threshold int) (passed bool, count int) {
	if mask.Empty() {
		return PassesArea(0, threshold), 0
	}
	count = gocv.CountNonZero(mask)
	return PassesArea(count, threshold), count
}
