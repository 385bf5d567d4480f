//go:build gocv
// +build gocv

package vision

import (
	"fmt"

	"gocv.io/x/gocv"

	"line-detector/internal/domain/entity"
)

// Segment переводит BGR-изображение в HSV и строит бинарную маску {0,255}:
// 255 там, где все три канала попадают в диапазон включительно.
func Segment(img gocv.Mat, r entity.HSVRange) (gocv.Mat, error) {
	if img.Empty() || img.Rows() == 0 || img.Cols() == 0 {
		return gocv.NewMat(), ErrEmptyImage
	}
	if img.Channels() != 3 {
		return gocv.NewMat(), fmt.Errorf("segment: expected 3 channels, got %d", img.Channels())
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	gocv.InRangeWithScalar(hsv, hsvScalar(r.Lower), hsvScalar(r.Upper), &mask)
	return mask, nil
}

func hsvScalar(v [3]int) gocv.Scalar {
	return gocv.NewScalar(float64(v[0]), float64(v[1]), float64(v[2]), 0)
}
