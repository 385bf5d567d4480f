//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// decodeToMat превращает байты изображения в трёхканальный gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	if len(imageData) == 0 {
		return gocv.NewMat(), ErrEmptyImage
	}
	if err := checkComplete(imageData); err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to decode image: %w", err)
	}
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	mat.Close()
	return gocv.NewMat(), errors.New("failed to decode image")
}

// encodeMat кодирует изображение в формат по расширению (".png", ".jpg", ...).
func encodeMat(ext string, mat gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.FileExt(ext), mat)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ext, err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}
