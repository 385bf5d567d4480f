//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"line-detector/internal/domain/entity"
)

var (
	blue  = color.RGBA{B: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
)

func blackImage(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)
}

// strokeImage 400x400, чёрный фон, синяя линия (50,50)-(350,50) толщиной 10.
func strokeImage() gocv.Mat {
	img := blackImage(400, 400)
	gocv.Line(&img, image.Pt(50, 50), image.Pt(350, 50), blue, 10)
	return img
}

func TestSegment_BlueStroke(t *testing.T) {
	img := strokeImage()
	defer img.Close()

	mask, err := Segment(img, entity.DefaultDetectionConfig().Color)
	require.NoError(t, err)
	defer mask.Close()

	require.Equal(t, 1, mask.Channels())
	require.Equal(t, img.Rows(), mask.Rows())
	require.Equal(t, img.Cols(), mask.Cols())

	count := gocv.CountNonZero(mask)
	require.InDelta(t, 3000, count, 400)
}

func TestSegment_IgnoresOtherColors(t *testing.T) {
	img := blackImage(100, 100)
	defer img.Close()
	gocv.Line(&img, image.Pt(10, 10), image.Pt(90, 10), green, 5)
	gocv.Line(&img, image.Pt(10, 50), image.Pt(90, 50), color.RGBA{R: 255, A: 255}, 5)

	mask, err := Segment(img, entity.DefaultDetectionConfig().Color)
	require.NoError(t, err)
	defer mask.Close()
	require.Zero(t, gocv.CountNonZero(mask))
}

func TestSegment_EmptyImage(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	mask, err := Segment(empty, entity.DefaultDetectionConfig().Color)
	defer mask.Close()
	require.ErrorIs(t, err, ErrEmptyImage)
}

func blankMask(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8U)
}

func maskWithPixels(n int) gocv.Mat {
	mask := blankMask(100, 100)
	for i := 0; i < n; i++ {
		mask.SetUCharAt(i/100, i%100, 255)
	}
	return mask
}

func TestEvaluateArea_Boundary(t *testing.T) {
	exact := maskWithPixels(500)
	defer exact.Close()
	passed, count := EvaluateArea(exact, 500)
	require.True(t, passed)
	require.Equal(t, 500, count)

	below := maskWithPixels(499)
	defer below.Close()
	passed, count = EvaluateArea(below, 500)
	require.False(t, passed)
	require.Equal(t, 499, count)
}

func TestClean_RemovesSpeckleKeepsBar(t *testing.T) {
	mask := blankMask(100, 100)
	defer mask.Close()
	mask.SetUCharAt(10, 10, 255)
	mask.SetUCharAt(80, 20, 255)
	gocv.Rectangle(&mask, image.Rect(20, 45, 80, 55), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	before := gocv.CountNonZero(mask)

	cleaned, err := Clean(mask, 5)
	require.NoError(t, err)
	defer cleaned.Close()

	require.Equal(t, mask.Rows(), cleaned.Rows())
	require.Equal(t, mask.Cols(), cleaned.Cols())
	require.Zero(t, cleaned.GetUCharAt(10, 10))
	require.Zero(t, cleaned.GetUCharAt(80, 20))
	require.Equal(t, uint8(255), cleaned.GetUCharAt(50, 50))
	require.Equal(t, before, gocv.CountNonZero(mask), "input must stay untouched")
}

func TestClean_RejectsEvenKernel(t *testing.T) {
	mask := maskWithPixels(10)
	defer mask.Close()

	out, err := Clean(mask, 4)
	defer out.Close()
	require.Error(t, err)
}

func TestDetectEdges(t *testing.T) {
	mask := blankMask(100, 100)
	defer mask.Close()
	gocv.Rectangle(&mask, image.Rect(20, 20, 80, 80), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	edges, err := DetectEdges(mask, 50, 150)
	require.NoError(t, err)
	defer edges.Close()
	require.Greater(t, gocv.CountNonZero(edges), 0)
	require.Zero(t, edges.GetUCharAt(50, 50), "interior is not an edge")

	bad, err := DetectEdges(mask, 150, 50)
	defer bad.Close()
	require.Error(t, err)
}

func TestFindLines_HorizontalEdge(t *testing.T) {
	edges := blankMask(300, 200)
	defer edges.Close()
	gocv.Line(&edges, image.Pt(20, 100), image.Pt(280, 100), color.RGBA{R: 255, G: 255, B: 255, A: 255}, 1)

	lines, err := FindLines(context.Background(), edges, entity.DefaultDetectionConfig().Hough)
	require.NoError(t, err)
	require.NotEmpty(t, lines)
	for _, l := range lines {
		require.True(t, l.InBounds(300, 200))
		require.GreaterOrEqual(t, l.Length(), 100.0)
	}
}

func TestFindLines_NoCandidatesIsNotAnError(t *testing.T) {
	edges := blankMask(300, 200)
	defer edges.Close()
	gocv.Line(&edges, image.Pt(20, 100), image.Pt(60, 100), color.RGBA{R: 255, G: 255, B: 255, A: 255}, 1)

	lines, err := FindLines(context.Background(), edges, entity.DefaultDetectionConfig().Hough)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestFindLines_CancelledContext(t *testing.T) {
	edges := blankMask(50, 50)
	defer edges.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindLines(ctx, edges, entity.DefaultDetectionConfig().Hough)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDraw_LeavesInputUntouched(t *testing.T) {
	img := blackImage(100, 100)
	defer img.Close()

	lines := []entity.LineSegment{{X1: 10, Y1: 50, X2: 90, Y2: 50}}
	out, err := Draw(img, lines, green, 3)
	require.NoError(t, err)
	defer out.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	require.Zero(t, gocv.CountNonZero(gray))

	v := out.GetVecbAt(50, 50)
	require.Equal(t, uint8(0), v[0])
	require.Equal(t, uint8(255), v[1])
	require.Equal(t, uint8(0), v[2])
}

func TestFindLines_VoteThresholdIsInclusive(t *testing.T) {
	// ровно 100 пикселей на одной строке: 100 голосов в одном бине
	edges := blankMask(300, 200)
	defer edges.Close()
	for x := 20; x < 120; x++ {
		edges.SetUCharAt(100, x, 255)
	}

	p := entity.DefaultDetectionConfig().Hough
	p.MinLineLength = 50
	p.Threshold = 100

	lines, err := FindLines(context.Background(), edges, p)
	require.NoError(t, err)
	require.NotEmpty(t, lines)

	p.Threshold = 101
	lines, err = FindLines(context.Background(), edges, p)
	require.NoError(t, err)
	require.Empty(t, lines)
}
