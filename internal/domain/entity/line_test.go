package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineSegmentLength(t *testing.T) {
	l := LineSegment{X1: 0, Y1: 0, X2: 3, Y2: 4}
	require.InDelta(t, 5.0, l.Length(), 1e-9)
}

func TestLineSegmentBounds(t *testing.T) {
	l := LineSegment{X1: -2, Y1: 5, X2: 420, Y2: 399}
	require.False(t, l.InBounds(400, 400))

	clamped := l.Clamp(400, 400)
	require.True(t, clamped.InBounds(400, 400))
	require.Equal(t, LineSegment{X1: 0, Y1: 5, X2: 399, Y2: 399}, clamped)
}
