package entity

import "math"

// LineSegment отрезок прямой в пиксельных координатах исходного изображения.
type LineSegment struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Length возвращает евклидову длину отрезка.
func (l LineSegment) Length() float64 {
	return math.Hypot(float64(l.X2-l.X1), float64(l.Y2-l.Y1))
}

// InBounds сообщает, лежат ли оба конца внутри изображения width x height.
func (l LineSegment) InBounds(width, height int) bool {
	return l.X1 >= 0 && l.X1 < width && l.X2 >= 0 && l.X2 < width &&
		l.Y1 >= 0 && l.Y1 < height && l.Y2 >= 0 && l.Y2 < height
}

// Clamp прижимает концы отрезка к границам изображения.
func (l LineSegment) Clamp(width, height int) LineSegment {
	return LineSegment{
		X1: clampInt(l.X1, 0, width-1),
		Y1: clampInt(l.Y1, 0, height-1),
		X2: clampInt(l.X2, 0, width-1),
		Y2: clampInt(l.Y2, 0, height-1),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
