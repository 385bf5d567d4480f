package entity

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"
)

// ErrInvalidConfig возвращается при недопустимых параметрах детектора.
var ErrInvalidConfig = errors.New("invalid detection config")

const (
	maxHue     = 179 // OpenCV хранит оттенок 8-битных изображений в [0,180)
	maxChannel = 255
)

// HSVRange включающие границы целевого цвета в пространстве HSV (OpenCV-шкала).
type HSVRange struct {
	Lower [3]int // H, S, V
	Upper [3]int // H, S, V
}

// HoughParams параметры вероятностного преобразования Хафа.
type HoughParams struct {
	Rho           float64 // шаг по расстоянию, пиксели
	ThetaDeg      float64 // шаг по углу, градусы
	Threshold     int     // порог голосов аккумулятора
	MinLineLength int     // минимальная длина отрезка
	MaxLineGap    int     // максимальный разрыв между коллинеарными фрагментами
}

// ThetaRadians возвращает шаг по углу в радианах.
func (h HoughParams) ThetaRadians() float64 {
	return h.ThetaDeg * math.Pi / 180
}

// DetectionConfig неизменяемый набор параметров, задаётся один раз при старте.
// Передаётся по значению, поэтому ни одна стадия не может изменить общий экземпляр.
type DetectionConfig struct {
	Color               HSVRange
	MinArea             int // минимум пикселей цвета, порог включающий
	KernelSize          int // сторона квадратного структурного элемента
	CannyLow            float64
	CannyHigh           float64
	Hough               HoughParams
	AnnotationColor     color.RGBA
	AnnotationThickness int
	LineTimeout         time.Duration // 0 отключает дедлайн поиска линий
}

// DefaultDetectionConfig возвращает параметры исходного сервиса: синий цвет, зелёная разметка.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		Color: HSVRange{
			Lower: [3]int{90, 100, 50},
			Upper: [3]int{130, 255, 255},
		},
		MinArea:    500,
		KernelSize: 5,
		CannyLow:   50,
		CannyHigh:  150,
		Hough: HoughParams{
			Rho:           1,
			ThetaDeg:      1,
			Threshold:     100,
			MinLineLength: 100,
			MaxLineGap:    50,
		},
		AnnotationColor:     color.RGBA{G: 255, A: 255},
		AnnotationThickness: 3,
		LineTimeout:         10 * time.Second,
	}
}

// Validate проверяет инварианты конфигурации.
func (c DetectionConfig) Validate() error {
	limits := [3]int{maxHue, maxChannel, maxChannel}
	names := [3]string{"hue", "saturation", "value"}
	for i := range limits {
		lo, hi := c.Color.Lower[i], c.Color.Upper[i]
		if lo < 0 || lo > limits[i] || hi < 0 || hi > limits[i] {
			return fmt.Errorf("%w: %s bounds [%d,%d] outside [0,%d]", ErrInvalidConfig, names[i], lo, hi, limits[i])
		}
		if lo > hi {
			return fmt.Errorf("%w: %s lower bound %d above upper bound %d", ErrInvalidConfig, names[i], lo, hi)
		}
	}

	if c.MinArea < 0 {
		return fmt.Errorf("%w: min area must not be negative", ErrInvalidConfig)
	}
	if c.KernelSize <= 0 || c.KernelSize%2 == 0 {
		return fmt.Errorf("%w: kernel size %d must be odd and positive", ErrInvalidConfig, c.KernelSize)
	}
	if c.CannyLow < 0 || c.CannyLow >= c.CannyHigh {
		return fmt.Errorf("%w: canny thresholds must satisfy 0 <= low < high (got %.1f, %.1f)", ErrInvalidConfig, c.CannyLow, c.CannyHigh)
	}
	if c.Hough.Rho <= 0 || c.Hough.ThetaDeg <= 0 || c.Hough.ThetaDeg > 180 {
		return fmt.Errorf("%w: hough resolution must be positive (rho=%.2f, theta=%.2f)", ErrInvalidConfig, c.Hough.Rho, c.Hough.ThetaDeg)
	}
	if c.Hough.Threshold <= 0 {
		return fmt.Errorf("%w: hough threshold must be positive", ErrInvalidConfig)
	}
	if c.Hough.MinLineLength < 0 || c.Hough.MaxLineGap < 0 {
		return fmt.Errorf("%w: line length and gap must not be negative", ErrInvalidConfig)
	}
	if c.AnnotationThickness <= 0 {
		return fmt.Errorf("%w: annotation thickness must be positive", ErrInvalidConfig)
	}
	if c.LineTimeout < 0 {
		return fmt.Errorf("%w: line timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
