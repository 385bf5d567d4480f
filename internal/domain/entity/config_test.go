package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultDetectionConfigIsValid(t *testing.T) {
	cfg := DefaultDetectionConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, [3]int{90, 100, 50}, cfg.Color.Lower)
	require.Equal(t, [3]int{130, 255, 255}, cfg.Color.Upper)
	require.Equal(t, 500, cfg.MinArea)
	require.Equal(t, 100, cfg.Hough.MinLineLength)
	require.Equal(t, 50, cfg.Hough.MaxLineGap)
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*DetectionConfig)
	}{
		{"even kernel", func(c *DetectionConfig) { c.KernelSize = 4 }},
		{"zero kernel", func(c *DetectionConfig) { c.KernelSize = 0 }},
		{"canny low equals high", func(c *DetectionConfig) { c.CannyLow = 150 }},
		{"hue out of range", func(c *DetectionConfig) { c.Color.Upper[0] = 180 }},
		{"lower above upper", func(c *DetectionConfig) { c.Color.Lower[1] = 200; c.Color.Upper[1] = 100 }},
		{"negative area", func(c *DetectionConfig) { c.MinArea = -1 }},
		{"zero rho", func(c *DetectionConfig) { c.Hough.Rho = 0 }},
		{"zero votes", func(c *DetectionConfig) { c.Hough.Threshold = 0 }},
		{"negative gap", func(c *DetectionConfig) { c.Hough.MaxLineGap = -5 }},
		{"zero thickness", func(c *DetectionConfig) { c.AnnotationThickness = 0 }},
		{"negative timeout", func(c *DetectionConfig) { c.LineTimeout = -time.Second }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultDetectionConfig()
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestThetaRadians(t *testing.T) {
	h := HoughParams{ThetaDeg: 180}
	require.InDelta(t, 3.14159265, h.ThetaRadians(), 1e-6)
}
