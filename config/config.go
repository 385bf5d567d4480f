package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"line-detector/internal/domain/entity"
)

// Config настройки процесса. Создаётся один раз при старте.
type Config struct {
	HTTPAddr       string
	UploadDir      string
	TelegramToken  string
	LogLevel       string
	LogFormat      string
	ProfilePath    string
	MaxUploadBytes int64
	Detection      entity.DetectionConfig
}

// profile YAML-файл с параметрами детектора. Незаданные поля сохраняют умолчания.
type profile struct {
	HSVLower            *[3]int        `yaml:"hsv_lower"`
	HSVUpper            *[3]int        `yaml:"hsv_upper"`
	MinLineLength       *int           `yaml:"min_line_length"`
	MaxLineGap          *int           `yaml:"max_line_gap"`
	MinArea             *int           `yaml:"min_area"`
	KernelSize          *int           `yaml:"kernel_size"`
	CannyLow            *float64       `yaml:"canny_low"`
	CannyHigh           *float64       `yaml:"canny_high"`
	HoughRho            *float64       `yaml:"hough_rho"`
	HoughThetaDeg       *float64       `yaml:"hough_theta_deg"`
	HoughThreshold      *int           `yaml:"hough_threshold"`
	AnnotationColor     *string        `yaml:"annotation_color"`
	AnnotationThickness *int           `yaml:"annotation_thickness"`
	LineTimeout         *time.Duration `yaml:"line_timeout"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	maxUpload, err := envInt64("MAX_UPLOAD_BYTES", 20<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":5000"),
		UploadDir:      envOr("UPLOAD_DIR", "uploads"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogFormat:      envOr("LOG_FORMAT", "json"),
		ProfilePath:    os.Getenv("DETECTOR_PROFILE"),
		MaxUploadBytes: maxUpload,
		Detection:      entity.DefaultDetectionConfig(),
	}

	if cfg.ProfilePath != "" {
		cfg.Detection, err = LoadProfile(cfg.ProfilePath, cfg.Detection)
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Detection.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	return cfg, nil
}

// LoadProfile читает YAML-профиль и накладывает его на base.
func LoadProfile(path string, base entity.DetectionConfig) (entity.DetectionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read detector profile: %w", err)
	}
	return ApplyProfile(data, base)
}

// ApplyProfile накладывает YAML-профиль на base и проверяет результат.
func ApplyProfile(data []byte, base entity.DetectionConfig) (entity.DetectionConfig, error) {
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return base, fmt.Errorf("parse detector profile: %w", err)
	}

	cfg := base
	if p.HSVLower != nil {
		cfg.Color.Lower = *p.HSVLower
	}
	if p.HSVUpper != nil {
		cfg.Color.Upper = *p.HSVUpper
	}
	setInt(&cfg.Hough.MinLineLength, p.MinLineLength)
	setInt(&cfg.Hough.MaxLineGap, p.MaxLineGap)
	setInt(&cfg.MinArea, p.MinArea)
	setInt(&cfg.KernelSize, p.KernelSize)
	setFloat(&cfg.CannyLow, p.CannyLow)
	setFloat(&cfg.CannyHigh, p.CannyHigh)
	setFloat(&cfg.Hough.Rho, p.HoughRho)
	setFloat(&cfg.Hough.ThetaDeg, p.HoughThetaDeg)
	setInt(&cfg.Hough.Threshold, p.HoughThreshold)
	setInt(&cfg.AnnotationThickness, p.AnnotationThickness)
	if p.LineTimeout != nil {
		cfg.LineTimeout = *p.LineTimeout
	}
	if p.AnnotationColor != nil {
		c, err := colorful.Hex(*p.AnnotationColor)
		if err != nil {
			return base, fmt.Errorf("parse annotation_color: %w", err)
		}
		r, g, b := c.RGB255()
		cfg.AnnotationColor.R, cfg.AnnotationColor.G, cfg.AnnotationColor.B = r, g, b
		cfg.AnnotationColor.A = 255
	}

	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
