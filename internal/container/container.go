package container

import (
	"github.com/rs/zerolog"

	app "line-detector/internal/application"
	"line-detector/internal/domain/port"
)

type Container struct {
	SessionService   *app.SessionService
	DetectionService *app.DetectionService
}

func New(detector port.LineDetector, store port.ArtifactStore, sessionRepo port.SessionRepository, logger zerolog.Logger) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	detectionService := app.NewDetectionService(detector, store, logger)

	return &Container{
		SessionService:   sessionService,
		DetectionService: detectionService,
	}
}
