package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"line-detector/config"
	"line-detector/internal/api/rest"
	"line-detector/internal/api/telegram"
	"line-detector/internal/container"
	"line-detector/internal/domain/entity"
	"line-detector/internal/infrastructure/storage"
	"line-detector/internal/infrastructure/vision"
	"line-detector/internal/logger"
)

const usage = `usage:
  line-detector [serve]         запустить HTTP API (и Telegram-бота, если задан TELEGRAM_TOKEN)
  line-detector detect <image>  проверить один файл и вывести результат в JSON`

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Артефакты и загрузки лежат на диске, по каталогу на запрос
	store, err := storage.NewFileArtifactStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create artifact store")
	}
	log.Info().Str("artifact_root", store.Root()).Msg("artifact store ready")

	// Собираем сервисы приложения
	pipeline := vision.NewPipeline(cfg.Detection, store, log)
	appContainer := container.New(pipeline, store, storage.NewMemorySessionRepository(), log)

	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "serve":
		if err := serve(cfg, appContainer, log); err != nil {
			log.Fatal().Err(err).Msg("server stopped with error")
		}
	case "detect":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(detectFile(appContainer, args[1], log))
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

// serve запускает HTTP API и, если есть токен, Telegram-бота до сигнала остановки
func serve(cfg *config.Config, c *container.Container, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	handler := rest.NewHandler(c.DetectionService, cfg.MaxUploadBytes, log)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, c.SessionService, c.DetectionService, log)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			log.Info().Msg("bot is running")
			return bot.Run(gctx)
		})
	} else {
		log.Info().Msg("TELEGRAM_TOKEN is not set, telegram bot disabled")
	}

	return g.Wait()
}

type cliResult struct {
	RequestID string `json:"request_id"`
	*entity.DetectionResult
}

// detectFile прогоняет один файл и печатает результат; код выхода 1 для сбоев обработки
func detectFile(c *container.Container, path string, log zerolog.Logger) int {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to read image")
		return 1
	}

	out, err := c.DetectionService.Detect(context.Background(), filepath.Base(path), data)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("detection rejected")
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cliResult{RequestID: out.RequestID, DetectionResult: out.Result}); err != nil {
		log.Error().Err(err).Msg("failed to encode result")
		return 1
	}

	if !out.Result.Status.IsSoft() {
		return 1
	}
	return 0
}
