package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	app "line-detector/internal/application"
	"line-detector/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для поиска прямых синих линий на изображениях.

📸 Отправьте мне фото, и я отмечу найденные линии зелёным.

📋 Команды:
/check — начать проверку
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото или изображение файлом
2️⃣ Бот выделит синий цвет и найдёт прямые отрезки
3️⃣ Вы получите результат: текст + изображение с разметкой

💡 Если линий нет, бот пришлёт маску синего цвета для диагностики.

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingImage   = "📸 Отправьте изображение для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendImage       = "📸 Пожалуйста, отправьте изображение для проверки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее изображение ещё обрабатывается, подождите."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте другое фото."

	maxPreviewSide = 1280
	maxListedLines = 10
)

// telegramClient часть API бота, которой пользуются обработчики
type telegramClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	client    telegramClient
	sessions  *app.SessionService
	detection *app.DetectionService
	http      *http.Client
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, sessions *app.SessionService, detection *app.DetectionService, logger zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram api: %w", err)
	}

	b := newBot(api, sessions, detection, logger)
	b.api = api
	b.log.Info().Str("account", api.Self.UserName).Msg("authorized")
	return b, nil
}

func newBot(client telegramClient, sessions *app.SessionService, detection *app.DetectionService, logger zerolog.Logger) *Bot {
	return &Bot{
		client:    client,
		sessions:  sessions,
		detection: detection,
		http:      &http.Client{Timeout: time.Minute},
		log:       logger.With().Str("component", "telegram").Logger(),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	if b.api == nil {
		return errors.New("telegram api is not configured")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Фото: берём максимальное разрешение
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, msg.Chat.ID, photo.FileID, "photo.jpg")
		return
	}

	// Изображение, отправленное файлом, приходит без пережатия
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		b.handleImage(ctx, msg.Chat.ID, msg.Document.FileID, msg.Document.FileName)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendImage)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	var err error

	switch msg.Command() {
	case "start":
		_, err = b.sessions.Cancel(ctx, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		_, err = b.sessions.BeginCheck(ctx, chatID)
		b.sendMessage(chatID, msgAwaitingImage)

	case "cancel":
		_, err = b.sessions.Cancel(ctx, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to update session")
	}
}

// handleImage запускает детекцию в фоне; одна обработка на чат
func (b *Bot) handleImage(ctx context.Context, chatID int64, fileID, filename string) {
	if _, err := b.sessions.StartProcessing(ctx, chatID); err != nil {
		if errors.Is(err, app.ErrSessionBusy) {
			b.sendMessage(chatID, msgBusy)
			return
		}
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to start processing")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	b.sendMessage(chatID, msgProcessing)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		requestID := b.process(ctx, chatID, fileID, filename)
		if _, err := b.sessions.Finish(context.WithoutCancel(ctx), chatID, requestID); err != nil {
			b.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to finish session")
		}
	}()
}

// process скачивает изображение, прогоняет детектор и отправляет ответ
func (b *Bot) process(ctx context.Context, chatID int64, fileID, filename string) string {
	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to download image")
		b.sendMessage(chatID, msgProcessingError)
		return ""
	}

	out, err := b.detection.Detect(ctx, filename, imageData)
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("detection rejected")
		b.sendMessage(chatID, msgProcessingError)
		return ""
	}

	b.sendMessage(chatID, FormatResult(out.Result))

	ref := out.Result.AnnotatedRef
	if ref == "" {
		ref = out.Result.MaskRef
	}
	if ref != "" {
		b.sendArtifact(ctx, chatID, ref)
	}
	return out.RequestID
}

// sendArtifact отправляет уменьшенную копию артефакта; если не получилось, отправляет файл как есть
func (b *Bot) sendArtifact(ctx context.Context, chatID int64, ref string) {
	data, err := b.detection.Artifact(ctx, ref)
	if err != nil {
		b.log.Error().Err(err).Str("ref", ref).Msg("failed to load artifact")
		return
	}

	var upload tgbotapi.Chattable
	if preview, err := previewJPEG(data, maxPreviewSide); err == nil {
		upload = tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "preview.jpg", Bytes: preview})
	} else {
		b.log.Warn().Err(err).Str("ref", ref).Msg("preview failed, sending original")
		name := ref[strings.LastIndex(ref, "/")+1:]
		upload = tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	}

	if _, err := b.client.Send(upload); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send artifact")
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.client.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.client.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

// FormatResult собирает текстовую сводку по результату детекции
func FormatResult(res *entity.DetectionResult) string {
	var sb strings.Builder

	switch res.Status {
	case entity.StatusSuccess:
		sb.WriteString("✅ ")
	case entity.StatusInsufficientArea, entity.StatusNoLinesFound:
		sb.WriteString("ℹ️ ")
	default:
		sb.WriteString("⚠️ ")
	}
	sb.WriteString(res.Message)

	if res.Status.IsSoft() {
		fmt.Fprintf(&sb, "\nСиних пикселей: %d", res.BlueArea)
	}
	if res.Error != "" {
		fmt.Fprintf(&sb, "\nОшибка: %s", res.Error)
	}

	if len(res.Lines) > 0 {
		fmt.Fprintf(&sb, "\nОтрезков: %d", len(res.Lines))
		for i, l := range res.Lines {
			if i == maxListedLines {
				fmt.Fprintf(&sb, "\n… и ещё %d", len(res.Lines)-maxListedLines)
				break
			}
			fmt.Fprintf(&sb, "\n%d) (%d,%d) – (%d,%d), %.0f px", i+1, l.X1, l.Y1, l.X2, l.Y2, l.Length())
		}
	}

	return sb.String()
}
