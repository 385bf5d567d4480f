package entity

// SessionState состояние диалога в чате
type SessionState string

const (
	SessionIdle          SessionState = "idle"           // ждём команду
	SessionAwaitingImage SessionState = "awaiting_image" // ждём фото для проверки
	SessionProcessing    SessionState = "processing"     // идёт детекция
)

// Session диалог с одним чатом
type Session struct {
	ChatID int64
	State  SessionState
	// LastRequestID идентификатор последнего прогона, по нему находятся артефакты
	LastRequestID string
}

// NewSession создаёт сессию в начальном состоянии
func NewSession(chatID int64) *Session {
	return &Session{
		ChatID: chatID,
		State:  SessionIdle,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}

// Busy сообщает, обрабатывается ли сейчас изображение
func (s *Session) Busy() bool {
	return s.State == SessionProcessing
}
