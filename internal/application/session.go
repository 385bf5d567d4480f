package app

import (
	"context"
	"errors"

	"line-detector/internal/domain/entity"
	"line-detector/internal/domain/port"
)

// ErrSessionBusy предыдущее изображение ещё обрабатывается.
var ErrSessionBusy = errors.New("previous image is still being processed")

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, chatID)
}

func (s *SessionService) SetState(ctx context.Context, chatID int64, state entity.SessionState) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	session.SetState(state)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) BeginCheck(ctx context.Context, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, chatID, entity.SessionAwaitingImage)
}

func (s *SessionService) Cancel(ctx context.Context, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, chatID, entity.SessionIdle)
}

// StartProcessing переводит сессию в обработку, если она свободна.
func (s *SessionService) StartProcessing(ctx context.Context, chatID int64) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session.Busy() {
		return session, ErrSessionBusy
	}
	return s.SetState(ctx, chatID, entity.SessionProcessing)
}

// Finish возвращает сессию в ожидание и запоминает последний запрос.
func (s *SessionService) Finish(ctx context.Context, chatID int64, requestID string) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	session.SetState(entity.SessionIdle)
	if requestID != "" {
		session.LastRequestID = requestID
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
