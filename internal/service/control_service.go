package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"quizlive/internal/cache"
	"quizlive/internal/model"
	"quizlive/internal/repository"
)

// ControlService owns the presenter-side game control operations. Every
// mutation is an atomic single-key write followed by a control_update
// broadcast; there is deliberately no rollback across keys.
type ControlService struct {
	control      cache.ControlCache
	answers      cache.AnswerCache
	answerRepo   repository.AnswerRepo
	participants repository.ParticipantRepo
	leaderboard  cache.LeaderboardCache
	broadcaster  Broadcaster
}

// NewControlService creates a control service.
func NewControlService(
	control cache.ControlCache,
	answers cache.AnswerCache,
	answerRepo repository.AnswerRepo,
	participants repository.ParticipantRepo,
	leaderboard cache.LeaderboardCache,
) *ControlService {
	return &ControlService{
		control:      control,
		answers:      answers,
		answerRepo:   answerRepo,
		participants: participants,
		leaderboard:  leaderboard,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events.
func (s *ControlService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Get returns the current control record.
func (s *ControlService) Get(ctx context.Context) (model.GameControl, error) {
	return s.control.Get(ctx)
}

// SetCurrentQuestion releases a specific question index.
func (s *ControlService) SetCurrentQuestion(ctx context.Context, index int) error {
	if err := s.control.SetCurrentQuestion(ctx, index); err != nil {
		return err
	}
	return s.broadcastControl(ctx)
}

// IncrementCurrentQuestion releases the next question. Read-then-write under
// the single-presenter assumption.
func (s *ControlService) IncrementCurrentQuestion(ctx context.Context) (int, error) {
	next, err := s.control.IncrementCurrentQuestion(ctx)
	if err != nil {
		return 0, err
	}
	return next, s.broadcastControl(ctx)
}

// OpenRound opens the answer window.
func (s *ControlService) OpenRound(ctx context.Context) error {
	return s.setRound(ctx, true)
}

// CloseRound closes the answer window.
func (s *ControlService) CloseRound(ctx context.Context) error {
	return s.setRound(ctx, false)
}

// ToggleRound flips the answer window flag.
func (s *ControlService) ToggleRound(ctx context.Context) (bool, error) {
	ctrl, err := s.control.Get(ctx)
	if err != nil {
		return false, err
	}
	open := !ctrl.RoundOpen
	return open, s.setRound(ctx, open)
}

func (s *ControlService) setRound(ctx context.Context, open bool) error {
	if err := s.control.SetRoundOpen(ctx, open); err != nil {
		return err
	}
	return s.broadcastControl(ctx)
}

// StartGame releases players from the waiting screen.
func (s *ControlService) StartGame(ctx context.Context) error {
	return s.setStarted(ctx, true)
}

// StopGame sends players back to the waiting screen.
func (s *ControlService) StopGame(ctx context.Context) error {
	return s.setStarted(ctx, false)
}

func (s *ControlService) setStarted(ctx context.Context, started bool) error {
	if err := s.control.SetGameStarted(ctx, started); err != nil {
		return err
	}
	return s.broadcastControl(ctx)
}

// StartNewGame resets the whole session: answers and participants are
// cleared, the question index returns to 0, the round closes, the game stops,
// and a fresh session token is issued. The writes are not transactional; they
// are ordered so a crash mid-way leaves a stopped game rather than a
// half-open one, with the session token last.
func (s *ControlService) StartNewGame(ctx context.Context) (string, error) {
	if err := s.control.SetGameStarted(ctx, false); err != nil {
		return "", fmt.Errorf("stop game: %w", err)
	}
	if err := s.control.SetRoundOpen(ctx, false); err != nil {
		return "", fmt.Errorf("close round: %w", err)
	}
	if err := s.control.SetCurrentQuestion(ctx, 0); err != nil {
		return "", fmt.Errorf("reset question index: %w", err)
	}
	if err := s.answers.Clear(ctx); err != nil {
		return "", fmt.Errorf("clear answers: %w", err)
	}
	if err := s.answerRepo.DeleteAll(ctx); err != nil {
		// The archive is a mirror; a failed purge must not block the reset.
		log.Warn().Err(err).Msg("clearing answer archive failed")
	}
	if err := s.participants.DeleteAll(ctx); err != nil {
		return "", fmt.Errorf("clear participants: %w", err)
	}
	if err := s.leaderboard.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("clearing leaderboard cache failed")
	}

	sessionID := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := s.control.SetSessionID(ctx, sessionID); err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}
	return sessionID, s.broadcastControl(ctx)
}

func (s *ControlService) broadcastControl(ctx context.Context) error {
	if s.broadcaster == nil {
		return nil
	}
	ctrl, err := s.control.Get(ctx)
	if err != nil {
		return err
	}
	s.broadcaster.BroadcastToHost("control_update", ctrl)
	s.broadcaster.BroadcastToAllPlayers("control_update", ctrl)
	return nil
}
