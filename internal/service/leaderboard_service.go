package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"quizlive/internal/cache"
	"quizlive/internal/game"
	"quizlive/internal/model"
)

// LeaderboardService projects the answer store into ranked standings. It
// listens on the answer and control change channels and recomputes the
// projection whenever either fires; concurrent triggers collapse into a
// single recompute.
type LeaderboardService struct {
	answers     cache.AnswerCache
	control     cache.ControlCache
	lbCache     cache.LeaderboardCache
	aggregator  *game.Aggregator
	broadcaster Broadcaster

	group singleflight.Group
}

// NewLeaderboardService creates a leaderboard projector.
func NewLeaderboardService(
	answers cache.AnswerCache,
	control cache.ControlCache,
	lbCache cache.LeaderboardCache,
	aggregator *game.Aggregator,
) *LeaderboardService {
	return &LeaderboardService{
		answers:    answers,
		control:    control,
		lbCache:    lbCache,
		aggregator: aggregator,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events.
func (s *LeaderboardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Run subscribes to the change channels and recomputes until ctx ends.
func (s *LeaderboardService) Run(ctx context.Context) error {
	answerCh, cancelAnswers := s.answers.Subscribe(ctx)
	defer cancelAnswers()

	controlCh, cancelControl := s.control.Subscribe(ctx)
	defer cancelControl()

	// Prime the projection so late-started servers serve a fresh board.
	if _, err := s.Recompute(ctx); err != nil {
		log.Warn().Err(err).Msg("initial leaderboard recompute failed")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-answerCh:
			if !ok {
				return nil
			}
		case _, ok := <-controlCh:
			if !ok {
				return nil
			}
		}
		if _, err := s.Recompute(ctx); err != nil {
			log.Warn().Err(err).Msg("leaderboard recompute failed")
		}
	}
}

// Recompute rebuilds the projection from the answer store and publishes it.
func (s *LeaderboardService) Recompute(ctx context.Context) (*model.Leaderboard, error) {
	v, err, _ := s.group.Do("recompute", func() (interface{}, error) {
		return s.recompute(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Leaderboard), nil
}

func (s *LeaderboardService) recompute(ctx context.Context) (*model.Leaderboard, error) {
	ctrl, err := s.control.Get(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.answers.All(ctx)
	if err != nil {
		return nil, err
	}

	standings := s.aggregator.Standings(events, ctrl.CurrentQuestion)
	lb := &model.Leaderboard{
		SessionID: ctrl.SessionID,
		LastQ:     ctrl.CurrentQuestion,
		Standings: standings,
		UpdatedAt: time.Now().UnixMilli(),
	}
	if err := s.lbCache.Sync(ctx, *lb); err != nil {
		return nil, err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToHost("leaderboard_update", lb)
		s.broadcaster.BroadcastToAllPlayers("leaderboard_update", lb)
	}
	return lb, nil
}

// Current returns the cached projection, recomputing when none exists yet.
func (s *LeaderboardService) Current(ctx context.Context) (*model.Leaderboard, error) {
	lb, err := s.lbCache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if lb == nil {
		return s.Recompute(ctx)
	}
	return lb, nil
}

// Rank returns a participant's 1-based rank, or -1 when absent.
func (s *LeaderboardService) Rank(ctx context.Context, participantID string) (int64, error) {
	return s.lbCache.Rank(ctx, participantID)
}
