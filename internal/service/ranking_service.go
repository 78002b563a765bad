package service

import (
	"context"
	"math"
	"strings"
	"time"

	"quizlive/internal/model"
	"quizlive/internal/repository"
)

// RankingService stores finished-game scores durably.
type RankingService struct {
	rankings repository.RankingRepo
}

// NewRankingService creates a ranking service.
func NewRankingService(rankings repository.RankingRepo) *RankingService {
	return &RankingService{rankings: rankings}
}

// SaveScore persists a final score. The idempotency key makes reconnect
// replays of the same finish a no-op.
func (s *RankingService) SaveScore(ctx context.Context, entry model.RankingEntry) (*model.RankingEntry, error) {
	entry.Name = strings.TrimSpace(entry.Name)
	if entry.Name == "" {
		return nil, model.ErrNameRequired
	}
	if entry.IdempotencyKey != "" {
		exists, err := s.rankings.ExistsKey(ctx, entry.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrScoreAlreadySaved
		}
	}
	entry.Score = math.Round(entry.Score*100) / 100
	now := time.Now()
	if entry.Timestamp == 0 {
		entry.Timestamp = now.UnixMilli()
	}
	if entry.Date == "" {
		entry.Date = now.Format("02/01/2006")
	}
	if err := s.rankings.Create(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns all stored rankings, best score first.
func (s *RankingService) List(ctx context.Context) ([]*model.RankingEntry, error) {
	return s.rankings.List(ctx)
}
