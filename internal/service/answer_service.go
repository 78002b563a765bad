package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"quizlive/internal/cache"
	"quizlive/internal/model"
	"quizlive/internal/repository"
)

// AnswerService records answer events in the live store and mirrors them
// into the durable archive.
type AnswerService struct {
	answers    cache.AnswerCache
	answerRepo repository.AnswerRepo
	questions  []model.Question
}

// NewAnswerService creates an answer service.
func NewAnswerService(answers cache.AnswerCache, answerRepo repository.AnswerRepo, questions []model.Question) *AnswerService {
	return &AnswerService{answers: answers, answerRepo: answerRepo, questions: questions}
}

// Submit writes a terminal answer event. The live store write is
// authoritative; the archive mirror is best effort.
func (s *AnswerService) Submit(ctx context.Context, ev model.AnswerEvent) error {
	if ev.QuestionIndex < 0 || ev.QuestionIndex >= len(s.questions) {
		return model.ErrQuestionOutOfRange
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}
	if err := s.answers.Put(ctx, ev); err != nil {
		return err
	}

	archived := ev
	go func() {
		actx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.answerRepo.Upsert(actx, &archived); err != nil {
			log.Warn().
				Err(err).
				Str("participant", archived.ParticipantID).
				Int("question", archived.QuestionIndex).
				Msg("archiving answer failed")
		}
	}()
	return nil
}

// RoundStats returns the per-option answer distribution for one question.
func (s *AnswerService) RoundStats(ctx context.Context, questionIndex int) (model.RoundStats, error) {
	stats := model.RoundStats{QuestionIndex: questionIndex, Counts: map[int]int{}}
	events, err := s.answers.ForQuestion(ctx, questionIndex)
	if err != nil {
		return stats, err
	}
	for _, ev := range events {
		if ev.OptionIndex >= 0 {
			stats.Counts[ev.OptionIndex]++
		}
		stats.Total++
	}
	return stats, nil
}
