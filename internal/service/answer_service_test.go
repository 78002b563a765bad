package service

import (
	"context"
	"testing"
	"time"

	"quizlive/internal/cache"
	"quizlive/internal/model"
)

func newTestAnswers(t *testing.T) (*AnswerService, cache.AnswerCache, *fakeAnswerRepo) {
	client := newServiceTestClient(t)
	answerCache := cache.NewAnswerCache(client, len(quizQuestions()))
	repo := &fakeAnswerRepo{}
	return NewAnswerService(answerCache, repo, quizQuestions()), answerCache, repo
}

func TestSubmitStoresAndArchives(t *testing.T) {
	ctx := context.Background()
	svc, answerCache, repo := newTestAnswers(t)

	ev := model.AnswerEvent{
		ParticipantID:    "p_1",
		QuestionIndex:    0,
		OptionIndex:      1,
		SecondsRemaining: 10,
		TimerDuration:    20,
		Timestamp:        500,
	}
	if err := svc.Submit(ctx, ev); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	stored, err := answerCache.ForQuestion(ctx, 0)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(stored) != 1 || stored[0].OptionIndex != 1 {
		t.Fatalf("unexpected stored answers: %+v", stored)
	}

	// The archive write is asynchronous.
	deadline := time.After(2 * time.Second)
	for repo.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("answer never archived")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestSubmitRejectsUnknownQuestion(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAnswers(t)

	if err := svc.Submit(ctx, model.AnswerEvent{ParticipantID: "p_1", QuestionIndex: 9}); err != model.ErrQuestionOutOfRange {
		t.Fatalf("expected ErrQuestionOutOfRange, got %v", err)
	}
	if err := svc.Submit(ctx, model.AnswerEvent{ParticipantID: "p_1", QuestionIndex: -1}); err != model.ErrQuestionOutOfRange {
		t.Fatalf("expected ErrQuestionOutOfRange, got %v", err)
	}
}

func TestRoundStatsCountsOptions(t *testing.T) {
	ctx := context.Background()
	svc, answerCache, _ := newTestAnswers(t)

	puts := []model.AnswerEvent{
		{ParticipantID: "p_1", QuestionIndex: 0, OptionIndex: 0},
		{ParticipantID: "p_2", QuestionIndex: 0, OptionIndex: 0},
		{ParticipantID: "p_3", QuestionIndex: 0, OptionIndex: 1},
	}
	for _, ev := range puts {
		if err := answerCache.Put(ctx, ev); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	stats, err := svc.RoundStats(ctx, 0)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 || stats.Counts[0] != 2 || stats.Counts[1] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
