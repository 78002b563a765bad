package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quizlive/internal/model"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestAnswerCachePutAndRead(t *testing.T) {
	ctx := context.Background()
	c := NewAnswerCache(newTestClient(t), 3)

	ev := model.AnswerEvent{
		ParticipantID:    "p_1",
		QuestionIndex:    1,
		OptionIndex:      2,
		Name:             "Alice",
		SecondsRemaining: 12,
		TimerDuration:    20,
		Timestamp:        1000,
	}
	if err := c.Put(ctx, ev); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := c.ForQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0] != ev {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}

	if empty, err := c.ForQuestion(ctx, 0); err != nil || len(empty) != 0 {
		t.Fatalf("expected no events for question 0, got %v (%v)", empty, err)
	}
}

func TestAnswerCacheLastWriteWins(t *testing.T) {
	ctx := context.Background()
	c := NewAnswerCache(newTestClient(t), 3)

	first := model.AnswerEvent{ParticipantID: "p_1", QuestionIndex: 0, OptionIndex: 0, Timestamp: 100}
	second := model.AnswerEvent{ParticipantID: "p_1", QuestionIndex: 0, OptionIndex: 2, Timestamp: 200}
	if err := c.Put(ctx, first); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := c.Put(ctx, second); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := c.ForQuestion(ctx, 0)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != 1 || got[0].OptionIndex != 2 {
		t.Fatalf("expected the rewrite to win, got %+v", got)
	}
}

func TestAnswerCacheAllAndClear(t *testing.T) {
	ctx := context.Background()
	c := NewAnswerCache(newTestClient(t), 3)

	for q := 0; q < 3; q++ {
		if err := c.Put(ctx, model.AnswerEvent{ParticipantID: "p_1", QuestionIndex: q}); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	all, err := c.All(ctx)
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	all, err = c.All(ctx)
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty store after clear, got %d", len(all))
	}
}

func TestAnswerCacheSubscribeNotifies(t *testing.T) {
	ctx := context.Background()
	c := NewAnswerCache(newTestClient(t), 3)

	ch, cancel := c.Subscribe(ctx)
	defer cancel()

	// Give the subscription a moment to establish.
	time.Sleep(50 * time.Millisecond)

	if err := c.Put(ctx, model.AnswerEvent{ParticipantID: "p_1", QuestionIndex: 0}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification after put")
	}
}
