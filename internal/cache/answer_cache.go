package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"quizlive/internal/model"
)

// answersChannel carries change notifications for the live answer store.
const answersChannel = "quiz:answers:changed"

// AnswerCache is the live answer store: one hash per question, one field per
// participant, last write wins per field. Every write publishes a change
// notification so the leaderboard projector can recompute.
type AnswerCache interface {
	Put(ctx context.Context, ev model.AnswerEvent) error
	All(ctx context.Context) ([]model.AnswerEvent, error)
	ForQuestion(ctx context.Context, questionIndex int) ([]model.AnswerEvent, error)
	Clear(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan struct{}, func())
}

type answerCache struct {
	client *redis.Client
	// totalQuestions bounds key iteration; question indexes never exceed it.
	totalQuestions int
}

// NewAnswerCache creates the Redis-backed answer store.
func NewAnswerCache(client *redis.Client, totalQuestions int) AnswerCache {
	return &answerCache{client: client, totalQuestions: totalQuestions}
}

func (c *answerCache) key(questionIndex int) string {
	return fmt.Sprintf("quiz:answers:%d", questionIndex)
}

func (c *answerCache) Put(ctx context.Context, ev model.AnswerEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := c.client.HSet(ctx, c.key(ev.QuestionIndex), ev.ParticipantID, data).Err(); err != nil {
		return fmt.Errorf("store answer: %w", err)
	}
	// Notification is advisory; a missed publish only delays the next recompute.
	c.client.Publish(ctx, answersChannel, fmt.Sprintf("%d", ev.QuestionIndex))
	return nil
}

func (c *answerCache) All(ctx context.Context) ([]model.AnswerEvent, error) {
	var events []model.AnswerEvent
	for q := 0; q < c.totalQuestions; q++ {
		forQ, err := c.ForQuestion(ctx, q)
		if err != nil {
			return nil, err
		}
		events = append(events, forQ...)
	}
	return events, nil
}

func (c *answerCache) ForQuestion(ctx context.Context, questionIndex int) ([]model.AnswerEvent, error) {
	raw, err := c.client.HGetAll(ctx, c.key(questionIndex)).Result()
	if err != nil {
		return nil, fmt.Errorf("read answers for question %d: %w", questionIndex, err)
	}
	events := make([]model.AnswerEvent, 0, len(raw))
	for participantID, data := range raw {
		var ev model.AnswerEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			// Skip records a broken client managed to write.
			continue
		}
		ev.ParticipantID = participantID
		ev.QuestionIndex = questionIndex
		events = append(events, ev)
	}
	return events, nil
}

func (c *answerCache) Clear(ctx context.Context) error {
	keys := make([]string, 0, c.totalQuestions)
	for q := 0; q < c.totalQuestions; q++ {
		keys = append(keys, c.key(q))
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("clear answers: %w", err)
		}
	}
	c.client.Publish(ctx, answersChannel, "cleared")
	return nil
}

// Subscribe returns a change-notification channel scoped to ctx. The caller
// must invoke the cancel func to release the underlying subscription; changes
// arriving faster than the consumer drains coalesce into one notification.
func (c *answerCache) Subscribe(ctx context.Context) (<-chan struct{}, func()) {
	return subscribe(ctx, c.client, answersChannel)
}

// subscribe is the shared pub/sub plumbing for the cache package.
func subscribe(ctx context.Context, client *redis.Client, channel string) (<-chan struct{}, func()) {
	pubsub := client.Subscribe(ctx, channel)
	out := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(out)
		ch := pubsub.Channel()
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		close(done)
		_ = pubsub.Close()
	}
	return out, cancel
}
