package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"quizlive/internal/model"
)

const (
	controlKey     = "quiz:gameControl"
	controlChannel = "quiz:control:changed"

	fieldCurrentQuestion = "currentQuestion"
	fieldRoundOpen       = "roundOpen"
	fieldGameStarted     = "gameStarted"
	fieldSessionID       = "sessionId"
)

// ControlCache holds the presenter-owned game control record. Each operation
// is an atomic write of one field; there is deliberately no multi-field
// transaction, matching the single-presenter assumption.
type ControlCache interface {
	Get(ctx context.Context) (model.GameControl, error)
	SetCurrentQuestion(ctx context.Context, index int) error
	// IncrementCurrentQuestion is read-then-write: it reads the current value
	// (default 0 when absent) and writes value+1. It is not guarded against
	// concurrent presenters.
	IncrementCurrentQuestion(ctx context.Context) (int, error)
	SetRoundOpen(ctx context.Context, open bool) error
	SetGameStarted(ctx context.Context, started bool) error
	SetSessionID(ctx context.Context, sessionID string) error
	Subscribe(ctx context.Context) (<-chan struct{}, func())
}

type controlCache struct {
	client *redis.Client
}

// NewControlCache creates the Redis-backed control record.
func NewControlCache(client *redis.Client) ControlCache {
	return &controlCache{client: client}
}

func (c *controlCache) Get(ctx context.Context) (model.GameControl, error) {
	raw, err := c.client.HGetAll(ctx, controlKey).Result()
	if err != nil {
		return model.GameControl{}, fmt.Errorf("read game control: %w", err)
	}
	ctrl := model.GameControl{}
	if v, ok := raw[fieldCurrentQuestion]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			ctrl.CurrentQuestion = n
		}
	}
	ctrl.RoundOpen = raw[fieldRoundOpen] == "1"
	ctrl.GameStarted = raw[fieldGameStarted] == "1"
	ctrl.SessionID = raw[fieldSessionID]
	return ctrl, nil
}

func (c *controlCache) SetCurrentQuestion(ctx context.Context, index int) error {
	if index < 0 {
		index = 0
	}
	return c.setField(ctx, fieldCurrentQuestion, strconv.Itoa(index))
}

func (c *controlCache) IncrementCurrentQuestion(ctx context.Context) (int, error) {
	cur := 0
	v, err := c.client.HGet(ctx, controlKey, fieldCurrentQuestion).Result()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("read current question: %w", err)
	}
	if err == nil {
		if n, convErr := strconv.Atoi(v); convErr == nil && n >= 0 {
			cur = n
		}
	}
	next := cur + 1
	if err := c.setField(ctx, fieldCurrentQuestion, strconv.Itoa(next)); err != nil {
		return 0, err
	}
	return next, nil
}

func (c *controlCache) SetRoundOpen(ctx context.Context, open bool) error {
	return c.setField(ctx, fieldRoundOpen, boolField(open))
}

func (c *controlCache) SetGameStarted(ctx context.Context, started bool) error {
	return c.setField(ctx, fieldGameStarted, boolField(started))
}

func (c *controlCache) SetSessionID(ctx context.Context, sessionID string) error {
	return c.setField(ctx, fieldSessionID, sessionID)
}

func (c *controlCache) Subscribe(ctx context.Context) (<-chan struct{}, func()) {
	return subscribe(ctx, c.client, controlChannel)
}

func (c *controlCache) setField(ctx context.Context, field, value string) error {
	if err := c.client.HSet(ctx, controlKey, field, value).Err(); err != nil {
		return fmt.Errorf("write game control %s: %w", field, err)
	}
	c.client.Publish(ctx, controlChannel, field)
	return nil
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
