package model

// RankingEntry is a final score saved once per completed game by a player.
// The list is append-only and survives new-game resets.
type RankingEntry struct {
	ID   string `json:"id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
	// Score carries the time-bonus fractions, so it is not an integer.
	Score      float64 `json:"score" bson:"score"`
	Date       string  `json:"date" bson:"date"`
	Percentage float64 `json:"percentage" bson:"percentage"`
	Timestamp  int64   `json:"timestamp" bson:"timestamp"`
	// IdempotencyKey prevents a re-rendered client from double-submitting.
	IdempotencyKey string `json:"-" bson:"idempotencyKey,omitempty"`
}
