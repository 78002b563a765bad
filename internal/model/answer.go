package model

// AnswerEvent is one participant's answer to one question. Events are keyed by
// (questionIndex, participantId); a later event for the same key overwrites the
// earlier one, so changing an answer while the round is open is a plain re-write.
// Events are never deleted individually, only bulk-cleared on a new game.
type AnswerEvent struct {
	ParticipantID string `json:"participantId" bson:"participantId"`
	QuestionIndex int    `json:"questionIndex" bson:"questionIndex"`
	OptionIndex   int    `json:"optionIndex" bson:"optionIndex"`
	Name          string `json:"name" bson:"name"`
	Email         string `json:"email,omitempty" bson:"email,omitempty"`
	Phone         string `json:"phone,omitempty" bson:"phone,omitempty"`
	// SecondsRemaining is the countdown value at the moment of selection.
	SecondsRemaining int `json:"timeLeft" bson:"timeLeft"`
	// TimerDuration is the full countdown length the client was running.
	TimerDuration int `json:"timerDuration" bson:"timerDuration"`
	// Timestamp is unix milliseconds at submission.
	Timestamp int64 `json:"ts" bson:"ts"`
}

// RoundStats is the per-option answer distribution for a single question.
type RoundStats struct {
	QuestionIndex int         `json:"questionIndex"`
	Counts        map[int]int `json:"counts"`
	Total         int         `json:"total"`
}
