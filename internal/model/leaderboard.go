package model

// Standing is one participant's derived totals. Standings are never persisted;
// they are recomputed from scratch from the answer events on every change.
type Standing struct {
	ParticipantID string  `json:"participantId"`
	Name          string  `json:"name"`
	Email         string  `json:"email,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Correct       int     `json:"correct"`
	Answered      int     `json:"answered"`
	Points        float64 `json:"points"`
	Percentage    float64 `json:"percentage"`
	// LastAnswerAt is the max timestamp over contributing events, unix millis.
	// It is the final ranking tie-break: earlier responder ranks higher.
	LastAnswerAt int64 `json:"lastTs"`
}

// Leaderboard is the ordered scoreboard snapshot broadcast to clients.
type Leaderboard struct {
	SessionID string     `json:"sessionId,omitempty"`
	LastQ     int        `json:"lastQuestion"`
	Standings []Standing `json:"standings"`
	UpdatedAt int64      `json:"updatedAt"`
}
