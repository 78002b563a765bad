package model

// GameControl is the presenter-owned shared state every client reads. The
// presenter is the single writer; players only observe change notifications.
type GameControl struct {
	CurrentQuestion int    `json:"currentQuestion"`
	RoundOpen       bool   `json:"roundOpen"`
	GameStarted     bool   `json:"gameStarted"`
	SessionID       string `json:"sessionId"`
}
