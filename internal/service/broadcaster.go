package service

// Broadcaster fans events out over WebSocket connections. The interface lives
// here so services do not import the transport package.
type Broadcaster interface {
	BroadcastToHost(msgType string, payload interface{})
	BroadcastToPlayer(participantID string, msgType string, payload interface{})
	BroadcastToAllPlayers(msgType string, payload interface{})
}
