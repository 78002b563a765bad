package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Host message types
const (
	MsgParticipantJoined MessageType = "participant_joined"
	MsgParticipantLeft   MessageType = "participant_left"
	MsgLeaderboardUpdate MessageType = "leaderboard_update"
	MsgControlUpdate     MessageType = "control_update"
)

// Player message types
const (
	MsgQuestionOpened MessageType = "question_opened"
	MsgCountdownTick  MessageType = "countdown_tick"
	MsgRoundLocked    MessageType = "round_locked"
	MsgReviewTick     MessageType = "review_tick"
	MsgAdvanced       MessageType = "advanced"
	MsgFinished       MessageType = "finished"
	MsgAnswerResult   MessageType = "answer_result"
	MsgError          MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages the WebSocket connections of the single live session: any
// number of presenter screens and one connection per participant.
type Hub struct {
	hostConns   map[*Connection]struct{}
	playerConns map[string]*Connection // participantID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	ParticipantID string // Empty for host connections
	IsHost        bool
	Send          chan []byte
	Hub           *Hub

	done     chan struct{}
	stopOnce sync.Once
}

// NewConnection creates a connection for the hub to manage.
func NewConnection(participantID string, isHost bool, hub *Hub) *Connection {
	return &Connection{
		ParticipantID: participantID,
		IsHost:        isHost,
		Send:          make(chan []byte, 256),
		Hub:           hub,
		done:          make(chan struct{}),
	}
}

// shutdown tells the write pump to close the socket. The send channel itself
// is never closed: a session goroutine may still hold a reference to a
// replaced connection, and a late send must be dropped, not panic.
func (c *Connection) shutdown() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Done is closed once the hub has replaced or unregistered the connection.
func (c *Connection) Done() <-chan struct{} { return c.done }

// trySend queues data for the write pump. Returns false if the connection is
// shut down or its buffer is full.
func (c *Connection) trySend(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	ToHost   bool
	ToPlayer string // Empty means all players, specific ID means one player
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		hostConns:   make(map[*Connection]struct{}),
		playerConns: make(map[string]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsHost {
				h.hostConns[conn] = struct{}{}
				log.Info().Msg("host screen connected")
			} else {
				// A reconnect replaces the previous connection.
				if old, ok := h.playerConns[conn.ParticipantID]; ok {
					old.shutdown()
				}
				h.playerConns[conn.ParticipantID] = conn
				log.Info().Str("participant", conn.ParticipantID).Msg("participant connected")
				h.notifyHosts(MsgParticipantJoined, conn.ParticipantID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsHost {
				if _, ok := h.hostConns[conn]; ok {
					delete(h.hostConns, conn)
					conn.shutdown()
					log.Info().Msg("host screen disconnected")
				}
			} else {
				if existing, ok := h.playerConns[conn.ParticipantID]; ok && existing == conn {
					delete(h.playerConns, conn.ParticipantID)
					conn.shutdown()
					log.Info().Str("participant", conn.ParticipantID).Msg("participant disconnected")
					h.notifyHosts(MsgParticipantLeft, conn.ParticipantID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToHost {
				for conn := range h.hostConns {
					// Drops the message if the buffer is full.
					conn.trySend(data)
				}
			} else if msg.ToPlayer != "" {
				if conn, ok := h.playerConns[msg.ToPlayer]; ok {
					conn.trySend(data)
				}
			} else {
				for _, conn := range h.playerConns {
					conn.trySend(data)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToHost sends a message to all presenter screens (implements service.Broadcaster)
func (h *Hub) BroadcastToHost(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ToHost: true,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToPlayer sends a message to a specific participant (implements service.Broadcaster)
func (h *Hub) BroadcastToPlayer(participantID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ToPlayer: participantID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToAllPlayers sends a message to all participants (implements service.Broadcaster)
func (h *Hub) BroadcastToAllPlayers(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ToPlayer: "", // Empty means all
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

func (h *Hub) notifyHosts(msgType MessageType, participantID string) {
	data, _ := json.Marshal(&Message{
		Type:    msgType,
		Payload: json.RawMessage(`{"participantId":"` + participantID + `"}`),
	})
	for conn := range h.hostConns {
		conn.trySend(data)
	}
}
