package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"quizlive/internal/cache"
	"quizlive/internal/game"
	"quizlive/internal/model"
	"quizlive/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// clientCommand is the inbound envelope from a player connection.
type clientCommand struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	OptionIndex int `json:"optionIndex"`
}

// Handler handles WebSocket connections. Each player connection owns a round
// engine that runs that player's countdown and review server-side; presenter
// control changes reach the engine through the control change channel.
type Handler struct {
	hub       *Hub
	authSvc   *service.AuthService
	regSvc    *service.RegistrationService
	answerSvc *service.AnswerService
	control   cache.ControlCache
	questions []model.Question
	gameCfg   game.Config
	clock     clockwork.Clock
}

// NewHandler creates a new WebSocket handler
func NewHandler(
	hub *Hub,
	authSvc *service.AuthService,
	regSvc *service.RegistrationService,
	answerSvc *service.AnswerService,
	control cache.ControlCache,
	questions []model.Question,
	gameCfg game.Config,
) *Handler {
	return &Handler{
		hub:       hub,
		authSvc:   authSvc,
		regSvc:    regSvc,
		answerSvc: answerSvc,
		control:   control,
		questions: questions,
		gameCfg:   gameCfg,
		clock:     clockwork.NewRealClock(),
	}
}

// HostWS handles GET /v1/ws/host
func (h *Handler) HostWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.authSvc.ValidateHostToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := NewConnection("", true, h.hub)
	h.hub.Register(conn)
	log.Info().Str("host_id", claims.HostID).Msg("host websocket open")

	go h.writePump(wsConn, conn)
	go h.hostReadPump(wsConn, conn)
}

// PlayerWS handles GET /v1/ws/player
func (h *Handler) PlayerWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.authSvc.ValidatePlayerToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	participant, err := h.regSvc.Get(r.Context(), claims.ParticipantID)
	if err != nil {
		if errors.Is(err, model.ErrParticipantNotFound) {
			http.Error(w, "unknown participant", http.StatusForbidden)
			return
		}
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := NewConnection(participant.ID, false, h.hub)
	h.hub.Register(conn)
	log.Info().Str("participant", participant.ID).Msg("player websocket open")

	ctx, cancel := context.WithCancel(context.Background())
	engine := game.NewEngine(h.gameCfg, h.questions, *participant, h.clock, func(ev model.AnswerEvent) error {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		return h.answerSvc.Submit(sctx, ev)
	})

	go h.runPlayerSession(ctx, engine, conn)
	go h.writePump(wsConn, conn)
	go h.playerReadPump(wsConn, conn, engine, cancel)
}

// runPlayerSession feeds engine events to the socket and control updates to
// the engine until either side shuts down.
func (h *Handler) runPlayerSession(ctx context.Context, engine *game.Engine, conn *Connection) {
	controlCh, cancelSub := h.control.Subscribe(ctx)
	defer cancelSub()

	// Catch the session up to where the presenter already is.
	if ctrl, err := h.control.Get(ctx); err == nil {
		engine.ApplyControl(ctrl)
	} else {
		log.Warn().Err(err).Msg("reading game control failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-conn.Done():
			// Replaced by a reconnect; the new socket runs its own session.
			return
		case ev, ok := <-engine.Events():
			if !ok {
				return
			}
			h.sendEvent(conn, ev)
		case _, ok := <-controlCh:
			if !ok {
				controlCh = nil
				continue
			}
			ctrl, err := h.control.Get(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("reading game control failed")
				continue
			}
			engine.ApplyControl(ctrl)
		}
	}
}

func (h *Handler) sendEvent(conn *Connection, ev game.Event) {
	payload, _ := json.Marshal(ev)
	data, _ := json.Marshal(&Message{Type: MessageType(ev.Type), Payload: payload})
	conn.trySend(data)
}

func (h *Handler) sendError(conn *Connection, msg string) {
	data, _ := json.Marshal(&Message{
		Type:    MsgError,
		Payload: json.RawMessage(`{"message":"` + msg + `"}`),
	})
	conn.trySend(data)
}

func (h *Handler) hostReadPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()
	configureRead(wsConn)
	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("host websocket read error")
			}
			return
		}
		// Presenter control goes through the REST admin surface.
	}
}

func (h *Handler) playerReadPump(wsConn *websocket.Conn, conn *Connection, engine *game.Engine, cancel context.CancelFunc) {
	defer func() {
		cancel()
		engine.Close()
		h.hub.Unregister(conn)
		wsConn.Close()
	}()
	configureRead(wsConn)
	for {
		_, raw, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("participant", conn.ParticipantID).Msg("player websocket read error")
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			h.sendError(conn, "malformed message")
			continue
		}
		switch cmd.Type {
		case "answer":
			var ans answerPayload
			if err := json.Unmarshal(cmd.Payload, &ans); err != nil {
				h.sendError(conn, "malformed answer")
				continue
			}
			if _, err := engine.Select(ans.OptionIndex); err != nil {
				switch err {
				case model.ErrInputSuppressed:
					// Swallowed: tap landed inside the open grace window.
				case model.ErrRoundLocked:
					h.sendError(conn, "round is locked")
				case model.ErrGameFinished:
					h.sendError(conn, "game is finished")
				case model.ErrOptionOutOfRange:
					h.sendError(conn, "option out of range")
				default:
					h.sendError(conn, "answer rejected")
				}
			}
		case "restart":
			engine.Restart()
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

func configureRead(wsConn *websocket.Conn) {
	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case <-conn.Done():
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			wsConn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
