package ws

import (
	"encoding/json"
	"testing"
	"time"

	"quizlive/internal/game"
)

func recvMessage(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data := <-conn.Send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestHubRoutesMessages(t *testing.T) {
	hub := NewHub()

	host := NewConnection("", true, hub)
	p1 := NewConnection("p_1", false, hub)
	p2 := NewConnection("p_2", false, hub)

	hub.Register(host)
	hub.Register(p1)
	hub.Register(p2)

	// Player registrations notify the host.
	for i := 0; i < 2; i++ {
		msg := recvMessage(t, host)
		if msg.Type != MsgParticipantJoined {
			t.Fatalf("expected participant_joined, got %s", msg.Type)
		}
	}

	hub.BroadcastToHost("leaderboard_update", map[string]int{"n": 1})
	msg := recvMessage(t, host)
	if msg.Type != MsgLeaderboardUpdate {
		t.Fatalf("expected leaderboard_update, got %s", msg.Type)
	}
	select {
	case <-p1.Send:
		t.Fatal("host message leaked to a player")
	case <-time.After(50 * time.Millisecond):
	}

	hub.BroadcastToPlayer("p_1", "answer_result", map[string]bool{"correct": true})
	msg = recvMessage(t, p1)
	if msg.Type != MsgAnswerResult {
		t.Fatalf("expected answer_result, got %s", msg.Type)
	}
	select {
	case <-p2.Send:
		t.Fatal("targeted message leaked to another player")
	case <-time.After(50 * time.Millisecond):
	}

	hub.BroadcastToAllPlayers("control_update", map[string]bool{"gameStarted": true})
	if msg = recvMessage(t, p1); msg.Type != MsgControlUpdate {
		t.Fatalf("expected control_update, got %s", msg.Type)
	}
	if msg = recvMessage(t, p2); msg.Type != MsgControlUpdate {
		t.Fatalf("expected control_update, got %s", msg.Type)
	}
}

func waitDone(t *testing.T, conn *Connection) {
	t.Helper()
	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("connection never shut down")
	}
}

func TestHubReplacesReconnectedPlayer(t *testing.T) {
	hub := NewHub()

	old := NewConnection("p_1", false, hub)
	hub.Register(old)

	// Same participant reconnects; the old connection is told to shut down.
	fresh := NewConnection("p_1", false, hub)
	hub.Register(fresh)
	waitDone(t, old)

	hub.BroadcastToPlayer("p_1", "answer_result", nil)
	if msg := recvMessage(t, fresh); msg.Type != MsgAnswerResult {
		t.Fatalf("expected answer_result on fresh connection, got %s", msg.Type)
	}
}

// A session goroutine can still hold the replaced connection and emit engine
// events into it (countdown ticks fire every second). Those sends must be
// dropped silently rather than bringing the process down.
func TestHubReplacedConnectionDropsLateSends(t *testing.T) {
	hub := NewHub()

	old := NewConnection("p_1", false, hub)
	hub.Register(old)

	fresh := NewConnection("p_1", false, hub)
	hub.Register(fresh)
	waitDone(t, old)

	if old.trySend([]byte(`{}`)) {
		t.Fatal("send on a replaced connection should be dropped")
	}

	h := &Handler{}
	h.sendError(old, "round is locked")
	h.sendEvent(old, game.Event{Type: game.EventCountdownTick})

	select {
	case <-old.Send:
		t.Fatal("replaced connection should not receive messages")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()

	p := NewConnection("p_1", false, hub)
	hub.Register(p)
	hub.Unregister(p)
	waitDone(t, p)

	hub.BroadcastToPlayer("p_1", "control_update", nil)
	select {
	case <-p.Send:
		t.Fatal("unregistered connection should not receive messages")
	case <-time.After(50 * time.Millisecond):
	}
}
