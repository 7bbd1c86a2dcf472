package observer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"statecraft.ai/internal/protocol"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/worldview"
)

func TestHub_RingKeepsNewestAndFilters(t *testing.T) {
	h := NewHub("s1", 3)
	for i := 0; i < 5; i++ {
		h.Notify(worldview.Event{Turn: i, Kind: worldview.EventStatement, From: 0, To: model.PlayerID(1 + i%2)})
	}
	items, next := h.Since(0, 0, nil)
	if len(items) != 3 || items[0].Cursor != 3 || next != 5 {
		t.Fatalf("items=%+v next=%d", items, next)
	}
	items, _ = h.Since(0, 0, []int{2})
	if len(items) != 1 || items[0].Event.To != 2 {
		t.Fatalf("filtered=%+v", items)
	}
	items, next = h.Since(3, 1, nil)
	if len(items) != 1 || items[0].Cursor != 4 || next != 4 {
		t.Fatalf("paged=%+v next=%d", items, next)
	}
}

func TestHub_SlowObserverDrops(t *testing.T) {
	h := NewHub("s1", 8)
	id, c := h.join(nil, 1)
	h.Notify(worldview.Event{Kind: worldview.EventPeaceMade})
	h.Notify(worldview.Event{Kind: worldview.EventPeaceMade})
	if h.Dropped() != 1 || len(c.out) != 1 {
		t.Fatalf("dropped=%d queued=%d", h.Dropped(), len(c.out))
	}
	h.leave(id)
	if h.Observers() != 0 {
		t.Fatalf("observers=%d", h.Observers())
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func read(t *testing.T, conn *websocket.Conn, v any) protocol.BaseMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	base, err := protocol.DecodeBase(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v != nil {
		if err := json.Unmarshal(b, v); err != nil {
			t.Fatalf("unmarshal %s: %v", base.Type, err)
		}
	}
	return base
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	roster := func() (int, []protocol.PlayerRef) {
		return 4, []protocol.PlayerRef{{ID: 0, Name: "Aurelia", Major: true, Alive: true}}
	}
	s := NewServer(hub, roster, Config{}, nil)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.WSHandler())
	mux.HandleFunc("/bootstrap", s.BootstrapHandler())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestServer_SubscribeReplayAndLive(t *testing.T) {
	hub := NewHub("s1", 16)
	hub.Notify(worldview.Event{Turn: 1, Kind: worldview.EventFirstContact, From: 0, To: 1})
	hub.Notify(worldview.Event{Turn: 1, Kind: worldview.EventFirstContact, From: 2, To: 3})
	srv := newTestServer(t, hub)
	conn := dial(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(protocol.SubscribeMsg{Type: protocol.TypeSubscribe, ProtocolVersion: protocol.Version, Players: []int{0}, SinceCursor: 0}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	var w protocol.WelcomeMsg
	if base := read(t, conn, &w); base.Type != protocol.TypeWelcome || w.Turn != 4 || len(w.Players) != 1 || w.SessionID != "s1" {
		t.Fatalf("welcome=%+v", w)
	}

	var batch protocol.EventBatchMsg
	if err := conn.WriteJSON(protocol.EventBatchReqMsg{Type: protocol.TypeEventBatchReq, ProtocolVersion: protocol.Version, ReqID: "r1"}); err != nil {
		t.Fatalf("batch req: %v", err)
	}
	if base := read(t, conn, &batch); base.Type != protocol.TypeEventBatch || batch.ReqID != "r1" || len(batch.Events) != 1 || batch.NextCursor != 2 {
		t.Fatalf("batch=%+v", batch)
	}

	deadline := time.Now().Add(5 * time.Second)
	for hub.Observers() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	hub.Notify(worldview.Event{Turn: 2, Kind: worldview.EventWarDeclared, From: 2, To: 3})
	hub.Notify(worldview.Event{Turn: 2, Kind: worldview.EventWarDeclared, From: 1, To: 0})
	var ev protocol.EventMsg
	if base := read(t, conn, &ev); base.Type != protocol.TypeEvent || ev.From != 1 || ev.Kind != "WAR_DECLARED" {
		t.Fatalf("event=%+v", ev)
	}

	hub.PublishTurn(protocol.TurnMsg{Turn: 2, Digest: "d"})
	var turn protocol.TurnMsg
	if base := read(t, conn, &turn); base.Type != protocol.TypeTurn || turn.Turn != 2 || turn.SessionID != "s1" {
		t.Fatalf("turn=%+v", turn)
	}
}

func TestServer_RejectsWrongVersion(t *testing.T) {
	srv := newTestServer(t, NewHub("s1", 4))
	conn := dial(t, srv)
	defer conn.Close()
	if err := conn.WriteJSON(protocol.SubscribeMsg{Type: protocol.TypeSubscribe, ProtocolVersion: "0.1"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	var e protocol.ErrorMsg
	if base := read(t, conn, &e); base.Type != protocol.TypeError || e.Code != protocol.ErrProtoVersion {
		t.Fatalf("error=%+v", e)
	}
}

func TestServer_Bootstrap(t *testing.T) {
	srv := newTestServer(t, NewHub("s1", 4))
	resp, err := http.Get(srv.URL + "/bootstrap")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var w protocol.WelcomeMsg
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Type != protocol.TypeWelcome || w.Turn != 4 {
		t.Fatalf("welcome=%+v", w)
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	for addr, want := range map[string]bool{
		"127.0.0.1:80": true,
		"[::1]:9000":   true,
		"10.0.0.2:80":  false,
		"garbage":      false,
	} {
		if got := isLoopbackRemote(addr); got != want {
			t.Fatalf("%s: got %v", addr, got)
		}
	}
}
