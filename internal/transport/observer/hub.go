package observer

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"statecraft.ai/internal/protocol"
	"statecraft.ai/internal/sim/worldview"
)

// Hub keeps the most recent events under increasing cursors and fans every event and
// turn out to the connected observers. A slow observer loses messages instead of
// stalling the game.
type Hub struct {
	session string

	mu      sync.Mutex
	ring    []protocol.EventBatchItem
	next    uint64 // cursor of the next event
	clients map[uint64]*client
	nextID  uint64

	dropped atomic.Uint64
}

type client struct {
	players []int
	out     chan []byte
}

func NewHub(session string, capacity int) *Hub {
	if capacity <= 0 {
		capacity = 4096
	}
	return &Hub{
		session: session,
		ring:    make([]protocol.EventBatchItem, 0, capacity),
		next:    1,
		clients: map[uint64]*client{},
	}
}

func (h *Hub) Session() string { return h.session }

// Notify records ev and forwards it to every observer whose filter matches.
func (h *Hub) Notify(ev worldview.Event) {
	m := protocol.NewEventMsg(h.session, ev)
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	item := protocol.EventBatchItem{Cursor: h.next, Event: m}
	h.next++
	if len(h.ring) == cap(h.ring) {
		copy(h.ring, h.ring[1:])
		h.ring = h.ring[:len(h.ring)-1]
	}
	h.ring = append(h.ring, item)
	for _, c := range h.clients {
		if m.Involves(c.players) {
			h.sendLocked(c, b)
		}
	}
}

// PublishTurn forwards a turn summary to every observer.
func (h *Hub) PublishTurn(m protocol.TurnMsg) {
	m.Type, m.ProtocolVersion, m.SessionID = protocol.TypeTurn, protocol.Version, h.session
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.sendLocked(c, b)
	}
}

func (h *Hub) sendLocked(c *client, b []byte) {
	select {
	case c.out <- b:
	default:
		h.dropped.Add(1)
	}
}

// Since returns up to limit buffered events after cursor and the cursor to ask for next.
func (h *Hub) Since(cursor uint64, limit int, players []int) ([]protocol.EventBatchItem, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []protocol.EventBatchItem
	next := cursor
	for _, it := range h.ring {
		if it.Cursor <= cursor {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		next = it.Cursor
		if it.Event.Involves(players) {
			out = append(out, it)
		}
	}
	return out, next
}

func (h *Hub) join(players []int, buffer int) (uint64, *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	c := &client{players: players, out: make(chan []byte, buffer)}
	h.clients[h.nextID] = c
	return h.nextID, c
}

func (h *Hub) filter(id uint64, players []int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		c.players = players
	}
}

func (h *Hub) leave(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

func (h *Hub) Observers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Dropped() uint64 { return h.dropped.Load() }
