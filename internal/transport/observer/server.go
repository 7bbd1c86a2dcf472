package observer

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"statecraft.ai/internal/protocol"
)

// Roster reports the current turn and players for WELCOME.
type Roster func() (turn int, players []protocol.PlayerRef)

type Config struct {
	// AllowRemote accepts observers from non-loopback addresses.
	AllowRemote bool
	// SendRate caps messages per second written to one observer.
	SendRate  rate.Limit
	SendBurst int
	// RequestRate caps EVENT_BATCH_REQ and SUBSCRIBE messages per second from one observer.
	RequestRate  rate.Limit
	RequestBurst int
	Buffer       int
}

func (c *Config) normalize() {
	if c.SendRate <= 0 {
		c.SendRate = 200
	}
	if c.SendBurst <= 0 {
		c.SendBurst = 400
	}
	if c.RequestRate <= 0 {
		c.RequestRate = 10
	}
	if c.RequestBurst <= 0 {
		c.RequestBurst = 20
	}
	if c.Buffer <= 0 {
		c.Buffer = 1024
	}
}

type Server struct {
	hub    *Hub
	roster Roster
	cfg    Config
	log    *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(hub *Hub, roster Roster, cfg Config, logger *log.Logger) *Server {
	cfg.normalize()
	return &Server{
		hub:    hub,
		roster: roster,
		cfg:    cfg,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

func (s *Server) welcome() protocol.WelcomeMsg {
	m := protocol.WelcomeMsg{Type: protocol.TypeWelcome, ProtocolVersion: protocol.Version, SessionID: s.hub.Session()}
	if s.roster != nil {
		m.Turn, m.Players = s.roster()
	}
	if m.Players == nil {
		m.Players = []protocol.PlayerRef{}
	}
	return m
}

// BootstrapHandler serves the WELCOME payload over plain HTTP.
func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !s.cfg.AllowRemote && !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(s.welcome())
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !s.cfg.AllowRemote && !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub protocol.SubscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != protocol.TypeSubscribe {
			closeWith(conn, websocket.ClosePolicyViolation, "expected SUBSCRIBE")
			return
		}
		if sub.ProtocolVersion != protocol.Version {
			writeJSON(conn, protocol.NewError(protocol.ErrProtoVersion, "want protocol "+protocol.Version))
			closeWith(conn, websocket.ClosePolicyViolation, "protocol version")
			return
		}

		id, c := s.hub.join(sub.Players, s.cfg.Buffer)
		defer s.hub.leave(id)
		s.logf("observer %d joined (players=%v since=%d)", id, sub.Players, sub.SinceCursor)

		if err := writeJSON(conn, s.welcome()); err != nil {
			return
		}
		if sub.SinceCursor > 0 {
			if err := s.writeBatch(conn, "", sub.SinceCursor, 0, sub.Players); err != nil {
				return
			}
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine. Everything after the handshake is written here.
		direct := make(chan any, 16)
		writeErr := make(chan error, 1)
		go func() {
			lim := rate.NewLimiter(s.cfg.SendRate, s.cfg.SendBurst)
			for {
				var err error
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case v := <-direct:
					err = writeJSON(conn, v)
				case b := <-c.out:
					if err = lim.Wait(ctx); err == nil {
						_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
						err = conn.WriteMessage(websocket.TextMessage, b)
					}
				}
				if err != nil {
					writeErr <- err
					return
				}
			}
		}()

		// Reader loop: SUBSCRIBE updates the filter, EVENT_BATCH_REQ pages the buffer.
		reqLim := rate.NewLimiter(s.cfg.RequestRate, s.cfg.RequestBurst)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				continue
			}
			if !reqLim.Allow() {
				s.enqueue(ctx, direct, protocol.NewError(protocol.ErrRateLimit, "slow down"))
				continue
			}
			switch base.Type {
			case protocol.TypeSubscribe:
				var upd protocol.SubscribeMsg
				if json.Unmarshal(msg, &upd) == nil {
					s.hub.filter(id, upd.Players)
					sub.Players = upd.Players
				}
			case protocol.TypeEventBatchReq:
				var q protocol.EventBatchReqMsg
				if err := json.Unmarshal(msg, &q); err != nil {
					s.enqueue(ctx, direct, protocol.NewError(protocol.ErrBadRequest, "bad EVENT_BATCH_REQ"))
					continue
				}
				s.enqueue(ctx, direct, s.batch(q.ReqID, q.SinceCursor, q.Limit, sub.Players))
			default:
				s.enqueue(ctx, direct, protocol.NewError(protocol.ErrProtoBadRequest, "unknown type "+base.Type))
			}
		}

		cancel()
		closeWith(conn, websocket.CloseNormalClosure, "bye")
		s.logf("observer %d left", id)

		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func (s *Server) enqueue(ctx context.Context, ch chan<- any, v any) {
	select {
	case ch <- v:
	case <-ctx.Done():
	}
}

func (s *Server) batch(reqID string, since uint64, limit int, players []int) protocol.EventBatchMsg {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	items, next := s.hub.Since(since, limit, players)
	if items == nil {
		items = []protocol.EventBatchItem{}
	}
	return protocol.EventBatchMsg{
		Type:            protocol.TypeEventBatch,
		ProtocolVersion: protocol.Version,
		ReqID:           reqID,
		Events:          items,
		NextCursor:      next,
		SessionID:       s.hub.Session(),
	}
}

func (s *Server) writeBatch(conn *websocket.Conn, reqID string, since uint64, limit int, players []int) error {
	return writeJSON(conn, s.batch(reqID, since, limit, players))
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(v)
}

func closeWith(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
