package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"statecraft.ai/internal/protocol"
)

func main() {
	var (
		url     = flag.String("url", "ws://localhost:8080/v1/observer/ws", "observer ws url")
		players = flag.String("players", "", "comma-separated player ids to follow (default: all)")
		since   = flag.Uint64("since", 0, "replay buffered events after this cursor")
		turns   = flag.Bool("turns", true, "print turn summaries")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[watch] ", log.LstdFlags|log.Lmicroseconds)
	filter, err := parsePlayers(*players)
	if err != nil {
		logger.Fatalf("-players: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sub := protocol.SubscribeMsg{
		Type:            protocol.TypeSubscribe,
		ProtocolVersion: protocol.Version,
		Players:         filter,
		SinceCursor:     *since,
	}
	if err := conn.WriteJSON(sub); err != nil {
		logger.Fatalf("send SUBSCRIBE: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		_ = conn.Close()
	}()

	names := map[int]string{}
	name := func(id int) string {
		if n, ok := names[id]; ok {
			return n
		}
		return "#" + strconv.Itoa(id)
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			for _, p := range w.Players {
				names[p.ID] = p.Name
			}
			logger.Printf("WELCOME session=%s turn=%d players=%d", w.SessionID, w.Turn, len(w.Players))

		case protocol.TypeEvent:
			var ev protocol.EventMsg
			if err := json.Unmarshal(msg, &ev); err != nil {
				continue
			}
			logger.Print(formatEvent(ev, name))

		case protocol.TypeEventBatch:
			var b protocol.EventBatchMsg
			if err := json.Unmarshal(msg, &b); err != nil {
				continue
			}
			for _, it := range b.Events {
				logger.Printf("[%d] %s", it.Cursor, formatEvent(it.Event, name))
			}

		case protocol.TypeTurn:
			if !*turns {
				continue
			}
			var t protocol.TurnMsg
			if err := json.Unmarshal(msg, &t); err != nil {
				continue
			}
			logger.Printf("TURN %d statements=%d deals=%d wars=%d digest=%.12s",
				t.Turn, len(t.Statements), t.CurrentDeals, len(t.Wars), t.Digest)

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err == nil {
				logger.Printf("ERROR %s: %s", e.Code, e.Message)
			}
		}
	}
}

func formatEvent(ev protocol.EventMsg, name func(int) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "t%d %s %s -> %s", ev.Turn, ev.Kind, name(ev.From), name(ev.To))
	if ev.Statement != "" {
		fmt.Fprintf(&b, " (%s)", ev.Statement)
	}
	if ev.DealID != 0 {
		fmt.Fprintf(&b, " deal=%d", ev.DealID)
	}
	if ev.Detail != "" {
		b.WriteString(": " + ev.Detail)
	}
	return b.String()
}

func parsePlayers(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
