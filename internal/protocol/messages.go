package protocol

import "statecraft.ai/internal/sim/worldview"

// SUBSCRIBE (observer -> server). First message on an observer connection.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	// Players limits EVENT messages to those involving one of the listed players.
	Players []int `json:"players,omitempty"`
	// SinceCursor replays buffered events after this cursor before going live.
	SinceCursor uint64 `json:"since_cursor,omitempty"`
}

// WELCOME (server -> observer)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	Turn            int         `json:"turn"`
	Players         []PlayerRef `json:"players"`
}

type PlayerRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Major bool   `json:"major"`
	Human bool   `json:"human,omitempty"`
	Alive bool   `json:"alive"`
}

// EVENT (server -> observer, and one JSONL line per event in the event log)
type EventMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id,omitempty"`
	Turn            int    `json:"turn"`
	Kind            string `json:"kind"`
	From            int    `json:"from"`
	To              int    `json:"to"`
	DealID          int    `json:"deal_id,omitempty"`
	Statement       string `json:"statement,omitempty"`
	Detail          string `json:"detail,omitempty"`
}

func NewEventMsg(session string, ev worldview.Event) EventMsg {
	return EventMsg{
		Type:            TypeEvent,
		ProtocolVersion: Version,
		SessionID:       session,
		Turn:            ev.Turn,
		Kind:            string(ev.Kind),
		From:            int(ev.From),
		To:              int(ev.To),
		DealID:          ev.DealID,
		Statement:       ev.Statement,
		Detail:          ev.Detail,
	}
}

// Involves reports whether the event names any of players; an empty filter matches all.
func (m EventMsg) Involves(players []int) bool {
	if len(players) == 0 {
		return true
	}
	for _, p := range players {
		if m.From == p || m.To == p {
			return true
		}
	}
	return false
}

// TURN (server -> observer, and one JSONL line per turn in the turn log)
type TurnMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SessionID       string         `json:"session_id,omitempty"`
	Turn            int            `json:"turn"`
	Digest          string         `json:"digest"`
	Contacts        [][2]int       `json:"contacts,omitempty"`
	Statements      []StatementRef `json:"statements,omitempty"`
	Relations       []RelationRef  `json:"relations,omitempty"`
	CurrentDeals    int            `json:"current_deals"`
	Wars            [][2]int       `json:"wars,omitempty"`
}

type StatementRef struct {
	Kind   string `json:"kind"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	DealID int    `json:"deal_id,omitempty"`
}

// RelationRef is one owner's public view of one subject after the turn.
type RelationRef struct {
	Owner    int    `json:"owner"`
	Subject  int    `json:"subject"`
	Approach string `json:"approach"`
	Opinion  string `json:"opinion"`
	WarState string `json:"war_state,omitempty"`
}

// ERROR (server -> observer)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

func NewError(code, msg string) ErrorMsg {
	return ErrorMsg{Type: TypeError, ProtocolVersion: Version, Code: code, Message: msg}
}
