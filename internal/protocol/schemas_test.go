package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"statecraft.ai/internal/protocol"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/worldview"
)

func compile(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	p := filepath.Join("..", "..", "schemas", name)
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

// asJSON round-trips v so the validator sees what goes over the wire.
func asJSON(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestSchemas_ValidateSamples(t *testing.T) {
	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	var sub any
	_ = json.Unmarshal([]byte(`{
	  "type":"SUBSCRIBE",
	  "protocol_version":"1.0",
	  "players":[0,2],
	  "since_cursor":12
	}`), &sub)
	validate(compile(t, "subscribe.schema.json"), sub)

	validate(compile(t, "welcome.schema.json"), asJSON(t, protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       "5f0c6c0e-6a43-4c55-9d1c-4f0a8f3d8b11",
		Turn:            3,
		Players: []protocol.PlayerRef{
			{ID: 0, Name: "Aurelia", Major: true, Alive: true},
			{ID: 3, Name: "Delos", Alive: true},
		},
	}))

	eventSchema := compile(t, "event.schema.json")
	for _, ev := range []worldview.Event{
		{Turn: 1, Kind: worldview.EventFirstContact, From: 0, To: 1},
		{Turn: 4, Kind: worldview.EventStatement, From: 1, To: 2, DealID: 7, Statement: model.StatementDemand.String()},
		{Turn: 9, Kind: worldview.EventDealCancelled, From: 2, To: 0, DealID: 3, Detail: "war"},
	} {
		validate(eventSchema, asJSON(t, protocol.NewEventMsg("s1", ev)))
	}

	validate(compile(t, "turn.schema.json"), asJSON(t, protocol.TurnMsg{
		Type:            protocol.TypeTurn,
		ProtocolVersion: protocol.Version,
		Turn:            12,
		Digest:          "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		Contacts:        [][2]int{{0, 1}},
		Wars:            [][2]int{{1, 2}},
		Statements:      []protocol.StatementRef{{Kind: "denounce", From: 0, To: 2}},
		Relations:       []protocol.RelationRef{{Owner: 0, Subject: 2, Approach: "hostile", Opinion: "enemy", WarState: "stalemate"}},
		CurrentDeals:    4,
	}))

	validate(compile(t, "event_batch.schema.json"), asJSON(t, protocol.EventBatchMsg{
		Type:            protocol.TypeEventBatch,
		ProtocolVersion: protocol.Version,
		ReqID:           "r1",
		Events: []protocol.EventBatchItem{
			{Cursor: 1, Event: protocol.NewEventMsg("", worldview.Event{Turn: 2, Kind: worldview.EventWarDeclared, From: 0, To: 2})},
		},
		NextCursor: 2,
	}))
}

func TestSchemas_RejectUnknownEventKind(t *testing.T) {
	s := compile(t, "event.schema.json")
	bad := asJSON(t, protocol.EventMsg{Type: protocol.TypeEvent, ProtocolVersion: protocol.Version, Kind: "TELEPORT"})
	if err := s.Validate(bad); err == nil {
		t.Fatalf("expected unknown kind rejected")
	}
}
