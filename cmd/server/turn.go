package main

import (
	"sync"

	"statecraft.ai/internal/protocol"
	"statecraft.ai/internal/sim/game"
	"statecraft.ai/internal/sim/model"
)

// turnMsg is the public summary of one turn. Approaches are reported as each owner
// shows them, so a planned war stays hidden behind its war face.
func turnMsg(g *game.Game, session string, r game.TurnResult) protocol.TurnMsg {
	w := g.World()
	m := protocol.TurnMsg{
		Type:            protocol.TypeTurn,
		ProtocolVersion: protocol.Version,
		SessionID:       session,
		Turn:            r.Turn,
		Digest:          r.Digest,
		CurrentDeals:    len(g.Ledger().CurrentDeals()),
	}
	for _, c := range r.Contacts {
		m.Contacts = append(m.Contacts, [2]int{int(c.A), int(c.B)})
	}
	for _, st := range r.Statements {
		ref := protocol.StatementRef{Kind: st.Kind.String(), From: int(st.From), To: int(st.To)}
		if st.Deal != nil {
			ref.DealID = st.Deal.ID
		}
		m.Statements = append(m.Statements, ref)
	}
	ids := g.Players()
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if w.IsAtWar(a, b) {
				m.Wars = append(m.Wars, [2]int{int(a), int(b)})
			}
		}
	}
	for _, p := range ids {
		if !w.IsAlive(p) {
			continue
		}
		ai := g.AI(p)
		for _, o := range ai.Book().Others() {
			s := ai.Book().Get(o)
			rel := protocol.RelationRef{
				Owner:    int(p),
				Subject:  int(o),
				Approach: ai.MajorCivApproachTowards(o, true).String(),
				Opinion:  s.Opinion.String(),
			}
			if s.WarState != model.WarStateNone {
				rel.WarState = s.WarState.String()
			}
			m.Relations = append(m.Relations, rel)
		}
	}
	return m
}

// roster is the player list observers get in WELCOME. The game loop refreshes it after
// every turn; HTTP handlers only read the copy.
type roster struct {
	mu      sync.Mutex
	turn    int
	players []protocol.PlayerRef
}

func (r *roster) update(g *game.Game) {
	w := g.World()
	var ps []protocol.PlayerRef
	for _, p := range g.Players() {
		ps = append(ps, protocol.PlayerRef{
			ID:    int(p),
			Name:  w.Name(p),
			Major: w.IsMajor(p),
			Human: w.IsHuman(p),
			Alive: w.IsAlive(p),
		})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turn, r.players = w.CurrentTurn(), ps
}

func (r *roster) get() (int, []protocol.PlayerRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.turn, append([]protocol.PlayerRef(nil), r.players...)
}
