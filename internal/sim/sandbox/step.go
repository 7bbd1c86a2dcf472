package sandbox

import (
	"statecraft.ai/internal/sim/model"
)

// Contact is a pair of players that met during the last Advance.
type Contact struct {
	A model.PlayerID
	B model.PlayerID
}

// Advance moves the world one turn forward: income is paid, exploration widens and
// every active war costs both sides some military. New contacts are returned in
// stable pair order.
func (w *World) Advance() []Contact {
	w.turn++
	for _, p := range w.players {
		if p.alive {
			p.gold += p.cfg.Income
		}
	}
	contacts := w.explore()
	w.skirmish()
	return contacts
}

func (w *World) capital(p model.PlayerID) (model.Point, bool) {
	var first *model.Point
	for _, id := range w.cityOrder {
		c := w.cities[id]
		if c.Owner != p {
			continue
		}
		if c.IsCapital {
			return c.Location, true
		}
		if first == nil {
			loc := c.Location
			first = &loc
		}
	}
	if first == nil {
		return model.Point{}, false
	}
	return *first, true
}

// explore meets every pair whose capitals are within the meet radius, which grows by one each turn.
func (w *World) explore() []Contact {
	var out []Contact
	reach := w.meetR + w.turn
	for i, a := range w.players {
		if !a.alive {
			continue
		}
		ca, ok := w.capital(a.id)
		if !ok {
			continue
		}
		for _, b := range w.players[i+1:] {
			if !b.alive || w.HasMet(a.id, b.id) {
				continue
			}
			cb, ok := w.capital(b.id)
			if !ok || model.Distance(ca, cb) > reach {
				continue
			}
			w.Meet(a.id, b.id)
			out = append(out, Contact{A: a.id, B: b.id})
		}
	}
	return out
}

// skirmish trades a tenth of the opponent's strength in losses on each front.
func (w *World) skirmish() {
	for i, a := range w.players {
		for _, b := range w.players[i+1:] {
			if !w.IsAtWar(a.id, b.id) {
				continue
			}
			sa, sb := w.MilitaryStrength(a.id), w.MilitaryStrength(b.id)
			lossA := sb/10 + w.rng.Intn(2)
			lossB := sa/10 + w.rng.Intn(2)
			w.valueLost[model.Pair{Owner: a.id, Subject: b.id}] += attrit(a, lossA)
			w.valueLost[model.Pair{Owner: b.id, Subject: a.id}] += attrit(b, lossB)
		}
	}
}

// attrit removes up to loss strength from p's units in order and returns what was lost.
func attrit(p *player, loss int) int {
	lost := 0
	for i := range p.units {
		if loss <= 0 {
			break
		}
		take := p.units[i].Strength
		if take > loss {
			take = loss
		}
		p.units[i].Strength -= take
		loss -= take
		lost += take
	}
	out := p.units[:0]
	for _, u := range p.units {
		if u.Strength > 0 {
			out = append(out, u)
		}
	}
	p.units = out
	return lost
}
