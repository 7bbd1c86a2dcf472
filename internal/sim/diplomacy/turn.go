package diplomacy

import (
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/statement"
)

// DoTurn refreshes every entry of the book phase by phase and then acts: war
// declarations, deal renewals and at most one statement per player. Humans only get the
// refresh.
func (a *AI) DoTurn() []statement.Statement {
	w := a.w()
	var others []model.PlayerID
	for _, o := range a.book.Others() {
		if w.IsAlive(o) {
			others = append(others, o)
		}
	}
	turn := a.turn()
	for _, o := range others {
		a.tick(o, a.book.Get(o), turn)
	}
	for _, ph := range phases {
		for _, o := range others {
			ph.run(a, o, a.book.Get(o))
		}
	}
	if !w.IsAlive(a.me) || w.IsHuman(a.me) || !w.IsMajor(a.me) {
		return nil
	}
	return a.act(others, turn)
}

// tick advances counters and expires pacts that run on the book alone.
func (a *AI) tick(other model.PlayerID, s *relations.State, turn int) {
	w := a.w()
	if w.IsAtWar(a.me, other) {
		s.TurnsAtWar++
	} else {
		s.TurnsAtPeace++
	}
	if s.TurnsLockedIntoWar > 0 {
		s.TurnsLockedIntoWar--
	}
	if s.PeaceTreaty.IsExpired(turn) {
		s.PeaceTreaty.Abandon()
	}
	if s.Denouncement.IsExpired(turn) {
		s.Denouncement.Abandon()
	}
	if t := s.CoopWarTarget; t.Valid() && (!w.IsAlive(t) || !w.IsAtWar(a.me, t)) {
		s.CoopWarTarget = model.NoPlayer
	}
}

func (a *AI) wantsWar(other model.PlayerID, s *relations.State) bool {
	w := a.w()
	if w.IsAtWar(a.me, other) || !w.IsMajor(other) || w.Team(a.me) == w.Team(other) {
		return false
	}
	if s.PeaceTreaty.IsActive() || s.DefensivePact.IsActive() {
		return false
	}
	return s.Approach == model.ApproachWar && s.WarGoal == model.WarGoalPrepare &&
		s.TargetValue.Rank() >= model.TargetFavorable.Rank()
}

func (a *AI) act(others []model.PlayerID, turn int) []statement.Statement {
	d := a.dispatcher()
	var out []statement.Statement
	for _, o := range others {
		s := a.book.Get(o)
		if a.wantsWar(o, s) {
			a.DoDeclareWarTo(o)
			continue
		}
		for _, old := range a.env.Ledger.RenewableDeals(a.me, o, turn, a.tune().Deals.RenewalWindow) {
			if old.From != a.me {
				continue
			}
			if renewal := d.AI.PrepareRenewalDeal(old); renewal != nil {
				d.Propose(renewal, model.StatementNone)
			}
		}
		if st, ok := d.Dispatch(o); ok {
			out = append(out, st)
		}
	}
	return out
}
