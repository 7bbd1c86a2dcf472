// Package statement picks at most one diplomatic statement per (player, other) pair per
// turn and resolves the deal it carries.
package statement

import (
	"statecraft.ai/internal/sim/dealai"
	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/worldview"
)

// Statement is what one player says to another this turn. Deal is nil for pure messages.
type Statement struct {
	Kind model.StatementType
	From model.PlayerID
	To   model.PlayerID
	Deal *deals.Deal
}

// Mind is the part of the owner's diplomacy AI the dispatcher consults.
type Mind interface {
	IsWantsPeaceWith(other model.PlayerID) bool
	// WarTarget is the player Me most needs help against, or model.NoPlayer.
	WarTarget() model.PlayerID
}

// Peers returns the deal AI answering for p.
type Peers func(p model.PlayerID) *dealai.AI

type Dispatcher struct {
	AI       *dealai.AI
	Mind     Mind
	Peers    Peers
	Effects  deals.Effects
	Notifier worldview.Notifier
}

type pickFunc func(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool)

type rule struct {
	kind     model.StatementType
	cooldown int
	pick     pickFunc
}

// chain is evaluated top to bottom; the first rule that is off cooldown and fires wins.
var chain = []rule{
	{model.StatementMakePeace, 1, pickPeace},
	{model.StatementDemand, 20, pickDemand},
	{model.StatementCoopWarTime, 5, pickCoopWar},
	{model.StatementAggressiveMilitaryWarning, 30, pickMilitaryWarning},
	{model.StatementExpansionWarning, 30, pickExpansionWarning},
	{model.StatementPlotBuyingWarning, 30, pickPlotBuyingWarning},
	{model.StatementFriendshipOffer, 20, pickFriendship},
	{model.StatementDenounce, 30, pickDenounce},
	{model.StatementDelegationExchange, 15, pickDelegation(true)},
	{model.StatementDelegationOffer, 15, pickDelegation(false)},
	{model.StatementEmbassyExchange, 15, pickEmbassy(true)},
	{model.StatementEmbassyOffer, 15, pickEmbassy(false)},
	{model.StatementOpenBordersExchange, 20, pickOpenBorders(true)},
	{model.StatementOpenBordersOffer, 20, pickOpenBorders(false)},
	{model.StatementResearchAgreementOffer, 20, pickResearchAgreement},
	{model.StatementRequestHelp, 10, pickRequestHelp},
	{model.StatementHostile, 25, pickMood(model.ApproachHostile)},
	{model.StatementAfraid, 25, pickMood(model.ApproachAfraid)},
	{model.StatementWarmongerWarning, 30, pickWarmongerWarning},
	{model.StatementMinorCivCompetition, 30, pickMinorCivCompetition},
	{model.StatementIdeology, 50, pickIdeology},
}

// Choose returns the statement Me would make to other this turn without sending it.
func (d *Dispatcher) Choose(other model.PlayerID) (Statement, bool) {
	a := d.AI
	model.RequirePair("statement.Choose", a.Me, other)
	if !a.Book.Has(other) || !a.World.IsAlive(other) {
		return Statement{}, false
	}
	s := a.Book.Get(other)
	turn := a.World.CurrentTurn()
	for _, r := range chain {
		if !s.CooledDown(r.kind, turn, a.Tune.Cooldown(r.kind.String(), r.cooldown)) {
			continue
		}
		deal, ok := r.pick(d, other, s)
		if !ok {
			continue
		}
		return Statement{Kind: r.kind, From: a.Me, To: other, Deal: deal}, true
	}
	return Statement{}, false
}

// Dispatch chooses a statement, records it and resolves its deal. AI counterparts answer
// on the spot; human counterparts get a request and the deal stays proposed.
func (d *Dispatcher) Dispatch(other model.PlayerID) (Statement, bool) {
	st, ok := d.Choose(other)
	if !ok {
		return Statement{}, false
	}
	a := d.AI
	turn := a.World.CurrentTurn()
	a.Book.Get(other).MarkSent(st.Kind, turn)
	d.notify(worldview.Event{Turn: turn, Kind: worldview.EventStatement, From: a.Me, To: other, Statement: st.Kind.String()})
	if st.Kind == model.StatementDenounce {
		d.denounce(other, turn)
	}
	if st.Deal != nil {
		d.Propose(st.Deal, st.Kind)
	}
	return st, true
}

// Propose files deal from Me to its other side. An AI counterpart answers at once and the
// result is reported; a human counterpart gets a request and the deal stays proposed.
func (d *Dispatcher) Propose(deal *deals.Deal, kind model.StatementType) bool {
	a := d.AI
	other := deal.Other(a.Me)
	turn := a.World.CurrentTurn()
	id := a.Ledger.AddProposedDeal(deal, turn)
	if a.World.IsHuman(other) {
		d.notify(worldview.Event{Turn: turn, Kind: worldview.EventHumanRequest, From: a.Me, To: other, DealID: id, Statement: kind.String()})
		return false
	}
	accepted := false
	if d.Peers != nil {
		if peer := d.Peers(other); peer != nil {
			accepted = peer.EvaluateProposal(deal)
		}
	}
	return a.Ledger.FinalizeDeal(a.Me, other, accepted, a.Rules(), d.Effects)
}

func (d *Dispatcher) notify(ev worldview.Event) {
	if d.Notifier != nil {
		d.Notifier.Notify(ev)
	}
}

// denounce starts the denouncement in Me's book and ends Me's side of any friendship.
func (d *Dispatcher) denounce(other model.PlayerID, turn int) {
	s := d.AI.Book.Get(other)
	s.Denouncement.Activate(turn)
	if s.Friendship.IsActive() {
		s.Friendship.Abandon()
	}
}
