// Package dealai builds, balances and judges deals on behalf of one player.
package dealai

import (
	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/valuation"
	"statecraft.ai/internal/sim/worldview"
)

// AI is rebuilt every turn around the current world view. Book is the owner's own
// relationship book; everybody else is read through Relations.
type AI struct {
	Me        model.PlayerID
	World     worldview.View
	Book      *relations.Book
	Relations relations.Reader
	Ledger    *deals.Ledger
	Tune      tuning.Tuning
}

func New(book *relations.Book, w worldview.View, r relations.Reader, l *deals.Ledger, tune tuning.Tuning) *AI {
	return &AI{Me: book.Owner(), World: w, Book: book, Relations: r, Ledger: l, Tune: tune}
}

func (a *AI) Rules() deals.Rules {
	return deals.Rules{World: a.World, Relations: a.Relations, Ledger: a.Ledger, Tune: a.Tune}
}

// Engine prices deals from p's point of view.
func (a *AI) Engine(p model.PlayerID) valuation.Engine {
	return valuation.New(p, a.World, a.Relations, a.Tune)
}

func (a *AI) leeway(other model.PlayerID) int {
	if a.World.IsHuman(other) {
		return a.Tune.Deals.AIToHumanLeewayPercent
	}
	return a.Tune.Deals.AIToAILeewayPercent
}

// band is the acceptance half-width around a perfectly even deal.
func (a *AI) band(d *deals.Deal, mine, theirs, leeway int) int {
	b := leeway * (abs(mine) + abs(theirs)) / 100
	if !d.HasGold() && b < a.Tune.Deals.ZeroGoldTolerance {
		b = a.Tune.Deals.ZeroGoldTolerance
	}
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// IsDealAcceptable: the deal is not worse for Me than the leeway allows. AI counterparts are judged
// on the even valuation, humans on Me's own.
func (a *AI) IsDealAcceptable(d *deals.Deal, other model.PlayerID) bool {
	model.RequirePair("dealai.IsDealAcceptable", a.Me, other)
	if d.IsEmpty() && !d.IsPeaceTreaty() {
		return false
	}
	useEven := !a.World.IsHuman(other)
	total, mine, theirs := a.Engine(a.Me).DealValue(d, useEven)
	return total >= -a.band(d, mine, theirs, a.leeway(other))
}

// EvaluateProposal decides on a deal another player proposed to Me.
func (a *AI) EvaluateProposal(d *deals.Deal) bool {
	other := d.Other(a.Me)
	if d.IsPeaceTreaty() {
		return a.acceptPeace(d, other)
	}
	if !a.Book.Has(other) {
		return false
	}
	s := a.Book.Get(other)
	if s.Approach == model.ApproachWar && !a.World.IsAtWar(a.Me, other) {
		return false
	}
	if d.Requesting == other && isDemand(d, other) {
		return a.acceptDemand(d, other)
	}
	return a.IsDealAcceptable(d, other)
}

// isDemand: everything flows from Me to the requester.
func isDemand(d *deals.Deal, requester model.PlayerID) bool {
	for _, it := range d.Items {
		if d.Giver(it) == requester {
			return false
		}
	}
	return len(d.Items) > 0
}

// acceptDemand gives in to players we fear or cannot fight.
func (a *AI) acceptDemand(d *deals.Deal, other model.PlayerID) bool {
	s := a.Book.Get(other)
	if s.Approach == model.ApproachAfraid {
		return true
	}
	return s.MilitaryStrength.Rank() >= model.StrengthPowerful.Rank() && s.Approach != model.ApproachHostile
}
