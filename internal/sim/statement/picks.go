package statement

import (
	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
)

func (d *Dispatcher) atWar(other model.PlayerID) bool {
	return d.AI.World.IsAtWar(d.AI.Me, other)
}

// talking reports whether Me is on speaking terms with other at all.
func (d *Dispatcher) talking(other model.PlayerID, s *relations.State) bool {
	return !d.atWar(other) && s.Approach != model.ApproachWar && d.AI.World.IsMajor(other)
}

func offer(deal *deals.Deal) (*deals.Deal, bool) { return deal, deal != nil }

func pickPeace(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	if !d.atWar(other) || d.Mind == nil || !d.Mind.IsWantsPeaceWith(other) {
		return nil, false
	}
	return offer(d.AI.MakePeaceDeal(other))
}

func pickDemand(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	w := d.AI.World
	if d.atWar(other) || w.Team(other) == w.Team(d.AI.Me) {
		return nil, false
	}
	bully := s.Approach == model.ApproachHostile && s.MilitaryStrength.Rank() <= model.StrengthWeak.Rank()
	if s.WarGoal != model.WarGoalDemand && !bully {
		return nil, false
	}
	return offer(d.AI.MakeDemand(other))
}

func pickCoopWar(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	target := s.CoopWarTarget
	w := d.AI.World
	if !target.Valid() || target == other || !w.IsAtWar(d.AI.Me, target) || w.IsAtWar(other, target) {
		return nil, false
	}
	return offer(d.AI.MakeOfferForThirdPartyWar(other, target))
}

func pickMilitaryWarning(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	return nil, !d.atWar(other) && s.Approach != model.ApproachAfraid && s.MilitaryPosture.Rank() >= model.PostureHigh.Rank()
}

func pickExpansionWarning(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	return nil, !d.atWar(other) && s.Approach != model.ApproachAfraid && s.ExpansionPosture.Rank() >= model.PostureHigh.Rank()
}

// pickPlotBuyingWarning never fires while plot buying is not scored.
func pickPlotBuyingWarning(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	return nil, !d.atWar(other) && s.PlotBuyingPosture.Rank() >= model.PostureHigh.Rank()
}

func pickFriendship(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	if !d.talking(other, s) || s.Approach != model.ApproachFriendly || s.Opinion.Rank() < model.OpinionFavorable.Rank() {
		return nil, false
	}
	if s.Friendship.IsActive() || s.Denouncement.IsActive() {
		return nil, false
	}
	return offer(d.AI.MakeOfferForFriendship(other))
}

func pickDenounce(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	if d.atWar(other) || s.Denouncement.IsActive() || s.Approach == model.ApproachAfraid {
		return nil, false
	}
	return nil, s.Opinion.Rank() <= model.OpinionEnemy.Rank()
}

// twoWay reports whether both sides give kind in deal.
func twoWay(deal *deals.Deal, kind model.TradeItemType) bool {
	return deal.HasFrom(kind, deal.From) && deal.HasFrom(kind, deal.To)
}

// pickExchange fires for the exchange rule when the offer goes both ways and for the
// offer rule when only one side can give.
func pickExchange(kind model.TradeItemType, exchange bool, build func(d *Dispatcher, other model.PlayerID) *deals.Deal) pickFunc {
	return func(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
		if !d.talking(other, s) || s.Approach == model.ApproachHostile {
			return nil, false
		}
		deal := build(d, other)
		if deal == nil || twoWay(deal, kind) != exchange {
			return nil, false
		}
		return deal, true
	}
}

func pickDelegation(exchange bool) pickFunc {
	return pickExchange(model.ItemAllowDelegation, exchange, func(d *Dispatcher, other model.PlayerID) *deals.Deal {
		return d.AI.MakeOfferForDelegation(other)
	})
}

func pickEmbassy(exchange bool) pickFunc {
	return pickExchange(model.ItemAllowEmbassy, exchange, func(d *Dispatcher, other model.PlayerID) *deals.Deal {
		return d.AI.MakeOfferForEmbassy(other)
	})
}

func pickOpenBorders(exchange bool) pickFunc {
	inner := pickExchange(model.ItemOpenBorders, exchange, func(d *Dispatcher, other model.PlayerID) *deals.Deal {
		return d.AI.MakeOfferForOpenBorders(other)
	})
	return func(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
		if s.Approach != model.ApproachFriendly && s.Approach != model.ApproachNeutral {
			return nil, false
		}
		return inner(d, other, s)
	}
}

func pickResearchAgreement(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	if !d.talking(other, s) || (s.Approach != model.ApproachFriendly && s.Approach != model.ApproachNeutral) {
		return nil, false
	}
	return offer(d.AI.MakeOfferForResearchAgreement(other))
}

func pickRequestHelp(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	if d.Mind == nil || !d.talking(other, s) || s.Approach != model.ApproachFriendly {
		return nil, false
	}
	target := d.Mind.WarTarget()
	if !target.Valid() || target == other || d.AI.World.IsAtWar(other, target) {
		return nil, false
	}
	return offer(d.AI.MakeOfferForThirdPartyWar(other, target))
}

func pickMood(want model.MajorApproach) pickFunc {
	return func(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
		return nil, !d.atWar(other) && s.Approach == want
	}
}

func pickWarmongerWarning(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	return nil, !d.atWar(other) && s.WarmongerThreat.Rank() >= model.ThreatSevere.Rank()
}

func pickMinorCivCompetition(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	return nil, !d.atWar(other) && s.MinorCivDispute.Rank() >= model.DisputeStrong.Rank()
}

// pickIdeology never fires; ideologies are not modeled.
func pickIdeology(d *Dispatcher, other model.PlayerID, s *relations.State) (*deals.Deal, bool) {
	return nil, false
}
