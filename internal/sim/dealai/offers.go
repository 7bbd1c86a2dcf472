package dealai

import (
	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
)

// finish balances an offer against its counterpart; nil when it cannot be balanced.
func (a *AI) finish(d *deals.Deal, other model.PlayerID) *deals.Deal {
	if d.IsEmpty() {
		return nil
	}
	if a.World.IsHuman(other) {
		if res := a.EqualizeWithHuman(d, other, false, false); !res.OK {
			return nil
		}
		return d
	}
	if !a.EqualizeWithAI(d, other) {
		return nil
	}
	return d
}

// exchange offers the same item both ways, or one way when only that direction is possible.
func (a *AI) exchange(other model.PlayerID, add func(r deals.Rules, d *deals.Deal, giver model.PlayerID) bool) *deals.Deal {
	model.RequirePair("dealai.exchange", a.Me, other)
	r := a.Rules()
	d := deals.NewDeal(a.Me, other)
	add(r, d, other)
	add(r, d, a.Me)
	return a.finish(d, other)
}

// MakeOfferForEmbassy proposes an embassy exchange with other.
func (a *AI) MakeOfferForEmbassy(other model.PlayerID) *deals.Deal {
	return a.exchange(other, func(r deals.Rules, d *deals.Deal, giver model.PlayerID) bool {
		return r.AddEmbassy(d, giver)
	})
}

// MakeOfferForDelegation proposes a delegation exchange with other.
func (a *AI) MakeOfferForDelegation(other model.PlayerID) *deals.Deal {
	return a.exchange(other, func(r deals.Rules, d *deals.Deal, giver model.PlayerID) bool {
		return r.AddDelegation(d, giver)
	})
}

// MakeOfferForOpenBorders proposes open borders both ways.
func (a *AI) MakeOfferForOpenBorders(other model.PlayerID) *deals.Deal {
	dur := a.Tune.Pacts.OpenBorders
	return a.exchange(other, func(r deals.Rules, d *deals.Deal, giver model.PlayerID) bool {
		return r.AddOpenBorders(d, giver, dur)
	})
}

func (a *AI) mutual(other model.PlayerID, kind model.TradeItemType, duration int) *deals.Deal {
	model.RequirePair("dealai.mutual", a.Me, other)
	d := deals.NewDeal(a.Me, other)
	if !a.Rules().AddMutualPact(d, kind, duration) {
		return nil
	}
	return a.finish(d, other)
}

// MakeOfferForResearchAgreement proposes a research agreement, balanced by the equalizer.
func (a *AI) MakeOfferForResearchAgreement(other model.PlayerID) *deals.Deal {
	return a.mutual(other, model.ItemResearchAgreement, a.Tune.Pacts.ResearchAgreement)
}

// MakeOfferForDefensivePact proposes a defensive pact.
func (a *AI) MakeOfferForDefensivePact(other model.PlayerID) *deals.Deal {
	return a.mutual(other, model.ItemDefensivePact, a.Tune.Pacts.DefensivePact)
}

// MakeOfferForFriendship proposes a declaration of friendship.
func (a *AI) MakeOfferForFriendship(other model.PlayerID) *deals.Deal {
	return a.mutual(other, model.ItemDeclarationOfFriendship, a.Tune.Pacts.Friendship)
}

// MakeOfferForLuxury asks other for one copy of a luxury Me does not have, paid for by the equalizer.
func (a *AI) MakeOfferForLuxury(other model.PlayerID) *deals.Deal {
	model.RequirePair("dealai.MakeOfferForLuxury", a.Me, other)
	r := a.Rules()
	for _, res := range a.World.ResourceTypes() {
		info, _ := a.World.ResourceInfo(res)
		if info.Class != model.ResourceLuxury || a.World.ResourceOwned(a.Me, res) > 0 {
			continue
		}
		d := deals.NewDeal(a.Me, other)
		if !r.AddResourceTrade(d, other, res, 1, a.Tune.Deals.DealDuration) {
			continue
		}
		if out := a.finish(d, other); out != nil {
			return out
		}
	}
	return nil
}

// MakeOfferForThirdPartyWar asks other to declare war on third.
func (a *AI) MakeOfferForThirdPartyWar(other, third model.PlayerID) *deals.Deal {
	model.RequirePair("dealai.MakeOfferForThirdPartyWar", a.Me, other)
	d := deals.NewDeal(a.Me, other)
	if !a.Rules().AddThirdPartyWar(d, other, third) {
		return nil
	}
	return a.finish(d, other)
}

// MakeDemand asks for a share of other's treasury, nothing given back.
func (a *AI) MakeDemand(other model.PlayerID) *deals.Deal {
	model.RequirePair("dealai.MakeDemand", a.Me, other)
	r := a.Rules()
	d := deals.NewDeal(a.Me, other)
	d.Requesting = a.Me
	if g := r.GoldAvailable(d, other, -1) / 4; g > 0 {
		r.AddGoldTrade(d, other, g)
	}
	if d.IsEmpty() {
		if g := r.GPTAvailable(d, other, -1) / 4; g > 0 {
			r.AddGPTTrade(d, other, g, a.Tune.Deals.DealDuration)
		}
	}
	if d.IsEmpty() {
		return nil
	}
	return d
}

// PrepareRenewalDeal rebuilds the still-running durational items of old as a fresh deal.
func (a *AI) PrepareRenewalDeal(old *deals.Deal) *deals.Deal {
	other := old.Other(a.Me)
	r := a.Rules()
	d := deals.NewDeal(a.Me, other)
	d.RenewsDealID = old.ID
	turn := a.World.CurrentTurn()
	for _, it := range old.Items {
		if !it.IsDurational() || !it.ActiveAt(turn) {
			continue
		}
		giver := old.Giver(it)
		ok := false
		switch it.Kind {
		case model.ItemResource:
			ok = r.AddResourceTrade(d, giver, it.Resource, it.Amount, a.Tune.Deals.DealDuration)
		case model.ItemGoldPerTurn:
			ok = r.AddGPTTrade(d, giver, it.Amount, a.Tune.Deals.DealDuration)
		}
		if ok {
			d.Items[len(d.Items)-1].FromRenewal = true
		}
	}
	return a.finish(d, other)
}
