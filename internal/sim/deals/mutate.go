package deals

import (
	"statecraft.ai/internal/sim/model"
)

// add validates s for giver and appends the item built from it.
func (r Rules) add(d *Deal, giver model.PlayerID, s Spec) bool {
	if !r.IsPossibleToTradeItem(d, giver, d.Other(giver), s) {
		return false
	}
	it := TradeItem{
		Kind:       s.Kind,
		Dir:        d.DirFor(giver),
		Amount:     s.Amount,
		Duration:   s.Duration,
		Resource:   s.Resource,
		City:       s.City,
		ThirdParty: s.ThirdParty,
		FinalTurn:  -1,
	}
	if s.City != model.NoCity {
		if c, ok := r.World.City(s.City); ok {
			it.Point = c.Location
		}
	}
	d.Items = append(d.Items, it)
	return true
}

// AddGoldTrade adds a lump sum of gold paid by giver.
func (r Rules) AddGoldTrade(d *Deal, giver model.PlayerID, amount int) bool {
	s := SpecFor(model.ItemGold)
	s.Amount = amount
	return r.add(d, giver, s)
}

// AddGPTTrade adds amount gold per turn from giver for duration turns.
func (r Rules) AddGPTTrade(d *Deal, giver model.PlayerID, amount, duration int) bool {
	s := SpecFor(model.ItemGoldPerTurn)
	s.Amount, s.Duration = amount, duration
	return r.add(d, giver, s)
}

// AddResourceTrade adds amount copies of res flowing from giver for duration turns.
func (r Rules) AddResourceTrade(d *Deal, giver model.PlayerID, res model.ResourceType, amount, duration int) bool {
	s := SpecFor(model.ItemResource)
	s.Amount, s.Duration, s.Resource = amount, duration, res
	return r.add(d, giver, s)
}

// AddCityTrade adds the cession of city by giver.
func (r Rules) AddCityTrade(d *Deal, giver model.PlayerID, city model.CityID) bool {
	s := SpecFor(model.ItemCity)
	s.City = city
	return r.add(d, giver, s)
}

// AddEmbassy lets the other side open an embassy with giver.
func (r Rules) AddEmbassy(d *Deal, giver model.PlayerID) bool {
	return r.add(d, giver, SpecFor(model.ItemAllowEmbassy))
}

// AddDelegation lets the other side send a delegation to giver.
func (r Rules) AddDelegation(d *Deal, giver model.PlayerID) bool {
	return r.add(d, giver, SpecFor(model.ItemAllowDelegation))
}

// AddOpenBorders opens giver's borders to the other side.
func (r Rules) AddOpenBorders(d *Deal, giver model.PlayerID, duration int) bool {
	s := SpecFor(model.ItemOpenBorders)
	s.Duration = duration
	return r.add(d, giver, s)
}

// AddMutualPact adds a defensive pact, research agreement or friendship in both
// directions; nothing is added unless both directions are valid.
func (r Rules) AddMutualPact(d *Deal, kind model.TradeItemType, duration int) bool {
	switch kind {
	case model.ItemDefensivePact, model.ItemResearchAgreement, model.ItemDeclarationOfFriendship:
	default:
		model.Unhandled("deals.AddMutualPact", kind)
	}
	s := SpecFor(kind)
	s.Duration = duration
	if !r.IsPossibleToTradeItem(d, d.From, d.To, s) || !r.IsPossibleToTradeItem(d, d.To, d.From, s) {
		return false
	}
	return r.add(d, d.From, s) && r.add(d, d.To, s)
}

// AddPeaceTreaty adds the single peace item, given by the deal's From side.
func (r Rules) AddPeaceTreaty(d *Deal, duration int) bool {
	s := SpecFor(model.ItemPeaceTreaty)
	s.Duration = duration
	return r.add(d, d.From, s)
}

// AddThirdPartyPeace commits giver to make peace with third.
func (r Rules) AddThirdPartyPeace(d *Deal, giver, third model.PlayerID, duration int) bool {
	s := SpecFor(model.ItemThirdPartyPeace)
	s.ThirdParty, s.Duration = third, duration
	return r.add(d, giver, s)
}

// AddThirdPartyWar commits giver to declare war on third.
func (r Rules) AddThirdPartyWar(d *Deal, giver, third model.PlayerID) bool {
	s := SpecFor(model.ItemThirdPartyWar)
	s.ThirdParty = third
	return r.add(d, giver, s)
}

// AddVoteCommitment pledges votes of giver in the next session.
func (r Rules) AddVoteCommitment(d *Deal, giver model.PlayerID, votes int) bool {
	s := SpecFor(model.ItemVoteCommitment)
	s.Amount = votes
	return r.add(d, giver, s)
}

// ChangeGoldTrade sets giver's lump gold to amount; zero removes it.
func (r Rules) ChangeGoldTrade(d *Deal, giver model.PlayerID, amount int) bool {
	i := d.Find(model.ItemGold, giver)
	if i < 0 {
		if amount <= 0 {
			return false
		}
		return r.AddGoldTrade(d, giver, amount)
	}
	if amount <= 0 {
		d.RemoveItem(i)
		return true
	}
	s := SpecFor(model.ItemGold)
	s.Amount, s.Replacing = amount, i
	if !r.IsPossibleToTradeItem(d, giver, d.Other(giver), s) {
		return false
	}
	d.Items[i].Amount = amount
	return true
}

// ChangeGPTTrade sets giver's gold per turn; zero removes it.
func (r Rules) ChangeGPTTrade(d *Deal, giver model.PlayerID, amount, duration int) bool {
	i := d.Find(model.ItemGoldPerTurn, giver)
	if i < 0 {
		if amount <= 0 {
			return false
		}
		return r.AddGPTTrade(d, giver, amount, duration)
	}
	if amount <= 0 {
		d.RemoveItem(i)
		return true
	}
	s := SpecFor(model.ItemGoldPerTurn)
	s.Amount, s.Duration, s.Replacing = amount, duration, i
	if !r.IsPossibleToTradeItem(d, giver, d.Other(giver), s) {
		return false
	}
	d.Items[i].Amount = amount
	d.Items[i].Duration = duration
	return true
}

// ChangeResourceTrade sets giver's flow of res; zero removes it.
func (r Rules) ChangeResourceTrade(d *Deal, giver model.PlayerID, res model.ResourceType, amount, duration int) bool {
	dir := d.DirFor(giver)
	i := -1
	for j, it := range d.Items {
		if it.Kind == model.ItemResource && it.Dir == dir && it.Resource == res {
			i = j
			break
		}
	}
	if i < 0 {
		if amount <= 0 {
			return false
		}
		return r.AddResourceTrade(d, giver, res, amount, duration)
	}
	if amount <= 0 {
		d.RemoveItem(i)
		return true
	}
	s := SpecFor(model.ItemResource)
	s.Amount, s.Duration, s.Resource, s.Replacing = amount, duration, res, i
	if !r.IsPossibleToTradeItem(d, giver, d.Other(giver), s) {
		return false
	}
	d.Items[i].Amount = amount
	d.Items[i].Duration = duration
	return true
}

// SpecOf rebuilds the validation spec of an existing item.
func SpecOf(it TradeItem, index int) Spec {
	return Spec{
		Kind:       it.Kind,
		Amount:     it.Amount,
		Duration:   it.Duration,
		Resource:   it.Resource,
		City:       it.City,
		ThirdParty: it.ThirdParty,
		Replacing:  index,
	}
}
