package deals

import (
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/worldview"
)

const (
	TechEmbassy           = "writing"
	TechResearchAgreement = "scientific_theory"
	CivicOpenBorders      = "early_empire"
	CivicDefensivePact    = "diplomatic_service"
)

// Spec describes a candidate item for validation.
type Spec struct {
	Kind       model.TradeItemType
	Amount     int
	Duration   int
	Resource   model.ResourceType
	City       model.CityID
	ThirdParty model.PlayerID
	// Replacing is the index of the item being changed (excluded from in-deal totals), or -1.
	Replacing int
}

func SpecFor(kind model.TradeItemType) Spec {
	return Spec{
		Kind:       kind,
		Amount:     -1,
		Duration:   -1,
		City:       model.NoCity,
		ThirdParty: model.NoPlayer,
		Replacing:  -1,
	}
}

// Rules is the per-kind trade validity table. Every mutator below re-validates through it.
type Rules struct {
	World     worldview.View
	Relations relations.Reader
	Ledger    *Ledger
	Tune      tuning.Tuning
}

func (r Rules) state(owner, subject model.PlayerID) relations.State {
	if r.Relations == nil {
		return relations.State{}
	}
	s, _ := r.Relations.StateOf(owner, subject)
	return s
}

func peaceTradable(kind model.TradeItemType) bool {
	switch kind {
	case model.ItemPeaceTreaty, model.ItemGold, model.ItemGoldPerTurn, model.ItemResource, model.ItemCity, model.ItemOpenBorders:
		return true
	}
	return false
}

func (r Rules) IsPossibleToTradeItem(d *Deal, giver, receiver model.PlayerID, s Spec) bool {
	model.RequirePair("deals.IsPossibleToTradeItem", giver, receiver)
	w := r.World
	if !w.IsAlive(giver) || !w.IsAlive(receiver) || !w.HasMet(giver, receiver) {
		return false
	}
	atWar := w.IsAtWar(giver, receiver)
	if atWar && !peaceTradable(s.Kind) {
		return false
	}
	inDeal := func() bool {
		if d == nil {
			return false
		}
		i := d.Find(s.Kind, giver)
		return i >= 0 && i != s.Replacing
	}

	switch s.Kind {
	case model.ItemGold:
		return s.Amount > 0 && s.Amount <= r.GoldAvailable(d, giver, s.Replacing)

	case model.ItemGoldPerTurn:
		return s.Amount > 0 && s.Duration > 0 && s.Amount <= r.GPTAvailable(d, giver, s.Replacing)

	case model.ItemResource:
		if s.Amount <= 0 || s.Duration <= 0 {
			return false
		}
		if _, ok := w.ResourceInfo(s.Resource); !ok {
			return false
		}
		if !w.IsMajor(receiver) {
			return false
		}
		return s.Amount <= r.ResourceAvailable(d, giver, s.Resource, s.Replacing)

	case model.ItemCity:
		c, ok := w.City(s.City)
		if !ok || c.Owner != giver || c.IsCapital || !w.IsMajor(receiver) {
			return false
		}
		if d != nil {
			for i, it := range d.Items {
				if i != s.Replacing && it.Kind == model.ItemCity && it.City == s.City {
					return false
				}
			}
		}
		return true

	case model.ItemAllowEmbassy:
		if !w.HasTech(giver, TechEmbassy) || !w.HasTech(receiver, TechEmbassy) {
			return false
		}
		return !r.state(receiver, giver).HasEmbassy && !inDeal()

	case model.ItemAllowDelegation:
		st := r.state(receiver, giver)
		return !st.HasDelegation && !st.HasEmbassy && !inDeal()

	case model.ItemOpenBorders:
		if !w.HasCivic(giver, CivicOpenBorders) || !w.IsMajor(receiver) || s.Duration <= 0 {
			return false
		}
		return !r.state(giver, receiver).OpenBorders.IsActive() && !inDeal()

	case model.ItemDefensivePact:
		if !w.IsMajor(giver) || !w.IsMajor(receiver) || s.Duration <= 0 {
			return false
		}
		if !w.HasCivic(giver, CivicDefensivePact) || !w.HasCivic(receiver, CivicDefensivePact) {
			return false
		}
		st := r.state(giver, receiver)
		friends := st.Friendship.IsActive() || (d != nil && d.Has(model.ItemDeclarationOfFriendship))
		return friends && !st.DefensivePact.IsActive() && !inDeal()

	case model.ItemResearchAgreement:
		if !w.IsMajor(giver) || !w.IsMajor(receiver) || s.Duration <= 0 {
			return false
		}
		if !w.HasTech(giver, TechResearchAgreement) || !w.HasTech(receiver, TechResearchAgreement) {
			return false
		}
		mine, theirs := r.state(giver, receiver), r.state(receiver, giver)
		if !mine.HasEmbassy || !theirs.HasEmbassy || mine.ResearchAgreement.IsActive() || inDeal() {
			return false
		}
		treasury := r.World.TreasuryGold(giver)
		if d != nil && d.Involves(giver) {
			treasury -= d.sumBy(model.ItemGold, giver, -1)
		}
		return treasury >= r.ResearchAgreementCost(giver)

	case model.ItemDeclarationOfFriendship:
		if !w.IsMajor(giver) || !w.IsMajor(receiver) {
			return false
		}
		mine, theirs := r.state(giver, receiver), r.state(receiver, giver)
		if mine.Denouncement.IsActive() || theirs.Denouncement.IsActive() {
			return false
		}
		return !mine.Friendship.IsActive() && !inDeal()

	case model.ItemPeaceTreaty:
		return atWar && !inDeal()

	case model.ItemThirdPartyPeace, model.ItemThirdPartyWar:
		third := s.ThirdParty
		if !third.Valid() || third == giver || third == receiver || !w.IsAlive(third) {
			return false
		}
		if !w.HasMet(giver, third) || !w.HasMet(receiver, third) {
			return false
		}
		if w.Team(third) == w.Team(giver) || w.Team(third) == w.Team(receiver) {
			return false
		}
		if d != nil {
			for i, it := range d.Items {
				if i != s.Replacing && it.Kind == s.Kind && it.ThirdParty == third {
					return false
				}
			}
		}
		if s.Kind == model.ItemThirdPartyPeace {
			return w.IsAtWar(giver, third)
		}
		if w.IsAtWar(giver, third) {
			return false
		}
		st := r.state(giver, third)
		return !st.PeaceTreaty.IsActive() && !st.DefensivePact.IsActive()

	case model.ItemVoteCommitment:
		return w.WorldCongressActive() && w.IsMajor(giver) && w.IsMajor(receiver) && !inDeal()
	}
	model.Unhandled("deals.IsPossibleToTradeItem", s.Kind)
	return false
}

// GoldAvailable is treasury minus lump gold already offered in d (the item at skip excluded).
func (r Rules) GoldAvailable(d *Deal, p model.PlayerID, skip int) int {
	avail := r.World.TreasuryGold(p)
	if d != nil && d.Involves(p) {
		avail -= d.sumBy(model.ItemGold, p, skip)
		if d.HasFrom(model.ItemResearchAgreement, p) {
			avail -= r.ResearchAgreementCost(p)
		}
	}
	if avail < 0 {
		return 0
	}
	return avail
}

// GPTAvailable is gross income minus gold per turn already promised in current deals and in d.
func (r Rules) GPTAvailable(d *Deal, p model.PlayerID, skip int) int {
	avail := r.World.GrossIncome(p)
	renews := 0
	if d != nil {
		renews = d.RenewsDealID
	}
	if r.Ledger != nil {
		avail -= r.Ledger.GPTPromised(p, renews)
	}
	if d != nil && d.Involves(p) {
		avail -= d.sumBy(model.ItemGoldPerTurn, p, skip)
	}
	if avail < 0 {
		return 0
	}
	return avail
}

// ResourceAvailable excludes copies exported in current deals, except those in the deal being renewed.
func (r Rules) ResourceAvailable(d *Deal, p model.PlayerID, res model.ResourceType, skip int) int {
	avail := r.World.ResourceOwned(p, res)
	renews := 0
	if d != nil {
		renews = d.RenewsDealID
	}
	if r.Ledger != nil {
		avail -= r.Ledger.ResourceExported(p, res, renews)
	}
	if d != nil && d.Involves(p) {
		dir := d.DirFor(p)
		for i, it := range d.Items {
			if i != skip && it.Kind == model.ItemResource && it.Dir == dir && it.Resource == res {
				avail -= it.Amount
			}
		}
	}
	if avail < 0 {
		return 0
	}
	return avail
}

func (r Rules) ResearchAgreementCost(p model.PlayerID) int {
	return r.Tune.Deals.ResearchAgreementCost * (int(r.World.Era(p)) + 1)
}
