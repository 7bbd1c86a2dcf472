package dealai

import (
	"sort"

	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/worldview"
)

// reparations is what the losing side hands over under each treaty tier.
type reparations struct {
	goldPct     int
	gptPct      int
	openBorders bool
	// resources is the number of resource copies; -1 means all of them.
	resources int
	// cities is a count; -1 means half of them, -2 every city but the capital.
	cities int
}

func reparationsFor(t model.PeaceTreatyType) reparations {
	switch t {
	case model.PeaceNone, model.PeaceWhite:
		return reparations{}
	case model.PeaceArmistice:
		return reparations{goldPct: 20}
	case model.PeaceSettlement:
		return reparations{goldPct: 35, gptPct: 10}
	case model.PeaceBackdown:
		return reparations{goldPct: 50, gptPct: 20, openBorders: true}
	case model.PeaceSubmission:
		return reparations{goldPct: 65, gptPct: 30, openBorders: true, resources: 1}
	case model.PeaceSurrender:
		return reparations{goldPct: 80, gptPct: 40, openBorders: true, resources: 2, cities: 1}
	case model.PeaceCession:
		return reparations{goldPct: 90, gptPct: 50, openBorders: true, resources: -1, cities: 2}
	case model.PeaceCapitulation:
		return reparations{goldPct: 100, gptPct: 60, openBorders: true, resources: -1, cities: -1}
	case model.PeaceUnconditionalSurrender:
		return reparations{goldPct: 100, gptPct: 80, openBorders: true, resources: -1, cities: -2}
	}
	model.Unhandled("dealai.reparationsFor", t)
	return reparations{}
}

// peaceStance reads p's willingness toward q. A human may concede anything and is
// assumed to settle for white peace.
func (a *AI) peaceStance(p, q model.PlayerID) (offer, accept model.PeaceTreatyType) {
	if p == a.Me {
		s := a.Book.Get(q)
		return s.PeaceWillingToOffer, s.PeaceWillingToAccept
	}
	if a.World.IsHuman(p) {
		return model.PeaceUnconditionalSurrender, model.PeaceWhite
	}
	s, ok := a.Relations.StateOf(p, q)
	if !ok {
		return model.PeaceNone, model.PeaceNone
	}
	return s.PeaceWillingToOffer, s.PeaceWillingToAccept
}

// IsOfferPeace works out the treaty both sides could live with. The side whose
// concession covers the other's demand surrenders; white peace has no surrendering side.
func (a *AI) IsOfferPeace(other model.PlayerID) (model.PeaceTreatyType, model.PlayerID, bool) {
	model.RequirePair("dealai.IsOfferPeace", a.Me, other)
	if !a.World.IsAtWar(a.Me, other) {
		return model.PeaceNone, model.NoPlayer, false
	}
	myOffer, myAccept := a.peaceStance(a.Me, other)
	theirOffer, theirAccept := a.peaceStance(other, a.Me)
	if myOffer == model.PeaceNone || theirOffer == model.PeaceNone {
		return model.PeaceNone, model.NoPlayer, false
	}
	var t model.PeaceTreatyType
	var loser model.PlayerID
	switch {
	case !myAccept.Less(theirAccept) && !theirOffer.Less(myAccept):
		t, loser = myAccept, other
	case !myOffer.Less(theirAccept):
		t, loser = theirAccept, a.Me
	default:
		return model.PeaceNone, model.NoPlayer, false
	}
	if t == model.PeaceWhite || t == model.PeaceNone {
		return model.PeaceWhite, model.NoPlayer, true
	}
	return t, loser, true
}

// MakePeaceDeal builds the peace deal Me would offer other, or nil.
func (a *AI) MakePeaceDeal(other model.PlayerID) *deals.Deal {
	t, loser, ok := a.IsOfferPeace(other)
	if !ok {
		return nil
	}
	d := deals.NewDeal(a.Me, other)
	if !a.DoAddItemsToDealForPeaceTreaty(d, other, t, loser) {
		return nil
	}
	return d
}

// DoAddItemsToDealForPeaceTreaty fills d with the peace item and the loser's reparations.
func (a *AI) DoAddItemsToDealForPeaceTreaty(d *deals.Deal, other model.PlayerID, t model.PeaceTreatyType, loser model.PlayerID) bool {
	model.RequirePair("dealai.DoAddItemsToDealForPeaceTreaty", a.Me, other)
	r := a.Rules()
	if !r.AddPeaceTreaty(d, a.Tune.Pacts.PeaceTreaty) {
		return false
	}
	d.PeaceTreaty = t
	d.Surrendering = loser
	if !loser.Valid() {
		return true
	}
	winner := d.Other(loser)
	rep := reparationsFor(t)

	if rep.goldPct > 0 {
		if g := r.GoldAvailable(d, loser, -1) * rep.goldPct / 100; g > 0 {
			r.AddGoldTrade(d, loser, g)
		}
	}
	if rep.gptPct > 0 {
		if g := r.GPTAvailable(d, loser, -1) * rep.gptPct / 100; g > 0 {
			r.AddGPTTrade(d, loser, g, a.Tune.Deals.DealDuration)
		}
	}
	if rep.openBorders {
		r.AddOpenBorders(d, loser, a.Tune.Pacts.OpenBorders)
	}
	if rep.resources != 0 {
		a.addReparationResources(r, d, loser, rep.resources)
	}
	if rep.cities != 0 {
		cities := a.World.Cities(loser)
		n := rep.cities
		switch n {
		case -1:
			n = len(cities) / 2
		case -2:
			n = len(cities)
		}
		a.DoAddCitiesToUs(d, loser, winner, n)
	}
	return true
}

func (a *AI) addReparationResources(r deals.Rules, d *deals.Deal, loser model.PlayerID, n int) {
	left := n
	for _, res := range a.World.ResourceTypes() {
		info, _ := a.World.ResourceInfo(res)
		if info.Class == model.ResourceBonus {
			continue
		}
		avail := r.ResourceAvailable(d, loser, res, -1)
		if avail <= 0 {
			continue
		}
		take := 1
		if n < 0 {
			take = avail
		}
		if r.AddResourceTrade(d, loser, res, take, a.Tune.Deals.DealDuration) && n > 0 {
			left--
			if left == 0 {
				return
			}
		}
	}
}

// DoAddCitiesToUs adds up to n of from's cities, closest to to's capital first. A player
// without cities adds nothing.
func (a *AI) DoAddCitiesToUs(d *deals.Deal, from, to model.PlayerID, n int) int {
	if n <= 0 {
		return 0
	}
	r := a.Rules()
	added := 0
	for _, c := range citiesByDistance(a.World, from, to) {
		if added == n {
			break
		}
		if r.AddCityTrade(d, from, c.ID) {
			added++
		}
	}
	return added
}

// citiesByDistance lists from's non-capital cities, closest to to's capital first.
func citiesByDistance(w worldview.View, from, to model.PlayerID) []worldview.CityInfo {
	var anchor *model.Point
	for _, c := range w.Cities(to) {
		if c.IsCapital || anchor == nil {
			loc := c.Location
			anchor = &loc
			if c.IsCapital {
				break
			}
		}
	}
	var out []worldview.CityInfo
	for _, c := range w.Cities(from) {
		if !c.IsCapital {
			out = append(out, c)
		}
	}
	if anchor == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return model.Distance(out[i].Location, *anchor) < model.Distance(out[j].Location, *anchor)
	})
	return out
}

// acceptPeace takes a proposed peace deal when Me wants peace and the terms are within
// what Me is willing to give or better than what Me demands.
func (a *AI) acceptPeace(d *deals.Deal, other model.PlayerID) bool {
	if !a.World.IsAtWar(a.Me, other) || !a.Book.Has(other) {
		return false
	}
	s := a.Book.Get(other)
	if s.TurnsLockedIntoWar > 0 {
		return false
	}
	if a.World.IsHuman(other) {
		total, _, _ := a.Engine(a.Me).DealValue(d, false)
		return total >= -a.ValueOfPeace(other)
	}
	if d.Surrendering == a.Me {
		return !s.PeaceWillingToOffer.Less(d.PeaceTreaty)
	}
	return !d.PeaceTreaty.Less(s.PeaceWillingToAccept)
}

// ValueOfPeace is how much value Me would give up to end the war with other, cached for a few turns.
func (a *AI) ValueOfPeace(other model.PlayerID) int {
	s := a.Book.Get(other)
	turn := a.World.CurrentTurn()
	if s.CachedValueOfPeaceTurn >= 0 && turn-s.CachedValueOfPeaceTurn < a.Tune.War.ValueOfPeaceCacheTTL {
		return s.CachedValueOfPeace
	}
	v := 0
	switch s.WarProjection {
	case model.ProjectionDestruction:
		v = 1000
	case model.ProjectionDefeat:
		v = 400
	case model.ProjectionStalemate, model.ProjectionUnknown:
		v = 100
	}
	v = v * (int(a.World.Era(a.Me)) + 1)
	s.CachedValueOfPeace = v
	s.CachedValueOfPeaceTurn = turn
	return v
}
