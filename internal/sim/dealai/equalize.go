package dealai

import (
	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
)

type EqualizeResult struct {
	OK             bool
	WasAlreadyGood bool
	CantMatchOffer bool
}

type equalizer struct {
	a       *AI
	d       *deals.Deal
	other   model.PlayerID
	useEven bool
	leeway  int

	lockMine   bool
	lockTheirs bool
}

func (q *equalizer) measure(d *deals.Deal) (total, band int) {
	total, mine, theirs := q.a.Engine(q.a.Me).DealValue(d, q.useEven)
	return total, q.a.band(d, mine, theirs, q.leeway)
}

func (q *equalizer) inBand() bool {
	t, b := q.measure(q.d)
	return t >= -b && t <= b
}

func (q *equalizer) canChange(p model.PlayerID) bool {
	if p == q.a.Me {
		return !q.lockMine
	}
	return !q.lockTheirs
}

// sides returns who should give more and who should give less to move toward even.
func (q *equalizer) sides() (giver, taker model.PlayerID) {
	t, _ := q.measure(q.d)
	if t < 0 {
		return q.other, q.a.Me
	}
	return q.a.Me, q.other
}

// try applies mutate to a copy and keeps it when it moves toward even without
// overshooting the opposite bound.
func (q *equalizer) try(mutate func(d *deals.Deal) bool) bool {
	before, _ := q.measure(q.d)
	c := q.d.Clone()
	if !mutate(c) {
		return false
	}
	after, band := q.measure(c)
	if abs(after) >= abs(before) {
		return false
	}
	if (before < 0 && after > band) || (before > 0 && after < -band) {
		return false
	}
	q.d.Items = c.Items
	return true
}

func (q *equalizer) run() {
	r := q.a.Rules()
	steps := []func(r deals.Rules){
		q.addVote,
		q.addEmbassy,
		q.addResources,
		q.addOpenBorders,
		q.addGPT,
		q.addGold,
		q.removeGPT,
		q.removeGold,
		q.addCities,
	}
	for _, step := range steps {
		if q.inBand() {
			return
		}
		step(r)
	}
}

func (q *equalizer) addVote(r deals.Rules) {
	giver, _ := q.sides()
	if !q.canChange(giver) || !r.World.WorldCongressActive() {
		return
	}
	q.try(func(d *deals.Deal) bool { return r.AddVoteCommitment(d, giver, 1) })
}

func (q *equalizer) addEmbassy(r deals.Rules) {
	giver, _ := q.sides()
	if !q.canChange(giver) {
		return
	}
	q.try(func(d *deals.Deal) bool { return r.AddEmbassy(d, giver) })
}

func (q *equalizer) addResources(r deals.Rules) {
	for _, res := range r.World.ResourceTypes() {
		info, _ := r.World.ResourceInfo(res)
		if info.Class == model.ResourceBonus {
			continue
		}
		for !q.inBand() {
			giver, _ := q.sides()
			if !q.canChange(giver) {
				return
			}
			have := q.d.ResourceTradedBy(giver, res)
			dur := q.a.Tune.Deals.DealDuration
			if !q.try(func(d *deals.Deal) bool { return r.ChangeResourceTrade(d, giver, res, have+1, dur) }) {
				break
			}
		}
	}
}

func (q *equalizer) addOpenBorders(r deals.Rules) {
	giver, _ := q.sides()
	if !q.canChange(giver) {
		return
	}
	dur := q.a.Tune.Pacts.OpenBorders
	q.try(func(d *deals.Deal) bool { return r.AddOpenBorders(d, giver, dur) })
}

// gap is the value still missing to reach an even deal.
func (q *equalizer) gap() int {
	t, _ := q.measure(q.d)
	return abs(t)
}

func (q *equalizer) addGPT(r deals.Rules) {
	giver, _ := q.sides()
	if !q.canChange(giver) {
		return
	}
	dur := q.a.Tune.Deals.DealDuration
	e := q.a.Engine(q.a.Me)
	per := e.GPTForValueExchange(q.gap(), dur, true, giver == q.a.Me, q.other, false)
	have := q.d.GPTTradedBy(giver)
	avail := r.GPTAvailable(q.d, giver, q.d.Find(model.ItemGoldPerTurn, giver))
	for amount := minInt(have+per, avail); amount > have; amount = have + (amount-have)/2 {
		if q.try(func(d *deals.Deal) bool { return r.ChangeGPTTrade(d, giver, amount, dur) }) {
			return
		}
	}
}

func (q *equalizer) addGold(r deals.Rules) {
	giver, _ := q.sides()
	if !q.canChange(giver) {
		return
	}
	e := q.a.Engine(q.a.Me)
	need := e.GoldForValueExchange(q.gap(), true, giver == q.a.Me, q.other, false, false)
	have := q.d.GoldTradedBy(giver)
	avail := r.GoldAvailable(q.d, giver, q.d.Find(model.ItemGold, giver))
	for amount := minInt(have+need, avail); amount > have; amount = have + (amount-have)/2 {
		if q.try(func(d *deals.Deal) bool { return r.ChangeGoldTrade(d, giver, amount) }) {
			return
		}
	}
}

func (q *equalizer) removeGPT(r deals.Rules) {
	_, taker := q.sides()
	if !q.canChange(taker) {
		return
	}
	have := q.d.GPTTradedBy(taker)
	if have == 0 {
		return
	}
	dur := q.d.Items[q.d.Find(model.ItemGoldPerTurn, taker)].Duration
	per := q.a.Engine(q.a.Me).GPTForValueExchange(q.gap(), dur, true, taker == q.a.Me, q.other, false)
	for cut := minInt(per, have); cut > 0; cut /= 2 {
		if q.try(func(d *deals.Deal) bool { return r.ChangeGPTTrade(d, taker, have-cut, dur) }) {
			return
		}
	}
}

func (q *equalizer) removeGold(r deals.Rules) {
	_, taker := q.sides()
	if !q.canChange(taker) {
		return
	}
	have := q.d.GoldTradedBy(taker)
	if have == 0 {
		return
	}
	need := q.a.Engine(q.a.Me).GoldForValueExchange(q.gap(), true, taker == q.a.Me, q.other, false, false)
	for cut := minInt(need, have); cut > 0; cut /= 2 {
		if q.try(func(d *deals.Deal) bool { return r.ChangeGoldTrade(d, taker, have-cut) }) {
			return
		}
	}
}

func (q *equalizer) addCities(r deals.Rules) {
	giver, taker := q.sides()
	if !q.canChange(giver) {
		return
	}
	for _, c := range citiesByDistance(q.a.World, giver, taker) {
		if q.inBand() {
			return
		}
		if g, _ := q.sides(); g != giver {
			return
		}
		id := c.ID
		q.try(func(d *deals.Deal) bool { return r.AddCityTrade(d, giver, id) })
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// EqualizeWithAI balances d between Me and another AI on the even valuation.
// Both sides must end inside the acceptance band and the deal must not be empty.
func (a *AI) EqualizeWithAI(d *deals.Deal, other model.PlayerID) bool {
	model.RequirePair("dealai.EqualizeWithAI", a.Me, other)
	q := &equalizer{a: a, d: d, other: other, useEven: true, leeway: a.Tune.Deals.AIToAILeewayPercent}
	q.run()
	if d.IsEmpty() || !q.inBand() {
		return false
	}
	t, mine, theirs := a.Engine(other).DealValue(d, true)
	return t >= -a.band(d, mine, theirs, q.leeway)
}

// EqualizeWithHuman balances d against a human counterpart. The human's side and Me's
// side can be locked against changes.
func (a *AI) EqualizeWithHuman(d *deals.Deal, other model.PlayerID, lockMine, lockTheirs bool) EqualizeResult {
	model.RequirePair("dealai.EqualizeWithHuman", a.Me, other)
	q := &equalizer{
		a: a, d: d, other: other,
		leeway:     a.Tune.Deals.AIToHumanLeewayPercent,
		lockMine:   lockMine,
		lockTheirs: lockTheirs,
	}
	if q.inBand() {
		return EqualizeResult{OK: !d.IsEmpty(), WasAlreadyGood: true}
	}
	q.run()
	if d.IsEmpty() {
		return EqualizeResult{}
	}
	// a deal still tilted toward Me is fine; the human may take it as is
	if t, b := q.measure(d); t < -b {
		return EqualizeResult{CantMatchOffer: true}
	}
	return EqualizeResult{OK: true}
}
