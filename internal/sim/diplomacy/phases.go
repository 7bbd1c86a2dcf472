package diplomacy

import (
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/stance"
	"statecraft.ai/internal/sim/worldview"
)

type phase struct {
	name string
	run  func(a *AI, other model.PlayerID, s *relations.State)
}

// phases run in this order for every known player before the next phase starts, so a
// later phase always sees this turn's results of the earlier ones.
var phases = []phase{
	{"strength", (*AI).doStrength},
	{"threat", (*AI).doThreat},
	{"target", (*AI).doTargetValue},
	{"war_state", (*AI).doWarState},
	{"war_projection", (*AI).doWarProjection},
	{"war_goal", (*AI).doWarGoal},
	{"peace", (*AI).doPeaceWillingness},
	{"disputes", (*AI).doDisputes},
	{"estimates", (*AI).doEstimates},
	{"opinion", (*AI).doOpinion},
	{"approach", (*AI).doApproach},
	{"proximity", (*AI).doProximity},
}

// PhaseNames lists the per-turn evaluation phases in execution order.
func PhaseNames() []string {
	out := make([]string, len(phases))
	for i, p := range phases {
		out[i] = p.name
	}
	return out
}

func pct(a, b int) int {
	if b <= 0 {
		b = 1
	}
	return a * 100 / b
}

func capital(w worldview.View, p model.PlayerID) (model.Point, bool) {
	cities := w.Cities(p)
	for _, c := range cities {
		if c.IsCapital {
			return c.Location, true
		}
	}
	if len(cities) > 0 {
		return cities[0].Location, true
	}
	return model.Point{}, false
}

// minCityDistance is -1 when either side has no cities.
func minCityDistance(w worldview.View, a, b model.PlayerID) int {
	best := -1
	for _, ca := range w.Cities(a) {
		for _, cb := range w.Cities(b) {
			if d := model.Distance(ca.Location, cb.Location); best < 0 || d < best {
				best = d
			}
		}
	}
	return best
}

func (a *AI) proximityTo(other model.PlayerID) model.Proximity {
	return stance.ProximityOf(minCityDistance(a.w(), a.me, other), a.tune().Proximity)
}

func (a *AI) doStrength(other model.PlayerID, s *relations.State) {
	w := a.w()
	s.MilitaryStrength = stance.CompareStrength(w.MilitaryStrength(a.me), w.MilitaryStrength(other))
	s.EconomicStrength = stance.CompareStrength(w.EconomicStrength(a.me), w.EconomicStrength(other))
}

func (a *AI) doThreat(other model.PlayerID, s *relations.State) {
	w := a.w()
	s.MilitaryThreat = stance.MilitaryThreat(stance.ThreatInput{
		MyStrength:    w.MilitaryStrength(a.me),
		TheirStrength: w.MilitaryStrength(other),
		Proximity:     s.Proximity,
		AtWar:         w.IsAtWar(a.me, other),
	})
	s.WarmongerThreat = stance.WarmongerThreat(w.WarmongerScore(other), w.Personality(a.me).WarmongerHate)
}

func (a *AI) doTargetValue(other model.PlayerID, s *relations.State) {
	w := a.w()
	wars := 0
	for _, p := range w.PlayerIDs() {
		if p != a.me && p != other && w.IsAlive(p) && w.IsAtWar(other, p) {
			wars++
		}
	}
	s.TargetValue = stance.EvaluateTarget(stance.TargetInput{
		MyStrength:    w.MilitaryStrength(a.me),
		TheirStrength: w.MilitaryStrength(other),
		Proximity:     s.Proximity,
		TheirCities:   len(w.Cities(other)),
		OtherWars:     wars,
	})
}

// front measures forces around both capitals.
func (a *AI) front(other model.PlayerID) stance.Front {
	w := a.w()
	r := a.tune().War.FrontRadius
	var f stance.Front
	if c, ok := capital(w, a.me); ok {
		f.MyHome = w.MilitaryNear(a.me, c, r)
		f.EnemyHome = w.MilitaryNear(other, c, r)
	}
	if c, ok := capital(w, other); ok {
		f.MyForeign = w.MilitaryNear(a.me, c, r)
		f.EnemyForeign = w.MilitaryNear(other, c, r)
	}
	return f
}

func (a *AI) doWarState(other model.PlayerID, s *relations.State) {
	w := a.w()
	idle := true
	for _, p := range a.book.Others() {
		if p != other && w.IsAtWar(a.me, p) {
			idle = false
			break
		}
	}
	s.WarState = stance.EvaluateWarState(stance.WarStateInput{
		AtWar:      w.IsAtWar(a.me, other),
		Front:      a.front(other),
		EasyTarget: s.TargetValue.Rank() >= model.TargetFavorable.Rank(),
		Idle:       idle,
	}, a.tune().War)
}

func (a *AI) doWarProjection(other model.PlayerID, s *relations.State) {
	w := a.w()
	mine, theirs := w.MilitaryStrength(a.me), w.MilitaryStrength(other)
	s.WarValueLost = w.ValueLostTo(a.me, other)
	s.WarDamage = stance.DamageLevel(s.WarValueLost, mine+s.WarValueLost)
	inflicted := w.ValueLostTo(other, a.me)
	s.LastWarProjection = s.WarProjection
	s.WarProjection = stance.EvaluateProjection(stance.ProjectionInput{
		AtWar:         w.IsAtWar(a.me, other),
		MilitaryRatio: pct(mine, theirs),
		EconomicRatio: pct(w.EconomicStrength(a.me), w.EconomicStrength(other)),
		Inflicted:     stance.DamageLevel(inflicted, theirs+inflicted),
		Suffered:      s.WarDamage,
		MyScore:       w.Score(a.me),
		TheirScore:    w.Score(other),
		TurnsAtWar:    s.TurnsAtWar,
		Target:        s.TargetValue,
	}, a.tune().War)
}

func (a *AI) doWarGoal(other model.PlayerID, s *relations.State) {
	demanding := false
	if d := a.env.Ledger.ProposedDeal(a.me, other); d != nil && d.Requesting == a.me {
		demanding = true
	}
	s.WarGoal = stance.EvaluateWarGoal(stance.WarGoalInput{
		AtWar:      a.w().IsAtWar(a.me, other),
		Approach:   s.Approach,
		Projection: s.WarProjection,
		Target:     s.TargetValue,
		TurnsAtWar: s.TurnsAtWar,
		Demanding:  demanding,
	}, a.tune().War)
}

func (a *AI) doPeaceWillingness(other model.PlayerID, s *relations.State) {
	atWar := a.w().IsAtWar(a.me, other)
	s.WantPeaceCounter = stance.NextWantPeaceCounter(s.WantPeaceCounter, atWar, s.WarProjection)
	if !atWar {
		s.PeaceWillingToOffer, s.PeaceWillingToAccept = model.PeaceNone, model.PeaceNone
		return
	}
	s.PeaceWillingToOffer = stance.PeaceWillingToOffer(s.WarProjection, s.WarState)
	s.PeaceWillingToAccept = stance.PeaceWillingToAccept(s.WarProjection, s.WarState)
}

func (a *AI) doDisputes(other model.PlayerID, s *relations.State) {
	w := a.w()
	p := w.Personality(a.me)
	closeBy := a.tune().Proximity.Close

	contested := 0
	for _, mine := range w.Cities(a.me) {
		for _, theirs := range w.Cities(other) {
			if model.Distance(mine.Location, theirs.Location) <= closeBy {
				contested++
			}
		}
	}
	s.LandDispute = stance.LandDispute(stance.LandInput{Proximity: s.Proximity, Contested: contested, Boldness: p.Boldness})
	s.WonderDispute = stance.WonderDispute(w.WondersBuilt(a.me), w.WondersBuilt(other), p.WonderCompetitiveness)
	s.VictoryDispute = stance.VictoryDispute(w.Score(a.me), w.Score(other), w.Era(a.me))

	shared := 0
	if w.IsMajor(other) {
		for _, m := range w.PlayerIDs() {
			if w.IsMajor(m) || !w.IsAlive(m) {
				continue
			}
			if w.MinorInfluence(a.me, m) > 0 && w.MinorInfluence(other, m) > 0 {
				shared++
			}
		}
	}
	s.MinorCivDispute = stance.MinorCivDispute(shared, p.MinorCivCompetitive)

	s.MilitaryPosture, s.ExpansionPosture = model.PostureNone, model.PostureNone
	if c, ok := capital(w, a.me); ok {
		s.MilitaryPosture = stance.MilitaryPosture(w.MilitaryNear(other, c, closeBy), w.MilitaryStrength(a.me))
		near := 0
		for _, theirs := range w.Cities(other) {
			if model.Distance(c, theirs.Location) <= closeBy {
				near++
			}
		}
		s.ExpansionPosture = stance.ExpansionPosture(near)
	}
	s.PlotBuyingPosture = stance.PlotBuyingPosture()
}

// doEstimates guesses how other stands toward every third player Me knows.
func (a *AI) doEstimates(other model.PlayerID, s *relations.State) {
	w := a.w()
	for _, third := range a.book.Others() {
		if third == other || !w.IsAlive(third) || !w.HasMet(other, third) {
			continue
		}
		in := stance.EstimateInput{
			AtWar: w.IsAtWar(other, third),
			Share: pct(w.MilitaryStrength(other), w.MilitaryStrength(other)+w.MilitaryStrength(third)),
		}
		if st, ok := a.env.Relations.StateOf(other, third); ok {
			in.Friends = st.Friendship.IsActive()
			in.Denounced = st.Denouncement.IsActive()
		}
		a.book.SetEstimate(other, third, stance.EstimateOther(in))
	}
}

func (a *AI) denouncedBy(other model.PlayerID) bool {
	st, ok := a.env.Relations.StateOf(other, a.me)
	return ok && st.Denouncement.IsActive()
}

func (a *AI) doOpinion(other model.PlayerID, s *relations.State) {
	w := a.w()
	s.OpinionWeight, s.Opinion = stance.EvaluateOpinion(stance.OpinionInput{
		Land:                   s.LandDispute,
		Wonder:                 s.WonderDispute,
		Victory:                s.VictoryDispute,
		MinorCiv:               s.MinorCivDispute,
		Warmonger:              s.WarmongerThreat,
		Denounced:              a.denouncedBy(other),
		Friends:                s.Friendship.IsActive(),
		AtWar:                  w.IsAtWar(a.me, other),
		Teammate:               w.Team(a.me) == w.Team(other),
		BrokenMilitaryPromise:  s.BrokenMilitaryPromise(),
		BrokenExpansionPromise: s.BrokenExpansionPromise(),
	}, a.tune().Opinion)
}

// friendsEnemy reports whether other is thought to be at war with one of Me's friends.
func (a *AI) friendsEnemy(other model.PlayerID) bool {
	for _, f := range a.book.Others() {
		if f == other || !a.book.Get(f).Friendship.IsActive() {
			continue
		}
		if e, ok := a.book.Estimate(other, f); ok && e.Approach == model.ApproachWar {
			return true
		}
	}
	return false
}

func (a *AI) aliveMajors() int {
	n := 0
	for _, p := range a.w().PlayerIDs() {
		if a.w().IsAlive(p) && a.w().IsMajor(p) {
			n++
		}
	}
	return n
}

func (a *AI) doApproach(other model.PlayerID, s *relations.State) {
	w := a.w()
	tune := a.tune().Approach
	if !w.IsMajor(a.me) {
		return
	}
	atWar := w.IsAtWar(a.me, other)
	if !w.IsMajor(other) {
		s.MinorApproach = stance.SelectMinorApproach(stance.MinorInput{
			Personality:   w.Personality(a.me),
			Influence:     w.MinorInfluence(a.me, other),
			Proximity:     s.Proximity,
			Target:        s.TargetValue,
			TheirStrength: s.MilitaryStrength,
			AtWar:         atWar,
		}, tune.JitterPercent, w.RNG())
		return
	}
	res := stance.SelectApproach(stance.ApproachInput{
		Current:        s.Approach,
		Personality:    w.Personality(a.me),
		Opinion:        s.Opinion,
		TheirStrength:  s.MilitaryStrength,
		MilitaryThreat: s.MilitaryThreat,
		Target:         s.TargetValue,
		Projection:     s.WarProjection,
		AtWar:          atWar,
		WarGoal:        s.WarGoal,
		Proximity:      s.Proximity,
		Denounced:      a.denouncedBy(other),
		BrokenPromise:  s.BrokenMilitaryPromise() || s.BrokenExpansionPromise(),
		Nuked:          s.NukedBy(),
		TradeIncome:    a.env.Ledger.GPTReceived(a.me, other),
		RecentPeace:    s.PeaceTreaty.IsActive(),
		Friends:        s.Friendship.IsActive(),
		FriendsEnemy:   a.friendsEnemy(other),
		DuelGame:       a.aliveMajors() == 2,
		TheyAreHuman:   w.IsHuman(other),
		CoopWarLocked:  s.TurnsLockedIntoWar > 0,
	}, tune.Inertia, tune.JitterPercent, w.RNG())
	s.Approach = res.Approach
	s.WarFace = res.WarFace
	smoothing := tune.ScoreSmoothing
	if smoothing < 1 {
		smoothing = 1
	}
	s.ApproachScore += (res.Approach.Level() - s.ApproachScore) / smoothing
}

func (a *AI) doProximity(other model.PlayerID, s *relations.State) {
	s.Proximity = a.proximityTo(other)
}
