package stance

import (
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/tuning"
)

type LandInput struct {
	Proximity model.Proximity
	// Contested counts pairs of our cities within the close-proximity distance.
	Contested int
	Boldness  int
}

func LandDispute(in LandInput) model.DisputeLevel {
	if in.Proximity == model.ProximityNone || in.Proximity == model.ProximityDistant {
		return model.DisputeNone
	}
	s := in.Contested*20 + in.Boldness*2
	switch in.Proximity {
	case model.ProximityNeighbors:
		s += 30
	case model.ProximityClose:
		s += 15
	}
	return disputeFromScore(s, 80, 50, 25)
}

// WonderDispute only exists when both sides build wonders.
func WonderDispute(mine, theirs, competitiveness int) model.DisputeLevel {
	if mine == 0 || theirs == 0 {
		return model.DisputeNone
	}
	n := mine
	if theirs < n {
		n = theirs
	}
	return disputeFromScore(n*10*competitiveness/5, 40, 20, 5)
}

// VictoryDispute grows as the two scores get closer, from the medieval era on.
func VictoryDispute(myScore, theirScore int, era model.Era) model.DisputeLevel {
	if era.Rank() < model.EraMedieval.Rank() || myScore <= 0 || theirScore <= 0 {
		return model.DisputeNone
	}
	hi, lo := myScore, theirScore
	if lo > hi {
		hi, lo = lo, hi
	}
	gap := (hi - lo) * 100 / hi
	switch {
	case gap <= 10:
		return model.DisputeFierce
	case gap <= 25:
		return model.DisputeStrong
	case gap <= 50:
		return model.DisputeWeak
	}
	return model.DisputeNone
}

// MinorCivDispute counts city-states both players court.
func MinorCivDispute(shared, competitiveness int) model.DisputeLevel {
	return disputeFromScore(shared*competitiveness*10/5, 30, 20, 10)
}

func disputeFromScore(s, fierce, strong, weak int) model.DisputeLevel {
	switch {
	case s >= fierce:
		return model.DisputeFierce
	case s >= strong:
		return model.DisputeStrong
	case s >= weak:
		return model.DisputeWeak
	}
	return model.DisputeNone
}

// MilitaryPosture rates their forces near my cities against my total strength.
func MilitaryPosture(theirNearMe, myStrength int) model.AggressivePosture {
	if theirNearMe <= 0 {
		return model.PostureNone
	}
	pct := ratio(theirNearMe, myStrength)
	switch {
	case pct >= 100:
		return model.PostureIncredible
	case pct >= 60:
		return model.PostureHigh
	case pct >= 30:
		return model.PostureMedium
	case pct >= 10:
		return model.PostureLow
	}
	return model.PostureNone
}

// ExpansionPosture counts their cities settled close to my capital.
func ExpansionPosture(citiesNearCapital int) model.AggressivePosture {
	switch {
	case citiesNearCapital >= 3:
		return model.PostureHigh
	case citiesNearCapital == 2:
		return model.PostureMedium
	case citiesNearCapital == 1:
		return model.PostureLow
	}
	return model.PostureNone
}

// PlotBuyingPosture is not scored yet.
func PlotBuyingPosture() model.AggressivePosture { return model.PostureNone }

type OpinionInput struct {
	Land, Wonder, Victory, MinorCiv model.DisputeLevel
	Warmonger                       model.Threat
	Denounced                       bool
	Friends                         bool
	AtWar                           bool
	Teammate                        bool
	BrokenMilitaryPromise           bool
	BrokenExpansionPromise          bool
}

// OpinionWeight sums the opinion terms; lower is friendlier.
func OpinionWeight(in OpinionInput, tune tuning.Opinion) int {
	w := tune.LandDispute[in.Land]
	w += tune.WonderDispute[in.Wonder]
	w += tune.VictoryDispute[in.Victory]
	w += tune.MinorCivDispute[in.MinorCiv]
	w += tune.WarmongerThreat[in.Warmonger]
	if in.Denounced {
		w += tune.Denounced
	}
	if in.Friends {
		w += tune.Friendship
	}
	if in.AtWar {
		w += tune.AtWar
	}
	w += brokenPromiseWeight(in.BrokenMilitaryPromise)
	w += brokenPromiseWeight(in.BrokenExpansionPromise)
	return w
}

// brokenPromiseWeight is not scored yet.
func brokenPromiseWeight(bool) int { return 0 }

func OpinionFromWeight(w int, teammate bool, tune tuning.Opinion) model.Opinion {
	if teammate {
		return model.OpinionAlly
	}
	switch {
	case w >= tune.Unforgivable:
		return model.OpinionUnforgivable
	case w >= tune.Enemy:
		return model.OpinionEnemy
	case w >= tune.Competitor:
		return model.OpinionCompetitor
	case w > tune.Favorable:
		return model.OpinionNeutral
	case w > tune.Friend:
		return model.OpinionFavorable
	case w > tune.Ally:
		return model.OpinionFriend
	}
	return model.OpinionAlly
}

func EvaluateOpinion(in OpinionInput, tune tuning.Opinion) (int, model.Opinion) {
	w := OpinionWeight(in, tune)
	return w, OpinionFromWeight(w, in.Teammate, tune)
}
