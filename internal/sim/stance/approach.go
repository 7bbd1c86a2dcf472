package stance

import (
	"sort"

	"statecraft.ai/internal/sim/model"
)

type ApproachInput struct {
	Current     model.MajorApproach
	Personality model.Personality
	Opinion     model.Opinion
	// TheirStrength is their military relative to mine.
	TheirStrength  model.Strength
	MilitaryThreat model.Threat
	Target         model.TargetValue
	Projection     model.WarProjection
	AtWar          bool
	WarGoal        model.WarGoal
	Proximity      model.Proximity

	Denounced     bool
	BrokenPromise bool
	Nuked         bool
	// TradeIncome is the gold per turn they currently pay me.
	TradeIncome int
	RecentPeace bool
	Friends     bool
	// FriendsEnemy is set when they are at war with someone I am friends with.
	FriendsEnemy bool
	// DuelGame is set when only two majors are left.
	DuelGame      bool
	TheyAreHuman  bool
	CoopWarLocked bool
}

type Weighted struct {
	Approach model.MajorApproach
	Weight   int
}

type ApproachResult struct {
	Approach model.MajorApproach
	WarFace  model.WarFace
	Ranking  []Weighted
}

type weights map[model.MajorApproach]int

func (w weights) add(a model.MajorApproach, v int) { w[a] += v }

// SelectApproach scores every approach, adds up to ±jitter% noise and picks the heaviest.
// Ties go to the earlier entry of model.MajorApproaches.
func SelectApproach(in ApproachInput, inertia, jitter int, rng model.RNG) ApproachResult {
	p := in.Personality
	w := weights{
		model.ApproachWar:       p.Boldness * 10,
		model.ApproachHostile:   p.Meanness * 10,
		model.ApproachDeceptive: (p.Meanness + p.DiploBalance) * 5,
		model.ApproachGuarded:   (10 - p.Loyalty) * 5,
		model.ApproachAfraid:    (10 - p.Boldness) * 5,
		model.ApproachNeutral:   50,
		model.ApproachFriendly:  p.Loyalty * 10,
	}
	if in.Current != model.ApproachNone {
		w.add(in.Current, inertia*10)
	}
	opinionRule(w, in.Opinion)
	if in.Denounced {
		w.add(model.ApproachHostile, 30)
		w.add(model.ApproachFriendly, -30)
	}
	if in.BrokenPromise {
		w.add(model.ApproachGuarded, brokenPromiseWeight(true))
	}
	threatRule(w, in.MilitaryThreat, in.TheirStrength)
	if in.Nuked {
		w.add(model.ApproachHostile, nukedWeight())
	}
	targetRule(w, in.Target)
	if in.AtWar {
		switch in.Projection {
		case model.ProjectionGood, model.ProjectionVeryGood:
			w.add(model.ApproachWar, 30)
		case model.ProjectionDefeat, model.ProjectionDestruction:
			w.add(model.ApproachWar, -40)
			w.add(model.ApproachNeutral, 20)
		}
		if in.WarGoal == model.WarGoalPeace {
			w.add(model.ApproachWar, -30)
			w.add(model.ApproachNeutral, 30)
		} else {
			w.add(model.ApproachWar, 20)
		}
	}
	if in.TradeIncome > 0 {
		bonus := clamp(in.TradeIncome, 0, 20)
		w.add(model.ApproachFriendly, bonus)
		w.add(model.ApproachWar, -bonus)
	}
	switch in.Proximity {
	case model.ProximityDistant, model.ProximityNone:
		w.add(model.ApproachWar, -30)
	case model.ProximityNeighbors:
		w.add(model.ApproachWar, 10)
		w.add(model.ApproachGuarded, 10)
	}
	if in.RecentPeace {
		w[model.ApproachWar] /= 4
	}
	if in.DuelGame {
		w.add(model.ApproachWar, 20)
		w.add(model.ApproachFriendly, -10)
	}
	if in.Friends {
		w.add(model.ApproachFriendly, 40)
		w[model.ApproachWar] = 0
	}
	if in.FriendsEnemy {
		w.add(model.ApproachHostile, 20)
	}
	if in.TheyAreHuman && p.Meanness >= 7 {
		w.add(model.ApproachDeceptive, 10)
	}

	ranking := make([]Weighted, 0, len(model.MajorApproaches))
	for _, a := range model.MajorApproaches {
		v := model.Jitter(rng, w[a], jitter)
		if v < 0 {
			v = 0
		}
		ranking = append(ranking, Weighted{Approach: a, Weight: v})
	}
	if in.CoopWarLocked {
		top := 0
		for _, r := range ranking {
			if r.Weight > top {
				top = r.Weight
			}
		}
		for i := range ranking {
			if ranking[i].Approach == model.ApproachWar {
				ranking[i].Weight = top + 1
			}
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].Weight > ranking[j].Weight })

	res := ApproachResult{Approach: ranking[0].Approach, Ranking: ranking}
	if res.Approach == model.ApproachWar {
		res.WarFace = warFace(ranking[1:])
	}
	return res
}

// warFace is what a player planning war shows its target, taken from the next best approach.
func warFace(rest []Weighted) model.WarFace {
	if len(rest) == 0 {
		return model.WarFaceNeutral
	}
	switch rest[0].Approach {
	case model.ApproachHostile:
		return model.WarFaceHostile
	case model.ApproachFriendly, model.ApproachDeceptive:
		return model.WarFaceFriendly
	}
	return model.WarFaceNeutral
}

func opinionRule(w weights, o model.Opinion) {
	switch o {
	case model.OpinionAlly:
		w.add(model.ApproachFriendly, 60)
	case model.OpinionFriend:
		w.add(model.ApproachFriendly, 40)
	case model.OpinionFavorable:
		w.add(model.ApproachFriendly, 20)
		w.add(model.ApproachNeutral, 10)
	case model.OpinionNeutral:
		w.add(model.ApproachNeutral, 20)
	case model.OpinionCompetitor:
		w.add(model.ApproachGuarded, 20)
		w.add(model.ApproachHostile, 10)
	case model.OpinionEnemy:
		w.add(model.ApproachHostile, 30)
		w.add(model.ApproachWar, 20)
	case model.OpinionUnforgivable:
		w.add(model.ApproachWar, 40)
		w.add(model.ApproachHostile, 30)
	default:
		model.Unhandled("stance.opinionRule", o)
	}
}

func threatRule(w weights, t model.Threat, theirs model.Strength) {
	switch t {
	case model.ThreatCritical:
		w.add(model.ApproachGuarded, 30)
		if theirs.Rank() >= model.StrengthStrong.Rank() {
			w.add(model.ApproachAfraid, 40)
		}
	case model.ThreatSevere:
		w.add(model.ApproachGuarded, 30)
		w.add(model.ApproachAfraid, 20)
	case model.ThreatMajor:
		w.add(model.ApproachGuarded, 20)
	case model.ThreatMinor:
		w.add(model.ApproachGuarded, 10)
	case model.ThreatNone:
	default:
		model.Unhandled("stance.threatRule", t)
	}
}

func targetRule(w weights, t model.TargetValue) {
	switch t {
	case model.TargetSoft:
		w.add(model.ApproachWar, 30)
	case model.TargetFavorable:
		w.add(model.ApproachWar, 20)
	case model.TargetBad:
		w.add(model.ApproachWar, -20)
	case model.TargetImpossible:
		w[model.ApproachWar] = 0
	case model.TargetAverage, model.TargetNone:
	default:
		model.Unhandled("stance.targetRule", t)
	}
}

// nukedWeight is not scored yet.
func nukedWeight() int { return 0 }

type MinorInput struct {
	Personality model.Personality
	Influence   int
	Proximity   model.Proximity
	Target      model.TargetValue
	// TheirStrength is the city-state's military relative to mine.
	TheirStrength model.Strength
	AtWar         bool
}

// SelectMinorApproach picks how a major treats a city-state.
func SelectMinorApproach(in MinorInput, jitter int, rng model.RNG) model.MinorApproach {
	p := in.Personality
	w := map[model.MinorApproach]int{
		model.MinorIgnore:     30,
		model.MinorFriendly:   in.Influence/2 + p.MinorCivCompetitive*5,
		model.MinorProtective: p.Loyalty * 3,
		model.MinorConquest:   p.Boldness * 3,
		model.MinorBully:      p.Meanness * 3,
	}
	switch in.Proximity {
	case model.ProximityNeighbors:
		w[model.MinorProtective] += 20
		w[model.MinorConquest] += 20
	case model.ProximityClose:
		w[model.MinorProtective] += 10
		w[model.MinorConquest] += 10
	case model.ProximityDistant, model.ProximityNone:
		w[model.MinorConquest] = 0
		w[model.MinorBully] /= 2
	}
	switch in.Target {
	case model.TargetSoft, model.TargetFavorable:
		w[model.MinorConquest] += 20
	case model.TargetBad, model.TargetImpossible:
		w[model.MinorConquest] = 0
	}
	if in.TheirStrength.Rank() <= model.StrengthWeak.Rank() {
		w[model.MinorBully] += 20
	}
	if in.AtWar {
		w[model.MinorConquest] += 40
	}
	best, bestW := model.MinorIgnore, -1
	for _, a := range model.MinorApproaches {
		v := model.Jitter(rng, w[a], jitter)
		if v > bestW {
			best, bestW = a, v
		}
	}
	return best
}
