// Package stance holds the per-axis evaluators a diplomacy AI runs each turn.
// Every function is pure: inputs in, a category out.
package stance

import (
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/tuning"
)

func ratio(a, b int) int {
	if b < 1 {
		b = 1
	}
	return a * 100 / b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CompareStrength rates theirs relative to mine.
func CompareStrength(mine, theirs int) model.Strength {
	r := ratio(theirs, mine)
	switch {
	case r >= 250:
		return model.StrengthImmense
	case r >= 175:
		return model.StrengthPowerful
	case r >= 125:
		return model.StrengthStrong
	case r >= 80:
		return model.StrengthAverage
	case r >= 55:
		return model.StrengthPoor
	case r >= 30:
		return model.StrengthWeak
	}
	return model.StrengthPathetic
}

// ProximityOf maps the shortest city-to-city distance; negative means one side has no cities.
func ProximityOf(minDistance int, p tuning.Proximity) model.Proximity {
	switch {
	case minDistance < 0:
		return model.ProximityNone
	case minDistance <= p.Neighbors:
		return model.ProximityNeighbors
	case minDistance <= p.Close:
		return model.ProximityClose
	case minDistance <= p.Far:
		return model.ProximityFar
	}
	return model.ProximityDistant
}

func proximityPercent(p model.Proximity) int {
	switch p {
	case model.ProximityNeighbors:
		return 150
	case model.ProximityClose:
		return 100
	case model.ProximityFar:
		return 60
	case model.ProximityDistant:
		return 30
	case model.ProximityNone:
		return 0
	}
	model.Unhandled("stance.proximityPercent", p)
	return 0
}

type ThreatInput struct {
	MyStrength    int
	TheirStrength int
	Proximity     model.Proximity
	AtWar         bool
}

func MilitaryThreat(in ThreatInput) model.Threat {
	score := ratio(in.TheirStrength, in.MyStrength) * proximityPercent(in.Proximity) / 100
	if in.AtWar {
		score += 50
	}
	switch {
	case score >= 300:
		return model.ThreatCritical
	case score >= 200:
		return model.ThreatSevere
	case score >= 130:
		return model.ThreatMajor
	case score >= 80:
		return model.ThreatMinor
	}
	return model.ThreatNone
}

// WarmongerThreat weighs their warmonger score by how much the observer hates warmongers (1..10).
func WarmongerThreat(score, hate int) model.Threat {
	s := score * hate / 5
	switch {
	case s >= 200:
		return model.ThreatCritical
	case s >= 120:
		return model.ThreatSevere
	case s >= 60:
		return model.ThreatMajor
	case s >= 20:
		return model.ThreatMinor
	}
	return model.ThreatNone
}

type TargetInput struct {
	MyStrength    int
	TheirStrength int
	Proximity     model.Proximity
	TheirCities   int
	// OtherWars counts the target's wars with players other than the evaluator.
	OtherWars int
}

func EvaluateTarget(in TargetInput) model.TargetValue {
	if in.Proximity == model.ProximityNone || in.TheirCities == 0 {
		return model.TargetImpossible
	}
	v := ratio(in.MyStrength, in.TheirStrength)
	switch in.Proximity {
	case model.ProximityDistant:
		v -= 40
	case model.ProximityFar:
		v -= 20
	case model.ProximityNeighbors:
		v += 20
	}
	v += 20 * clamp(in.OtherWars, 0, 2)
	switch {
	case v >= 200:
		return model.TargetSoft
	case v >= 140:
		return model.TargetFavorable
	case v >= 90:
		return model.TargetAverage
	case v >= 50:
		return model.TargetBad
	}
	return model.TargetImpossible
}
