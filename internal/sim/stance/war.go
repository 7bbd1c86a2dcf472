package stance

import (
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/tuning"
)

// Front is the strength in contact on one side of a war, split by where the fighting is.
type Front struct {
	// MyHome and EnemyHome are forces near my cities.
	MyHome    int
	EnemyHome int
	// MyForeign and EnemyForeign are forces near their cities.
	MyForeign    int
	EnemyForeign int
}

type WarStateInput struct {
	AtWar bool
	Front Front
	// EasyTarget is set when the enemy is a soft or favorable target.
	EasyTarget bool
	// Idle means none of my units are engaged anywhere else.
	Idle bool
}

func EvaluateWarState(in WarStateInput, tune tuning.War) model.WarState {
	if !in.AtWar {
		return model.WarStateNone
	}
	f := in.Front
	my := f.MyHome + f.MyForeign
	enemy := f.EnemyHome + f.EnemyForeign
	if my+enemy == 0 || my+enemy < tune.CalmForceThreshold {
		if in.EasyTarget && in.Idle {
			return model.WarStateOffensive
		}
		return model.WarStateCalm
	}
	share := my * 100 / (my + enemy)
	var st model.WarState
	switch {
	case share < 25:
		st = model.WarStateNearlyDefeated
	case share < 40:
		st = model.WarStateDefensive
	case share < 60:
		st = model.WarStateStalemate
	case share < 75:
		st = model.WarStateOffensive
	default:
		st = model.WarStateNearlyWon
	}
	// holding the home front two to one is never worse than a stalemate
	if f.EnemyHome > 0 && f.MyHome >= 2*f.EnemyHome && st.Rank() < model.WarStateStalemate.Rank() {
		st = model.WarStateStalemate
	}
	return st
}

type ProjectionInput struct {
	AtWar bool
	// MilitaryRatio and EconomicRatio are mine*100/theirs.
	MilitaryRatio int
	EconomicRatio int
	Inflicted     model.WarDamageLevel
	Suffered      model.WarDamageLevel
	MyScore       int
	TheirScore    int
	TurnsAtWar    int
	Target        model.TargetValue
}

// WarScore is the raw number behind EvaluateProjection.
func WarScore(in ProjectionInput, tune tuning.War) int {
	s := clamp(in.MilitaryRatio-100, -50, 50)
	s += clamp((in.EconomicRatio-100)/2, -25, 25)
	s += 10 * (int(in.Inflicted) - int(in.Suffered))
	s += clamp(ratio(in.MyScore, in.TheirScore)-100, -50, 50)
	s -= clamp(in.TurnsAtWar/3, 0, tune.DurationPenaltyCap)
	return s
}

func EvaluateProjection(in ProjectionInput, tune tuning.War) model.WarProjection {
	if !in.AtWar {
		return model.ProjectionUnknown
	}
	s := WarScore(in, tune)
	var p model.WarProjection
	switch {
	case s >= 60:
		p = model.ProjectionVeryGood
	case s >= 25:
		p = model.ProjectionGood
	case s > -25:
		p = model.ProjectionStalemate
	case s > -60:
		p = model.ProjectionDefeat
	default:
		p = model.ProjectionDestruction
	}
	if in.Target == model.TargetBad || in.Target == model.TargetImpossible {
		if p.Rank() > model.ProjectionStalemate.Rank() {
			p = model.ProjectionStalemate
		}
	}
	return p
}

// DamageLevel rates value lost as a share of what the victim started with.
func DamageLevel(lost, total int) model.WarDamageLevel {
	if lost <= 0 {
		return model.WarDamageNone
	}
	pct := ratio(lost, total)
	switch {
	case pct >= 50:
		return model.WarDamageCrippled
	case pct >= 30:
		return model.WarDamageSerious
	case pct >= 15:
		return model.WarDamageMajor
	case pct >= 5:
		return model.WarDamageMinor
	}
	return model.WarDamageNone
}

type WarGoalInput struct {
	AtWar      bool
	Approach   model.MajorApproach
	Projection model.WarProjection
	Target     model.TargetValue
	TurnsAtWar int
	// Demanding is set while a demand to this player is outstanding.
	Demanding bool
}

func EvaluateWarGoal(in WarGoalInput, tune tuning.War) model.WarGoal {
	if !in.AtWar {
		switch {
		case in.Demanding:
			return model.WarGoalDemand
		case in.Approach == model.ApproachWar:
			return model.WarGoalPrepare
		}
		return model.WarGoalNone
	}
	switch in.Projection {
	case model.ProjectionDestruction, model.ProjectionDefeat:
		return model.WarGoalPeace
	case model.ProjectionGood, model.ProjectionVeryGood:
		if in.Target.Rank() >= model.TargetAverage.Rank() {
			return model.WarGoalConquest
		}
		return model.WarGoalDamage
	}
	if in.TurnsAtWar >= tune.MinTurnsBeforePeace {
		return model.WarGoalPeace
	}
	return model.WarGoalDamage
}
