package stance

import (
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/tuning"
)

type PeaceInput struct {
	AtWar              bool
	TurnsLockedIntoWar int
	WarGoal            model.WarGoal
	WantPeaceCounter   int
	TurnsAtWar         int
}

// WantsPeace never holds while locked into a coop war, however badly the war goes.
func WantsPeace(in PeaceInput, tune tuning.War) bool {
	if !in.AtWar || in.TurnsLockedIntoWar > 0 {
		return false
	}
	if in.TurnsAtWar < tune.MinTurnsBeforePeace && in.WarGoal != model.WarGoalPeace {
		return false
	}
	return in.WarGoal == model.WarGoalPeace || in.WantPeaceCounter >= tune.WantPeaceTurns
}

// NextWantPeaceCounter counts consecutive turns the war has not gone well.
func NextWantPeaceCounter(cur int, atWar bool, p model.WarProjection) int {
	if !atWar {
		return 0
	}
	if p.Rank() <= model.ProjectionStalemate.Rank() {
		return cur + 1
	}
	return 0
}

// PeaceWillingToOffer is the most this side would concede.
func PeaceWillingToOffer(p model.WarProjection, st model.WarState) model.PeaceTreatyType {
	switch p {
	case model.ProjectionDestruction:
		if st == model.WarStateNearlyDefeated {
			return model.PeaceUnconditionalSurrender
		}
		return model.PeaceCapitulation
	case model.ProjectionDefeat:
		if st == model.WarStateDefensive || st == model.WarStateNearlyDefeated {
			return model.PeaceSurrender
		}
		return model.PeaceSubmission
	case model.ProjectionStalemate:
		return model.PeaceArmistice
	case model.ProjectionUnknown, model.ProjectionGood, model.ProjectionVeryGood:
		return model.PeaceWhite
	}
	model.Unhandled("stance.PeaceWillingToOffer", p)
	return model.PeaceWhite
}

// PeaceWillingToAccept is the least this side demands from the other.
func PeaceWillingToAccept(p model.WarProjection, st model.WarState) model.PeaceTreatyType {
	switch p {
	case model.ProjectionVeryGood:
		if st == model.WarStateNearlyWon {
			return model.PeaceCapitulation
		}
		return model.PeaceCession
	case model.ProjectionGood:
		if st == model.WarStateOffensive || st == model.WarStateNearlyWon {
			return model.PeaceSubmission
		}
		return model.PeaceBackdown
	case model.ProjectionStalemate:
		return model.PeaceArmistice
	case model.ProjectionUnknown, model.ProjectionDefeat, model.ProjectionDestruction:
		return model.PeaceWhite
	}
	model.Unhandled("stance.PeaceWillingToAccept", p)
	return model.PeaceWhite
}

type EstimateInput struct {
	AtWar     bool
	Friends   bool
	Denounced bool
	// Share is the first player's percentage of the pair's combined military.
	Share int
}

// EstimateOther guesses how one player stands toward another from what is publicly visible.
func EstimateOther(in EstimateInput) relations.Estimate {
	switch {
	case in.AtWar:
		st := model.WarStateStalemate
		switch {
		case in.Share < 25:
			st = model.WarStateNearlyDefeated
		case in.Share < 40:
			st = model.WarStateDefensive
		case in.Share >= 75:
			st = model.WarStateNearlyWon
		case in.Share >= 60:
			st = model.WarStateOffensive
		}
		return relations.Estimate{Approach: model.ApproachWar, WarState: st}
	case in.Denounced:
		return relations.Estimate{Approach: model.ApproachHostile, WarState: model.WarStateNone}
	case in.Friends:
		return relations.Estimate{Approach: model.ApproachFriendly, WarState: model.WarStateNone}
	}
	return relations.Estimate{Approach: model.ApproachNeutral, WarState: model.WarStateNone}
}
