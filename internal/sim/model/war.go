package model

type WarState int

const (
	WarStateNone WarState = iota
	WarStateNearlyDefeated
	WarStateDefensive
	WarStateStalemate
	WarStateCalm
	WarStateOffensive
	WarStateNearlyWon
)

// Rank orders war states from worst (nearly defeated) to best (nearly won); none ranks below all.
func (w WarState) Rank() int {
	switch w {
	case WarStateNone:
		return -1
	case WarStateNearlyDefeated:
		return 0
	case WarStateDefensive:
		return 1
	case WarStateStalemate:
		return 2
	case WarStateCalm:
		return 3
	case WarStateOffensive:
		return 4
	case WarStateNearlyWon:
		return 5
	}
	Unhandled("WarState.Rank", int(w))
	return 0
}

func (w WarState) String() string {
	switch w {
	case WarStateNone:
		return "none"
	case WarStateNearlyDefeated:
		return "nearly_defeated"
	case WarStateDefensive:
		return "defensive"
	case WarStateStalemate:
		return "stalemate"
	case WarStateCalm:
		return "calm"
	case WarStateOffensive:
		return "offensive"
	case WarStateNearlyWon:
		return "nearly_won"
	}
	return "unknown"
}

type WarProjection int

const (
	ProjectionUnknown WarProjection = iota
	ProjectionDestruction
	ProjectionDefeat
	ProjectionStalemate
	ProjectionGood
	ProjectionVeryGood
)

// Rank orders projections; unknown sits between stalemate and good.
func (p WarProjection) Rank() int {
	switch p {
	case ProjectionDestruction:
		return 0
	case ProjectionDefeat:
		return 1
	case ProjectionStalemate:
		return 2
	case ProjectionUnknown:
		return 3
	case ProjectionGood:
		return 4
	case ProjectionVeryGood:
		return 5
	}
	Unhandled("WarProjection.Rank", int(p))
	return 0
}

func (p WarProjection) String() string {
	switch p {
	case ProjectionUnknown:
		return "unknown"
	case ProjectionDestruction:
		return "destruction"
	case ProjectionDefeat:
		return "defeat"
	case ProjectionStalemate:
		return "stalemate"
	case ProjectionGood:
		return "good"
	case ProjectionVeryGood:
		return "very_good"
	}
	return "unknown"
}

type WarDamageLevel int

const (
	WarDamageNone WarDamageLevel = iota
	WarDamageMinor
	WarDamageMajor
	WarDamageSerious
	WarDamageCrippled
)

func (d WarDamageLevel) String() string {
	switch d {
	case WarDamageNone:
		return "none"
	case WarDamageMinor:
		return "minor"
	case WarDamageMajor:
		return "major"
	case WarDamageSerious:
		return "serious"
	case WarDamageCrippled:
		return "crippled"
	}
	return "unknown"
}

type WarGoal int

const (
	WarGoalNone WarGoal = iota
	WarGoalDemand
	WarGoalPrepare
	WarGoalConquest
	WarGoalDamage
	WarGoalPeace
)

func (g WarGoal) String() string {
	switch g {
	case WarGoalNone:
		return "none"
	case WarGoalDemand:
		return "demand"
	case WarGoalPrepare:
		return "prepare"
	case WarGoalConquest:
		return "conquest"
	case WarGoalDamage:
		return "damage"
	case WarGoalPeace:
		return "peace"
	}
	return "unknown"
}

// PeaceTreatyType orders peace terms from white peace (nothing changes hands) to
// unconditional surrender.
type PeaceTreatyType int

const (
	PeaceNone PeaceTreatyType = iota
	PeaceWhite
	PeaceArmistice
	PeaceSettlement
	PeaceBackdown
	PeaceSubmission
	PeaceSurrender
	PeaceCession
	PeaceCapitulation
	PeaceUnconditionalSurrender
)

// Value is -1 for none and 0..8 from white peace up.
func (t PeaceTreatyType) Value() int {
	switch t {
	case PeaceNone:
		return -1
	case PeaceWhite:
		return 0
	case PeaceArmistice:
		return 1
	case PeaceSettlement:
		return 2
	case PeaceBackdown:
		return 3
	case PeaceSubmission:
		return 4
	case PeaceSurrender:
		return 5
	case PeaceCession:
		return 6
	case PeaceCapitulation:
		return 7
	case PeaceUnconditionalSurrender:
		return 8
	}
	Unhandled("PeaceTreatyType.Value", int(t))
	return -1
}

func (t PeaceTreatyType) Less(o PeaceTreatyType) bool { return t.Value() < o.Value() }

func (t PeaceTreatyType) String() string {
	switch t {
	case PeaceNone:
		return "none"
	case PeaceWhite:
		return "white_peace"
	case PeaceArmistice:
		return "armistice"
	case PeaceSettlement:
		return "settlement"
	case PeaceBackdown:
		return "backdown"
	case PeaceSubmission:
		return "submission"
	case PeaceSurrender:
		return "surrender"
	case PeaceCession:
		return "cession"
	case PeaceCapitulation:
		return "capitulation"
	case PeaceUnconditionalSurrender:
		return "unconditional_surrender"
	}
	return "unknown"
}
