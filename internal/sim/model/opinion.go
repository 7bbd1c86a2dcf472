package model

// Opinion is the sentiment bucket derived from the opinion weight (lower weight is better).
type Opinion int

const (
	OpinionUnforgivable Opinion = iota
	OpinionEnemy
	OpinionCompetitor
	OpinionNeutral
	OpinionFavorable
	OpinionFriend
	OpinionAlly
)

// Rank orders opinions from unforgivable (0) to ally.
func (o Opinion) Rank() int {
	switch o {
	case OpinionUnforgivable:
		return 0
	case OpinionEnemy:
		return 1
	case OpinionCompetitor:
		return 2
	case OpinionNeutral:
		return 3
	case OpinionFavorable:
		return 4
	case OpinionFriend:
		return 5
	case OpinionAlly:
		return 6
	}
	Unhandled("Opinion.Rank", int(o))
	return 0
}

func (o Opinion) String() string {
	switch o {
	case OpinionUnforgivable:
		return "unforgivable"
	case OpinionEnemy:
		return "enemy"
	case OpinionCompetitor:
		return "competitor"
	case OpinionNeutral:
		return "neutral"
	case OpinionFavorable:
		return "favorable"
	case OpinionFriend:
		return "friend"
	case OpinionAlly:
		return "ally"
	}
	return "unknown"
}

type DisputeLevel int

const (
	DisputeNone DisputeLevel = iota
	DisputeWeak
	DisputeStrong
	DisputeFierce
)

func (d DisputeLevel) Rank() int {
	switch d {
	case DisputeNone:
		return 0
	case DisputeWeak:
		return 1
	case DisputeStrong:
		return 2
	case DisputeFierce:
		return 3
	}
	Unhandled("DisputeLevel.Rank", int(d))
	return 0
}

func (d DisputeLevel) String() string {
	switch d {
	case DisputeNone:
		return "none"
	case DisputeWeak:
		return "weak"
	case DisputeStrong:
		return "strong"
	case DisputeFierce:
		return "fierce"
	}
	return "unknown"
}

type AggressivePosture int

const (
	PostureNone AggressivePosture = iota
	PostureLow
	PostureMedium
	PostureHigh
	PostureIncredible
)

func (p AggressivePosture) Rank() int {
	switch p {
	case PostureNone:
		return 0
	case PostureLow:
		return 1
	case PostureMedium:
		return 2
	case PostureHigh:
		return 3
	case PostureIncredible:
		return 4
	}
	Unhandled("AggressivePosture.Rank", int(p))
	return 0
}

func (p AggressivePosture) String() string {
	switch p {
	case PostureNone:
		return "none"
	case PostureLow:
		return "low"
	case PostureMedium:
		return "medium"
	case PostureHigh:
		return "high"
	case PostureIncredible:
		return "incredible"
	}
	return "unknown"
}

type Proximity int

const (
	ProximityNone Proximity = iota
	ProximityDistant
	ProximityFar
	ProximityClose
	ProximityNeighbors
)

// Rank orders proximity from none (0) to neighbors.
func (p Proximity) Rank() int {
	switch p {
	case ProximityNone:
		return 0
	case ProximityDistant:
		return 1
	case ProximityFar:
		return 2
	case ProximityClose:
		return 3
	case ProximityNeighbors:
		return 4
	}
	Unhandled("Proximity.Rank", int(p))
	return 0
}

func (p Proximity) String() string {
	switch p {
	case ProximityNone:
		return "none"
	case ProximityDistant:
		return "distant"
	case ProximityFar:
		return "far"
	case ProximityClose:
		return "close"
	case ProximityNeighbors:
		return "neighbors"
	}
	return "unknown"
}

type Threat int

const (
	ThreatNone Threat = iota
	ThreatMinor
	ThreatMajor
	ThreatSevere
	ThreatCritical
)

func (t Threat) Rank() int {
	switch t {
	case ThreatNone:
		return 0
	case ThreatMinor:
		return 1
	case ThreatMajor:
		return 2
	case ThreatSevere:
		return 3
	case ThreatCritical:
		return 4
	}
	Unhandled("Threat.Rank", int(t))
	return 0
}

func (t Threat) String() string {
	switch t {
	case ThreatNone:
		return "none"
	case ThreatMinor:
		return "minor"
	case ThreatMajor:
		return "major"
	case ThreatSevere:
		return "severe"
	case ThreatCritical:
		return "critical"
	}
	return "unknown"
}

// Strength compares a player's strength against ours.
type Strength int

const (
	StrengthPathetic Strength = iota
	StrengthWeak
	StrengthPoor
	StrengthAverage
	StrengthStrong
	StrengthPowerful
	StrengthImmense
)

// Rank orders strengths from pathetic (0) to immense.
func (s Strength) Rank() int {
	switch s {
	case StrengthPathetic:
		return 0
	case StrengthWeak:
		return 1
	case StrengthPoor:
		return 2
	case StrengthAverage:
		return 3
	case StrengthStrong:
		return 4
	case StrengthPowerful:
		return 5
	case StrengthImmense:
		return 6
	}
	Unhandled("Strength.Rank", int(s))
	return 0
}

func (s Strength) String() string {
	switch s {
	case StrengthPathetic:
		return "pathetic"
	case StrengthWeak:
		return "weak"
	case StrengthPoor:
		return "poor"
	case StrengthAverage:
		return "average"
	case StrengthStrong:
		return "strong"
	case StrengthPowerful:
		return "powerful"
	case StrengthImmense:
		return "immense"
	}
	return "unknown"
}

// TargetValue is how attractive a player is as a conquest target.
type TargetValue int

const (
	TargetNone TargetValue = iota
	TargetImpossible
	TargetBad
	TargetAverage
	TargetFavorable
	TargetSoft
)

// Rank orders targets from impossible (0) to soft; none ranks below all.
func (t TargetValue) Rank() int {
	switch t {
	case TargetNone:
		return -1
	case TargetImpossible:
		return 0
	case TargetBad:
		return 1
	case TargetAverage:
		return 2
	case TargetFavorable:
		return 3
	case TargetSoft:
		return 4
	}
	Unhandled("TargetValue.Rank", int(t))
	return 0
}

func (t TargetValue) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetImpossible:
		return "impossible"
	case TargetBad:
		return "bad"
	case TargetAverage:
		return "average"
	case TargetFavorable:
		return "favorable"
	case TargetSoft:
		return "soft"
	}
	return "unknown"
}
