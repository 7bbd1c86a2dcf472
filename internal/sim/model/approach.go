package model

// MajorApproach is the posture a major civ takes toward another player.
// Ordering goes through Level, never through declaration order.
type MajorApproach int

const (
	ApproachNone MajorApproach = iota
	ApproachWar
	ApproachHostile
	ApproachDeceptive
	ApproachGuarded
	ApproachAfraid
	ApproachNeutral
	ApproachFriendly
)

// MajorApproaches lists every selectable approach in tie-break order.
var MajorApproaches = []MajorApproach{
	ApproachWar,
	ApproachHostile,
	ApproachDeceptive,
	ApproachGuarded,
	ApproachAfraid,
	ApproachNeutral,
	ApproachFriendly,
}

func (a MajorApproach) Level() int {
	switch a {
	case ApproachWar:
		return 0
	case ApproachHostile:
		return 10
	case ApproachDeceptive:
		return 25
	case ApproachGuarded:
		return 35
	case ApproachAfraid:
		return 45
	case ApproachNone, ApproachNeutral:
		return 50
	case ApproachFriendly:
		return 80
	}
	Unhandled("MajorApproach.Level", int(a))
	return 0
}

func (a MajorApproach) Less(b MajorApproach) bool { return a.Level() < b.Level() }

func (a MajorApproach) String() string {
	switch a {
	case ApproachNone:
		return "none"
	case ApproachWar:
		return "war"
	case ApproachHostile:
		return "hostile"
	case ApproachDeceptive:
		return "deceptive"
	case ApproachGuarded:
		return "guarded"
	case ApproachAfraid:
		return "afraid"
	case ApproachNeutral:
		return "neutral"
	case ApproachFriendly:
		return "friendly"
	}
	return "unknown"
}

// ApproachFromScore maps a continuous 0-100 approach score to the nearest category at or below it.
func ApproachFromScore(score int) MajorApproach {
	best := ApproachWar
	for _, a := range MajorApproaches {
		if a.Level() <= score && a.Level() >= best.Level() {
			best = a
		}
	}
	return best
}

// WarFace is the approach shown to the target while the true approach is war.
type WarFace int

const (
	WarFaceNone WarFace = iota
	WarFaceHostile
	WarFaceNeutral
	WarFaceFriendly
)

func (f WarFace) Approach() MajorApproach {
	switch f {
	case WarFaceHostile:
		return ApproachHostile
	case WarFaceFriendly:
		return ApproachFriendly
	case WarFaceNone, WarFaceNeutral:
		return ApproachNeutral
	}
	Unhandled("WarFace.Approach", int(f))
	return ApproachNeutral
}

func (f WarFace) String() string {
	switch f {
	case WarFaceHostile:
		return "hostile"
	case WarFaceNeutral:
		return "neutral"
	case WarFaceFriendly:
		return "friendly"
	}
	return "none"
}

// MinorApproach is the simplified approach of a major toward a city-state.
type MinorApproach int

const (
	MinorIgnore MinorApproach = iota
	MinorFriendly
	MinorProtective
	MinorConquest
	MinorBully
)

var MinorApproaches = []MinorApproach{MinorIgnore, MinorFriendly, MinorProtective, MinorConquest, MinorBully}

func (m MinorApproach) String() string {
	switch m {
	case MinorIgnore:
		return "ignore"
	case MinorFriendly:
		return "friendly"
	case MinorProtective:
		return "protective"
	case MinorConquest:
		return "conquest"
	case MinorBully:
		return "bully"
	}
	return "unknown"
}
