package valuation

import (
	"statecraft.ai/internal/sim/model"
)

// dislikePercent scales what owner gives to players it dislikes, capped at 5x.
func dislikePercent(a model.MajorApproach, o model.Opinion) int {
	ap := 100
	switch a {
	case model.ApproachWar:
		ap = 500
	case model.ApproachHostile:
		ap = 300
	case model.ApproachGuarded:
		ap = 150
	case model.ApproachDeceptive:
		ap = 120
	}
	op := 100
	switch o {
	case model.OpinionUnforgivable:
		op = 500
	case model.OpinionEnemy:
		op = 300
	case model.OpinionCompetitor:
		op = 150
	}
	if op > ap {
		ap = op
	}
	if ap > 500 {
		ap = 500
	}
	return ap
}

func (e Engine) dislike(owner, other model.PlayerID, v int) int {
	s := e.stance(owner, other)
	return v * dislikePercent(s.Approach, s.Opinion) / 100
}

func (e Engine) resourceValue(owner, other model.PlayerID, q Item, fromOwner bool) int {
	info, ok := e.World.ResourceInfo(q.Resource)
	model.Require(ok, "valuation.resourceValue", "unknown resource %q", q.Resource)
	if q.Amount <= 0 || q.Duration <= 0 {
		return 0
	}
	owned := e.World.ResourceOwned(owner, q.Resource)
	var v int
	switch info.Class {
	case model.ResourceLuxury:
		v = q.Amount * info.Happiness * q.Duration * 2
		if fromOwner && owned == 1 {
			v *= 3
		}
		if !fromOwner && owned > 0 {
			v /= 2
		}
	case model.ResourceStrategic:
		v = q.Amount * q.Duration * 3 / 2
		if !fromOwner && owned >= e.Tune.Deals.StrategicSurplus {
			v = 0
		}
	case model.ResourceBonus:
		v = q.Amount * q.Duration / 2
	default:
		model.Unhandled("valuation.resourceValue", info.Class)
	}
	if fromOwner {
		v = e.dislike(owner, other, v)
	}
	return v
}

func projectionPercent(p model.WarProjection) int {
	switch p {
	case model.ProjectionDestruction:
		return 100
	case model.ProjectionDefeat:
		return 150
	case model.ProjectionStalemate, model.ProjectionUnknown:
		return 200
	case model.ProjectionGood:
		return 300
	case model.ProjectionVeryGood:
		return 400
	}
	model.Unhandled("valuation.projectionPercent", p)
	return 200
}

// CityBaseValue is the value of a city before diplomatic scaling.
func (e Engine) CityBaseValue(id model.CityID) int {
	c, ok := e.World.City(id)
	model.Require(ok, "valuation.CityBaseValue", "unknown city %d", id)
	v := 440 + c.Population*200
	r := e.Tune.Deals.CityValueRadius
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			v += e.World.TileValue(model.Point{X: c.Location.X + dx, Y: c.Location.Y + dy})
		}
	}
	if c.Wonders > 0 {
		v *= 2
	}
	return v
}

func (e Engine) cityValue(owner, other model.PlayerID, id model.CityID, fromOwner bool) int {
	v := e.CityBaseValue(id)
	if fromOwner {
		s := e.stance(owner, other)
		if e.World.IsAtWar(owner, other) {
			v = v * projectionPercent(s.WarProjection) / 100
		} else {
			v = v * 2
		}
		return v
	}
	if e.World.IsHuman(other) && !e.World.IsHuman(owner) {
		c, _ := e.World.City(id)
		pct := 100 - 3*e.distanceToNearestCity(owner, c.Location)
		if pct < 25 {
			pct = 25
		}
		v = v * pct / 100
	}
	return v
}

func (e Engine) distanceToNearestCity(p model.PlayerID, pt model.Point) int {
	best := -1
	for _, c := range e.World.Cities(p) {
		if d := model.Distance(c.Location, pt); best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func eraBonus(e model.Era, step int) int { return int(e) * step }

func (e Engine) embassyValue(owner, other model.PlayerID, fromOwner bool) int {
	v := 25 + eraBonus(e.World.Era(owner), 10)
	if fromOwner {
		return e.dislike(owner, other, v)
	}
	return v
}

func (e Engine) delegationValue(owner, other model.PlayerID, fromOwner bool) int {
	if fromOwner {
		return e.dislike(owner, other, 10)
	}
	return 10
}

func proximityValue(p model.Proximity) int {
	switch p {
	case model.ProximityNeighbors:
		return 100
	case model.ProximityClose:
		return 75
	case model.ProximityFar:
		return 40
	case model.ProximityDistant:
		return 20
	case model.ProximityNone:
		return 10
	}
	model.Unhandled("valuation.proximityValue", p)
	return 10
}

// openBordersValue scales by how close the players are, per 30 turns.
func (e Engine) openBordersValue(owner, other model.PlayerID, duration int, fromOwner bool) int {
	if duration <= 0 {
		return 0
	}
	s := e.stance(owner, other)
	v := proximityValue(s.Proximity) * duration / 30
	if fromOwner {
		if s.Approach == model.ApproachFriendly {
			v /= 2
		}
		return e.dislike(owner, other, v)
	}
	return v / 2
}

func (e Engine) defensivePactValue(owner, other model.PlayerID, fromOwner bool) int {
	v := 100 + eraBonus(e.World.Era(owner), 25)
	if fromOwner {
		return e.dislike(owner, other, v)
	}
	mine := e.World.MilitaryStrength(owner)
	if mine < 1 {
		mine = 1
	}
	ratio := e.World.MilitaryStrength(other) * 100 / mine
	if ratio > 300 {
		ratio = 300
	}
	return v * ratio / 100
}

func (e Engine) researchAgreementValue(owner model.PlayerID, fromOwner bool) int {
	cost := e.Tune.Deals.ResearchAgreementCost * (int(e.World.Era(owner)) + 1)
	if fromOwner {
		return cost
	}
	return cost * 3 / 2
}

// peaceValue: giving peace costs a winner; receiving it is worth most to a loser.
func (e Engine) peaceValue(owner, other model.PlayerID, fromOwner bool) int {
	s := e.stance(owner, other)
	scale := int(e.World.Era(owner)) + 1
	if fromOwner {
		switch s.WarProjection {
		case model.ProjectionVeryGood:
			return 400 * scale
		case model.ProjectionGood:
			return 200 * scale
		case model.ProjectionStalemate, model.ProjectionUnknown:
			return 50 * scale
		}
		return 0
	}
	switch s.WarProjection {
	case model.ProjectionDestruction:
		return 400 * scale
	case model.ProjectionDefeat:
		return 200 * scale
	case model.ProjectionStalemate, model.ProjectionUnknown:
		return 50 * scale
	}
	return 0
}

func (e Engine) thirdPartyPeaceValue(owner, third model.PlayerID, fromOwner bool) int {
	if !fromOwner {
		return Unacceptable
	}
	if !third.Valid() || third == owner {
		return 0
	}
	s := e.stance(owner, third)
	switch s.WarProjection {
	case model.ProjectionVeryGood, model.ProjectionGood:
		return 300
	}
	return 50
}

func (e Engine) thirdPartyWarValue(owner, third model.PlayerID, fromOwner bool) int {
	if !third.Valid() || third == owner {
		return 0
	}
	s := e.stance(owner, third)
	if fromOwner {
		v := 300 + eraBonus(e.World.Era(owner), 20)
		switch s.Approach {
		case model.ApproachFriendly, model.ApproachAfraid:
			v *= 3
		case model.ApproachWar, model.ApproachHostile:
			v /= 2
		}
		return v
	}
	switch s.Approach {
	case model.ApproachWar, model.ApproachHostile:
		return 200
	case model.ApproachGuarded, model.ApproachDeceptive:
		return 50
	}
	return 0
}

func (e Engine) friendshipValue(owner, other model.PlayerID, fromOwner bool) int {
	s := e.stance(owner, other)
	if fromOwner {
		switch s.Approach {
		case model.ApproachFriendly:
			return 0
		case model.ApproachNeutral, model.ApproachAfraid:
			return 100
		}
		return 500
	}
	if s.Approach == model.ApproachFriendly {
		return 100
	}
	return 0
}
