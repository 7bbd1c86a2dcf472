package valuation

import "statecraft.ai/internal/sim/model"

func approachPercent(a model.MajorApproach) int {
	switch a {
	case model.ApproachFriendly:
		return 90
	case model.ApproachAfraid:
		return 80
	case model.ApproachGuarded:
		return 110
	case model.ApproachHostile:
		return 150
	case model.ApproachWar:
		return 200
	case model.ApproachNone, model.ApproachNeutral, model.ApproachDeceptive:
		return 100
	}
	model.Unhandled("valuation.approachPercent", a)
	return 100
}

func opinionPercent(o model.Opinion) int {
	switch o {
	case model.OpinionAlly:
		return 80
	case model.OpinionFriend:
		return 90
	case model.OpinionFavorable:
		return 95
	case model.OpinionNeutral:
		return 100
	case model.OpinionCompetitor:
		return 110
	case model.OpinionEnemy:
		return 130
	case model.OpinionUnforgivable:
		return 150
	}
	model.Unhandled("valuation.opinionPercent", o)
	return 100
}

// goldPercent is the value of 100 gold as seen by owner; modifiers only apply to gold owner gives away.
func (e Engine) goldPercent(owner, other model.PlayerID, fromOwner, perTurn bool) int {
	base := e.Tune.Deals.EachGoldValuePercent
	if perTurn {
		base = e.Tune.Deals.EachGPTValuePercent
	}
	if !fromOwner {
		return base
	}
	s := e.stance(owner, other)
	p := base * approachPercent(s.Approach) * opinionPercent(s.Opinion) / 10000
	if p < 1 {
		return 1
	}
	return p
}

func (e Engine) goldValue(owner, other model.PlayerID, amount int, fromOwner, roundUp, perTurn bool) int {
	return exchange(amount, false, roundUp, e.goldPercent(owner, other, fromOwner, perTurn))
}

func exchange(amount int, toGold, roundUp bool, p int) int {
	if toGold {
		add := 0
		if roundUp {
			add = p - 1
		}
		return (amount*100 + add) / p
	}
	add := 0
	if roundUp {
		add = 99
	}
	return (amount*p + add) / 100
}

// GoldForValueExchange converts gold into value for Me, or value into gold when toGold.
// roundUp rounds up instead of down.
func (e Engine) GoldForValueExchange(amount int, toGold, fromMe bool, other model.PlayerID, roundUp, perTurn bool) int {
	model.RequirePair("valuation.GoldForValueExchange", e.Me, other)
	return exchange(amount, toGold, roundUp, e.goldPercent(e.Me, other, fromMe, perTurn))
}

// GPTForValueExchange is GoldForValueExchange over a whole duration; toGold yields gold per turn.
func (e Engine) GPTForValueExchange(amount, duration int, toGold, fromMe bool, other model.PlayerID, roundUp bool) int {
	if duration <= 0 {
		return 0
	}
	if toGold {
		total := e.GoldForValueExchange(amount, true, fromMe, other, roundUp, true)
		if roundUp {
			return (total + duration - 1) / duration
		}
		return total / duration
	}
	return e.GoldForValueExchange(amount*duration, false, fromMe, other, roundUp, true)
}

func (e Engine) gptValue(owner, other model.PlayerID, amount, duration int, fromOwner bool) int {
	if duration <= 0 || amount <= 0 {
		return 0
	}
	v := e.goldValue(owner, other, amount*duration, fromOwner, false, true)
	if !fromOwner && e.World.GrossIncome(other) < amount {
		v /= 2
	}
	return v
}
