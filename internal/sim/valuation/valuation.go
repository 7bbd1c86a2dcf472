// Package valuation prices trade items and whole deals from one player's point of view.
package valuation

import (
	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/worldview"
)

// Unacceptable marks an item the owner must never request; it is the only negative value.
const Unacceptable = -1_000_000

// Item is the part of a trade item that matters for pricing.
type Item struct {
	Kind       model.TradeItemType
	Amount     int
	Duration   int
	Resource   model.ResourceType
	City       model.CityID
	ThirdParty model.PlayerID
}

func ItemOf(it deals.TradeItem) Item {
	return Item{
		Kind:       it.Kind,
		Amount:     it.Amount,
		Duration:   it.Duration,
		Resource:   it.Resource,
		City:       it.City,
		ThirdParty: it.ThirdParty,
	}
}

// Engine prices items for Me. It is rebuilt each turn with the current view.
type Engine struct {
	Me        model.PlayerID
	World     worldview.View
	Relations relations.Reader
	Tune      tuning.Tuning
}

func New(me model.PlayerID, w worldview.View, r relations.Reader, tune tuning.Tuning) Engine {
	return Engine{Me: me, World: w, Relations: r, Tune: tune}
}

// stance is the owner's view of the subject, neutral when they have not met.
func (e Engine) stance(owner, subject model.PlayerID) relations.State {
	if e.Relations != nil {
		if s, ok := e.Relations.StateOf(owner, subject); ok {
			return s
		}
	}
	return relations.State{
		Subject:       subject,
		Approach:      model.ApproachNeutral,
		Opinion:       model.OpinionNeutral,
		WarProjection: model.ProjectionUnknown,
		Proximity:     model.ProximityNone,
	}
}

// TradeItemValue is what q is worth to Me, given by Me when fromMe, otherwise received from other.
// With useEven the price is averaged with other's price for the inverse direction.
func (e Engine) TradeItemValue(q Item, fromMe bool, other model.PlayerID, useEven bool) int {
	model.RequirePair("valuation.TradeItemValue", e.Me, other)
	mine := e.value(e.Me, other, q, fromMe)
	if !useEven || mine == Unacceptable {
		return mine
	}
	theirs := e.value(other, e.Me, q, !fromMe)
	if theirs == Unacceptable {
		return mine
	}
	return (mine + theirs) / 2
}

// DealValue sums the deal for Me: total = theirs - mine. An empty deal is worth (0, 0, 0).
func (e Engine) DealValue(d *deals.Deal, useEven bool) (total, mine, theirs int) {
	if d.IsEmpty() {
		return 0, 0, 0
	}
	other := d.Other(e.Me)
	for _, it := range d.Items {
		fromMe := d.Giver(it) == e.Me
		v := e.TradeItemValue(ItemOf(it), fromMe, other, useEven)
		if fromMe {
			mine += v
		} else {
			theirs += v
		}
	}
	return theirs - mine, mine, theirs
}

func (e Engine) value(owner, other model.PlayerID, q Item, fromOwner bool) int {
	var v int
	switch q.Kind {
	case model.ItemGold:
		v = e.goldValue(owner, other, q.Amount, fromOwner, false, false)
	case model.ItemGoldPerTurn:
		v = e.gptValue(owner, other, q.Amount, q.Duration, fromOwner)
	case model.ItemResource:
		v = e.resourceValue(owner, other, q, fromOwner)
	case model.ItemCity:
		v = e.cityValue(owner, other, q.City, fromOwner)
	case model.ItemAllowEmbassy:
		v = e.embassyValue(owner, other, fromOwner)
	case model.ItemAllowDelegation:
		v = e.delegationValue(owner, other, fromOwner)
	case model.ItemOpenBorders:
		v = e.openBordersValue(owner, other, q.Duration, fromOwner)
	case model.ItemDefensivePact:
		v = e.defensivePactValue(owner, other, fromOwner)
	case model.ItemResearchAgreement:
		v = e.researchAgreementValue(owner, fromOwner)
	case model.ItemPeaceTreaty:
		v = e.peaceValue(owner, other, fromOwner)
	case model.ItemThirdPartyPeace:
		v = e.thirdPartyPeaceValue(owner, q.ThirdParty, fromOwner)
	case model.ItemThirdPartyWar:
		v = e.thirdPartyWarValue(owner, q.ThirdParty, fromOwner)
	case model.ItemDeclarationOfFriendship:
		v = e.friendshipValue(owner, other, fromOwner)
	case model.ItemVoteCommitment:
		v = voteCommitmentValue()
	default:
		model.Unhandled("valuation.value", q.Kind)
	}
	model.Require(v >= 0 || v == Unacceptable, "valuation.value", "%s priced at %d by %s", q.Kind, v, owner)
	return v
}

// voteCommitmentValue is not scored yet.
func voteCommitmentValue() int { return 0 }
