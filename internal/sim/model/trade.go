package model

type TradeItemType int

const (
	ItemGold TradeItemType = iota
	ItemGoldPerTurn
	ItemResource
	ItemCity
	ItemAllowDelegation
	ItemAllowEmbassy
	ItemOpenBorders
	ItemDefensivePact
	ItemResearchAgreement
	ItemPeaceTreaty
	ItemThirdPartyPeace
	ItemThirdPartyWar
	ItemDeclarationOfFriendship
	ItemVoteCommitment
)

var TradeItemTypes = []TradeItemType{
	ItemGold,
	ItemGoldPerTurn,
	ItemResource,
	ItemCity,
	ItemAllowDelegation,
	ItemAllowEmbassy,
	ItemOpenBorders,
	ItemDefensivePact,
	ItemResearchAgreement,
	ItemPeaceTreaty,
	ItemThirdPartyPeace,
	ItemThirdPartyWar,
	ItemDeclarationOfFriendship,
	ItemVoteCommitment,
}

func (t TradeItemType) String() string {
	switch t {
	case ItemGold:
		return "gold"
	case ItemGoldPerTurn:
		return "gold_per_turn"
	case ItemResource:
		return "resource"
	case ItemCity:
		return "city"
	case ItemAllowDelegation:
		return "allow_delegation"
	case ItemAllowEmbassy:
		return "allow_embassy"
	case ItemOpenBorders:
		return "open_borders"
	case ItemDefensivePact:
		return "defensive_pact"
	case ItemResearchAgreement:
		return "research_agreement"
	case ItemPeaceTreaty:
		return "peace_treaty"
	case ItemThirdPartyPeace:
		return "third_party_peace"
	case ItemThirdPartyWar:
		return "third_party_war"
	case ItemDeclarationOfFriendship:
		return "declaration_of_friendship"
	case ItemVoteCommitment:
		return "vote_commitment"
	}
	return "unknown"
}

// IsPact reports whether the item is a mutual timed agreement rather than a transfer.
func (t TradeItemType) IsPact() bool {
	switch t {
	case ItemOpenBorders, ItemDefensivePact, ItemResearchAgreement, ItemDeclarationOfFriendship, ItemPeaceTreaty:
		return true
	}
	return false
}

// Direction is relative to the deal's From player.
type Direction int

const (
	Give Direction = iota
	Receive
)

func (d Direction) Opposite() Direction {
	if d == Give {
		return Receive
	}
	return Give
}

func (d Direction) String() string {
	if d == Give {
		return "give"
	}
	return "receive"
}

type ResourceType string

type ResourceClass int

const (
	ResourceBonus ResourceClass = iota
	ResourceLuxury
	ResourceStrategic
)

type ResourceInfo struct {
	Type      ResourceType
	Class     ResourceClass
	Happiness int
}

type Era int

const (
	EraAncient Era = iota
	EraClassical
	EraMedieval
	EraRenaissance
	EraIndustrial
	EraModern
	EraAtomic
	EraInformation
)

func (e Era) Rank() int {
	switch e {
	case EraAncient:
		return 0
	case EraClassical:
		return 1
	case EraMedieval:
		return 2
	case EraRenaissance:
		return 3
	case EraIndustrial:
		return 4
	case EraModern:
		return 5
	case EraAtomic:
		return 6
	case EraInformation:
		return 7
	}
	Unhandled("Era.Rank", int(e))
	return 0
}

// Personality flavors are on a 1..10 scale.
type Personality struct {
	Boldness              int `json:"boldness" yaml:"boldness"`
	Meanness              int `json:"meanness" yaml:"meanness"`
	Loyalty               int `json:"loyalty" yaml:"loyalty"`
	Forgiveness           int `json:"forgiveness" yaml:"forgiveness"`
	DiploBalance          int `json:"diplo_balance" yaml:"diplo_balance"`
	WarmongerHate         int `json:"warmonger_hate" yaml:"warmonger_hate"`
	WonderCompetitiveness int `json:"wonder_competitiveness" yaml:"wonder_competitiveness"`
	MinorCivCompetitive   int `json:"minor_civ_competitiveness" yaml:"minor_civ_competitiveness"`
	Chattiness            int `json:"chattiness" yaml:"chattiness"`
}

func DefaultPersonality() Personality {
	return Personality{
		Boldness:              5,
		Meanness:              5,
		Loyalty:               5,
		Forgiveness:           5,
		DiploBalance:          5,
		WarmongerHate:         5,
		WonderCompetitiveness: 5,
		MinorCivCompetitive:   5,
		Chattiness:            5,
	}
}
