package model

type StatementType int

const (
	StatementNone StatementType = iota
	StatementMakePeace
	StatementDemand
	StatementCoopWarTime
	StatementAggressiveMilitaryWarning
	StatementExpansionWarning
	StatementPlotBuyingWarning
	StatementFriendshipOffer
	StatementDenounce
	StatementDelegationExchange
	StatementDelegationOffer
	StatementEmbassyExchange
	StatementEmbassyOffer
	StatementOpenBordersExchange
	StatementOpenBordersOffer
	StatementResearchAgreementOffer
	StatementRequestHelp
	StatementHostile
	StatementAfraid
	StatementWarmongerWarning
	StatementMinorCivCompetition
	StatementIdeology
)

func (s StatementType) String() string {
	switch s {
	case StatementNone:
		return "none"
	case StatementMakePeace:
		return "make_peace"
	case StatementDemand:
		return "demand"
	case StatementCoopWarTime:
		return "coop_war_time"
	case StatementAggressiveMilitaryWarning:
		return "aggressive_military_warning"
	case StatementExpansionWarning:
		return "expansion_warning"
	case StatementPlotBuyingWarning:
		return "plot_buying_warning"
	case StatementFriendshipOffer:
		return "friendship_offer"
	case StatementDenounce:
		return "denounce"
	case StatementDelegationExchange:
		return "delegation_exchange"
	case StatementDelegationOffer:
		return "delegation_offer"
	case StatementEmbassyExchange:
		return "embassy_exchange"
	case StatementEmbassyOffer:
		return "embassy_offer"
	case StatementOpenBordersExchange:
		return "open_borders_exchange"
	case StatementOpenBordersOffer:
		return "open_borders_offer"
	case StatementResearchAgreementOffer:
		return "research_agreement_offer"
	case StatementRequestHelp:
		return "request_help"
	case StatementHostile:
		return "hostile"
	case StatementAfraid:
		return "afraid"
	case StatementWarmongerWarning:
		return "warmonger_warning"
	case StatementMinorCivCompetition:
		return "minor_civ_competition"
	case StatementIdeology:
		return "ideology"
	}
	return "unknown"
}
