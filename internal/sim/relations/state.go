package relations

import (
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/tuning"
)

// State is what one player (the owner) knows and thinks about one other player (the subject).
// Only the owner's DiplomacyAI mutates it.
type State struct {
	Subject     model.PlayerID `json:"subject"`
	ContactTurn int            `json:"contact_turn"`

	ApproachScore int                 `json:"approach_score"`
	Approach      model.MajorApproach `json:"approach"`
	WarFace       model.WarFace       `json:"war_face"`
	MinorApproach model.MinorApproach `json:"minor_approach"`

	OpinionWeight int           `json:"opinion_weight"`
	Opinion       model.Opinion `json:"opinion"`

	WarState          model.WarState       `json:"war_state"`
	WarProjection     model.WarProjection  `json:"war_projection"`
	LastWarProjection model.WarProjection  `json:"last_war_projection"`
	WarGoal           model.WarGoal        `json:"war_goal"`
	WarDamage         model.WarDamageLevel `json:"war_damage"`
	WarValueLost      int                  `json:"war_value_lost"`

	MilitaryStrength model.Strength    `json:"military_strength"`
	EconomicStrength model.Strength    `json:"economic_strength"`
	MilitaryThreat   model.Threat      `json:"military_threat"`
	WarmongerThreat  model.Threat      `json:"warmonger_threat"`
	TargetValue      model.TargetValue `json:"target_value"`

	LandDispute     model.DisputeLevel `json:"land_dispute"`
	WonderDispute   model.DisputeLevel `json:"wonder_dispute"`
	VictoryDispute  model.DisputeLevel `json:"victory_dispute"`
	MinorCivDispute model.DisputeLevel `json:"minor_civ_dispute"`

	MilitaryPosture   model.AggressivePosture `json:"military_posture"`
	ExpansionPosture  model.AggressivePosture `json:"expansion_posture"`
	PlotBuyingPosture model.AggressivePosture `json:"plot_buying_posture"`

	Proximity model.Proximity `json:"proximity"`

	DeclarationOfWar  Pact `json:"declaration_of_war"`
	Friendship        Pact `json:"friendship"`
	OpenBorders       Pact `json:"open_borders"`
	DefensivePact     Pact `json:"defensive_pact"`
	PeaceTreaty       Pact `json:"peace_treaty"`
	Alliance          Pact `json:"alliance"`
	ResearchAgreement Pact `json:"research_agreement"`
	Denouncement      Pact `json:"denouncement"`

	HasEmbassy    bool `json:"has_embassy"`
	HasDelegation bool `json:"has_delegation"`

	TurnsLockedIntoWar int            `json:"turns_locked_into_war"`
	WantPeaceCounter   int            `json:"want_peace_counter"`
	TurnsAtWar         int            `json:"turns_at_war"`
	TurnsAtPeace       int            `json:"turns_at_peace"`
	CoopWarTarget      model.PlayerID `json:"coop_war_target"`

	PeaceWillingToOffer  model.PeaceTreatyType `json:"peace_willing_to_offer"`
	PeaceWillingToAccept model.PeaceTreatyType `json:"peace_willing_to_accept"`

	CachedValueOfPeace     int `json:"cached_value_of_peace"`
	CachedValueOfPeaceTurn int `json:"cached_value_of_peace_turn"`

	StatementLog map[model.StatementType]int `json:"statement_log,omitempty"`
}

func NewState(subject model.PlayerID, turn int, tune tuning.Tuning) *State {
	p := tune.Pacts
	return &State{
		Subject:                subject,
		ContactTurn:            turn,
		ApproachScore:          model.ApproachNeutral.Level(),
		Approach:               model.ApproachNeutral,
		MinorApproach:          model.MinorIgnore,
		Opinion:                model.OpinionNeutral,
		WarState:               model.WarStateNone,
		WarProjection:          model.ProjectionUnknown,
		LastWarProjection:      model.ProjectionUnknown,
		MilitaryStrength:       model.StrengthAverage,
		EconomicStrength:       model.StrengthAverage,
		TargetValue:            model.TargetAverage,
		Proximity:              model.ProximityNone,
		DeclarationOfWar:       NewPact(p.DeclarationOfWar),
		Friendship:             NewPact(p.Friendship),
		OpenBorders:            NewPact(p.OpenBorders),
		DefensivePact:          NewPact(p.DefensivePact),
		PeaceTreaty:            NewPact(p.PeaceTreaty),
		Alliance:               NewPact(p.Alliance),
		ResearchAgreement:      NewPact(p.ResearchAgreement),
		Denouncement:           NewPact(p.Denouncement),
		CoopWarTarget:          model.NoPlayer,
		PeaceWillingToOffer:    model.PeaceNone,
		PeaceWillingToAccept:   model.PeaceNone,
		CachedValueOfPeaceTurn: -1,
		StatementLog:           map[model.StatementType]int{},
	}
}

func (s *State) IsAtWar() bool { return s.DeclarationOfWar.IsActive() }

// LastSent returns the turn a statement was last sent, or -1.
func (s *State) LastSent(st model.StatementType) int {
	if t, ok := s.StatementLog[st]; ok {
		return t
	}
	return -1
}

func (s *State) MarkSent(st model.StatementType, turn int) {
	if s.StatementLog == nil {
		s.StatementLog = map[model.StatementType]int{}
	}
	s.StatementLog[st] = turn
}

// CooledDown reports whether at least cooldown turns passed since st was last sent.
func (s *State) CooledDown(st model.StatementType, turn, cooldown int) bool {
	last := s.LastSent(st)
	return last < 0 || turn-last >= cooldown
}

// BrokenMilitaryPromise is not scored yet.
func (s *State) BrokenMilitaryPromise() bool { return false }

// BrokenExpansionPromise is not scored yet.
func (s *State) BrokenExpansionPromise() bool { return false }

// NukedBy is not scored yet.
func (s *State) NukedBy() bool { return false }

// Snapshot returns a copy safe to hand to other players' AIs.
func (s *State) Snapshot() State {
	out := *s
	out.StatementLog = make(map[model.StatementType]int, len(s.StatementLog))
	for k, v := range s.StatementLog {
		out.StatementLog[k] = v
	}
	return out
}
