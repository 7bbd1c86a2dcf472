package tuning

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version" json:"protocol_version"`

	Deals     Deals     `yaml:"deals" json:"deals"`
	Pacts     Pacts     `yaml:"pacts" json:"pacts"`
	Opinion   Opinion   `yaml:"opinion" json:"opinion"`
	Proximity Proximity `yaml:"proximity" json:"proximity"`
	War       War       `yaml:"war" json:"war"`
	Approach  Approach  `yaml:"approach" json:"approach"`

	// StatementCooldowns maps statement names to the minimum turns between two sends.
	StatementCooldowns map[string]int `yaml:"statement_cooldowns" json:"statement_cooldowns"`
}

type Deals struct {
	EachGoldValuePercent   int `yaml:"each_gold_value_percent" json:"each_gold_value_percent"`
	EachGPTValuePercent    int `yaml:"each_gpt_value_percent" json:"each_gpt_value_percent"`
	AIToAILeewayPercent    int `yaml:"ai_to_ai_leeway_percent" json:"ai_to_ai_leeway_percent"`
	AIToHumanLeewayPercent int `yaml:"ai_to_human_leeway_percent" json:"ai_to_human_leeway_percent"`
	ZeroGoldTolerance      int `yaml:"zero_gold_tolerance" json:"zero_gold_tolerance"`
	DealDuration           int `yaml:"deal_duration" json:"deal_duration"`
	StrategicSurplus       int `yaml:"strategic_surplus" json:"strategic_surplus"`
	CityValueRadius        int `yaml:"city_value_radius" json:"city_value_radius"`
	ResearchAgreementCost  int `yaml:"research_agreement_cost" json:"research_agreement_cost"`
	RenewalWindow          int `yaml:"renewal_window" json:"renewal_window"`
}

// Pacts holds durations in turns; -1 means the pact never expires on its own.
type Pacts struct {
	DeclarationOfWar  int `yaml:"declaration_of_war" json:"declaration_of_war"`
	Friendship        int `yaml:"friendship" json:"friendship"`
	OpenBorders       int `yaml:"open_borders" json:"open_borders"`
	DefensivePact     int `yaml:"defensive_pact" json:"defensive_pact"`
	PeaceTreaty       int `yaml:"peace_treaty" json:"peace_treaty"`
	Alliance          int `yaml:"alliance" json:"alliance"`
	ResearchAgreement int `yaml:"research_agreement" json:"research_agreement"`
	Denouncement      int `yaml:"denouncement" json:"denouncement"`
}

type Opinion struct {
	Unforgivable int `yaml:"threshold_unforgivable" json:"threshold_unforgivable"`
	Enemy        int `yaml:"threshold_enemy" json:"threshold_enemy"`
	Competitor   int `yaml:"threshold_competitor" json:"threshold_competitor"`
	Favorable    int `yaml:"threshold_favorable" json:"threshold_favorable"`
	Friend       int `yaml:"threshold_friend" json:"threshold_friend"`
	Ally         int `yaml:"threshold_ally" json:"threshold_ally"`

	// Dispute coefficients indexed by level (none, weak, strong, fierce).
	LandDispute     [4]int `yaml:"land_dispute" json:"land_dispute"`
	WonderDispute   [4]int `yaml:"wonder_dispute" json:"wonder_dispute"`
	VictoryDispute  [4]int `yaml:"victory_dispute" json:"victory_dispute"`
	MinorCivDispute [4]int `yaml:"minor_civ_dispute" json:"minor_civ_dispute"`
	// WarmongerThreat indexed by threat (none, minor, major, severe, critical).
	WarmongerThreat [5]int `yaml:"warmonger_threat" json:"warmonger_threat"`

	Denounced  int `yaml:"denounced" json:"denounced"`
	Friendship int `yaml:"friendship" json:"friendship"`
	AtWar      int `yaml:"at_war" json:"at_war"`
}

type Proximity struct {
	Neighbors int `yaml:"neighbors" json:"neighbors"`
	Close     int `yaml:"close" json:"close"`
	Far       int `yaml:"far" json:"far"`
}

type War struct {
	CalmForceThreshold   int `yaml:"calm_force_threshold" json:"calm_force_threshold"`
	FrontRadius          int `yaml:"front_radius" json:"front_radius"`
	DurationPenaltyCap   int `yaml:"duration_penalty_cap" json:"duration_penalty_cap"`
	WantPeaceTurns       int `yaml:"want_peace_turns" json:"want_peace_turns"`
	CoopWarLockTurns     int `yaml:"coop_war_lock_turns" json:"coop_war_lock_turns"`
	MinTurnsBeforePeace  int `yaml:"min_turns_before_peace" json:"min_turns_before_peace"`
	RecentPeaceTurns     int `yaml:"recent_peace_turns" json:"recent_peace_turns"`
	ValueOfPeaceCacheTTL int `yaml:"value_of_peace_cache_ttl" json:"value_of_peace_cache_ttl"`
}

type Approach struct {
	JitterPercent  int `yaml:"jitter_percent" json:"jitter_percent"`
	Inertia        int `yaml:"inertia" json:"inertia"`
	ScoreSmoothing int `yaml:"score_smoothing" json:"score_smoothing"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		Deals: Deals{
			EachGoldValuePercent:   100,
			EachGPTValuePercent:    80,
			AIToAILeewayPercent:    25,
			AIToHumanLeewayPercent: 10,
			ZeroGoldTolerance:      25,
			DealDuration:           30,
			StrategicSurplus:       8,
			CityValueRadius:        3,
			ResearchAgreementCost:  200,
			RenewalWindow:          1,
		},
		Pacts: Pacts{
			DeclarationOfWar:  -1,
			Friendship:        30,
			OpenBorders:       30,
			DefensivePact:     30,
			PeaceTreaty:       10,
			Alliance:          -1,
			ResearchAgreement: 30,
			Denouncement:      30,
		},
		Opinion: Opinion{
			Unforgivable:    160,
			Enemy:           80,
			Competitor:      30,
			Favorable:       -30,
			Friend:          -80,
			Ally:            -160,
			LandDispute:     [4]int{0, 10, 30, 50},
			WonderDispute:   [4]int{0, 5, 15, 25},
			VictoryDispute:  [4]int{0, 10, 25, 40},
			MinorCivDispute: [4]int{0, 5, 15, 25},
			WarmongerThreat: [5]int{0, 5, 15, 30, 50},
			Denounced:       35,
			Friendship:      -30,
			AtWar:           40,
		},
		Proximity: Proximity{
			Neighbors: 6,
			Close:     12,
			Far:       20,
		},
		War: War{
			CalmForceThreshold:   3,
			FrontRadius:          4,
			DurationPenaltyCap:   20,
			WantPeaceTurns:       5,
			CoopWarLockTurns:     10,
			MinTurnsBeforePeace:  10,
			RecentPeaceTurns:     20,
			ValueOfPeaceCacheTTL: 5,
		},
		Approach: Approach{
			JitterPercent:  15,
			Inertia:        3,
			ScoreSmoothing: 3,
		},
		StatementCooldowns: map[string]int{},
	}
}

// Load reads a tuning.yaml; keys absent from the file keep their default.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	d := t.Deals
	if d.EachGoldValuePercent <= 0 || d.EachGPTValuePercent <= 0 {
		return errors.New("gold value percents must be positive")
	}
	if d.AIToAILeewayPercent < 0 || d.AIToHumanLeewayPercent < 0 || d.ZeroGoldTolerance < 0 {
		return errors.New("leeways must not be negative")
	}
	if d.DealDuration <= 0 {
		return errors.New("deal_duration must be positive")
	}
	if t.War.CalmForceThreshold <= 0 {
		return errors.New("war.calm_force_threshold must be positive")
	}
	o := t.Opinion
	if !(o.Unforgivable > o.Enemy && o.Enemy > o.Competitor && o.Competitor > o.Favorable && o.Favorable > o.Friend && o.Friend > o.Ally) {
		return errors.New("opinion thresholds must be strictly decreasing")
	}
	p := t.Proximity
	if !(p.Neighbors < p.Close && p.Close < p.Far) {
		return errors.New("proximity distances must be strictly increasing")
	}
	for name, pact := range map[string]int{
		"friendship":         t.Pacts.Friendship,
		"open_borders":       t.Pacts.OpenBorders,
		"defensive_pact":     t.Pacts.DefensivePact,
		"peace_treaty":       t.Pacts.PeaceTreaty,
		"research_agreement": t.Pacts.ResearchAgreement,
		"denouncement":       t.Pacts.Denouncement,
	} {
		if pact == 0 || pact < -1 {
			return fmt.Errorf("pact %s: duration must be positive or -1", name)
		}
	}
	return nil
}

// Cooldown returns the configured cooldown for a statement, or def when unset.
func (t Tuning) Cooldown(statement string, def int) int {
	if v, ok := t.StatementCooldowns[statement]; ok {
		return v
	}
	return def
}
