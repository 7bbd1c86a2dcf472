// Package worldview declares what the diplomacy engine consumes from the
// surrounding simulation. Nothing in here is owned by the engine.
package worldview

import "statecraft.ai/internal/sim/model"

type CityInfo struct {
	ID         model.CityID
	Owner      model.PlayerID
	Location   model.Point
	Population int
	IsCapital  bool
	Wonders    int
}

// View is the read-only interface to the rest of the game, passed into each per-turn call.
type View interface {
	CurrentTurn() int
	// PlayerIDs returns every player in stable player-list order.
	PlayerIDs() []model.PlayerID

	IsAlive(p model.PlayerID) bool
	IsHuman(p model.PlayerID) bool
	IsMajor(p model.PlayerID) bool
	Team(p model.PlayerID) int
	HasMet(a, b model.PlayerID) bool
	IsAtWar(a, b model.PlayerID) bool

	Era(p model.PlayerID) model.Era
	HasTech(p model.PlayerID, tech string) bool
	HasCivic(p model.PlayerID, civic string) bool
	Personality(p model.PlayerID) model.Personality

	MilitaryStrength(p model.PlayerID) int
	// MilitaryNear sums the strength of p's units within radius of center.
	MilitaryNear(p model.PlayerID, center model.Point, radius int) int
	EconomicStrength(p model.PlayerID) int
	TreasuryGold(p model.PlayerID) int
	GrossIncome(p model.PlayerID) int
	Score(p model.PlayerID) int
	WarmongerScore(p model.PlayerID) int
	// ValueLostTo is the total value (units, cities) victim has lost to attacker in the current war.
	ValueLostTo(victim, attacker model.PlayerID) int

	Cities(p model.PlayerID) []CityInfo
	City(id model.CityID) (CityInfo, bool)
	TileValue(pt model.Point) int
	WondersBuilt(p model.PlayerID) int

	ResourceInfo(r model.ResourceType) (model.ResourceInfo, bool)
	ResourceTypes() []model.ResourceType
	// ResourceOwned is the quantity p produces, before exports.
	ResourceOwned(p model.PlayerID, r model.ResourceType) int

	// MinorInfluence is major's influence with a city-state.
	MinorInfluence(major, minor model.PlayerID) int
	WorldCongressActive() bool

	RNG() model.RNG
}

// Mutator applies economic side effects of accepted deals.
type Mutator interface {
	TransferGold(from, to model.PlayerID, amount int)
	SpendGold(p model.PlayerID, amount int)
	// AdjustResourceFlow starts (positive) or stops (negative) a per-turn resource export.
	AdjustResourceFlow(from, to model.PlayerID, r model.ResourceType, amount int)
	TransferCity(city model.CityID, to model.PlayerID)
	// SetWar flips the world-visible war flag between two players.
	SetWar(a, b model.PlayerID, atWar bool)
	GrantResearch(a, b model.PlayerID, amount int)
}

// Notifier is a fire-and-forget UI/log sink; its result is never consumed.
type Notifier interface {
	Notify(ev Event)
}

type EventKind string

const (
	EventStatement     EventKind = "STATEMENT"
	EventDealProposed  EventKind = "DEAL_PROPOSED"
	EventDealAccepted  EventKind = "DEAL_ACCEPTED"
	EventDealRejected  EventKind = "DEAL_REJECTED"
	EventDealExpired   EventKind = "DEAL_EXPIRED"
	EventDealCancelled EventKind = "DEAL_CANCELLED"
	EventWarDeclared   EventKind = "WAR_DECLARED"
	EventPeaceMade     EventKind = "PEACE_MADE"
	EventFirstContact  EventKind = "FIRST_CONTACT"
	EventHumanRequest  EventKind = "HUMAN_REQUEST"
)

type Event struct {
	Turn      int
	Kind      EventKind
	From      model.PlayerID
	To        model.PlayerID
	DealID    int
	Statement string
	Detail    string
}

// NopNotifier drops everything.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}

// Fanout forwards each event to every non-nil notifier.
type Fanout []Notifier

func (f Fanout) Notify(ev Event) {
	for _, n := range f {
		if n != nil {
			n.Notify(ev)
		}
	}
}
