package relations

import (
	"sort"

	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/tuning"
)

// Estimate is the owner's guess about how one other player stands toward a third.
type Estimate struct {
	Approach model.MajorApproach `json:"approach"`
	WarState model.WarState      `json:"war_state"`
}

// Book holds every State owned by one player, keyed by subject.
type Book struct {
	owner  model.PlayerID
	states map[model.PlayerID]*State
	order  []model.PlayerID

	estimates map[model.Pair]Estimate
}

func NewBook(owner model.PlayerID) *Book {
	return &Book{
		owner:     owner,
		states:    map[model.PlayerID]*State{},
		estimates: map[model.Pair]Estimate{},
	}
}

func (b *Book) Owner() model.PlayerID { return b.owner }

// Ensure creates the state for other on first contact. Existing states are never replaced.
func (b *Book) Ensure(other model.PlayerID, turn int, tune tuning.Tuning) (*State, bool) {
	model.RequirePair("relations.Ensure", b.owner, other)
	if s, ok := b.states[other]; ok {
		return s, false
	}
	s := NewState(other, turn, tune)
	b.states[other] = s
	b.order = append(b.order, other)
	sort.Slice(b.order, func(i, j int) bool { return b.order[i] < b.order[j] })
	return s, true
}

func (b *Book) Has(other model.PlayerID) bool {
	_, ok := b.states[other]
	return ok
}

// Get panics for self or unmet players.
func (b *Book) Get(other model.PlayerID) *State {
	model.RequirePair("relations.Get", b.owner, other)
	s, ok := b.states[other]
	model.Require(ok, "relations.Get", "%s has not met %s", b.owner, other)
	return s
}

// Others lists met players in ascending id order.
func (b *Book) Others() []model.PlayerID {
	out := make([]model.PlayerID, len(b.order))
	copy(out, b.order)
	return out
}

func (b *Book) SetEstimate(of, toward model.PlayerID, e Estimate) {
	b.estimates[model.Pair{Owner: of, Subject: toward}] = e
}

func (b *Book) Estimate(of, toward model.PlayerID) (Estimate, bool) {
	e, ok := b.estimates[model.Pair{Owner: of, Subject: toward}]
	return e, ok
}

// Reader gives read access to other owners' entries about a subject.
type Reader interface {
	// StateOf returns owner's entry about subject, if owner has met subject.
	StateOf(owner, subject model.PlayerID) (State, bool)
}

// Books is a Reader over a set of books.
type Books map[model.PlayerID]*Book

func (bs Books) StateOf(owner, subject model.PlayerID) (State, bool) {
	b, ok := bs[owner]
	if !ok || owner == subject || !b.Has(subject) {
		return State{}, false
	}
	return b.Get(subject).Snapshot(), true
}
