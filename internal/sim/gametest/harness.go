package gametest

import (
	"context"
	"testing"

	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/game"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/sandbox"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/worldview"
)

// Harness is a small black-box test helper for driving a whole game via exported APIs:
// - Step()/StepN() run game turns and keep every result
// - every notification lands in Events
// - State/Propose/Kill provide deterministic preconditions
//
// It only touches exported APIs so scenario tests can live outside the game package.
type Harness struct {
	T    *testing.T
	W    *sandbox.World
	G    *game.Game
	Tune tuning.Tuning

	Events  []worldview.Event
	Results []game.TurnResult
}

func NewHarness(t *testing.T, cfg sandbox.Config, rng model.RNG) *Harness {
	t.Helper()
	w, err := sandbox.New(cfg, rng)
	if err != nil {
		t.Fatalf("sandbox.New: %v", err)
	}
	return NewHarnessWithWorld(t, w, tuning.Defaults())
}

// NewHarnessWithWorld is like NewHarness, but uses an already-constructed world and tuning.
func NewHarnessWithWorld(t *testing.T, w *sandbox.World, tune tuning.Tuning) *Harness {
	t.Helper()
	if w == nil {
		t.Fatalf("NewHarnessWithWorld: nil world")
	}
	h := &Harness{T: t, W: w, Tune: tune}
	h.G = game.New(w, game.Config{Tune: tune, Notifier: h})
	return h
}

func (h *Harness) Notify(ev worldview.Event) { h.Events = append(h.Events, ev) }

func (h *Harness) Step() game.TurnResult {
	h.T.Helper()
	res, err := h.G.DoTurn(context.Background())
	if err != nil {
		h.T.Fatalf("DoTurn: %v", err)
	}
	h.Results = append(h.Results, res)
	return res
}

// StepN runs n turns, calling check (when set) after each one.
func (h *Harness) StepN(n int, check func(game.TurnResult)) {
	h.T.Helper()
	for i := 0; i < n; i++ {
		res := h.Step()
		if check != nil {
			check(res)
		}
	}
}

func (h *Harness) Digests() []string {
	out := make([]string, 0, len(h.Results))
	for _, r := range h.Results {
		out = append(out, r.Digest)
	}
	return out
}

func (h *Harness) Count(kind worldview.EventKind) int {
	n := 0
	for _, ev := range h.Events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (h *Harness) ClearEvents() { h.Events = nil }

// State returns owner's entry about subject, failing the test when they have not met.
func (h *Harness) State(owner, subject model.PlayerID) *relations.State {
	h.T.Helper()
	b := h.G.Books()[owner]
	if b == nil || !b.Has(subject) {
		h.T.Fatalf("%s has no entry for %s", owner, subject)
	}
	return b.Get(subject)
}

// Propose sends d from its From player and lets the receiving AI answer at once.
func (h *Harness) Propose(d *deals.Deal) bool {
	h.T.Helper()
	if d == nil {
		h.T.Fatalf("Propose: nil deal")
	}
	from, to := h.G.AI(d.From).DealAI(), h.G.AI(d.To).DealAI()
	h.G.Ledger().AddProposedDeal(d, h.W.CurrentTurn())
	return h.G.Ledger().FinalizeDeal(d.From, d.To, to.EvaluateProposal(d), from.Rules(), h.G)
}

func (h *Harness) Kill(p model.PlayerID) {
	h.T.Helper()
	if !h.W.IsAlive(p) {
		h.T.Fatalf("Kill: %s already dead", p)
	}
	h.W.Kill(p)
}
