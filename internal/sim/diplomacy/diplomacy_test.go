package diplomacy_test

import (
	"reflect"
	"testing"

	"statecraft.ai/internal/sim/diplomacy"
	"statecraft.ai/internal/sim/game"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/sandbox"
	"statecraft.ai/internal/sim/tuning"
)

func newGame(t *testing.T) (*game.Game, *sandbox.World) {
	t.Helper()
	w, err := sandbox.New(sandbox.Demo(3), model.FixedRNG{})
	if err != nil {
		t.Fatalf("sandbox.New: %v", err)
	}
	return game.New(w, game.Config{Tune: tuning.Defaults()}), w
}

func TestFirstContact_CreatesPeacefulState(t *testing.T) {
	g, w := newGame(t)
	a := g.AI(0)
	if a.Book().Has(1) {
		t.Fatalf("met before contact")
	}
	g.Meet(0, 1)
	s := a.Book().Get(1)
	if s.WarState != model.WarStateNone || s.Approach != model.ApproachNeutral {
		t.Fatalf("fresh state: war=%s approach=%s", s.WarState, s.Approach)
	}
	if s.ContactTurn != w.CurrentTurn() || s.Proximity == model.ProximityNone {
		t.Fatalf("contact turn %d proximity %s", s.ContactTurn, s.Proximity)
	}
	if a.DoFirstContactWith(1) {
		t.Fatalf("second contact reported as new")
	}
}

func TestWantsPeace_LockedIntoWarNeverWantsPeace(t *testing.T) {
	g, _ := newGame(t)
	g.Meet(0, 1)
	a := g.AI(0)
	a.DoDeclareWarTo(1)
	s := a.Book().Get(1)
	s.WarProjection = model.ProjectionDestruction
	s.WarGoal = model.WarGoalPeace
	s.TurnsAtWar = 40
	s.WantPeaceCounter = 40
	s.TurnsLockedIntoWar = 3
	if a.IsWantsPeaceWith(1) {
		t.Fatalf("wants peace while locked into war")
	}
	s.TurnsLockedIntoWar = 0
	if !a.IsWantsPeaceWith(1) {
		t.Fatalf("no peace wish once the lock ends")
	}
}

func TestDeclareWar_UpdatesBothBooksAndCancelsDeals(t *testing.T) {
	g, w := newGame(t)
	g.Meet(0, 1)
	a, b := g.AI(0), g.AI(1)
	d := a.DealAI().MakeOfferForEmbassy(1)
	if d == nil {
		t.Fatalf("no embassy offer")
	}
	g.Ledger().AddProposedDeal(d, w.CurrentTurn())
	if !g.Ledger().FinalizeDeal(0, 1, true, a.DealAI().Rules(), g) {
		t.Fatalf("embassy deal rejected")
	}
	if !a.Book().Get(1).HasEmbassy || !b.Book().Get(0).HasEmbassy {
		t.Fatalf("embassies not recorded by their receivers")
	}

	a.DoDeclareWarTo(1)
	if !w.IsAtWar(0, 1) || !a.IsAtWarWith(1) {
		t.Fatalf("world not at war")
	}
	if !a.Book().Get(1).DeclarationOfWar.IsActive() || !b.Book().Get(0).DeclarationOfWar.IsActive() {
		t.Fatalf("declaration missing from a book")
	}
	if b.Book().Get(0).Approach != model.ApproachWar {
		t.Fatalf("target approach %s", b.Book().Get(0).Approach)
	}
	if n := len(g.Ledger().CurrentDeals()); n != 0 {
		t.Fatalf("%d deals survived the war", n)
	}
}

func TestMakePeace_StartsTreaty(t *testing.T) {
	g, w := newGame(t)
	g.Meet(0, 1)
	g.AI(0).DoDeclareWarTo(1)
	g.MakePeace(0, 1, w.CurrentTurn())
	for _, pair := range [][2]model.PlayerID{{0, 1}, {1, 0}} {
		s := g.AI(pair[0]).Book().Get(pair[1])
		if s.DeclarationOfWar.IsActive() || !s.PeaceTreaty.IsActive() || s.WarState != model.WarStateNone {
			t.Fatalf("%v: %+v", pair, s)
		}
		if s.Approach == model.ApproachWar {
			t.Fatalf("%v still at war approach", pair)
		}
	}
	if w.IsAtWar(0, 1) {
		t.Fatalf("world still at war")
	}
}

func TestMajorCivApproachTowards_HidesWarBehindFace(t *testing.T) {
	g, _ := newGame(t)
	g.Meet(0, 1)
	a := g.AI(0)
	s := a.Book().Get(1)
	s.Approach, s.WarFace = model.ApproachWar, model.WarFaceFriendly
	if got := a.MajorCivApproachTowards(1, true); got != model.ApproachFriendly {
		t.Fatalf("hidden: %s", got)
	}
	if got := a.MajorCivApproachTowards(1, false); got != model.ApproachWar {
		t.Fatalf("true: %s", got)
	}
}

func TestJoinCoopWar_LocksBothPartners(t *testing.T) {
	g, w := newGame(t)
	g.Meet(0, 1)
	g.Meet(0, 2)
	g.Meet(1, 2)
	g.DeclareWar(1, 2, w.CurrentTurn())
	g.LockCoopWar(1, 0, 2, w.CurrentTurn())
	lock := tuning.Defaults().War.CoopWarLockTurns
	if got := g.AI(1).Book().Get(2).TurnsLockedIntoWar; got != lock {
		t.Fatalf("giver lock %d", got)
	}
	if got := g.AI(0).Book().Get(1).CoopWarTarget; got != 2 {
		t.Fatalf("partner target %s", got)
	}
}

func TestWarTarget_PicksWorstWar(t *testing.T) {
	g, w := newGame(t)
	g.Meet(0, 1)
	g.Meet(0, 2)
	a := g.AI(0)
	if a.WarTarget() != model.NoPlayer {
		t.Fatalf("war target in peace")
	}
	g.DeclareWar(1, 0, w.CurrentTurn())
	g.DeclareWar(2, 0, w.CurrentTurn())
	a.Book().Get(1).WarState = model.WarStateDefensive
	a.Book().Get(2).WarState = model.WarStateNearlyDefeated
	if got := a.WarTarget(); got != 2 {
		t.Fatalf("war target %s", got)
	}
}

func TestDoTurn_RefreshesEveryEntry(t *testing.T) {
	g, w := newGame(t)
	g.Meet(0, 2)
	s := g.AI(0).Book().Get(2)
	s.Proximity = model.ProximityNone
	w.Advance()
	g.AI(0).DoTurn()
	if s.Proximity == model.ProximityNone {
		t.Fatalf("proximity not refreshed")
	}
	if s.TurnsAtPeace != 1 {
		t.Fatalf("turns at peace %d", s.TurnsAtPeace)
	}
}

func TestPhaseNames(t *testing.T) {
	want := []string{"strength", "threat", "target", "war_state", "war_projection", "war_goal",
		"peace", "disputes", "estimates", "opinion", "approach", "proximity"}
	if got := diplomacy.PhaseNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("phases %v", got)
	}
}
