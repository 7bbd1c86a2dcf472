package relations

import (
	"testing"

	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/tuning"
)

func TestPactLifecycle(t *testing.T) {
	p := NewPact(10)
	if p.IsActive() || p.IsExpired(100) {
		t.Fatalf("new pact must be inactive and not expired")
	}
	p.Activate(5)
	if !p.IsActive() || p.IsExpired(14) || !p.IsExpired(15) {
		t.Fatalf("unexpected expiry: %+v", p)
	}
	if got := p.TurnsLeft(12); got != 3 {
		t.Fatalf("expected 3 turns left, got %d", got)
	}
	p.Abandon()
	if p.IsActive() || p.TurnsLeft(12) != 0 {
		t.Fatalf("abandoned pact still active")
	}

	inf := NewPact(-1)
	inf.Activate(0)
	if inf.IsExpired(1 << 20) {
		t.Fatalf("infinite pact expired")
	}
	if inf.TurnsLeft(3) != -1 {
		t.Fatalf("infinite pact turns left should be -1")
	}
}

func TestBookEnsureOnce(t *testing.T) {
	b := NewBook(1)
	tune := tuning.Defaults()
	s1, created := b.Ensure(2, 3, tune)
	if !created || s1.WarState != model.WarStateNone || s1.ContactTurn != 3 {
		t.Fatalf("unexpected first contact state: %+v", s1)
	}
	s1.OpinionWeight = 42
	s2, created := b.Ensure(2, 9, tune)
	if created || s2 != s1 || s2.OpinionWeight != 42 {
		t.Fatalf("state must not be replaced")
	}
	b.Ensure(0, 9, tune)
	others := b.Others()
	if len(others) != 2 || others[0] != 0 || others[1] != 2 {
		t.Fatalf("expected sorted others, got %v", others)
	}
}

func TestBookGetUnmetPanics(t *testing.T) {
	b := NewBook(1)
	defer func() {
		if _, ok := recover().(*model.PreconditionViolation); !ok {
			t.Fatalf("expected precondition violation")
		}
	}()
	b.Get(4)
}

func TestStatementLog(t *testing.T) {
	s := NewState(2, 0, tuning.Defaults())
	if s.LastSent(model.StatementDenounce) != -1 || !s.CooledDown(model.StatementDenounce, 0, 50) {
		t.Fatalf("never-sent statement should be cooled down")
	}
	s.MarkSent(model.StatementDenounce, 10)
	if s.CooledDown(model.StatementDenounce, 20, 20) || !s.CooledDown(model.StatementDenounce, 30, 20) {
		t.Fatalf("unexpected cooldown result")
	}
	snap := s.Snapshot()
	snap.StatementLog[model.StatementDenounce] = 99
	if s.LastSent(model.StatementDenounce) != 10 {
		t.Fatalf("snapshot must not alias the statement log")
	}
}

func TestBooksReader(t *testing.T) {
	a := NewBook(0)
	s, _ := a.Ensure(1, 0, tuning.Defaults())
	s.Opinion = model.OpinionFriend
	r := Books{0: a}
	st, ok := r.StateOf(0, 1)
	if !ok || st.Opinion != model.OpinionFriend {
		t.Fatalf("reader did not return owner's state")
	}
	if _, ok := r.StateOf(1, 0); ok {
		t.Fatalf("unknown owner must not resolve")
	}
}
