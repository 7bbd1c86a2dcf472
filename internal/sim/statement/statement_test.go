package statement_test

import (
	"testing"

	"statecraft.ai/internal/sim/dealai"
	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/sandbox"
	"statecraft.ai/internal/sim/statement"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/worldview"
)

type recorder struct {
	*sandbox.World
	events []worldview.Event
}

func (r *recorder) SetPact(model.TradeItemType, model.PlayerID, model.PlayerID, int, int, bool) {}
func (r *recorder) MakePeace(a, b model.PlayerID, turn int)                                     { r.SetWar(a, b, false) }
func (r *recorder) DeclareWar(a, b model.PlayerID, turn int)                                    { r.SetWar(a, b, true) }
func (r *recorder) LockCoopWar(a, b, target model.PlayerID, turn int)                           {}
func (r *recorder) Notify(ev worldview.Event)                                                   { r.events = append(r.events, ev) }

func (r *recorder) saw(kind worldview.EventKind) bool {
	for _, ev := range r.events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

type mind struct {
	peace  bool
	target model.PlayerID
}

func (m mind) IsWantsPeaceWith(model.PlayerID) bool { return m.peace }
func (m mind) WarTarget() model.PlayerID            { return m.target }

type fixture struct {
	rec    *recorder
	books  relations.Books
	ledger *deals.Ledger
	tune   tuning.Tuning
}

func newFixture(t *testing.T, mutate func(*sandbox.Config)) *fixture {
	t.Helper()
	cfg := sandbox.Demo(9)
	if mutate != nil {
		mutate(&cfg)
	}
	w, err := sandbox.New(cfg, model.FixedRNG{})
	if err != nil {
		t.Fatalf("sandbox.New: %v", err)
	}
	w.Advance()
	rec := &recorder{World: w}
	tune := tuning.Defaults()
	books := relations.Books{}
	for _, p := range w.PlayerIDs() {
		books[p] = relations.NewBook(p)
	}
	for _, p := range w.PlayerIDs() {
		for _, o := range w.PlayerIDs() {
			if o != p {
				w.Meet(p, o)
				books[p].Ensure(o, w.CurrentTurn(), tune)
			}
		}
	}
	return &fixture{rec: rec, books: books, ledger: deals.NewLedger(rec), tune: tune}
}

func (f *fixture) ai(p model.PlayerID) *dealai.AI {
	return dealai.New(f.books[p], f.rec.World, f.books, f.ledger, f.tune)
}

func (f *fixture) dispatcher(p model.PlayerID, m statement.Mind) *statement.Dispatcher {
	return &statement.Dispatcher{
		AI:       f.ai(p),
		Mind:     m,
		Peers:    f.ai,
		Effects:  f.rec,
		Notifier: f.rec,
	}
}

func TestDispatch_DelegationExchangeResolvesWithAI(t *testing.T) {
	f := newFixture(t, nil)
	d := f.dispatcher(0, mind{target: model.NoPlayer})
	st, ok := d.Dispatch(1)
	if !ok || st.Kind != model.StatementDelegationExchange {
		t.Fatalf("got %v %v", st.Kind, ok)
	}
	if len(f.ledger.CurrentDeals()) != 1 || f.ledger.ProposedDeal(0, 1) != nil {
		t.Fatalf("deal not finalized: current=%d", len(f.ledger.CurrentDeals()))
	}
	if got := f.books[0].Get(1).LastSent(model.StatementDelegationExchange); got != f.rec.CurrentTurn() {
		t.Fatalf("statement log: %d", got)
	}
	if !f.rec.saw(worldview.EventStatement) || !f.rec.saw(worldview.EventDealAccepted) {
		t.Fatalf("events: %+v", f.rec.events)
	}
}

func TestDispatch_CooldownMovesDownTheChain(t *testing.T) {
	f := newFixture(t, nil)
	d := f.dispatcher(0, mind{target: model.NoPlayer})
	if st, _ := d.Dispatch(1); st.Kind != model.StatementDelegationExchange {
		t.Fatalf("first: %v", st.Kind)
	}
	st, ok := d.Dispatch(1)
	if !ok || st.Kind != model.StatementEmbassyExchange {
		t.Fatalf("second: %v %v", st.Kind, ok)
	}
}

func TestDispatch_HumanTargetLeavesDealProposed(t *testing.T) {
	f := newFixture(t, func(c *sandbox.Config) { c.Players[1].Human = true })
	d := f.dispatcher(0, mind{target: model.NoPlayer})
	st, ok := d.Dispatch(1)
	if !ok || st.Deal == nil {
		t.Fatalf("no deal statement: %v %v", st.Kind, ok)
	}
	if f.ledger.ProposedDeal(0, 1) == nil || len(f.ledger.CurrentDeals()) != 0 {
		t.Fatalf("human deal should stay proposed")
	}
	if !f.rec.saw(worldview.EventHumanRequest) {
		t.Fatalf("no human request: %+v", f.rec.events)
	}
}

func TestDispatch_PeaceFirst(t *testing.T) {
	f := newFixture(t, nil)
	f.rec.SetWar(0, 1, true)
	for _, pair := range [][2]model.PlayerID{{0, 1}, {1, 0}} {
		s := f.books[pair[0]].Get(pair[1])
		s.PeaceWillingToOffer, s.PeaceWillingToAccept = model.PeaceWhite, model.PeaceWhite
	}
	d := f.dispatcher(0, mind{peace: true, target: model.NoPlayer})
	st, ok := d.Dispatch(1)
	if !ok || st.Kind != model.StatementMakePeace {
		t.Fatalf("got %v %v", st.Kind, ok)
	}
	if f.rec.IsAtWar(0, 1) {
		t.Fatalf("white peace not applied")
	}
}

func TestDispatch_NoPeaceWhenNotWanted(t *testing.T) {
	f := newFixture(t, nil)
	f.rec.SetWar(0, 1, true)
	d := f.dispatcher(0, mind{target: model.NoPlayer})
	if st, ok := d.Choose(1); ok {
		t.Fatalf("statement at war without wanting peace: %v", st.Kind)
	}
}

func TestDispatch_DenounceStartsDenouncement(t *testing.T) {
	f := newFixture(t, nil)
	s := f.books[0].Get(1)
	s.Opinion = model.OpinionEnemy
	d := f.dispatcher(0, mind{target: model.NoPlayer})
	st, ok := d.Dispatch(1)
	if !ok || st.Kind != model.StatementDenounce || st.Deal != nil {
		t.Fatalf("got %v %v", st.Kind, ok)
	}
	if !s.Denouncement.IsActive() {
		t.Fatalf("denouncement not active")
	}
}

func TestChoose_DemandFromWeakTarget(t *testing.T) {
	f := newFixture(t, nil)
	s := f.books[0].Get(2)
	s.Approach = model.ApproachHostile
	s.MilitaryStrength = model.StrengthWeak
	st, ok := f.dispatcher(0, mind{target: model.NoPlayer}).Choose(2)
	if !ok || st.Kind != model.StatementDemand || st.Deal == nil || st.Deal.Requesting != 0 {
		t.Fatalf("got %+v %v", st, ok)
	}
}
