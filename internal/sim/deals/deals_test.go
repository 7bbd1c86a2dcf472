package deals_test

import (
	"fmt"
	"testing"

	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/sandbox"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/worldview"
)

type recorder struct {
	*sandbox.World
	pacts  []string
	events []worldview.Event
}

func (r *recorder) SetPact(kind model.TradeItemType, giver, receiver model.PlayerID, turn, duration int, active bool) {
	r.pacts = append(r.pacts, fmt.Sprintf("%s %s->%s %v", kind, giver, receiver, active))
}

func (r *recorder) MakePeace(a, b model.PlayerID, turn int) { r.SetWar(a, b, false) }

func (r *recorder) DeclareWar(attacker, target model.PlayerID, turn int) {
	r.SetWar(attacker, target, true)
}

func (r *recorder) LockCoopWar(giver, receiver, target model.PlayerID, turn int) {
	r.pacts = append(r.pacts, fmt.Sprintf("coop %s->%s vs %s", giver, receiver, target))
}

func (r *recorder) Notify(ev worldview.Event) { r.events = append(r.events, ev) }

type fixture struct {
	w      *sandbox.World
	books  relations.Books
	ledger *deals.Ledger
	rules  deals.Rules
	fx     *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w, err := sandbox.New(sandbox.Demo(3), model.FixedRNG{})
	if err != nil {
		t.Fatalf("sandbox.New: %v", err)
	}
	w.Advance()
	tune := tuning.Defaults()
	books := relations.Books{}
	for _, p := range w.PlayerIDs() {
		books[p] = relations.NewBook(p)
		for _, o := range w.PlayerIDs() {
			if o != p {
				books[p].Ensure(o, w.CurrentTurn(), tune)
			}
		}
	}
	fx := &recorder{World: w}
	l := deals.NewLedger(fx)
	return &fixture{
		w:      w,
		books:  books,
		ledger: l,
		rules:  deals.Rules{World: w, Relations: books, Ledger: l, Tune: tune},
		fx:     fx,
	}
}

func (f *fixture) finalize(t *testing.T, d *deals.Deal) bool {
	t.Helper()
	f.ledger.AddProposedDeal(d, f.w.CurrentTurn())
	return f.ledger.FinalizeDeal(d.From, d.To, true, f.rules, f.fx)
}

func TestResourceTrade_RejectsNegativeAmount(t *testing.T) {
	f := newFixture(t)
	d := deals.NewDeal(0, 1)
	if f.rules.AddResourceTrade(d, 0, "silk", -1, 30) {
		t.Fatalf("negative resource amount accepted")
	}
	if f.rules.AddResourceTrade(d, 0, "silk", 3, 30) {
		t.Fatalf("more silk than owned accepted")
	}
	if !f.rules.AddResourceTrade(d, 0, "silk", 2, 30) {
		t.Fatalf("valid silk trade rejected")
	}
	if f.rules.AddResourceTrade(d, 0, "silk", 1, 30) {
		t.Fatalf("silk already fully in deal, second add accepted")
	}
	if f.rules.AddResourceTrade(d, 0, "silk", 1, 0) {
		t.Fatalf("zero duration accepted")
	}
}

func TestResourceTrade_NotToCityState(t *testing.T) {
	f := newFixture(t)
	d := deals.NewDeal(0, 3)
	if f.rules.AddResourceTrade(d, 0, "iron", 1, 30) {
		t.Fatalf("resource to city-state accepted")
	}
}

func TestRemoveByType_AbsentIsNoOp(t *testing.T) {
	f := newFixture(t)
	d := deals.NewDeal(0, 1)
	if !f.rules.AddGoldTrade(d, 0, 50) || !f.rules.AddEmbassy(d, 1) || !f.rules.AddGoldTrade(d, 1, 20) {
		t.Fatalf("setup adds failed")
	}
	before := d.Clone()
	d.RemoveByType(model.ItemCity)
	if len(d.Items) != len(before.Items) {
		t.Fatalf("len=%d want %d", len(d.Items), len(before.Items))
	}
	for i := range d.Items {
		if d.Items[i] != before.Items[i] {
			t.Fatalf("item %d changed: %+v vs %+v", i, d.Items[i], before.Items[i])
		}
	}
	d.RemoveByType(model.ItemAllowEmbassy)
	if len(d.Items) != 2 || d.Items[0].Amount != 50 || d.Items[1].Amount != 20 {
		t.Fatalf("order not preserved: %+v", d.Items)
	}
}

func TestGold_ValidatedAgainstTreasury(t *testing.T) {
	f := newFixture(t)
	gold := f.w.TreasuryGold(1)
	d := deals.NewDeal(0, 1)
	if f.rules.AddGoldTrade(d, 1, gold+1) {
		t.Fatalf("gold above treasury accepted")
	}
	if f.rules.AddGoldTrade(d, 1, 0) {
		t.Fatalf("zero gold accepted")
	}
	if !f.rules.AddGoldTrade(d, 1, gold) {
		t.Fatalf("full treasury rejected")
	}
	if f.rules.ChangeGoldTrade(d, 1, gold+10) {
		t.Fatalf("change above treasury accepted")
	}
	if !f.rules.ChangeGoldTrade(d, 1, 10) || d.GoldTradedBy(1) != 10 {
		t.Fatalf("change to 10 failed: %d", d.GoldTradedBy(1))
	}
	if !f.rules.ChangeGoldTrade(d, 1, 0) || d.HasGold() {
		t.Fatalf("change to 0 should remove the item")
	}
}

func TestSelfPairingPanics(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(*model.PreconditionViolation); !ok {
			t.Fatalf("expected PreconditionViolation, got %v", r)
		}
	}()
	deals.NewDeal(2, 2)
}

func TestAtWar_OnlyPeaceItems(t *testing.T) {
	f := newFixture(t)
	f.w.SetWar(0, 1, true)
	d := deals.NewDeal(0, 1)
	if f.rules.AddEmbassy(d, 0) {
		t.Fatalf("embassy allowed at war")
	}
	if f.rules.AddMutualPact(d, model.ItemDeclarationOfFriendship, 30) {
		t.Fatalf("friendship allowed at war")
	}
	if !f.rules.AddPeaceTreaty(d, 10) || !f.rules.AddGoldTrade(d, 1, 100) {
		t.Fatalf("peace items rejected at war")
	}
	if f.rules.AddPeaceTreaty(d, 10) {
		t.Fatalf("second peace treaty accepted")
	}
	if !f.finalize(t, d) {
		t.Fatalf("peace deal not finalized")
	}
	if f.w.IsAtWar(0, 1) {
		t.Fatalf("still at war after peace")
	}
}

func TestFinalize_RevalidatesItems(t *testing.T) {
	f := newFixture(t)
	d := deals.NewDeal(0, 1)
	if !f.rules.AddGoldTrade(d, 0, 500) {
		t.Fatalf("gold rejected")
	}
	f.ledger.AddProposedDeal(d, f.w.CurrentTurn())
	f.w.SpendGold(0, f.w.TreasuryGold(0)-100)
	if f.ledger.FinalizeDeal(0, 1, true, f.rules, f.fx) {
		t.Fatalf("deal accepted after the giver lost the gold")
	}
	if f.w.TreasuryGold(1) != 400+20 {
		t.Fatalf("gold moved although the deal was rejected: %d", f.w.TreasuryGold(1))
	}
	if len(f.ledger.CurrentDeals()) != 0 || f.ledger.ProposedDeal(0, 1) != nil {
		t.Fatalf("rejected deal left in the ledger")
	}
}

func TestFinalize_MutualPactAppliedOnce(t *testing.T) {
	f := newFixture(t)
	d := deals.NewDeal(0, 1)
	if !f.rules.AddMutualPact(d, model.ItemDeclarationOfFriendship, 30) {
		t.Fatalf("friendship rejected")
	}
	if len(d.Items) != 2 {
		t.Fatalf("mutual pact items=%d want 2", len(d.Items))
	}
	if !f.finalize(t, d) {
		t.Fatalf("friendship deal rejected")
	}
	if len(f.fx.pacts) != 1 {
		t.Fatalf("pact effects=%v want exactly one", f.fx.pacts)
	}
	for _, it := range d.Items {
		if it.FinalTurn != f.w.CurrentTurn()+30 {
			t.Fatalf("final turn=%d", it.FinalTurn)
		}
	}
}

func TestDoTurn_PaysAndExpiresGPT(t *testing.T) {
	f := newFixture(t)
	d := deals.NewDeal(0, 1)
	if !f.rules.AddGPTTrade(d, 0, 5, 3) || !f.rules.AddEmbassy(d, 1) {
		t.Fatalf("setup rejected")
	}
	if !f.finalize(t, d) {
		t.Fatalf("deal rejected")
	}
	if got := f.ledger.GPTPromised(0, 0); got != 5 {
		t.Fatalf("promised=%d want 5", got)
	}
	paid := 0
	for i := 0; i < 5; i++ {
		before := f.w.TreasuryGold(1)
		f.ledger.DoTurn(f.w, f.fx)
		paid += f.w.TreasuryGold(1) - before
		if i == 0 && paid != 5 {
			t.Fatalf("finalize turn paid %d want 5", paid)
		}
		f.w.Advance()
	}
	if paid != 15 {
		t.Fatalf("paid=%d want 15", paid)
	}
	if len(f.ledger.CurrentDeals()) != 0 || len(f.ledger.HistoricalDeals()) != 1 {
		t.Fatalf("deal not historical: current=%d historical=%d", len(f.ledger.CurrentDeals()), len(f.ledger.HistoricalDeals()))
	}
	if f.ledger.GPTPromised(0, 0) != 0 {
		t.Fatalf("expired gpt still promised")
	}
}

func TestDoTurn_CancelsWhenResourceLost(t *testing.T) {
	f := newFixture(t)
	d := deals.NewDeal(0, 1)
	if !f.rules.AddResourceTrade(d, 0, "iron", 4, 30) {
		t.Fatalf("iron rejected")
	}
	if !f.finalize(t, d) {
		t.Fatalf("deal rejected")
	}
	if f.w.Imported(1, "iron") != 4 {
		t.Fatalf("flow not started")
	}
	if f.rules.AddResourceTrade(deals.NewDeal(0, 2), 0, "iron", 1, 30) {
		t.Fatalf("exported iron offered again")
	}
	f.w.Kill(1)
	f.ledger.DoTurn(f.w, f.fx)
	if len(f.ledger.CurrentDeals()) != 0 {
		t.Fatalf("deal with dead player not cancelled")
	}
	h := f.ledger.HistoricalDeals()
	if len(h) != 1 || !h[0].Cancelled {
		t.Fatalf("expected one cancelled historical deal")
	}
	if f.w.Imported(1, "iron") != 0 {
		t.Fatalf("flow not stopped")
	}
}

func TestCancelDealsBetween(t *testing.T) {
	f := newFixture(t)
	a := deals.NewDeal(0, 1)
	f.rules.AddOpenBorders(a, 0, 30)
	if !f.finalize(t, a) {
		t.Fatalf("open borders rejected")
	}
	b := deals.NewDeal(0, 2)
	f.rules.AddOpenBorders(b, 0, 30)
	if !f.finalize(t, b) {
		t.Fatalf("open borders to P2 rejected")
	}
	p := deals.NewDeal(1, 0)
	f.rules.AddEmbassy(p, 1)
	f.ledger.AddProposedDeal(p, f.w.CurrentTurn())

	f.ledger.DoCancelDealsBetween(0, 1, f.w.CurrentTurn(), f.fx)
	if got := f.ledger.DealsBetween(0, 1); len(got) != 0 {
		t.Fatalf("deals between 0 and 1 survived: %d", len(got))
	}
	if len(f.ledger.DealsBetween(0, 2)) != 1 {
		t.Fatalf("unrelated deal cancelled")
	}
	if f.ledger.ProposedDeal(1, 0) != nil {
		t.Fatalf("proposal survived cancellation")
	}
	f.ledger.DoCancelAllDealsOf(0, f.w.CurrentTurn(), f.fx)
	if len(f.ledger.CurrentDeals()) != 0 {
		t.Fatalf("deals of P0 survived")
	}
}

func TestAddProposedDeal_ReplacesOlder(t *testing.T) {
	f := newFixture(t)
	a := deals.NewDeal(0, 1)
	f.rules.AddGoldTrade(a, 0, 10)
	b := deals.NewDeal(0, 1)
	f.rules.AddGoldTrade(b, 0, 20)
	f.ledger.AddProposedDeal(a, 1)
	id := f.ledger.AddProposedDeal(b, 1)
	if got := f.ledger.ProposedDeal(0, 1); got == nil || got.ID != id || len(f.ledger.ProposedDeals()) != 1 {
		t.Fatalf("older proposal not replaced")
	}
}

func TestRenewableDeals(t *testing.T) {
	f := newFixture(t)
	d := deals.NewDeal(0, 1)
	f.rules.AddResourceTrade(d, 0, "silk", 1, 2)
	if !f.finalize(t, d) {
		t.Fatalf("deal rejected")
	}
	turn := f.w.CurrentTurn()
	if got := f.ledger.RenewableDeals(0, 1, turn, 1); len(got) != 0 {
		t.Fatalf("renewable too early")
	}
	if got := f.ledger.RenewableDeals(1, 0, turn+1, 1); len(got) != 1 {
		t.Fatalf("renewable deals=%d want 1", len(got))
	}
	renewal := deals.NewDeal(0, 1)
	renewal.RenewsDealID = d.ID
	if !f.rules.AddResourceTrade(renewal, 0, "silk", 2, 30) {
		t.Fatalf("renewal should see the renewed deal's silk as available")
	}
}
