package dealai_test

import (
	"testing"

	"statecraft.ai/internal/sim/dealai"
	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/sandbox"
	"statecraft.ai/internal/sim/tuning"
)

type fixture struct {
	w      *sandbox.World
	books  relations.Books
	ledger *deals.Ledger
	tune   tuning.Tuning
}

func newFixture(t *testing.T, mutate func(*sandbox.Config)) *fixture {
	t.Helper()
	cfg := sandbox.Demo(5)
	if mutate != nil {
		mutate(&cfg)
	}
	w, err := sandbox.New(cfg, model.FixedRNG{})
	if err != nil {
		t.Fatalf("sandbox.New: %v", err)
	}
	w.Advance()
	tune := tuning.Defaults()
	books := relations.Books{}
	for _, p := range w.PlayerIDs() {
		books[p] = relations.NewBook(p)
	}
	for _, p := range w.PlayerIDs() {
		for _, o := range w.PlayerIDs() {
			if o == p {
				continue
			}
			if !w.HasMet(p, o) {
				w.Meet(p, o)
			}
			books[p].Ensure(o, w.CurrentTurn(), tune)
		}
	}
	return &fixture{w: w, books: books, ledger: deals.NewLedger(nil), tune: tune}
}

func (f *fixture) ai(p model.PlayerID) *dealai.AI {
	return dealai.New(f.books[p], f.w, f.books, f.ledger, f.tune)
}

func TestEqualizeWithAI_DelegationExchange(t *testing.T) {
	f := newFixture(t, nil)
	a := f.ai(0)
	d := deals.NewDeal(0, 1)
	r := a.Rules()
	if !r.AddDelegation(d, 0) || !r.AddDelegation(d, 1) {
		t.Fatalf("delegations rejected")
	}
	if !a.EqualizeWithAI(d, 1) {
		t.Fatalf("delegation exchange did not equalize")
	}
	if d.IsEmpty() {
		t.Fatalf("equalized deal is empty")
	}
}

func TestEqualizeWithAI_PaysForLuxury(t *testing.T) {
	f := newFixture(t, nil)
	a := f.ai(0)
	d := deals.NewDeal(0, 1)
	if !a.Rules().AddResourceTrade(d, 1, "wine", 1, f.tune.Deals.DealDuration) {
		t.Fatalf("wine rejected")
	}
	if !a.EqualizeWithAI(d, 1) {
		t.Fatalf("wine deal did not equalize: %+v", d.Items)
	}
	gave := false
	for _, it := range d.Items {
		if d.Giver(it) == 0 {
			gave = true
		}
	}
	if !gave {
		t.Fatalf("P0 gives nothing for the wine: %+v", d.Items)
	}
	if !a.IsDealAcceptable(d, 1) || !f.ai(1).IsDealAcceptable(d, 0) {
		t.Fatalf("equalized deal not acceptable to both sides")
	}
}

func TestEqualizeWithHuman(t *testing.T) {
	f := newFixture(t, func(c *sandbox.Config) { c.Players[1].Human = true })
	a := f.ai(0)
	r := a.Rules()

	d := deals.NewDeal(0, 1)
	r.AddDelegation(d, 0)
	r.AddDelegation(d, 1)
	if res := a.EqualizeWithHuman(d, 1, false, false); !res.OK || !res.WasAlreadyGood {
		t.Fatalf("balanced exchange: %+v", res)
	}

	gift := deals.NewDeal(0, 1)
	if !r.AddGoldTrade(gift, 0, 300) {
		t.Fatalf("gold rejected")
	}
	if res := a.EqualizeWithHuman(gift, 1, true, true); res.OK || !res.CantMatchOffer {
		t.Fatalf("locked gift: %+v", res)
	}
}

func TestIsOfferPeace_WinnerDemandsBackdown(t *testing.T) {
	f := newFixture(t, nil)
	f.w.SetWar(0, 1, true)
	mine := f.books[0].Get(1)
	mine.PeaceWillingToOffer, mine.PeaceWillingToAccept = model.PeaceWhite, model.PeaceBackdown
	theirs := f.books[1].Get(0)
	theirs.PeaceWillingToOffer, theirs.PeaceWillingToAccept = model.PeaceSubmission, model.PeaceWhite

	a := f.ai(0)
	treaty, loser, ok := a.IsOfferPeace(1)
	if !ok || treaty != model.PeaceBackdown || loser != 1 {
		t.Fatalf("got %s %s %v", treaty, loser, ok)
	}
	d := a.MakePeaceDeal(1)
	if d == nil {
		t.Fatalf("no peace deal")
	}
	if !d.Has(model.ItemPeaceTreaty) || !d.HasFrom(model.ItemGold, 1) || !d.HasFrom(model.ItemOpenBorders, 1) {
		t.Fatalf("missing reparations: %+v", d.Items)
	}
	if len(d.CitiesTradedBy(1)) != 0 {
		t.Fatalf("backdown should not cede cities")
	}
	if !f.ai(1).EvaluateProposal(d) {
		t.Fatalf("loser refused terms within its willingness")
	}
}

func TestIsOfferPeace_NoOverlap(t *testing.T) {
	f := newFixture(t, nil)
	f.w.SetWar(0, 1, true)
	f.books[0].Get(1).PeaceWillingToOffer = model.PeaceWhite
	f.books[0].Get(1).PeaceWillingToAccept = model.PeaceCession
	f.books[1].Get(0).PeaceWillingToOffer = model.PeaceArmistice
	f.books[1].Get(0).PeaceWillingToAccept = model.PeaceBackdown
	if _, _, ok := f.ai(0).IsOfferPeace(1); ok {
		t.Fatalf("peace offered without overlap")
	}
	if _, _, ok := f.ai(0).IsOfferPeace(2); ok {
		t.Fatalf("peace offered while not at war")
	}
}

func TestPeaceTreaty_ZeroCityLoserSkipsCities(t *testing.T) {
	f := newFixture(t, func(c *sandbox.Config) { c.Players[2].Cities = nil })
	f.w.SetWar(0, 2, true)
	a := f.ai(0)
	d := deals.NewDeal(0, 2)
	if !a.DoAddItemsToDealForPeaceTreaty(d, 2, model.PeaceUnconditionalSurrender, 2) {
		t.Fatalf("peace treaty not added")
	}
	if len(d.CitiesTradedBy(2)) != 0 {
		t.Fatalf("cityless loser ceded cities")
	}
	if n := a.DoAddCitiesToUs(d, 2, 0, 3); n != 0 {
		t.Fatalf("added %d cities from a cityless player", n)
	}
}

func TestDoAddCitiesToUs_ClosestFirst(t *testing.T) {
	f := newFixture(t, nil)
	a := f.ai(0)
	d := deals.NewDeal(0, 1)
	if n := a.DoAddCitiesToUs(d, 1, 0, 1); n != 1 {
		t.Fatalf("added %d", n)
	}
	got := d.CitiesTradedBy(1)
	if name := f.w.CityName(got[0]); name != "Frost" {
		t.Fatalf("ceded %s, want the closest non-capital city", name)
	}
	if n := a.DoAddCitiesToUs(d, 1, 0, 5); n != 1 {
		t.Fatalf("second call added %d, want only the remaining non-capital city", n)
	}
}

func TestEvaluateProposal_LockedIntoWarRefusesPeace(t *testing.T) {
	f := newFixture(t, nil)
	f.w.SetWar(0, 1, true)
	s := f.books[0].Get(1)
	s.TurnsLockedIntoWar = 4
	s.PeaceWillingToOffer = model.PeaceUnconditionalSurrender
	d := deals.NewDeal(1, 0)
	if !f.ai(1).Rules().AddPeaceTreaty(d, f.tune.Pacts.PeaceTreaty) {
		t.Fatalf("peace item rejected")
	}
	d.PeaceTreaty = model.PeaceWhite
	if f.ai(0).EvaluateProposal(d) {
		t.Fatalf("accepted peace while locked into war")
	}
}

func TestMakeDemand(t *testing.T) {
	f := newFixture(t, nil)
	d := f.ai(0).MakeDemand(2)
	if d == nil || d.Requesting != 0 || d.GoldTradedBy(2) != f.w.TreasuryGold(2)/4 {
		t.Fatalf("demand: %+v", d)
	}
	f.books[2].Get(0).Approach = model.ApproachAfraid
	if !f.ai(2).EvaluateProposal(d) {
		t.Fatalf("afraid player refused a demand")
	}
	f.books[2].Get(0).Approach = model.ApproachHostile
	if f.ai(2).EvaluateProposal(d) {
		t.Fatalf("hostile player gave in to a demand")
	}
}

func TestPrepareRenewalDeal(t *testing.T) {
	f := newFixture(t, nil)
	a := f.ai(0)
	r := a.Rules()
	old := deals.NewDeal(0, 1)
	if !r.AddResourceTrade(old, 0, "silk", 1, 2) || !r.AddGPTTrade(old, 1, 8, 2) {
		t.Fatalf("setup rejected")
	}
	f.ledger.AddProposedDeal(old, f.w.CurrentTurn())
	if !f.ledger.FinalizeDeal(0, 1, true, r, nopEffects{f.w}) {
		t.Fatalf("old deal rejected")
	}
	renewal := a.PrepareRenewalDeal(old)
	if renewal == nil {
		t.Fatalf("no renewal")
	}
	if renewal.RenewsDealID != old.ID || len(renewal.Items) < 2 {
		t.Fatalf("renewal: %+v", renewal)
	}
	for _, it := range renewal.Items[:2] {
		if !it.FromRenewal || it.Duration != f.tune.Deals.DealDuration {
			t.Fatalf("renewed item: %+v", it)
		}
	}
}

func TestOffers(t *testing.T) {
	f := newFixture(t, nil)
	a := f.ai(0)
	if d := a.MakeOfferForEmbassy(1); d == nil || !d.HasFrom(model.ItemAllowEmbassy, 1) {
		t.Fatalf("embassy offer: %+v", d)
	}
	if d := a.MakeOfferForOpenBorders(1); d == nil || !d.HasFrom(model.ItemOpenBorders, 0) {
		t.Fatalf("open borders offer: %+v", d)
	}
	if d := a.MakeOfferForFriendship(1); d == nil || len(d.Items) < 2 {
		t.Fatalf("friendship offer: %+v", d)
	}
	if d := a.MakeOfferForResearchAgreement(1); d != nil {
		t.Fatalf("research agreement without embassies: %+v", d)
	}
	if d := a.MakeOfferForDefensivePact(1); d != nil {
		t.Fatalf("defensive pact without friendship: %+v", d)
	}
}

type nopEffects struct{ *sandbox.World }

func (nopEffects) SetPact(model.TradeItemType, model.PlayerID, model.PlayerID, int, int, bool) {}
func (nopEffects) MakePeace(a, b model.PlayerID, turn int)                                     {}
func (nopEffects) DeclareWar(a, b model.PlayerID, turn int)                                    {}
func (nopEffects) LockCoopWar(a, b, target model.PlayerID, turn int)                           {}
