package valuation_test

import (
	"testing"

	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/sandbox"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/valuation"
)

type fixture struct {
	w     *sandbox.World
	books relations.Books
	tune  tuning.Tuning
}

func newFixture(t *testing.T, mutate func(*sandbox.Config)) *fixture {
	t.Helper()
	cfg := sandbox.Demo(11)
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
		for _, o := range w.PlayerIDs() {
			if o != p {
				books[p].Ensure(o, w.CurrentTurn(), tune)
			}
		}
	}
	return &fixture{w: w, books: books, tune: tune}
}

func (f *fixture) engine(me model.PlayerID) valuation.Engine {
	return valuation.New(me, f.w, f.books, f.tune)
}

func (f *fixture) rules() deals.Rules {
	return deals.Rules{World: f.w, Relations: f.books, Ledger: deals.NewLedger(nil), Tune: f.tune}
}

func TestDealValue_EmptyDealIsZero(t *testing.T) {
	f := newFixture(t, nil)
	e := f.engine(0)
	d := deals.NewDeal(0, 1)
	for _, even := range []bool{false, true} {
		total, mine, theirs := e.DealValue(d, even)
		if total != 0 || mine != 0 || theirs != 0 {
			t.Fatalf("useEven=%v: got (%d,%d,%d)", even, total, mine, theirs)
		}
	}
}

func TestGoldForValueExchange_RoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	approaches := []model.MajorApproach{model.ApproachFriendly, model.ApproachNeutral, model.ApproachGuarded, model.ApproachHostile, model.ApproachWar}
	opinions := []model.Opinion{model.OpinionAlly, model.OpinionNeutral, model.OpinionEnemy, model.OpinionUnforgivable}
	for _, a := range approaches {
		for _, o := range opinions {
			s := f.books[0].Get(1)
			s.Approach, s.Opinion = a, o
			e := f.engine(0)
			for _, fromMe := range []bool{false, true} {
				for _, perTurn := range []bool{false, true} {
					for _, roundUp := range []bool{false, true} {
						for _, gold := range []int{0, 1, 7, 99, 100, 250, 1234} {
							v := e.GoldForValueExchange(gold, false, fromMe, 1, roundUp, perTurn)
							back := e.GoldForValueExchange(v, true, fromMe, 1, roundUp, perTurn)
							if diff := back - gold; diff < -2 || diff > 2 {
								t.Fatalf("%s/%s fromMe=%v perTurn=%v roundUp=%v: %d -> %d -> %d", a, o, fromMe, perTurn, roundUp, gold, v, back)
							}
						}
					}
				}
			}
		}
	}
}

func TestTradeItemValue_SelfPairingPanics(t *testing.T) {
	f := newFixture(t, nil)
	defer func() {
		if _, ok := recover().(*model.PreconditionViolation); !ok {
			t.Fatalf("expected PreconditionViolation")
		}
	}()
	f.engine(0).TradeItemValue(valuation.Item{Kind: model.ItemGold, Amount: 10}, true, 0, false)
}

func TestGold_ModifiersOnlyWhenGiving(t *testing.T) {
	f := newFixture(t, nil)
	gold := valuation.Item{Kind: model.ItemGold, Amount: 100}
	if v := f.engine(0).TradeItemValue(gold, true, 1, false); v != 100 {
		t.Fatalf("neutral gold=%d want 100", v)
	}
	f.books[0].Get(1).Approach = model.ApproachHostile
	e := f.engine(0)
	if v := e.TradeItemValue(gold, true, 1, false); v != 150 {
		t.Fatalf("hostile gold=%d want 150", v)
	}
	if v := e.TradeItemValue(gold, false, 1, false); v != 100 {
		t.Fatalf("received gold=%d want 100", v)
	}
	if v := e.TradeItemValue(gold, true, 1, true); v != 125 {
		t.Fatalf("even gold=%d want 125", v)
	}
}

func TestGPT_HalvedWhenGiverCannotAfford(t *testing.T) {
	f := newFixture(t, nil)
	e := f.engine(0)
	gpt := valuation.Item{Kind: model.ItemGoldPerTurn, Amount: 5, Duration: 10}
	if v := e.TradeItemValue(gpt, false, 2, false); v != 40 {
		t.Fatalf("gpt=%d want 40", v)
	}
	gpt.Amount = 20 // P2 earns 10
	if v := e.TradeItemValue(gpt, false, 2, false); v != 80 {
		t.Fatalf("unaffordable gpt=%d want 80", v)
	}
}

func TestResources(t *testing.T) {
	f := newFixture(t, nil)
	silk := valuation.Item{Kind: model.ItemResource, Resource: "silk", Amount: 1, Duration: 30}
	if v := f.engine(2).TradeItemValue(silk, true, 0, false); v != 720 {
		t.Fatalf("last silk copy=%d want 720", v)
	}
	if v := f.engine(0).TradeItemValue(silk, true, 2, false); v != 240 {
		t.Fatalf("spare silk=%d want 240", v)
	}
	if v := f.engine(0).TradeItemValue(silk, false, 2, false); v != 120 {
		t.Fatalf("owned silk received=%d want 120", v)
	}
	f.books[0].Get(2).Opinion = model.OpinionUnforgivable
	if v := f.engine(0).TradeItemValue(silk, true, 2, false); v != 1200 {
		t.Fatalf("silk to an unforgivable player=%d want 1200", v)
	}

	iron := valuation.Item{Kind: model.ItemResource, Resource: "iron", Amount: 2, Duration: 30}
	if v := f.engine(1).TradeItemValue(iron, false, 0, false); v != 90 {
		t.Fatalf("iron received=%d want 90", v)
	}
	g := newFixture(t, func(c *sandbox.Config) { c.Players[1].Resources["iron"] = 8 })
	if v := g.engine(1).TradeItemValue(iron, false, 0, false); v != 0 {
		t.Fatalf("iron on surplus=%d want 0", v)
	}
}

func TestCity_HumanCessionDiscounted(t *testing.T) {
	f := newFixture(t, func(c *sandbox.Config) { c.Players[1].Human = true })
	e := f.engine(0)
	far := f.w.Cities(1)[2].ID // Glint, 12 tiles from Brindle
	base := e.CityBaseValue(far)
	if base <= 440 {
		t.Fatalf("base=%d", base)
	}
	got := e.TradeItemValue(valuation.Item{Kind: model.ItemCity, City: far}, false, 1, false)
	if want := base * 64 / 100; got != want {
		t.Fatalf("discounted city=%d want %d", got, want)
	}
	ai := newFixture(t, nil).engine(0)
	if got := ai.TradeItemValue(valuation.Item{Kind: model.ItemCity, City: far}, false, 1, false); got != base {
		t.Fatalf("AI-ceded city=%d want %d", got, base)
	}
}

func TestCity_CedingScaledByProjection(t *testing.T) {
	f := newFixture(t, nil)
	f.w.SetWar(0, 1, true)
	city := f.w.Cities(1)[1].ID
	e := f.engine(1)
	base := e.CityBaseValue(city)
	item := valuation.Item{Kind: model.ItemCity, City: city}
	cases := map[model.WarProjection]int{
		model.ProjectionDestruction: 100,
		model.ProjectionDefeat:      150,
		model.ProjectionUnknown:     200,
		model.ProjectionGood:        300,
		model.ProjectionVeryGood:    400,
	}
	for p, pct := range cases {
		f.books[1].Get(0).WarProjection = p
		if got := e.TradeItemValue(item, true, 0, false); got != base*pct/100 {
			t.Fatalf("%s: got %d want %d", p, got, base*pct/100)
		}
	}
}

func TestThirdPartyPeaceFromThemIsUnacceptable(t *testing.T) {
	f := newFixture(t, nil)
	e := f.engine(0)
	item := valuation.Item{Kind: model.ItemThirdPartyPeace, ThirdParty: 2}
	for _, even := range []bool{false, true} {
		if v := e.TradeItemValue(item, false, 1, even); v != valuation.Unacceptable {
			t.Fatalf("useEven=%v: got %d", even, v)
		}
	}
	if v := e.TradeItemValue(item, true, 1, false); v < 0 {
		t.Fatalf("offering third-party peace priced negative: %d", v)
	}
}

func TestVoteCommitmentIsNotScored(t *testing.T) {
	f := newFixture(t, nil)
	e := f.engine(0)
	for _, fromMe := range []bool{false, true} {
		if v := e.TradeItemValue(valuation.Item{Kind: model.ItemVoteCommitment, Amount: 3}, fromMe, 1, true); v != 0 {
			t.Fatalf("vote commitment=%d", v)
		}
	}
}

func TestDealValue_DelegationExchangeIsBalanced(t *testing.T) {
	f := newFixture(t, nil)
	r := f.rules()
	d := deals.NewDeal(0, 1)
	if !r.AddDelegation(d, 0) || !r.AddDelegation(d, 1) {
		t.Fatalf("delegations rejected")
	}
	total, mine, theirs := f.engine(0).DealValue(d, true)
	if total != 0 || mine != 10 || theirs != 10 {
		t.Fatalf("got (%d,%d,%d)", total, mine, theirs)
	}
}
