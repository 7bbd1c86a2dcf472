package deals

import (
	"fmt"

	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/worldview"
)

// Effects applies the side effects of deals. Economic effects go to the world;
// diplomatic ones are routed to each involved player's own AI.
type Effects interface {
	worldview.Mutator
	// SetPact switches a deal-backed agreement given by giver to receiver.
	SetPact(kind model.TradeItemType, giver, receiver model.PlayerID, turn, duration int, active bool)
	MakePeace(a, b model.PlayerID, turn int)
	DeclareWar(attacker, target model.PlayerID, turn int)
	// LockCoopWar binds giver to a war on target it entered at receiver's request.
	LockCoopWar(giver, receiver, target model.PlayerID, turn int)
}

// Ledger is the global proposed -> current -> historical deal book.
type Ledger struct {
	nextID     int
	proposed   []*Deal
	current    []*Deal
	historical []*Deal

	notifier worldview.Notifier
}

func NewLedger(n worldview.Notifier) *Ledger {
	if n == nil {
		n = worldview.NopNotifier{}
	}
	return &Ledger{nextID: 1, notifier: n}
}

func (l *Ledger) emit(turn int, kind worldview.EventKind, d *Deal, detail string) {
	l.notifier.Notify(worldview.Event{Turn: turn, Kind: kind, From: d.From, To: d.To, DealID: d.ID, Detail: detail})
}

// AddProposedDeal stores d as the proposal from d.From to d.To, replacing an older one.
func (l *Ledger) AddProposedDeal(d *Deal, turn int) int {
	model.Require(d.IsWellFormed(), "deals.AddProposedDeal", "empty deal without peace treaty")
	out := l.proposed[:0]
	for _, p := range l.proposed {
		if p.From == d.From && p.To == d.To {
			continue
		}
		out = append(out, p)
	}
	l.proposed = out
	if d.ID == 0 {
		d.ID = l.nextID
		l.nextID++
	}
	l.proposed = append(l.proposed, d)
	l.emit(turn, worldview.EventDealProposed, d, "")
	return d.ID
}

func (l *Ledger) ProposedDeal(from, to model.PlayerID) *Deal {
	for _, p := range l.proposed {
		if p.From == from && p.To == to {
			return p
		}
	}
	return nil
}

// FinalizeDeal resolves the proposal from -> to. Accepted deals are re-validated item by
// item, their side effects fire once, and they become current.
func (l *Ledger) FinalizeDeal(from, to model.PlayerID, accepted bool, rules Rules, fx Effects) bool {
	turn := rules.World.CurrentTurn()
	idx := -1
	for i, p := range l.proposed {
		if p.From == from && p.To == to {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	d := l.proposed[idx]
	l.proposed = append(l.proposed[:idx], l.proposed[idx+1:]...)

	if !accepted {
		l.emit(turn, worldview.EventDealRejected, d, "")
		return false
	}
	if bad := l.invalidItem(d, rules); bad >= 0 {
		l.emit(turn, worldview.EventDealRejected, d, fmt.Sprintf("item %d (%s) no longer valid", bad, d.Items[bad].Kind))
		return false
	}

	d.StartTurn = turn
	for i := range d.Items {
		it := &d.Items[i]
		if it.IsDurational() {
			it.FinalTurn = turn + it.Duration
		} else {
			it.FinalTurn = -1
		}
	}
	l.apply(d, turn, rules, fx)
	l.current = append(l.current, d)
	if d.RenewsDealID != 0 {
		l.retire(d, turn, fx)
	}
	l.emit(turn, worldview.EventDealAccepted, d, "")
	return true
}

func (l *Ledger) invalidItem(d *Deal, rules Rules) int {
	for i, it := range d.Items {
		if !rules.IsPossibleToTradeItem(d, d.Giver(it), d.Receiver(it), SpecOf(it, i)) {
			return i
		}
	}
	return -1
}

func (l *Ledger) apply(d *Deal, turn int, rules Rules, fx Effects) {
	if d.PeaceTreaty != model.PeaceNone && !d.Has(model.ItemPeaceTreaty) {
		fx.MakePeace(d.From, d.To, turn)
	}
	mutualDone := map[model.TradeItemType]bool{}
	for _, it := range d.Items {
		giver, receiver := d.Giver(it), d.Receiver(it)
		switch it.Kind {
		case model.ItemGold:
			fx.TransferGold(giver, receiver, it.Amount)
		case model.ItemGoldPerTurn:
			// paid by DoTurn on every turn before FinalTurn, this one included
		case model.ItemResource:
			fx.AdjustResourceFlow(giver, receiver, it.Resource, it.Amount)
		case model.ItemCity:
			fx.TransferCity(it.City, receiver)
		case model.ItemAllowDelegation, model.ItemAllowEmbassy, model.ItemOpenBorders:
			fx.SetPact(it.Kind, giver, receiver, turn, it.Duration, true)
		case model.ItemDefensivePact, model.ItemResearchAgreement, model.ItemDeclarationOfFriendship:
			if it.Kind == model.ItemResearchAgreement {
				fx.SpendGold(giver, rules.ResearchAgreementCost(giver))
			}
			if !mutualDone[it.Kind] {
				mutualDone[it.Kind] = true
				fx.SetPact(it.Kind, giver, receiver, turn, it.Duration, true)
			}
		case model.ItemPeaceTreaty:
			fx.MakePeace(giver, receiver, turn)
		case model.ItemThirdPartyPeace:
			fx.MakePeace(giver, it.ThirdParty, turn)
		case model.ItemThirdPartyWar:
			fx.DeclareWar(giver, it.ThirdParty, turn)
			fx.LockCoopWar(giver, receiver, it.ThirdParty, turn)
		case model.ItemVoteCommitment:
			// votes are not scored yet
		default:
			model.Unhandled("deals.apply", it.Kind)
		}
	}
}

// end stops the ongoing effect of one durational item. completed is false on cancellation.
func (l *Ledger) end(d *Deal, it TradeItem, turn int, fx Effects, completed bool) {
	giver, receiver := d.Giver(it), d.Receiver(it)
	switch it.Kind {
	case model.ItemResource:
		fx.AdjustResourceFlow(giver, receiver, it.Resource, -it.Amount)
	case model.ItemOpenBorders, model.ItemDefensivePact, model.ItemDeclarationOfFriendship:
		fx.SetPact(it.Kind, giver, receiver, turn, it.Duration, false)
	case model.ItemResearchAgreement:
		fx.SetPact(it.Kind, giver, receiver, turn, it.Duration, false)
		if completed {
			fx.GrantResearch(receiver, giver, it.Duration)
		}
	}
}

// DoTurn pays gold per turn, cancels deals that became infeasible and expires items whose
// final turn is reached. Deals with nothing left in effect become historical.
func (l *Ledger) DoTurn(w worldview.View, fx Effects) {
	turn := w.CurrentTurn()
	for _, d := range append([]*Deal(nil), l.current...) {
		if reason := l.infeasible(d, w, turn); reason != "" {
			l.cancel(d, turn, fx, reason)
			continue
		}
		for i := range d.Items {
			it := &d.Items[i]
			if !it.IsDurational() || it.Expired {
				continue
			}
			if it.FinalTurn > turn && it.Kind == model.ItemGoldPerTurn {
				fx.TransferGold(d.Giver(*it), d.Receiver(*it), it.Amount)
			}
			if it.FinalTurn >= 0 && it.FinalTurn <= turn {
				it.Expired = true
				l.end(d, *it, turn, fx, true)
			}
		}
		if !l.anyActive(d, turn) {
			l.moveToHistorical(d)
			l.emit(turn, worldview.EventDealExpired, d, "")
		}
	}
}

func (l *Ledger) anyActive(d *Deal, turn int) bool {
	for _, it := range d.Items {
		if it.IsDurational() && it.ActiveAt(turn) {
			return true
		}
	}
	return false
}

func (l *Ledger) infeasible(d *Deal, w worldview.View, turn int) string {
	if !w.IsAlive(d.From) || !w.IsAlive(d.To) {
		return "player dead"
	}
	for _, it := range d.Items {
		if !it.IsDurational() || !it.ActiveAt(turn) {
			continue
		}
		giver := d.Giver(it)
		switch it.Kind {
		case model.ItemResource:
			if w.ResourceOwned(giver, it.Resource) < l.ResourceExported(giver, it.Resource, 0) {
				return fmt.Sprintf("resource %s no longer available", it.Resource)
			}
		case model.ItemGoldPerTurn:
			if w.TreasuryGold(giver)+w.GrossIncome(giver) < it.Amount {
				return "gold per turn unaffordable"
			}
		}
	}
	return ""
}

func (l *Ledger) cancel(d *Deal, turn int, fx Effects, reason string) {
	for i := range d.Items {
		it := &d.Items[i]
		if it.IsDurational() && it.ActiveAt(turn) {
			it.Expired = true
			l.end(d, *it, turn, fx, false)
		}
	}
	d.Cancelled = true
	l.moveToHistorical(d)
	l.emit(turn, worldview.EventDealCancelled, d, reason)
}

// retire hands the items renewal carries over from the deal it renews. Items the renewal
// leaves out keep running on the old deal until their own final turn.
func (l *Ledger) retire(renewal *Deal, turn int, fx Effects) {
	for _, d := range l.current {
		if d.ID != renewal.RenewsDealID {
			continue
		}
		for i := range d.Items {
			it := &d.Items[i]
			if !it.IsDurational() || !it.ActiveAt(turn) || !carries(renewal, d, *it) {
				continue
			}
			it.Expired = true
			it.FinalTurn = turn
			// the renewal re-applied its resource flow, so stop the old one
			if it.Kind == model.ItemResource {
				l.end(d, *it, turn, fx, false)
			}
		}
		if !l.anyActive(d, turn) {
			l.moveToHistorical(d)
		}
		return
	}
}

// carries reports whether renewal has an item of the same kind, giver and resource as it.
func carries(renewal, old *Deal, it TradeItem) bool {
	giver := old.Giver(it)
	for _, n := range renewal.Items {
		if n.Kind == it.Kind && n.Resource == it.Resource && renewal.Giver(n) == giver {
			return true
		}
	}
	return false
}

func (l *Ledger) moveToHistorical(d *Deal) {
	for i, c := range l.current {
		if c == d {
			l.current = append(l.current[:i], l.current[i+1:]...)
			break
		}
	}
	l.historical = append(l.historical, d)
}

// DoCancelDealsBetween cancels current and proposed deals between a and b (war declared).
func (l *Ledger) DoCancelDealsBetween(a, b model.PlayerID, turn int, fx Effects) {
	for _, d := range append([]*Deal(nil), l.current...) {
		if d.Between(a, b) {
			l.cancel(d, turn, fx, "war")
		}
	}
	out := l.proposed[:0]
	for _, p := range l.proposed {
		if !p.Between(a, b) {
			out = append(out, p)
		}
	}
	l.proposed = out
}

// DoCancelAllDealsOf cancels everything p is part of (player eliminated).
func (l *Ledger) DoCancelAllDealsOf(p model.PlayerID, turn int, fx Effects) {
	for _, d := range append([]*Deal(nil), l.current...) {
		if d.Involves(p) {
			l.cancel(d, turn, fx, "player eliminated")
		}
	}
	out := l.proposed[:0]
	for _, d := range l.proposed {
		if !d.Involves(p) {
			out = append(out, d)
		}
	}
	l.proposed = out
}

func (l *Ledger) ProposedDeals() []*Deal   { return append([]*Deal(nil), l.proposed...) }
func (l *Ledger) CurrentDeals() []*Deal    { return append([]*Deal(nil), l.current...) }
func (l *Ledger) HistoricalDeals() []*Deal { return append([]*Deal(nil), l.historical...) }

func (l *Ledger) DealsBetween(a, b model.PlayerID) []*Deal {
	var out []*Deal
	for _, d := range l.current {
		if d.Between(a, b) {
			out = append(out, d)
		}
	}
	return out
}

// ResourceExported sums res given by p in current deals, skipping the deal with id skipDeal.
func (l *Ledger) ResourceExported(p model.PlayerID, res model.ResourceType, skipDeal int) int {
	n := 0
	for _, d := range l.current {
		if !d.Involves(p) || (skipDeal != 0 && d.ID == skipDeal) {
			continue
		}
		for _, it := range d.Items {
			if it.Kind == model.ItemResource && it.Resource == res && !it.Expired && d.Giver(it) == p {
				n += it.Amount
			}
		}
	}
	return n
}

// GPTPromised sums gold per turn p pays in current deals, skipping skipDeal.
func (l *Ledger) GPTPromised(p model.PlayerID, skipDeal int) int {
	n := 0
	for _, d := range l.current {
		if !d.Involves(p) || (skipDeal != 0 && d.ID == skipDeal) {
			continue
		}
		for _, it := range d.Items {
			if it.Kind == model.ItemGoldPerTurn && !it.Expired && d.Giver(it) == p {
				n += it.Amount
			}
		}
	}
	return n
}

// GPTReceived sums gold per turn flowing from giver to receiver.
func (l *Ledger) GPTReceived(receiver, giver model.PlayerID) int {
	n := 0
	for _, d := range l.current {
		if !d.Between(receiver, giver) {
			continue
		}
		for _, it := range d.Items {
			if it.Kind == model.ItemGoldPerTurn && !it.Expired && d.Giver(it) == giver {
				n += it.Amount
			}
		}
	}
	return n
}

// RenewableDeals lists current deals between a and b whose durational items end within window turns.
func (l *Ledger) RenewableDeals(a, b model.PlayerID, turn, window int) []*Deal {
	var out []*Deal
	for _, d := range l.current {
		if !d.Between(a, b) {
			continue
		}
		for _, it := range d.Items {
			if it.IsDurational() && !it.Expired && it.FinalTurn >= turn && it.FinalTurn-turn <= window {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
