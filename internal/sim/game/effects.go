package game

import (
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/worldview"
)

// The Game is its ledger's deals.Effects: economy goes to the world, diplomacy to the
// books of the players involved.

// TransferGold moves a lump sum between treasuries.
func (g *Game) TransferGold(from, to model.PlayerID, amount int) { g.world.TransferGold(from, to, amount) }

// SpendGold removes gold from p's treasury.
func (g *Game) SpendGold(p model.PlayerID, amount int) { g.world.SpendGold(p, amount) }

// TransferCity hands city to a new owner.
func (g *Game) TransferCity(city model.CityID, to model.PlayerID) { g.world.TransferCity(city, to) }

// AdjustResourceFlow changes the traded amount of r from one player to another.
func (g *Game) AdjustResourceFlow(from, to model.PlayerID, r model.ResourceType, amount int) {
	g.world.AdjustResourceFlow(from, to, r, amount)
}

// SetWar declares war or makes peace between a and b on the current turn.
func (g *Game) SetWar(a, b model.PlayerID, atWar bool) {
	if atWar {
		g.DeclareWar(a, b, g.world.CurrentTurn())
		return
	}
	g.MakePeace(a, b, g.world.CurrentTurn())
}

// GrantResearch pays out a completed research agreement.
func (g *Game) GrantResearch(a, b model.PlayerID, amount int) { g.world.GrantResearch(a, b, amount) }

// SetPact records a pact starting or ending in the books that track it.
func (g *Game) SetPact(kind model.TradeItemType, giver, receiver model.PlayerID, turn, duration int, active bool) {
	switch kind {
	case model.ItemAllowEmbassy, model.ItemAllowDelegation:
		g.ais[receiver].ApplyPact(kind, giver, turn, duration, active)
	case model.ItemOpenBorders:
		g.ais[giver].ApplyPact(kind, receiver, turn, duration, active)
	case model.ItemDefensivePact, model.ItemResearchAgreement, model.ItemDeclarationOfFriendship:
		g.ais[giver].ApplyPact(kind, receiver, turn, duration, active)
		g.ais[receiver].ApplyPact(kind, giver, turn, duration, active)
	default:
		model.Unhandled("game.SetPact", kind)
	}
}

// MakePeace ends the war between a and b, if there is one.
func (g *Game) MakePeace(a, b model.PlayerID, turn int) {
	if !g.world.IsAtWar(a, b) {
		return
	}
	g.world.SetWar(a, b, false)
	g.ais[a].MakePeaceWith(b, turn)
	g.ais[b].MakePeaceWith(a, turn)
	g.notifier.Notify(worldview.Event{Turn: turn, Kind: worldview.EventPeaceMade, From: a, To: b})
	g.logf("turn %d: peace between %s and %s", turn, a, b)
}

// DeclareWar starts a war, cancels every deal between the two and calls in the
// target's defensive pacts.
func (g *Game) DeclareWar(attacker, target model.PlayerID, turn int) {
	model.RequirePair("game.DeclareWar", attacker, target)
	if g.world.IsAtWar(attacker, target) {
		return
	}
	g.world.SetWar(attacker, target, true)
	g.ais[attacker].OnDeclaredWarOn(target, turn)
	g.ais[target].OnWarDeclaredBy(attacker, turn)
	g.ledger.DoCancelDealsBetween(attacker, target, turn, g)
	g.notifier.Notify(worldview.Event{Turn: turn, Kind: worldview.EventWarDeclared, From: attacker, To: target})
	g.logf("turn %d: %s declared war on %s", turn, attacker, target)

	for _, ally := range g.books[target].Others() {
		if ally == attacker || !g.world.IsAlive(ally) || !g.books[ally].Has(attacker) {
			continue
		}
		if g.books[target].Get(ally).DefensivePact.IsActive() {
			g.DeclareWar(ally, attacker, turn)
		}
	}
}

// LockCoopWar commits giver and receiver to a joint war on target.
func (g *Game) LockCoopWar(giver, receiver, target model.PlayerID, turn int) {
	g.ais[giver].JoinCoopWar(receiver, target)
	g.ais[receiver].JoinCoopWar(giver, target)
}
