// Package diplomacy is one player's diplomatic mind. It owns the player's relations book,
// refreshes every entry once per turn and acts on the result.
package diplomacy

import (
	"statecraft.ai/internal/sim/dealai"
	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/stance"
	"statecraft.ai/internal/sim/statement"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/worldview"
)

// Env is shared by every player's AI in one game.
type Env struct {
	World     worldview.View
	Relations relations.Reader
	Ledger    *deals.Ledger
	Tune      tuning.Tuning
	Effects   deals.Effects
	Notifier  worldview.Notifier
	// Peers looks up the deal AI answering for another player.
	Peers statement.Peers
}

type AI struct {
	me   model.PlayerID
	book *relations.Book
	env  Env
}

func New(book *relations.Book, env Env) *AI {
	if env.Notifier == nil {
		env.Notifier = worldview.NopNotifier{}
	}
	return &AI{me: book.Owner(), book: book, env: env}
}

func (a *AI) Me() model.PlayerID       { return a.me }
func (a *AI) Book() *relations.Book    { return a.book }
func (a *AI) turn() int                { return a.env.World.CurrentTurn() }
func (a *AI) w() worldview.View        { return a.env.World }
func (a *AI) tune() tuning.Tuning      { return a.env.Tune }
func (a *AI) notify(e worldview.Event) { a.env.Notifier.Notify(e) }

// DealAI returns the deal negotiator acting for this player.
func (a *AI) DealAI() *dealai.AI {
	return dealai.New(a.book, a.env.World, a.env.Relations, a.env.Ledger, a.env.Tune)
}

func (a *AI) dispatcher() *statement.Dispatcher {
	return &statement.Dispatcher{
		AI:       a.DealAI(),
		Mind:     a,
		Peers:    a.env.Peers,
		Effects:  a.env.Effects,
		Notifier: a.env.Notifier,
	}
}

// DoFirstContactWith creates the entry for other. It reports false when the two had met before.
func (a *AI) DoFirstContactWith(other model.PlayerID) bool {
	s, created := a.book.Ensure(other, a.turn(), a.tune())
	if !created {
		return false
	}
	s.Proximity = a.proximityTo(other)
	a.notify(worldview.Event{Turn: a.turn(), Kind: worldview.EventFirstContact, From: a.me, To: other})
	return true
}

func (a *AI) IsAtWarWith(other model.PlayerID) bool {
	model.RequirePair("diplomacy.IsAtWarWith", a.me, other)
	return a.w().IsAtWar(a.me, other)
}

// DoDeclareWarTo starts a war on other. Nothing happens when already at war.
func (a *AI) DoDeclareWarTo(other model.PlayerID) {
	model.RequirePair("diplomacy.DoDeclareWarTo", a.me, other)
	model.Require(a.book.Has(other), "diplomacy.DoDeclareWarTo", "%s has not met %s", a.me, other)
	if a.IsAtWarWith(other) {
		return
	}
	a.env.Effects.DeclareWar(a.me, other, a.turn())
}

// OnDeclaredWarOn records a war this player started.
func (a *AI) OnDeclaredWarOn(target model.PlayerID, turn int) {
	a.enterWar(target, turn)
}

// OnWarDeclaredBy records a war started against this player; the attacker is treated as
// an open enemy from now on.
func (a *AI) OnWarDeclaredBy(attacker model.PlayerID, turn int) {
	s := a.enterWar(attacker, turn)
	s.Approach = model.ApproachWar
	s.ApproachScore = model.ApproachWar.Level()
	s.WarFace = model.WarFaceNone
}

func (a *AI) enterWar(other model.PlayerID, turn int) *relations.State {
	s := a.book.Get(other)
	s.DeclarationOfWar.Activate(turn)
	s.PeaceTreaty.Abandon()
	s.Friendship.Abandon()
	s.OpenBorders.Abandon()
	s.DefensivePact.Abandon()
	s.ResearchAgreement.Abandon()
	s.TurnsAtWar = 0
	s.WantPeaceCounter = 0
	s.LastWarProjection = s.WarProjection
	s.WarProjection = model.ProjectionUnknown
	return s
}

// MakePeaceWith ends this player's side of the war with other and starts the peace treaty.
func (a *AI) MakePeaceWith(other model.PlayerID, turn int) {
	s := a.book.Get(other)
	s.DeclarationOfWar.Abandon()
	s.PeaceTreaty.Activate(turn)
	s.TurnsAtPeace = 0
	s.TurnsAtWar = 0
	s.TurnsLockedIntoWar = 0
	s.WantPeaceCounter = 0
	s.WarState = model.WarStateNone
	s.LastWarProjection = s.WarProjection
	s.WarProjection = model.ProjectionUnknown
	s.WarGoal = model.WarGoalNone
	s.PeaceWillingToOffer = model.PeaceNone
	s.PeaceWillingToAccept = model.PeaceNone
	if s.Approach == model.ApproachWar {
		s.Approach = model.ApproachNeutral
		s.WarFace = model.WarFaceNone
	}
}

// ApplyPact switches a deal-backed agreement in this player's book. Embassies and
// delegations are recorded by the player who received them, every other pact by its giver.
func (a *AI) ApplyPact(kind model.TradeItemType, other model.PlayerID, turn, duration int, active bool) {
	s := a.book.Get(other)
	var p *relations.Pact
	switch kind {
	case model.ItemAllowEmbassy:
		s.HasEmbassy = active
		return
	case model.ItemAllowDelegation:
		s.HasDelegation = active
		return
	case model.ItemOpenBorders:
		p = &s.OpenBorders
	case model.ItemDefensivePact:
		p = &s.DefensivePact
	case model.ItemResearchAgreement:
		p = &s.ResearchAgreement
	case model.ItemDeclarationOfFriendship:
		p = &s.Friendship
	default:
		model.Unhandled("diplomacy.ApplyPact", kind)
	}
	if !active {
		p.Abandon()
		return
	}
	p.Duration = duration
	p.Activate(turn)
}

// JoinCoopWar binds this player to partner against target.
func (a *AI) JoinCoopWar(partner, target model.PlayerID) {
	a.book.Get(partner).CoopWarTarget = target
	if a.book.Has(target) {
		a.book.Get(target).TurnsLockedIntoWar = a.tune().War.CoopWarLockTurns
	}
}

func (a *AI) IsWantsPeaceWith(other model.PlayerID) bool {
	s := a.book.Get(other)
	return stance.WantsPeace(stance.PeaceInput{
		AtWar:              a.IsAtWarWith(other),
		TurnsLockedIntoWar: s.TurnsLockedIntoWar,
		WarGoal:            s.WarGoal,
		WantPeaceCounter:   s.WantPeaceCounter,
		TurnsAtWar:         s.TurnsAtWar,
	}, a.tune().War)
}

// MajorCivApproachTowards returns the approach toward other. With hideTrue a planned war
// shows as its war face.
func (a *AI) MajorCivApproachTowards(other model.PlayerID, hideTrue bool) model.MajorApproach {
	s := a.book.Get(other)
	if hideTrue && s.Approach == model.ApproachWar && s.WarFace != model.WarFaceNone {
		return s.WarFace.Approach()
	}
	return s.Approach
}

// WarTarget is the enemy this player is losing to worst, or model.NoPlayer.
func (a *AI) WarTarget() model.PlayerID {
	best := model.NoPlayer
	bestRank := model.WarStateStalemate.Rank()
	for _, o := range a.book.Others() {
		if !a.IsAtWarWith(o) {
			continue
		}
		if r := a.book.Get(o).WarState.Rank(); r >= 0 && r < bestRank {
			best, bestRank = o, r
		}
	}
	return best
}
