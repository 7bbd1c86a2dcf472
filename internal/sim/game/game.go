// Package game drives every player's diplomacy through the turns of one sandbox game.
package game

import (
	"context"
	"log"

	"statecraft.ai/internal/sim/dealai"
	"statecraft.ai/internal/sim/deals"
	"statecraft.ai/internal/sim/diplomacy"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/relations"
	"statecraft.ai/internal/sim/sandbox"
	"statecraft.ai/internal/sim/statement"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/worldview"
)

// World is the surrounding simulation the game runs against.
type World interface {
	worldview.View
	worldview.Mutator
	Name(p model.PlayerID) string
	// Advance moves the world one turn forward and returns the pairs that met.
	Advance() []sandbox.Contact
	Meet(a, b model.PlayerID) bool
}

type Config struct {
	Tune     tuning.Tuning
	Notifier worldview.Notifier
	Logger   *log.Logger
}

type Game struct {
	world    World
	tune     tuning.Tuning
	books    relations.Books
	ais      map[model.PlayerID]*diplomacy.AI
	order    []model.PlayerID
	alive    map[model.PlayerID]bool
	ledger   *deals.Ledger
	notifier worldview.Notifier
	logger   *log.Logger
}

// TurnResult summarizes one DoTurn.
type TurnResult struct {
	Turn       int
	Contacts   []sandbox.Contact
	Statements []statement.Statement
	Digest     string
}

func New(w World, cfg Config) *Game {
	n := cfg.Notifier
	if n == nil {
		n = worldview.NopNotifier{}
	}
	g := &Game{
		world:    w,
		tune:     cfg.Tune,
		books:    relations.Books{},
		ais:      map[model.PlayerID]*diplomacy.AI{},
		order:    w.PlayerIDs(),
		alive:    map[model.PlayerID]bool{},
		ledger:   deals.NewLedger(n),
		notifier: n,
		logger:   cfg.Logger,
	}
	env := diplomacy.Env{
		World:     w,
		Relations: g.books,
		Ledger:    g.ledger,
		Tune:      cfg.Tune,
		Effects:   g,
		Notifier:  n,
		Peers:     g.dealAI,
	}
	for _, p := range g.order {
		g.alive[p] = w.IsAlive(p)
		g.books[p] = relations.NewBook(p)
		g.ais[p] = diplomacy.New(g.books[p], env)
	}
	for i, a := range g.order {
		for _, b := range g.order[i+1:] {
			if w.HasMet(a, b) {
				g.firstContact(a, b)
			}
		}
	}
	return g
}

func (g *Game) logf(format string, args ...any) {
	if g.logger != nil {
		g.logger.Printf(format, args...)
	}
}

func (g *Game) dealAI(p model.PlayerID) *dealai.AI {
	if ai, ok := g.ais[p]; ok {
		return ai.DealAI()
	}
	return nil
}

func (g *Game) World() World                      { return g.world }
func (g *Game) Ledger() *deals.Ledger             { return g.ledger }
func (g *Game) Books() relations.Books            { return g.books }
func (g *Game) Players() []model.PlayerID         { return append([]model.PlayerID(nil), g.order...) }
func (g *Game) AI(p model.PlayerID) *diplomacy.AI { return g.ais[p] }

func (g *Game) firstContact(a, b model.PlayerID) {
	g.ais[a].DoFirstContactWith(b)
	g.ais[b].DoFirstContactWith(a)
}

// Meet introduces two players outside of the world's own exploration.
func (g *Game) Meet(a, b model.PlayerID) {
	g.world.Meet(a, b)
	g.firstContact(a, b)
}

// DoTurn advances the world, runs every alive player's diplomacy in id order and then
// the deal ledger.
func (g *Game) DoTurn(ctx context.Context) (TurnResult, error) {
	if err := ctx.Err(); err != nil {
		return TurnResult{}, err
	}
	res := TurnResult{Contacts: g.world.Advance()}
	res.Turn = g.world.CurrentTurn()
	for _, c := range res.Contacts {
		g.firstContact(c.A, c.B)
	}
	g.dropEliminated(res.Turn)
	for _, p := range g.order {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !g.world.IsAlive(p) {
			continue
		}
		res.Statements = append(res.Statements, g.ais[p].DoTurn()...)
	}
	g.ledger.DoTurn(g.world, g)
	res.Digest = g.Digest()
	g.logf("turn %d: contacts=%d statements=%d deals=%d digest=%s",
		res.Turn, len(res.Contacts), len(res.Statements), len(g.ledger.CurrentDeals()), res.Digest[:12])
	return res, nil
}

// dropEliminated cancels every deal of a player who died since the last turn.
func (g *Game) dropEliminated(turn int) {
	for _, p := range g.order {
		if !g.alive[p] || g.world.IsAlive(p) {
			continue
		}
		g.alive[p] = false
		g.ledger.DoCancelAllDealsOf(p, turn, g)
		g.logf("turn %d: %s eliminated", turn, p)
	}
}

// Run plays turns until n turns are done or ctx ends. fn, when set, sees every result
// and can stop the run by returning an error.
func (g *Game) Run(ctx context.Context, n int, fn func(TurnResult) error) error {
	for i := 0; i < n; i++ {
		res, err := g.DoTurn(ctx)
		if err != nil {
			return err
		}
		if fn != nil {
			if err := fn(res); err != nil {
				return err
			}
		}
	}
	return nil
}
