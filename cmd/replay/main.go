package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"statecraft.ai/internal/persistence/indexdb"
	persistlog "statecraft.ai/internal/persistence/log"
	"statecraft.ai/internal/protocol"
	"statecraft.ai/internal/sim/game"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/sandbox"
	"statecraft.ai/internal/sim/tuning"
)

var errStop = errors.New("stop")

func main() {
	var (
		runDir     = flag.String("run", "", "run directory (data/runs/<session>)")
		verify     = flag.Bool("verify", false, "re-play the game and compare every turn digest")
		seed       = flag.Int64("seed", 0, "game seed (default: looked up in -db by session id)")
		dbPath     = flag.String("db", "", "sqlite index to look the seed up in (optional)")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		mapPath    = flag.String("map", "", "sandbox map yaml used by the run (default: built-in demo map)")
		human      = flag.Int("human", -1, "player id that was played by a human")
		toTurn     = flag.Int("to_turn", 0, "stop at turn (inclusive, optional)")
	)
	flag.Parse()

	if *runDir == "" {
		fmt.Fprintln(os.Stderr, "missing -run")
		os.Exit(2)
	}

	var turns []protocol.TurnMsg
	err := persistlog.ReadDir(filepath.Join(*runDir, "turns"), "turns", func(line []byte) error {
		var m protocol.TurnMsg
		if err := json.Unmarshal(line, &m); err != nil {
			return err
		}
		if *toTurn > 0 && m.Turn > *toTurn {
			return errStop
		}
		turns = append(turns, m)
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		fmt.Fprintln(os.Stderr, "read turns:", err)
		os.Exit(1)
	}
	if len(turns) == 0 {
		fmt.Fprintln(os.Stderr, "no turns found in", *runDir)
		os.Exit(1)
	}
	if err := checkContinuity(turns); err != nil {
		fmt.Fprintln(os.Stderr, "turn log:", err)
		os.Exit(1)
	}

	kinds := map[string]int{}
	err = persistlog.ReadDir(filepath.Join(*runDir, "events"), "events", func(line []byte) error {
		var m protocol.EventMsg
		if err := json.Unmarshal(line, &m); err != nil {
			return err
		}
		if *toTurn > 0 && m.Turn > *toTurn {
			return errStop
		}
		kinds[m.Kind]++
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		fmt.Fprintln(os.Stderr, "read events:", err)
		os.Exit(1)
	}
	printSummary(turns, kinds)

	if !*verify {
		return
	}

	session := turns[0].SessionID
	if session == "" {
		session = filepath.Base(*runDir)
	}
	s := *seed
	if s == 0 && *dbPath != "" {
		if s, err = lookupSeed(*dbPath, session); err != nil {
			fmt.Fprintln(os.Stderr, "lookup seed:", err)
			os.Exit(1)
		}
	}
	if s == 0 {
		fmt.Fprintln(os.Stderr, "-verify needs -seed or -db")
		os.Exit(2)
	}

	tp := *tuningPath
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		tune = tuning.Defaults()
	}
	cfg := sandbox.Demo(s)
	if *mapPath != "" {
		if cfg, err = sandbox.LoadConfig(*mapPath, s); err != nil {
			fmt.Fprintln(os.Stderr, "load map:", err)
			os.Exit(1)
		}
	}
	if *human >= 0 && *human < len(cfg.Players) {
		cfg.Players[*human].Human = true
	}
	w, err := sandbox.New(cfg, model.NewRNG(cfg.Seed))
	if err != nil {
		fmt.Fprintln(os.Stderr, "sandbox:", err)
		os.Exit(1)
	}
	g := game.New(w, game.Config{Tune: tune})

	i := 0
	err = g.Run(context.Background(), turns[len(turns)-1].Turn, func(r game.TurnResult) error {
		for i < len(turns) && turns[i].Turn < r.Turn {
			i++
		}
		if i == len(turns) || turns[i].Turn != r.Turn {
			return nil
		}
		if r.Digest != turns[i].Digest {
			return fmt.Errorf("digest mismatch at turn %d: got=%s want=%s", r.Turn, r.Digest, turns[i].Digest)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: checked=%d turns (seed=%d)\n", len(turns), s)
}

// checkContinuity rejects a turn log with gaps or repeats.
func checkContinuity(turns []protocol.TurnMsg) error {
	for i := 1; i < len(turns); i++ {
		if turns[i].Turn != turns[i-1].Turn+1 {
			return fmt.Errorf("turn %d follows turn %d", turns[i].Turn, turns[i-1].Turn)
		}
		if turns[i].SessionID != turns[0].SessionID {
			return fmt.Errorf("turn %d: session %q, want %q", turns[i].Turn, turns[i].SessionID, turns[0].SessionID)
		}
	}
	return nil
}

func printSummary(turns []protocol.TurnMsg, kinds map[string]int) {
	first, last := turns[0], turns[len(turns)-1]
	maxWars, maxDeals := 0, 0
	stmts := map[string]int{}
	for _, t := range turns {
		maxWars = max(maxWars, len(t.Wars))
		maxDeals = max(maxDeals, t.CurrentDeals)
		for _, st := range t.Statements {
			stmts[st.Kind]++
		}
	}
	fmt.Printf("session=%s turns=%d..%d digest=%s wars=%d (peak %d) deals=%d (peak %d)\n",
		first.SessionID, first.Turn, last.Turn, last.Digest, len(last.Wars), maxWars, last.CurrentDeals, maxDeals)
	fmt.Println("statements: " + formatCounts(stmts))
	fmt.Println("events:     " + formatCounts(kinds))
}

func formatCounts(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func lookupSeed(path, session string) (int64, error) {
	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		return 0, err
	}
	defer idx.Close()
	rows, err := idx.Sessions(context.Background())
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		if r.ID == session {
			return r.Seed, nil
		}
	}
	return 0, fmt.Errorf("session %s not in %s", session, path)
}
