package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"statecraft.ai/internal/persistence/indexdb"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	dbPath := fs.String("db", "", "sqlite db path (optional; defaults to <data>/index/games.sqlite)")
	session := fs.String("session", "", "session id (defaults to the latest session)")
	kind := fs.String("kind", "", "event kind filter (events)")
	limit := fs.Int("limit", 50, "result limit (events)")
	owner := fs.Int("owner", 0, "owner player (relation)")
	subject := fs.Int("subject", 1, "subject player (relation)")
	turn := fs.Int("turn", 1<<30, "as of turn (relation)")
	_ = fs.Parse(args)

	q := "sessions"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		path = filepath.Join(*dataDir, "index", "games.sqlite")
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer idx.Close()

	ctx := context.Background()
	sessions, err := idx.Sessions(ctx)
	if err != nil {
		fatal(err)
	}
	if q == "sessions" {
		printJSON(sessions)
		return
	}
	sid := strings.TrimSpace(*session)
	if sid == "" {
		if len(sessions) == 0 {
			fmt.Fprintln(os.Stderr, "no sessions found")
			os.Exit(2)
		}
		sid = sessions[len(sessions)-1].ID
	}

	var out any
	switch q {
	case "turns":
		out, err = idx.Turns(ctx, sid)
	case "events":
		out, err = idx.Events(ctx, sid, *kind, *limit)
	case "counts":
		out, err = idx.EventCounts(ctx, sid)
	case "relation":
		out, err = idx.Relation(ctx, sid, *owner, *subject, *turn)
	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q, "(sessions|turns|events|counts|relation)")
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
	printJSON(out)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
