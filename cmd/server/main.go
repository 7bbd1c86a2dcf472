package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	persistlog "statecraft.ai/internal/persistence/log"
	"statecraft.ai/internal/sim/game"
	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/sandbox"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/worldview"
	"statecraft.ai/internal/transport/observer"
)

func main() {
	var (
		addr       = flag.String("addr", "127.0.0.1:8080", "http listen address for observers (empty to disable)")
		seed       = flag.Int64("seed", 1337, "game seed")
		turns      = flag.Int("turns", 200, "number of turns to play")
		turnDelay  = flag.Duration("turn_delay", 0, "pause between turns (lets observers follow along)")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		mapPath    = flag.String("map", "", "sandbox map yaml (default: built-in demo map)")
		human      = flag.Int("human", -1, "player id played by a human (their deals wait for an answer)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite index")
		keepServe  = flag.Bool("keep_serving", false, "keep serving observers after the last turn until interrupted")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	cfg := sandbox.Demo(*seed)
	if p := strings.TrimSpace(*mapPath); p != "" {
		if cfg, err = sandbox.LoadConfig(p, *seed); err != nil {
			logger.Fatalf("load map: %v", err)
		}
	}
	if *human >= 0 {
		if *human >= len(cfg.Players) {
			logger.Fatalf("-human %d: map has %d players", *human, len(cfg.Players))
		}
		cfg.Players[*human].Human = true
	}
	w, err := sandbox.New(cfg, model.NewRNG(cfg.Seed))
	if err != nil {
		logger.Fatalf("sandbox: %v", err)
	}

	// Optional: read-model index backend (does not affect sim determinism).
	idx, err := openRuntimeIndex(*dataDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index backend: %v", err)
	}
	if idx != nil {
		defer idx.Close()
	}
	session := startSession(idx, cfg.Seed, tune, logger)

	runDir := filepath.Join(*dataDir, "runs", session)
	events := persistlog.NewEventLogger(runDir, session, logger)
	defer events.Close()
	turnLog := persistlog.NewTurnLogger(runDir)
	defer turnLog.Close()

	hub := observer.NewHub(session, 8192)
	sinks := worldview.Fanout{events, hub}
	if idx != nil {
		sinks = append(sinks, idx)
	}

	g := game.New(w, game.Config{Tune: tune, Notifier: sinks, Logger: logger})
	var ros roster
	ros.update(g)

	ctx, cancel := signalContext()
	defer cancel()

	var (
		lastTurn  atomic.Int64
		lastDeals atomic.Int64
	)
	srv := startHTTP(*addr, hub, ros.get, func(rw http.ResponseWriter) {
		writeMetrics(rw, session, lastTurn.Load(), lastDeals.Load(), hub, events)
	}, logger)

	logger.Printf("session %s seed=%d players=%d turns=%d data=%s", session, cfg.Seed, len(cfg.Players), *turns, runDir)
	err = g.Run(ctx, *turns, func(r game.TurnResult) error {
		m := turnMsg(g, session, r)
		if err := turnLog.WriteTurn(m); err != nil {
			return fmt.Errorf("turn log: %w", err)
		}
		if idx != nil {
			_ = idx.WriteTurn(m)
		}
		hub.PublishTurn(m)
		ros.update(g)
		lastTurn.Store(int64(r.Turn))
		lastDeals.Store(int64(m.CurrentDeals))
		if *turnDelay > 0 {
			select {
			case <-time.After(*turnDelay):
			case <-ctx.Done():
			}
		}
		return nil
	})
	switch {
	case err == nil:
		logger.Printf("finished %d turns; digest=%s", lastTurn.Load(), g.Digest())
	case ctx.Err() != nil:
		logger.Printf("interrupted at turn %d", lastTurn.Load())
	default:
		logger.Printf("run failed: %v", err)
	}
	if n := events.Failed(); n > 0 {
		logger.Printf("event log dropped %d events", n)
	}
	if idx != nil {
		fctx, fcancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := idx.Flush(fctx); err != nil {
			logger.Printf("index backend: flush: %v", err)
		}
		fcancel()
	}

	if srv != nil {
		if *keepServe && ctx.Err() == nil {
			logger.Printf("serving observers on %s until interrupted", *addr)
			<-ctx.Done()
		}
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(sctx)
		scancel()
	}
}

func startHTTP(addr string, hub *observer.Hub, roster observer.Roster, metrics func(http.ResponseWriter), logger *log.Logger) *http.Server {
	if strings.TrimSpace(addr) == "" {
		return nil
	}
	obsSrv := observer.NewServer(hub, roster, observer.Config{AllowRemote: envBool("SC_OBSERVER_ALLOW_REMOTE", false)}, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		metrics(rw)
	})
	mux.HandleFunc("/v1/observer/bootstrap", obsSrv.BootstrapHandler())
	mux.HandleFunc("/v1/observer/ws", obsSrv.WSHandler())
	if envBool("SC_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("ListenAndServe: %v", err)
		}
	}()
	return srv
}

func writeMetrics(rw http.ResponseWriter, session string, turn, deals int64, hub *observer.Hub, events *persistlog.EventLogger) {
	// Minimal Prometheus exposition format.
	fmt.Fprintf(rw, "# HELP statecraft_turn Last completed turn.\n")
	fmt.Fprintf(rw, "# TYPE statecraft_turn gauge\n")
	fmt.Fprintf(rw, "statecraft_turn{session=%q} %d\n", session, turn)

	fmt.Fprintf(rw, "# HELP statecraft_current_deals Deals in force after the last turn.\n")
	fmt.Fprintf(rw, "# TYPE statecraft_current_deals gauge\n")
	fmt.Fprintf(rw, "statecraft_current_deals{session=%q} %d\n", session, deals)

	fmt.Fprintf(rw, "# HELP statecraft_observers Connected observers.\n")
	fmt.Fprintf(rw, "# TYPE statecraft_observers gauge\n")
	fmt.Fprintf(rw, "statecraft_observers %d\n", hub.Observers())

	fmt.Fprintf(rw, "# HELP statecraft_observer_dropped_total Messages dropped for slow observers.\n")
	fmt.Fprintf(rw, "# TYPE statecraft_observer_dropped_total counter\n")
	fmt.Fprintf(rw, "statecraft_observer_dropped_total %d\n", hub.Dropped())

	fmt.Fprintf(rw, "# HELP statecraft_event_log_failed_total Events the JSONL log failed to write.\n")
	fmt.Fprintf(rw, "# TYPE statecraft_event_log_failed_total counter\n")
	fmt.Fprintf(rw, "statecraft_event_log_failed_total %d\n", events.Failed())
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func envBool(name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
