package indexdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"statecraft.ai/internal/protocol"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/worldview"
)

// SQLiteIndex is a queryable copy of one or more game runs. Writes go through a
// single goroutine and are dropped when it falls behind; the JSONL logs remain the
// source of truth.
type SQLiteIndex struct {
	db *sqlx.DB

	session atomic.Value // string
	ch      chan req
	wg      sync.WaitGroup
	once    sync.Once

	closed atomic.Bool

	dropTurns  atomic.Uint64
	dropEvents atomic.Uint64
}

type reqKind int

const (
	reqTurn reqKind = iota + 1
	reqEvent
	reqFlush
)

type req struct {
	kind    reqKind
	session string

	turn  protocol.TurnMsg
	event worldview.Event
	done  chan struct{}
}

// Stats reports the writer queue state.
type Stats struct {
	QueueDepth     int
	QueueCapacity  int
	DropTurnTotal  uint64
	DropEventTotal uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate index: %w", err)
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 65536),
	}
	s.session.Store("")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		tuning_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		session TEXT NOT NULL,
		turn INTEGER NOT NULL,
		digest TEXT NOT NULL,
		contacts INTEGER NOT NULL,
		statements INTEGER NOT NULL,
		wars INTEGER NOT NULL,
		current_deals INTEGER NOT NULL,
		raw_json TEXT NOT NULL,
		PRIMARY KEY (session, turn)
	);

	CREATE TABLE IF NOT EXISTS events (
		session TEXT NOT NULL,
		turn INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		from_player INTEGER NOT NULL,
		to_player INTEGER NOT NULL,
		deal_id INTEGER NOT NULL,
		statement TEXT NOT NULL,
		detail TEXT NOT NULL,
		PRIMARY KEY (session, turn, seq)
	);

	CREATE TABLE IF NOT EXISTS relations (
		session TEXT NOT NULL,
		turn INTEGER NOT NULL,
		owner INTEGER NOT NULL,
		subject INTEGER NOT NULL,
		approach TEXT NOT NULL,
		opinion TEXT NOT NULL,
		war_state TEXT NOT NULL,
		PRIMARY KEY (session, turn, owner, subject)
	);

	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(session, kind, turn);
	CREATE INDEX IF NOT EXISTS idx_events_pair ON events(session, from_player, to_player);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`)
	return err
}

// StartSession registers a new run and makes it the target of later writes.
func (s *SQLiteIndex) StartSession(seed int64, tune tuning.Tuning) (string, error) {
	id := uuid.NewString()
	b, err := json.Marshal(tune)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(`INSERT INTO sessions(id,seed,started_at,tuning_json) VALUES(?,?,?,?)`,
		id, seed, time.Now().UTC().Format(time.RFC3339Nano), string(b))
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	s.session.Store(id)
	return id, nil
}

func (s *SQLiteIndex) Session() string { return s.session.Load().(string) }

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) WriteTurn(m protocol.TurnMsg) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqTurn, session: s.Session(), turn: m}:
	default:
		s.dropTurns.Add(1)
	}
	return nil
}

// Notify indexes one event; SQLiteIndex is a worldview.Notifier.
func (s *SQLiteIndex) Notify(ev worldview.Event) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqEvent, session: s.Session(), event: ev}:
	default:
		s.dropEvents.Add(1)
	}
}

// Flush waits until everything queued so far is committed.
func (s *SQLiteIndex) Flush(ctx context.Context) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	done := make(chan struct{})
	select {
	case s.ch <- req{kind: reqFlush, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SQLiteIndex) Stats() Stats {
	return Stats{
		QueueDepth:     len(s.ch),
		QueueCapacity:  cap(s.ch),
		DropTurnTotal:  s.dropTurns.Load(),
		DropEventTotal: s.dropEvents.Load(),
	}
}

func (s *SQLiteIndex) loop() {
	var (
		tx            *sqlx.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second

		lastTurn = map[string]int{}
		seq      = map[string]int{}
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.Beginx()
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
	}

	for r := range s.ch {
		if r.kind == reqFlush {
			commit()
			close(r.done)
			continue
		}
		begin()
		if tx == nil {
			continue
		}
		var err error
		switch r.kind {
		case reqTurn:
			err = insertTurn(tx, r.session, r.turn)
		case reqEvent:
			ev := r.event
			if lastTurn[r.session] != ev.Turn {
				lastTurn[r.session] = ev.Turn
				seq[r.session] = 0
			}
			n := seq[r.session]
			seq[r.session]++
			_, err = tx.Exec(`INSERT OR REPLACE INTO events(session,turn,seq,kind,from_player,to_player,deal_id,statement,detail) VALUES(?,?,?,?,?,?,?,?,?)`,
				r.session, ev.Turn, n, string(ev.Kind), int(ev.From), int(ev.To), ev.DealID, ev.Statement, ev.Detail)
		}
		if err != nil {
			rollback()
			continue
		}
		opCount++
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}
	commit()
}

func insertTurn(tx *sqlx.Tx, session string, m protocol.TurnMsg) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO turns(session,turn,digest,contacts,statements,wars,current_deals,raw_json) VALUES(?,?,?,?,?,?,?,?)`,
		session, m.Turn, m.Digest, len(m.Contacts), len(m.Statements), len(m.Wars), m.CurrentDeals, string(raw))
	if err != nil {
		return err
	}
	for _, rel := range m.Relations {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO relations(session,turn,owner,subject,approach,opinion,war_state) VALUES(?,?,?,?,?,?,?)`,
			session, m.Turn, rel.Owner, rel.Subject, rel.Approach, rel.Opinion, rel.WarState); err != nil {
			return err
		}
	}
	return nil
}
