package indexdb

import (
	"context"
	"fmt"
)

type SessionRow struct {
	ID        string `db:"id"`
	Seed      int64  `db:"seed"`
	StartedAt string `db:"started_at"`
}

type TurnRow struct {
	Turn         int    `db:"turn"`
	Digest       string `db:"digest"`
	Contacts     int    `db:"contacts"`
	Statements   int    `db:"statements"`
	Wars         int    `db:"wars"`
	CurrentDeals int    `db:"current_deals"`
}

type EventRow struct {
	Turn      int    `db:"turn"`
	Seq       int    `db:"seq"`
	Kind      string `db:"kind"`
	From      int    `db:"from_player"`
	To        int    `db:"to_player"`
	DealID    int    `db:"deal_id"`
	Statement string `db:"statement"`
	Detail    string `db:"detail"`
}

type RelationRow struct {
	Turn     int    `db:"turn"`
	Owner    int    `db:"owner"`
	Subject  int    `db:"subject"`
	Approach string `db:"approach"`
	Opinion  string `db:"opinion"`
	WarState string `db:"war_state"`
}

type KindCount struct {
	Kind  string `db:"kind"`
	Count int    `db:"n"`
}

func (s *SQLiteIndex) Sessions(ctx context.Context) ([]SessionRow, error) {
	var out []SessionRow
	if err := s.db.SelectContext(ctx, &out, `SELECT id,seed,started_at FROM sessions ORDER BY started_at`); err != nil {
		return nil, fmt.Errorf("sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteIndex) Turns(ctx context.Context, session string) ([]TurnRow, error) {
	var out []TurnRow
	err := s.db.SelectContext(ctx, &out,
		`SELECT turn,digest,contacts,statements,wars,current_deals FROM turns WHERE session=? ORDER BY turn`, session)
	if err != nil {
		return nil, fmt.Errorf("turns: %w", err)
	}
	return out, nil
}

// Events lists a session's events in order. An empty kind matches every kind.
func (s *SQLiteIndex) Events(ctx context.Context, session, kind string, limit int) ([]EventRow, error) {
	if limit <= 0 {
		limit = 1000
	}
	var out []EventRow
	err := s.db.SelectContext(ctx, &out,
		`SELECT turn,seq,kind,from_player,to_player,deal_id,statement,detail FROM events
		 WHERE session=? AND (?='' OR kind=?) ORDER BY turn,seq LIMIT ?`, session, kind, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	return out, nil
}

func (s *SQLiteIndex) EventCounts(ctx context.Context, session string) ([]KindCount, error) {
	var out []KindCount
	err := s.db.SelectContext(ctx, &out,
		`SELECT kind, COUNT(*) AS n FROM events WHERE session=? GROUP BY kind ORDER BY kind`, session)
	if err != nil {
		return nil, fmt.Errorf("event counts: %w", err)
	}
	return out, nil
}

// Relation returns owner's view of subject as of the last indexed turn at or before turn.
func (s *SQLiteIndex) Relation(ctx context.Context, session string, owner, subject, turn int) (RelationRow, error) {
	var r RelationRow
	err := s.db.GetContext(ctx, &r,
		`SELECT turn,owner,subject,approach,opinion,war_state FROM relations
		 WHERE session=? AND owner=? AND subject=? AND turn<=? ORDER BY turn DESC LIMIT 1`,
		session, owner, subject, turn)
	if err != nil {
		return RelationRow{}, fmt.Errorf("relation %d->%d: %w", owner, subject, err)
	}
	return r, nil
}
