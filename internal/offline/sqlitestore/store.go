// Package sqlitestore guarda a fila offline num arquivo sqlite local, para
// as mutações pendentes sobreviverem a restart do processo.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver CGO-free

	"github.com/luminafoto/lumina-api/internal/offline"
)

const schema = `
CREATE TABLE IF NOT EXISTS pending_mutations (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	kind       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS query_snapshots (
	studio_id  TEXT NOT NULL,
	cache_key  TEXT NOT NULL,
	payload    TEXT NOT NULL,
	fetched_at TEXT NOT NULL,
	PRIMARY KEY (studio_id, cache_key)
);
`

// Store implementa offline.Store e offline.SnapshotStore sobre sqlite.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir cache local: %w", err)
	}

	// O driver modernc serializa mal com muitas conexões; uma basta para o
	// volume de escrita desse cache.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao criar schema do cache local: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Put(ctx context.Context, rec offline.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pending_mutations (id, kind, payload, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), string(rec.Payload), rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// All devolve em ordem de seq — criação FIFO mesmo quando dois registros
// caem no mesmo instante.
func (s *Store) All(ctx context.Context) ([]offline.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, payload, created_at FROM pending_mutations ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []offline.Record
	for rows.Next() {
		var rec offline.Record
		var kind, payload, createdAt string
		if err := rows.Scan(&rec.ID, &kind, &payload, &createdAt); err != nil {
			return nil, err
		}
		rec.Kind = offline.Kind(kind)
		rec.Payload = []byte(payload)
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("created_at inválido no registro %s: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pending_mutations WHERE id = ?`, id)
	return err
}

func (s *Store) PutSnapshot(ctx context.Context, snap offline.Snapshot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_snapshots (studio_id, cache_key, payload, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (studio_id, cache_key) DO UPDATE SET
		 	payload = excluded.payload,
		 	fetched_at = excluded.fetched_at`,
		snap.StudioID, snap.Key, string(snap.Data), snap.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *Store) GetSnapshot(ctx context.Context, studioID, key string) (*offline.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM query_snapshots WHERE studio_id = ? AND cache_key = ?`,
		studioID, key)

	var payload, fetchedAt string
	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, offline.ErrSnapshotNotFound
		}
		return nil, err
	}

	snap := &offline.Snapshot{StudioID: studioID, Key: key, Data: []byte(payload)}
	t, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, err
	}
	snap.FetchedAt = t
	return snap, nil
}
