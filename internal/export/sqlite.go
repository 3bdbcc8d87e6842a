package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timer TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	ended_at INTEGER NOT NULL,
	duration_seconds INTEGER NOT NULL,
	comment TEXT NOT NULL
);
CREATE INDEX idx_records_timer ON records(timer);
CREATE INDEX idx_records_start ON records(started_at);
`

// WriteSQLite writes rows into a fresh database at path. Times are stored
// as unix seconds. An existing file is replaced only once the new one is
// complete.
func WriteSQLite(ctx context.Context, path string, rows []Row) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".mtt-export-%s.db", uuid.NewString()[:8]))
	defer os.Remove(tmp)

	if err := fillSQLite(ctx, tmp, rows); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename sqlite export: %w", err)
	}
	return nil
}

func fillSQLite(ctx context.Context, path string, rows []Row) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close sqlite database: %w", cerr)
		}
	}()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO records (timer, started_at, ended_at, duration_seconds, comment) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Timer, r.Start.Unix(), r.End.Unix(), r.DurationSeconds, r.Comment); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ReadSQLite loads rows back from an exported database, ordered by id.
func ReadSQLite(ctx context.Context, path string) ([]Row, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	defer db.Close()

	q, err := db.QueryContext(ctx,
		"SELECT timer, started_at, ended_at, duration_seconds, comment FROM records ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer q.Close()

	var rows []Row
	for q.Next() {
		var (
			r          Row
			start, end int64
		)
		if err := q.Scan(&r.Timer, &start, &end, &r.DurationSeconds, &r.Comment); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Start = time.Unix(start, 0).UTC()
		r.End = time.Unix(end, 0).UTC()
		rows = append(rows, r)
	}
	if err := q.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return rows, nil
}
