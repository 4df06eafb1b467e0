package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/coastwatch/habitat-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	species     TEXT NOT NULL,
	min_depth_m REAL NOT NULL,
	max_depth_m REAL NOT NULL,
	min_temp_c  REAL NOT NULL,
	max_temp_c  REAL NOT NULL,
	total_km2   REAL NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS run_zones (
	run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	zone_id  TEXT NOT NULL,
	name     TEXT NOT NULL,
	area_km2 REAL NOT NULL,
	PRIMARY KEY (run_id, zone_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_species ON runs(species);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run and its per-zone rows in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.Run) error {
	if run.ID == "" {
		return eris.New("sqlite: run id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save run")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, species, min_depth_m, max_depth_m, min_temp_c, max_temp_c, total_km2, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Species, run.MinDepthM, run.MaxDepthM, run.MinTempC, run.MaxTempC,
		run.TotalKM2, run.CreatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
	}

	for _, za := range run.Zones {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_zones (run_id, zone_id, name, area_km2) VALUES (?, ?, ?, ?)`,
			run.ID, za.ZoneID, za.Name, za.AreaKM2,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert run zone %s/%s", run.ID, za.ZoneID)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrapf(err, "sqlite: commit run %s", run.ID)
	}
	return nil
}

// GetRun returns a run with its per-zone results, ordered by zone ID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var run model.Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, species, min_depth_m, max_depth_m, min_temp_c, max_temp_c, total_km2, created_at
		 FROM runs WHERE id = ?`, runID,
	).Scan(&run.ID, &run.Species, &run.MinDepthM, &run.MaxDepthM,
		&run.MinTempC, &run.MaxTempC, &run.TotalKM2, &run.CreatedAt)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("sqlite: run %s not found", runID)
		}
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT zone_id, name, area_km2 FROM run_zones WHERE run_id = ? ORDER BY zone_id`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run zones %s", runID)
	}
	defer rows.Close()

	for rows.Next() {
		var za model.ZoneArea
		if err := rows.Scan(&za.ZoneID, &za.Name, &za.AreaKM2); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run zone")
		}
		run.Zones = append(run.Zones, za)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate run zones")
	}
	return &run, nil
}

// ListRuns returns runs newest first, without per-zone detail.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, species, min_depth_m, max_depth_m, min_temp_c, max_temp_c, total_km2, created_at
		 FROM runs`
	var args []any
	if filter.Species != "" {
		query += ` WHERE species = ?`
		args = append(args, filter.Species)
	}
	query += ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.Species, &run.MinDepthM, &run.MaxDepthM,
			&run.MinTempC, &run.MaxTempC, &run.TotalKM2, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate runs")
	}
	return runs, nil
}

var _ Store = (*SQLiteStore)(nil)

// NowUTC returns the current time truncated to the second, the resolution
// stored in the runs table.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
