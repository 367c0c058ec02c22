package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/feasibility-cli/internal/model"
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
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id                TEXT PRIMARY KEY,
	project_type      TEXT NOT NULL,
	city              TEXT NOT NULL DEFAULT '',
	scenario          TEXT NOT NULL,
	result            TEXT NOT NULL,
	source            TEXT NOT NULL,
	prediction        TEXT,
	prediction_source TEXT NOT NULL DEFAULT '',
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_analyses_project_type ON analyses(project_type);
`

const sqliteColumns = `id, scenario, result, source, prediction, prediction_source, created_at, updated_at`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a *model.Analysis) error {
	if a == nil {
		return eris.New("sqlite: nil analysis")
	}
	stamp(a, uuid.NewString)

	cols, err := encodeAnalysis(a)
	if err != nil {
		return eris.Wrap(err, "sqlite: encode analysis")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, project_type, city, scenario, result, source, prediction, prediction_source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			project_type = excluded.project_type,
			city = excluded.city,
			scenario = excluded.scenario,
			result = excluded.result,
			source = excluded.source,
			prediction = excluded.prediction,
			prediction_source = excluded.prediction_source,
			updated_at = excluded.updated_at`,
		a.ID, string(a.Scenario.ProjectType), a.Scenario.City,
		string(cols.scenario), string(cols.result), string(a.Source),
		nullString(cols.prediction), string(a.PredictionSource),
		a.CreatedAt, a.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: save analysis %s", a.ID)
}

func (s *SQLiteStore) LastAnalysis(ctx context.Context) (*model.Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: last analysis")
	}
	return a, nil
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM analyses WHERE id = ?`, id,
	)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get analysis %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get analysis %s", id)
	}
	return a, nil
}

func (s *SQLiteStore) ListAnalyses(ctx context.Context, f model.AnalysisFilter) ([]model.Analysis, error) {
	query := `SELECT ` + sqliteColumns + ` FROM analyses WHERE 1=1`
	var args []any

	if f.ProjectType != "" {
		query += ` AND project_type = ?`
		args = append(args, f.ProjectType)
	}
	if f.City != "" {
		query += ` AND city = ? COLLATE NOCASE`
		args = append(args, f.City)
	}
	if f.Source != "" {
		query += ` AND source = ?`
		args = append(args, string(f.Source))
	}
	if !f.CreatedAfter.IsZero() {
		query += ` AND created_at > ?`
		args = append(args, f.CreatedAfter.UTC())
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, listLimit(f))

	if f.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan analysis")
		}
		out = append(out, *a)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list analyses iterate")
}

func (s *SQLiteStore) AttachPrediction(ctx context.Context, id string, p *model.PredictResponse, src model.Source) error {
	predJSON, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal prediction")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE analyses SET prediction = ?, prediction_source = ?, updated_at = ? WHERE id = ?`,
		string(predJSON), string(src), timeNow(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: attach prediction %s", id)
	}
	return checkRowsAffected(res, id)
}

// helpers

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "analysis %s", id)
	}
	return nil
}

func nullString(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scannable) (*model.Analysis, error) {
	var a model.Analysis
	var scenarioJSON, resultJSON string
	var predJSON sql.NullString

	err := row.Scan(&a.ID, &scenarioJSON, &resultJSON, &a.Source, &predJSON,
		&a.PredictionSource, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	var pred []byte
	if predJSON.Valid {
		pred = []byte(predJSON.String)
	}
	if err := decodeAnalysis(&a, []byte(scenarioJSON), []byte(resultJSON), pred); err != nil {
		return nil, err
	}
	return &a, nil
}
