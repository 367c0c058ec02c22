package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/feasibility-cli/internal/db"
	"github.com/sells-group/feasibility-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	project_type      TEXT NOT NULL,
	city              TEXT NOT NULL DEFAULT '',
	scenario          JSONB NOT NULL,
	result            JSONB NOT NULL,
	source            TEXT NOT NULL,
	prediction        JSONB,
	prediction_source TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_analyses_project_type ON analyses(project_type);
`

const postgresColumns = `id, scenario, result, source, prediction, prediction_source, created_at, updated_at`

// postgresNewestFirst breaks created_at ties so paging and "last" are stable.
const postgresNewestFirst = ` ORDER BY created_at DESC, updated_at DESC, id DESC`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	} else {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, a *model.Analysis) error {
	if a == nil {
		return eris.New("postgres: nil analysis")
	}
	stamp(a, uuid.NewString)

	cols, err := encodeAnalysis(a)
	if err != nil {
		return eris.Wrap(err, "postgres: encode analysis")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analyses (id, project_type, city, scenario, result, source, prediction, prediction_source, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
			project_type = EXCLUDED.project_type,
			city = EXCLUDED.city,
			scenario = EXCLUDED.scenario,
			result = EXCLUDED.result,
			source = EXCLUDED.source,
			prediction = EXCLUDED.prediction,
			prediction_source = EXCLUDED.prediction_source,
			updated_at = EXCLUDED.updated_at`,
		a.ID, string(a.Scenario.ProjectType), a.Scenario.City,
		cols.scenario, cols.result, string(a.Source),
		cols.prediction, string(a.PredictionSource),
		a.CreatedAt, a.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: save analysis %s", a.ID)
}

func (s *PostgresStore) LastAnalysis(ctx context.Context) (*model.Analysis, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+postgresColumns+` FROM analyses`+postgresNewestFirst+` LIMIT 1`,
	)
	a, err := scanPgAnalysis(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: last analysis")
	}
	return a, nil
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+postgresColumns+` FROM analyses WHERE id = $1`, id,
	)
	a, err := scanPgAnalysis(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get analysis %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get analysis %s", id)
	}
	return a, nil
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, f model.AnalysisFilter) ([]model.Analysis, error) {
	query := `SELECT ` + postgresColumns + ` FROM analyses WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ProjectType != "" {
		query += ` AND project_type = ` + arg(f.ProjectType)
	}
	if f.City != "" {
		query += ` AND lower(city) = lower(` + arg(f.City) + `)`
	}
	if f.Source != "" {
		query += ` AND source = ` + arg(string(f.Source))
	}
	if !f.CreatedAfter.IsZero() {
		query += ` AND created_at > ` + arg(f.CreatedAfter)
	}
	query += postgresNewestFirst + ` LIMIT ` + arg(listLimit(f))
	if f.Offset > 0 {
		query += ` OFFSET ` + arg(f.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list analyses")
	}
	defer rows.Close()

	var out []model.Analysis
	for rows.Next() {
		a, err := scanPgAnalysis(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan analysis")
		}
		out = append(out, *a)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list analyses iterate")
}

func (s *PostgresStore) AttachPrediction(ctx context.Context, id string, p *model.PredictResponse, src model.Source) error {
	predJSON, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal prediction")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE analyses SET prediction = $1, prediction_source = $2, updated_at = $3 WHERE id = $4`,
		predJSON, string(src), timeNow(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: attach prediction %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "postgres: attach prediction %s", id)
	}
	return nil
}

func scanPgAnalysis(row pgx.Row) (*model.Analysis, error) {
	var a model.Analysis
	var scenarioJSON, resultJSON, predJSON []byte
	var source, predSource string

	err := row.Scan(&a.ID, &scenarioJSON, &resultJSON, &source, &predJSON,
		&predSource, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Source = model.Source(source)
	a.PredictionSource = model.Source(predSource)

	if err := decodeAnalysis(&a, scenarioJSON, resultJSON, predJSON); err != nil {
		return nil, err
	}
	return &a, nil
}
