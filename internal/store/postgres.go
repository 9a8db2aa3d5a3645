package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when no strategy matches
var ErrNotFound = errors.New("strategy not found")

// Schema creates the strategy table
const Schema = `
CREATE TABLE IF NOT EXISTS daily_strategies (
	id            UUID PRIMARY KEY,
	strategy_date DATE NOT NULL,
	risk_mode     TEXT NOT NULL,
	bankroll      NUMERIC(12,2) NOT NULL,
	daily_budget  INTEGER NOT NULL,
	payload       JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_daily_strategies_date ON daily_strategies (strategy_date, created_at DESC);
`

// StrategyStore defines the persistence operations for daily strategies
type StrategyStore interface {
	Ping(ctx context.Context) error
	SaveStrategy(ctx context.Context, s *models.DailyStrategy) error
	GetStrategy(ctx context.Context, id string) (*models.DailyStrategy, error)
	ListStrategies(ctx context.Context, date string) ([]*models.DailyStrategy, error)
}

// Postgres implements StrategyStore for PostgreSQL
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool for the given DSN
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Postgres{db: db}, nil
}

// NewWithDB wraps an existing handle
func NewWithDB(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Close releases the pool
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Ping checks database connectivity
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// EnsureSchema creates the table if it does not exist
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveStrategy upserts a strategy by ID
func (p *Postgres) SaveStrategy(ctx context.Context, s *models.DailyStrategy) error {
	if s.ID == "" {
		return fmt.Errorf("strategy has no id")
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal strategy: %w", err)
	}

	query := `
		INSERT INTO daily_strategies (id, strategy_date, risk_mode, bankroll, daily_budget, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			payload = EXCLUDED.payload,
			daily_budget = EXCLUDED.daily_budget
	`

	_, err = p.db.ExecContext(ctx, query,
		s.ID, s.Date, string(s.RiskMode), s.Bankroll, s.DailyBudget, payload, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert strategy: %w", err)
	}
	return nil
}

// GetStrategy loads one strategy by ID
func (p *Postgres) GetStrategy(ctx context.Context, id string) (*models.DailyStrategy, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT payload FROM daily_strategies WHERE id = $1`, id,
	).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get strategy: %w", err)
	}

	return decode(payload)
}

// ListStrategies returns the strategies built for a date, newest first
func (p *Postgres) ListStrategies(ctx context.Context, date string) ([]*models.DailyStrategy, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT payload FROM daily_strategies WHERE strategy_date = $1 ORDER BY created_at DESC`, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list strategies: %w", err)
	}
	defer rows.Close()

	strategies := []*models.DailyStrategy{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan strategy: %w", err)
		}
		s, err := decode(payload)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strategies: %w", err)
	}

	return strategies, nil
}

func decode(payload []byte) (*models.DailyStrategy, error) {
	var s models.DailyStrategy
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("parse strategy payload: %w", err)
	}
	return &s, nil
}
