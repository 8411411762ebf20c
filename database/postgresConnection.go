package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang-medicalbackend/config"
	"golang-medicalbackend/retry"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// Postgres wraps the connection pool of the progress service.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres opens the pool and waits for the server with retryCfg.
func OpenPostgres(ctx context.Context, cfg *config.DatabaseConfig, retryCfg retry.Config, logger zerolog.Logger) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pg, err := NewPostgres(ctx, db, retryCfg, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return pg, nil
}

// NewPostgres verifies db is reachable, retrying per retryCfg.
func NewPostgres(ctx context.Context, db *sql.DB, retryCfg retry.Config, logger zerolog.Logger) (*Postgres, error) {
	err := retry.DoWithLog(ctx, retryCfg, "PostgreSQL",
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return db.PingContext(pingCtx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("PostgreSQL connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	logger.Info().Msg("connected to PostgreSQL")
	return &Postgres{db: db}, nil
}

// DB returns the underlying database connection
func (p *Postgres) DB() *sql.DB {
	return p.db
}

// Close closes the database connection
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Ping verifies the connection to the database
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

const createProgressTable = `CREATE TABLE IF NOT EXISTS progreso (
	id_progreso SERIAL PRIMARY KEY,
	id_usuario INTEGER NOT NULL,
	fecha_registro TIMESTAMP NOT NULL DEFAULT LOCALTIMESTAMP(0),
	peso DOUBLE PRECISION NOT NULL,
	circunferencia_cintura DOUBLE PRECISION,
	comentarios_usuario TEXT
)`

// EnsureProgressTable creates the progreso table when it does not exist yet.
func (p *Postgres) EnsureProgressTable(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createProgressTable); err != nil {
		return fmt.Errorf("failed to create progreso table: %w", err)
	}
	return nil
}
