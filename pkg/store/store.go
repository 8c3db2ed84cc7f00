package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed timezones.txt
var timezoneData string

type Config struct {
	ConnString string
}

// Store owns the PostgreSQL pool and every query the cogs run. Schema setup
// lives here too so `launcher db init` and the tests share one source of
// truth.
type Store struct {
	pool *pgxpool.Pool
}

func NewWithConfig(ctx context.Context, config Config) (*Store, error) {
	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// MigrationStep is one named unit of `db init` work, mostly so the launcher
// can show progress per step.
type MigrationStep struct {
	Name string
	Run  func(ctx context.Context, s *Store) error
}

func execStep(name, sql string) MigrationStep {
	return MigrationStep{
		Name: name,
		Run: func(ctx context.Context, s *Store) error {
			_, err := s.pool.Exec(ctx, sql)
			return err
		},
	}
}

func Migrations() []MigrationStep {
	steps := []MigrationStep{
		execStep("pg_trgm extension", "CREATE EXTENSION IF NOT EXISTS pg_trgm"),
	}
	for _, table := range schema {
		steps = append(steps, execStep(table.name, table.ddl))
	}
	steps = append(steps, MigrationStep{
		Name: "timezone seed data",
		Run: func(ctx context.Context, s *Store) error {
			return s.seedTimezones(ctx)
		},
	})
	return steps
}

// Init creates the extension, all tables, and the timezone seed data. Every
// step is idempotent. onStep may be nil.
func (s *Store) Init(ctx context.Context, onStep func(name string)) error {
	for _, step := range Migrations() {
		if onStep != nil {
			onStep(step.Name)
		}
		if err := step.Run(ctx, s); err != nil {
			return fmt.Errorf("failed to run %q: %v", step.Name, err)
		}
	}
	return nil
}

// DropAll removes every bot table. The pg_trgm extension is left in place
// since other databases' objects may depend on it.
func (s *Store) DropAll(ctx context.Context) error {
	for i := len(schema) - 1; i >= 0; i-- {
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", schema[i].table)
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop %s: %v", schema[i].table, err)
		}
	}
	return nil
}

func (s *Store) seedTimezones(ctx context.Context) error {
	zones := Timezones()

	batch := &pgx.Batch{}
	for _, zone := range zones {
		batch.Queue("INSERT INTO timezones (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", zone)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range zones {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to seed timezones: %v", err)
		}
	}
	return nil
}

// Timezones returns the embedded IANA zone names.
func Timezones() []string {
	var zones []string
	for _, line := range strings.Split(timezoneData, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			zones = append(zones, line)
		}
	}
	return zones
}
