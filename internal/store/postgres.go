package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/tars-systems/leadscout/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
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
	return &PostgresStore{pool: pool}, nil
}

var postgresMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE runs (
	id         TEXT PRIMARY KEY,
	group_key  TEXT NOT NULL,
	profile    JSONB NOT NULL,
	state      TEXT NOT NULL DEFAULT 'planned',
	status     TEXT,
	lead_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE leads (
	id                  TEXT PRIMARY KEY,
	group_key           TEXT NOT NULL,
	position            INTEGER NOT NULL,
	name                TEXT NOT NULL,
	website             TEXT,
	phone               TEXT,
	address             TEXT,
	rating              DOUBLE PRECISION,
	description         TEXT,
	email               TEXT,
	ceo_name            TEXT,
	ceo_profile_url     TEXT,
	company_profile_url TEXT,
	fit_score           INTEGER NOT NULL DEFAULT 0,
	reasons             JSONB,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX idx_runs_group_key ON runs(group_key);
CREATE INDEX idx_leads_group_key ON leads(group_key, position);
`,
	},
}

// Migrate applies pending schema migrations in order.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	); err != nil {
		return eris.Wrap(err, "postgres: create schema_migrations")
	}

	var current *int
	if err := s.pool.QueryRow(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return eris.Wrap(err, "postgres: read schema version")
	}

	for _, m := range postgresMigrations {
		if current != nil && m.version <= *current {
			continue
		}
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return eris.Wrapf(err, "postgres: begin migration %d", m.version)
		}
		if _, err := tx.Exec(ctx, m.sql); err != nil {
			_ = tx.Rollback(ctx)
			return eris.Wrapf(err, "postgres: apply migration %d", m.version)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
			_ = tx.Rollback(ctx)
			return eris.Wrapf(err, "postgres: record migration %d", m.version)
		}
		if err := tx.Commit(ctx); err != nil {
			return eris.Wrapf(err, "postgres: commit migration %d", m.version)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateRun inserts a new run record in the planned state.
func (s *PostgresStore) CreateRun(ctx context.Context, groupKey string, profile model.ProductProfile) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal profile")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, group_key, profile, state, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, groupKey, profileJSON, string(model.RunPlanned), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		GroupKey:  groupKey,
		Profile:   profile,
		State:     model.RunPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateRunState advances a run's pipeline state.
func (s *PostgresStore) UpdateRunState(ctx context.Context, runID string, state model.RunState) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE runs SET state = $1, updated_at = now() WHERE id = $2`,
		string(state), runID,
	)
	return eris.Wrap(err, "postgres: update run state")
}

// CompleteRun records a run's terminal status and delivered lead count.
func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, status model.Status, leadCount int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE runs SET state = $1, status = $2, lead_count = $3, updated_at = now() WHERE id = $4`,
		string(model.RunDelivered), string(status), leadCount, runID,
	)
	return eris.Wrap(err, "postgres: complete run")
}

// GetRun loads a run by ID.
func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var (
		run         model.Run
		profileJSON []byte
		status      *string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, group_key, profile, state, status, lead_count, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.GroupKey, &profileJSON, &run.State, &status, &run.LeadCount, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get run")
	}
	if err := json.Unmarshal(profileJSON, &run.Profile); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal profile")
	}
	if status != nil {
		run.Status = model.Status(*status)
	}
	return &run, nil
}

// SaveLeads replaces the group's leads with the given set, preserving order.
func (s *PostgresStore) SaveLeads(ctx context.Context, groupKey string, leads []model.Candidate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin save leads")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM leads WHERE group_key = $1`, groupKey); err != nil {
		return eris.Wrap(err, "postgres: clear group leads")
	}

	for i, lead := range leads {
		reasonsJSON, err := json.Marshal(lead.Reasons)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal reasons")
		}
		var ceoName, ceoURL string
		if lead.CEO != nil {
			ceoName = lead.CEO.Name
			ceoURL = lead.CEO.ProfileURL
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO leads (id, group_key, position, name, website, phone, address, rating, description, email, ceo_name, ceo_profile_url, company_profile_url, fit_score, reasons)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			uuid.New().String(), groupKey, i, lead.Name, lead.Website, lead.Phone, lead.Address,
			lead.Rating, lead.Description, lead.Email, ceoName, ceoURL, lead.CompanyProfileURL,
			lead.FitScore, reasonsJSON,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert lead %s", lead.Name)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit save leads")
}

// ListLeads returns the group's leads in ranked order.
func (s *PostgresStore) ListLeads(ctx context.Context, groupKey string) ([]model.Candidate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, website, phone, address, rating, description, email, ceo_name, ceo_profile_url, company_profile_url, fit_score, reasons
		 FROM leads WHERE group_key = $1 ORDER BY position`,
		groupKey,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Candidate
	for rows.Next() {
		var (
			c           model.Candidate
			ceoName     *string
			ceoURL      *string
			reasonsJSON []byte
		)
		if err := rows.Scan(&c.Name, &c.Website, &c.Phone, &c.Address, &c.Rating, &c.Description,
			&c.Email, &ceoName, &ceoURL, &c.CompanyProfileURL, &c.FitScore, &reasonsJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		if ceoName != nil && *ceoName != "" {
			p := &model.Person{Name: *ceoName}
			if ceoURL != nil {
				p.ProfileURL = *ceoURL
			}
			c.CEO = p
		}
		if len(reasonsJSON) > 0 {
			if err := json.Unmarshal(reasonsJSON, &c.Reasons); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal reasons")
			}
		}
		leads = append(leads, c)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: iterate leads")
}
