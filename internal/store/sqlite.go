package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/tars-systems/leadscout/internal/model"
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
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// sqliteMigrations is the ordered, versioned schema history. Each entry runs
// at most once, recorded in schema_migrations.
var sqliteMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE runs (
	id         TEXT PRIMARY KEY,
	group_key  TEXT NOT NULL,
	profile    TEXT NOT NULL,
	state      TEXT NOT NULL DEFAULT 'planned',
	status     TEXT,
	lead_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE leads (
	id                  TEXT PRIMARY KEY,
	group_key           TEXT NOT NULL,
	position            INTEGER NOT NULL,
	name                TEXT NOT NULL,
	website             TEXT,
	phone               TEXT,
	address             TEXT,
	rating              REAL,
	description         TEXT,
	email               TEXT,
	ceo_name            TEXT,
	ceo_profile_url     TEXT,
	company_profile_url TEXT,
	fit_score           INTEGER NOT NULL DEFAULT 0,
	reasons             TEXT,
	created_at          DATETIME NOT NULL DEFAULT (datetime('now'))
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
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
		)`,
	); err != nil {
		return eris.Wrap(err, "sqlite: create schema_migrations")
	}

	var current sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return eris.Wrap(err, "sqlite: read schema version")
	}

	for _, m := range sqliteMigrations {
		if current.Valid && m.version <= int(current.Int64) {
			continue
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return eris.Wrapf(err, "sqlite: begin migration %d", m.version)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			tx.Rollback() //nolint:errcheck
			return eris.Wrapf(err, "sqlite: apply migration %d", m.version)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			tx.Rollback() //nolint:errcheck
			return eris.Wrapf(err, "sqlite: record migration %d", m.version)
		}
		if err := tx.Commit(); err != nil {
			return eris.Wrapf(err, "sqlite: commit migration %d", m.version)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRun inserts a new run record in the planned state.
func (s *SQLiteStore) CreateRun(ctx context.Context, groupKey string, profile model.ProductProfile) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal profile")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, group_key, profile, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, groupKey, string(profileJSON), string(model.RunPlanned), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
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
func (s *SQLiteStore) UpdateRunState(ctx context.Context, runID string, state model.RunState) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET state = ?, updated_at = ? WHERE id = ?`,
		string(state), time.Now().UTC(), runID,
	)
	return eris.Wrap(err, "sqlite: update run state")
}

// CompleteRun records a run's terminal status and delivered lead count.
func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.Status, leadCount int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET state = ?, status = ?, lead_count = ?, updated_at = ? WHERE id = ?`,
		string(model.RunDelivered), string(status), leadCount, time.Now().UTC(), runID,
	)
	return eris.Wrap(err, "sqlite: complete run")
}

// GetRun loads a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_key, profile, state, status, lead_count, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)

	var (
		run         model.Run
		profileJSON string
		status      sql.NullString
	)
	if err := row.Scan(&run.ID, &run.GroupKey, &profileJSON, &run.State, &status, &run.LeadCount, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return nil, eris.Wrap(err, "sqlite: get run")
	}
	if err := json.Unmarshal([]byte(profileJSON), &run.Profile); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal profile")
	}
	if status.Valid {
		run.Status = model.Status(status.String)
	}
	return &run, nil
}

// SaveLeads replaces the group's leads with the given set, preserving order.
func (s *SQLiteStore) SaveLeads(ctx context.Context, groupKey string, leads []model.Candidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save leads")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM leads WHERE group_key = ?`, groupKey); err != nil {
		return eris.Wrap(err, "sqlite: clear group leads")
	}

	for i, lead := range leads {
		reasonsJSON, err := json.Marshal(lead.Reasons)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal reasons")
		}
		var ceoName, ceoURL string
		if lead.CEO != nil {
			ceoName = lead.CEO.Name
			ceoURL = lead.CEO.ProfileURL
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO leads (id, group_key, position, name, website, phone, address, rating, description, email, ceo_name, ceo_profile_url, company_profile_url, fit_score, reasons)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), groupKey, i, lead.Name, lead.Website, lead.Phone, lead.Address,
			lead.Rating, lead.Description, lead.Email, ceoName, ceoURL, lead.CompanyProfileURL,
			lead.FitScore, string(reasonsJSON),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert lead %s", lead.Name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit save leads")
}

// ListLeads returns the group's leads in ranked order.
func (s *SQLiteStore) ListLeads(ctx context.Context, groupKey string) ([]model.Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, website, phone, address, rating, description, email, ceo_name, ceo_profile_url, company_profile_url, fit_score, reasons
		 FROM leads WHERE group_key = ? ORDER BY position`,
		groupKey,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close() //nolint:errcheck

	var leads []model.Candidate
	for rows.Next() {
		var (
			c           model.Candidate
			ceoName     sql.NullString
			ceoURL      sql.NullString
			reasonsJSON sql.NullString
		)
		if err := rows.Scan(&c.Name, &c.Website, &c.Phone, &c.Address, &c.Rating, &c.Description,
			&c.Email, &ceoName, &ceoURL, &c.CompanyProfileURL, &c.FitScore, &reasonsJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		if ceoName.Valid && ceoName.String != "" {
			c.CEO = &model.Person{Name: ceoName.String, ProfileURL: ceoURL.String}
		}
		if reasonsJSON.Valid && reasonsJSON.String != "" {
			if err := json.Unmarshal([]byte(reasonsJSON.String), &c.Reasons); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal reasons")
			}
		}
		leads = append(leads, c)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: iterate leads")
}
