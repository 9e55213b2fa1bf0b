// Package sqlite implements repository.Repository on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"voterroll/internal/domain"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New opens (creating if needed) the SQLite database at dbPath
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is its own database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS voters (
		id TEXT PRIMARY KEY,
		last_name TEXT NOT NULL,
		first_name TEXT NOT NULL,
		street_number TEXT NOT NULL,
		street_name TEXT NOT NULL,
		apartment_number TEXT,
		zip_code TEXT NOT NULL,
		date_of_birth TEXT NOT NULL,
		date_of_registration TEXT NOT NULL,
		party_affiliation TEXT NOT NULL DEFAULT '',
		party_folded TEXT NOT NULL DEFAULT '',
		precinct_number TEXT NOT NULL,
		v20state INTEGER NOT NULL DEFAULT 0,
		v21town INTEGER NOT NULL DEFAULT 0,
		v21primary INTEGER NOT NULL DEFAULT 0,
		v22general INTEGER NOT NULL DEFAULT 0,
		v23town INTEGER NOT NULL DEFAULT 0,
		voter_score INTEGER NOT NULL,
		birth_year INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_voters_order ON voters(last_name, id);
	CREATE INDEX IF NOT EXISTS idx_voters_birth_year ON voters(birth_year);
	CREATE INDEX IF NOT EXISTS idx_voters_score ON voters(voter_score);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return err
	}

	return r.migratePartyFolded()
}

// migratePartyFolded adds and backfills party_folded on databases created
// before the column existed
func (r *Repository) migratePartyFolded() error {
	var n int
	if err := r.db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('voters') WHERE name = 'party_folded'`,
	).Scan(&n); err != nil {
		return fmt.Errorf("inspect voters table: %w", err)
	}

	if n == 0 {
		if _, err := r.db.Exec(`ALTER TABLE voters ADD COLUMN party_folded TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("add party_folded: %w", err)
		}
		if err := r.backfillPartyFolded(); err != nil {
			return err
		}
	}

	_, err := r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_voters_party_folded ON voters(party_folded)`)
	return err
}

func (r *Repository) backfillPartyFolded() error {
	rows, err := r.db.Query(`SELECT DISTINCT party_affiliation FROM voters`)
	if err != nil {
		return fmt.Errorf("query parties for backfill: %w", err)
	}
	var parties []string
	for rows.Next() {
		var party string
		if err := rows.Scan(&party); err != nil {
			rows.Close()
			return fmt.Errorf("scan party for backfill: %w", err)
		}
		parties = append(parties, party)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, party := range parties {
		if _, err := r.db.Exec(`UPDATE voters SET party_folded = ? WHERE party_affiliation = ?`,
			domain.FoldParty(party), party); err != nil {
			return fmt.Errorf("backfill party_folded: %w", err)
		}
	}
	return nil
}

// Query returns the voters matching filter ordered by last name, then id
func (r *Repository) Query(ctx context.Context, filter domain.FilterSpec) ([]domain.Voter, error) {
	cond := buildCondition(filter)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+voterColumns+` FROM voters`+cond.where()+` ORDER BY last_name, id`,
		cond.Params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []domain.Voter{}
	for rows.Next() {
		var row voterRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		v, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		voters = append(voters, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voters: %w", err)
	}

	return voters, nil
}

// GetVoter retrieves a single voter by ID
func (r *Repository) GetVoter(ctx context.Context, id string) (*domain.Voter, error) {
	var row voterRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+voterColumns+` FROM voters WHERE id = ?`, id,
	).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query voter: %w", err)
	}

	v, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Parties returns the sorted distinct non-empty party codes
func (r *Repository) Parties(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT party_affiliation FROM voters
		WHERE party_affiliation <> ''
		ORDER BY party_affiliation
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties: %w", err)
	}
	defer rows.Close()

	parties := []string{}
	for rows.Next() {
		var party string
		if err := rows.Scan(&party); err != nil {
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		parties = append(parties, party)
	}

	return parties, rows.Err()
}

// Count returns the number of stored voters
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return n, nil
}

// ReplaceAll replaces the whole roll with voters in a single transaction
func (r *Repository) ReplaceAll(ctx context.Context, voters []domain.Voter) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM voters`); err != nil {
		return fmt.Errorf("failed to clear voters: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO voters (`+voterColumns+`, birth_year, party_folded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare voter statement: %w", err)
	}
	defer stmt.Close()

	for _, v := range voters {
		if _, err := stmt.ExecContext(ctx, voterInsertArgs(v)...); err != nil {
			return fmt.Errorf("failed to insert voter %s: %w", v.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES ('last_import', ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store import timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LastImport returns when the roll was last replaced, or the zero time
func (r *Repository) LastImport(ctx context.Context) (time.Time, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'last_import'`).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query last import: %w", err)
	}
	return time.Parse(time.RFC3339, value)
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
