package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/jengzang/meteorites-backend-go/internal/database"
	"github.com/jengzang/meteorites-backend-go/internal/models"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// MeteoriteRepository handles database operations for raw meteorite records
type MeteoriteRepository struct {
	db    *sql.DB
	table string
}

// NewMeteoriteRepository creates a new meteorite repository
func NewMeteoriteRepository(db *sql.DB, table string) (*MeteoriteRepository, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &MeteoriteRepository{db: db, table: table}, nil
}

// EnsureTable creates the table if it does not exist. Every column is TEXT:
// values are stored as they appear in the source data.
func (r *MeteoriteRepository) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		source_key TEXT NOT NULL,
		id         TEXT NOT NULL,
		name       TEXT NOT NULL,
		recclass   TEXT NOT NULL DEFAULT '',
		mass       TEXT NOT NULL DEFAULT '',
		fall       TEXT NOT NULL DEFAULT '',
		year       TEXT NOT NULL DEFAULT '',
		latitude   TEXT NOT NULL DEFAULT '',
		longitude  TEXT NOT NULL DEFAULT ''
	)`, r.table)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", r.table, err)
	}
	return nil
}

// ReplaceAll deletes existing rows and inserts records in order
func (r *MeteoriteRepository) ReplaceAll(ctx context.Context, records []models.RawMeteorite) error {
	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q`, r.table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", r.table, err)
		}

		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %q
			(source_key, id, name, recclass, mass, fall, year, latitude, longitude)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.table))
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, m := range records {
			_, err := stmt.ExecContext(ctx, m.SourceKey, m.ID, m.Name, m.RecClass,
				m.Mass, m.Fall, m.Year, m.Latitude, m.Longitude)
			if err != nil {
				return fmt.Errorf("failed to insert meteorite %s: %w", m.SourceKey, err)
			}
		}
		return nil
	})
}

// LoadAll reads every record in insertion order
func (r *MeteoriteRepository) LoadAll(ctx context.Context) ([]models.RawMeteorite, error) {
	query := fmt.Sprintf(`SELECT source_key, id, name, recclass, mass, fall, year, latitude, longitude
		FROM %q ORDER BY rowid`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query meteorites: %w", err)
	}
	defer rows.Close()

	var records []models.RawMeteorite
	for rows.Next() {
		var m models.RawMeteorite
		err := rows.Scan(&m.SourceKey, &m.ID, &m.Name, &m.RecClass,
			&m.Mass, &m.Fall, &m.Year, &m.Latitude, &m.Longitude)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meteorite: %w", err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meteorites: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records
func (r *MeteoriteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, r.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count meteorites: %w", err)
	}
	return n, nil
}
