package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	apperrors "postcodelookup/internal/errors"
	"postcodelookup/pkg/contracts/domain"
)

const sqliteSchema = `
CREATE TABLE postcode_area (
	position   INTEGER PRIMARY KEY,
	postcode   TEXT NOT NULL,
	normalized TEXT NOT NULL,
	area_code  TEXT
);

CREATE TABLE missing_postcode (
	postcode TEXT NOT NULL,
	reason   TEXT NOT NULL CHECK (reason IN ('unresolved', 'suppressed')),
	variable TEXT,
	UNIQUE (postcode, reason, variable)
);

CREATE TABLE observation (
	postcodes TEXT NOT NULL,
	area_code TEXT NOT NULL,
	variable  TEXT NOT NULL,
	category  TEXT NOT NULL,
	value     TEXT NOT NULL
);

CREATE INDEX idx_observation_area ON observation (area_code);
CREATE INDEX idx_postcode_area_normalized ON postcode_area (normalized);
`

// SQLiteData is what a run stores in the database.
type SQLiteData struct {
	Targets  domain.TargetPostalCodeList
	Combined domain.CombinedTable
	Missing  domain.MissingData
}

// WriteSQLite stores a run in a fresh SQLite database at path. The database
// is built next to the target and renamed into place once complete.
func WriteSQLite(ctx context.Context, path string, data SQLiteData) error {
	if len(data.Combined.Header) != data.Combined.ColumnCount() {
		return fmt.Errorf("table header has %d labels for %d columns", len(data.Combined.Header), data.Combined.ColumnCount())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := path + ".tmp"
	_ = os.Remove(tmp)
	defer os.Remove(tmp)

	if err := buildDatabase(ctx, tmp, data); err != nil {
		return apperrors.NewStorageError("failed to write SQLite database", err).WithContext("path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move database into place: %w", err)
	}
	return nil
}

func buildDatabase(ctx context.Context, path string, data SQLiteData) error {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertTargets(ctx, tx, data.Targets); err != nil {
		return err
	}
	if err := insertMissing(ctx, tx, data.Missing); err != nil {
		return err
	}
	if err := insertObservations(ctx, tx, data.Combined); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return db.Close()
}

func insertTargets(ctx context.Context, tx *sql.Tx, targets domain.TargetPostalCodeList) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO postcode_area (position, postcode, normalized, area_code) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare postcode insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range targets.Rows {
		var area sql.NullString
		if row.Resolved() {
			area = sql.NullString{String: row.Area(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, i, row.Postcode.Raw, row.Postcode.Normalized, area); err != nil {
			return fmt.Errorf("failed to insert postcode %q: %w", row.Postcode.Raw, err)
		}
	}
	return nil
}

func insertMissing(ctx context.Context, tx *sql.Tx, m domain.MissingData) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO missing_postcode (postcode, reason, variable) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare missing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range m.UnresolvedPostcodes {
		if _, err := stmt.ExecContext(ctx, p, "unresolved", nil); err != nil {
			return fmt.Errorf("failed to insert missing postcode %q: %w", p, err)
		}
	}
	for variable, postcodes := range m.SuppressedByVariable {
		for _, p := range postcodes {
			if _, err := stmt.ExecContext(ctx, p, "suppressed", variable); err != nil {
				return fmt.Errorf("failed to insert missing postcode %q: %w", p, err)
			}
		}
	}
	return nil
}

// insertObservations stores the combined table in long form, one row per
// category cell; no-data cells are stored as they appear in the table
func insertObservations(ctx context.Context, tx *sql.Tx, table domain.CombinedTable) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observation (postcodes, area_code, variable, category, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare observation insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range table.Rows {
		for i := domain.IdentifierColumnCount; i < len(row); i++ {
			cell := table.Header[i]
			if _, err := stmt.ExecContext(ctx, row[0], row[1], cell.Level0, cell.Level1, row[i]); err != nil {
				return fmt.Errorf("failed to insert observation: %w", err)
			}
		}
	}
	return nil
}
