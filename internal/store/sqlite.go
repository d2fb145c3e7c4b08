package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps the configuration record in a sqlite database.
// The record is small; Put replaces the whole document inside one
// transaction.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path and
// applies pending migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate record db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if err == migrate.ErrNoChange {
		return nil
	}
	return err
}

// Get assembles the record from the relational tables.
func (s *SQLiteStore) Get(ctx context.Context) (Record, error) {
	var rec Record

	rows, err := s.db.QueryContext(ctx, `SELECT key, name, type, folder FROM fis ORDER BY key`)
	if err != nil {
		return rec, err
	}
	defer rows.Close()
	for rows.Next() {
		var fi FIRecord
		if err := rows.Scan(&fi.Key, &fi.Name, &fi.Type, &fi.Folder); err != nil {
			return rec, err
		}
		rec.FIs = append(rec.FIs, fi)
	}
	if err := rows.Err(); err != nil {
		return rec, err
	}

	wfRows, err := s.db.QueryContext(ctx, `SELECT key, name FROM workflows ORDER BY key`)
	if err != nil {
		return rec, err
	}
	defer wfRows.Close()
	for wfRows.Next() {
		var wf WorkflowRecord
		if err := wfRows.Scan(&wf.Key, &wf.Name); err != nil {
			return rec, err
		}
		wf.Folders = map[string]FolderRecord{}
		rec.Workflows = append(rec.Workflows, wf)
	}
	if err := wfRows.Err(); err != nil {
		return rec, err
	}

	fRows, err := s.db.QueryContext(ctx, `SELECT wf_key, purpose, role_id, folder, prefix FROM workflow_folders`)
	if err != nil {
		return rec, err
	}
	defer fRows.Close()
	for fRows.Next() {
		var wfKey, purpose string
		var fr FolderRecord
		if err := fRows.Scan(&wfKey, &purpose, &fr.ID, &fr.Folder, &fr.Prefix); err != nil {
			return rec, err
		}
		for i := range rec.Workflows {
			if rec.Workflows[i].Key == wfKey {
				rec.Workflows[i].Folders[purpose] = fr
			}
		}
	}
	if err := fRows.Err(); err != nil {
		return rec, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT root_folder, create_missing FROM options WHERE id = 1`).
		Scan(&rec.Options.RootFolder, &rec.Options.CreateMissingFolders)
	if err != nil && err != sql.ErrNoRows {
		return rec, err
	}
	err = s.db.QueryRowContext(ctx, `SELECT fi, workflow, purpose, workbook FROM state_defaults WHERE id = 1`).
		Scan(&rec.Defaults.FI, &rec.Defaults.Workflow, &rec.Defaults.Purpose, &rec.Defaults.Workbook)
	if err != nil && err != sql.ErrNoRows {
		return rec, err
	}
	return rec, nil
}

// Put replaces the stored record.
func (s *SQLiteStore) Put(ctx context.Context, rec Record) error {
	return withTx(s.db, func(tx *sql.Tx) error {
		for _, table := range []string{"workflow_folders", "workflows", "fis", "options", "state_defaults"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for _, fi := range rec.FIs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO fis(key, name, type, folder) VALUES (?, ?, ?, ?)`,
				fi.Key, fi.Name, fi.Type, fi.Folder); err != nil {
				return err
			}
		}
		for _, wf := range rec.Workflows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO workflows(key, name) VALUES (?, ?)`, wf.Key, wf.Name); err != nil {
				return err
			}
			for purpose, fr := range wf.Folders {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO workflow_folders(wf_key, purpose, role_id, folder, prefix) VALUES (?, ?, ?, ?, ?)`,
					wf.Key, purpose, fr.ID, fr.Folder, fr.Prefix); err != nil {
					return err
				}
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO options(id, root_folder, create_missing) VALUES (1, ?, ?)`,
			rec.Options.RootFolder, rec.Options.CreateMissingFolders); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state_defaults(id, fi, workflow, purpose, workbook) VALUES (1, ?, ?, ?, ?)`,
			rec.Defaults.FI, rec.Defaults.Workflow, rec.Defaults.Purpose, rec.Defaults.Workbook); err != nil {
			return err
		}
		return nil
	})
}

// withTx runs fn in a transaction.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
