// Package index persists workspace symbols in a sqlite database so that
// definition lookups can reach declarations in files that are not open.
// The database is rebuilt opportunistically by workspace scans; it is a
// cache, never the source of truth for open documents.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver for database/sql
)

// Symbol is one persisted top-level declaration.
type Symbol struct {
	Name   string
	Kind   string
	URI    string
	Line   int
	Column int
}

// ScanRecord summarizes one completed workspace scan.
type ScanRecord struct {
	ScanID      string
	Root        string
	FileCount   int
	SymbolCount int
	StartedAt   time.Time
	CompletedAt time.Time
}

// DB wraps the sqlite handle.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the index database at dbPath and
// applies pragmas and pending migrations.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(context.Background(), p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %s: %w", p, err)
		}
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

const schemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// migrations is the ordered list of schema migrations, applied from
// version 0. Never modify an existing migration, only append new ones.
var migrations = []func(*sql.Tx) error{
	migrateV0,
}

// migrateV0 creates the initial schema (version 0)
func migrateV0(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scans (
            scan_id TEXT PRIMARY KEY,
            root TEXT NOT NULL,
            file_count INTEGER NOT NULL,
            symbol_count INTEGER NOT NULL,
            started_at TEXT NOT NULL,
            completed_at TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS symbols (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            uri TEXT NOT NULL,
            name TEXT NOT NULL,
            kind TEXT NOT NULL,
            line INTEGER NOT NULL,
            column INTEGER NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_uri ON symbols(uri);`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration 0: %w", err)
		}
	}
	return nil
}

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaVersionTable); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var current int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), -1) FROM schema_version`).Scan(&current)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for v := current + 1; v < len(migrations); v++ {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if err := migrations[v](tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`,
			v, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record schema version %d: %w", v, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", v, err)
		}
	}
	return nil
}

// ReplaceFileSymbols replaces every symbol recorded for uri in one
// transaction.
func (d *DB) ReplaceFileSymbols(uri string, symbols []Symbol) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM symbols WHERE uri = ?`, uri); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear symbols for %s: %w", uri, err)
	}
	for _, sym := range symbols {
		if _, err := tx.Exec(
			`INSERT INTO symbols (uri, name, kind, line, column) VALUES (?, ?, ?, ?, ?)`,
			uri, sym.Name, sym.Kind, sym.Line, sym.Column,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert symbol %s: %w", sym.Name, err)
		}
	}
	return tx.Commit()
}

// LookupSymbol returns the first recorded declaration of name. It
// implements the analyzer's DefinitionSource.
func (d *DB) LookupSymbol(name string) (uri string, line, column int, ok bool) {
	row := d.db.QueryRow(
		`SELECT uri, line, column FROM symbols WHERE name = ? ORDER BY uri, line LIMIT 1`,
		name,
	)
	if err := row.Scan(&uri, &line, &column); err != nil {
		return "", 0, 0, false
	}
	return uri, line, column, true
}

// RecordScan stores a completed scan summary and returns its id.
func (d *DB) RecordScan(root string, fileCount, symbolCount int, startedAt time.Time) (string, error) {
	scanID := uuid.NewString()
	_, err := d.db.Exec(
		`INSERT INTO scans (scan_id, root, file_count, symbol_count, started_at, completed_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		scanID, root, fileCount, symbolCount,
		startedAt.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("record scan: %w", err)
	}
	return scanID, nil
}

// LastScan returns the most recently completed scan, if any.
func (d *DB) LastScan() (*ScanRecord, error) {
	row := d.db.QueryRow(
		`SELECT scan_id, root, file_count, symbol_count, started_at, completed_at
         FROM scans ORDER BY completed_at DESC LIMIT 1`,
	)
	var rec ScanRecord
	var started, completed string
	if err := row.Scan(&rec.ScanID, &rec.Root, &rec.FileCount, &rec.SymbolCount, &started, &completed); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rec.StartedAt, _ = time.Parse(time.RFC3339, started)
	rec.CompletedAt, _ = time.Parse(time.RFC3339, completed)
	return &rec, nil
}
