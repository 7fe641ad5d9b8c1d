package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion is bumped whenever a table definition changes.
const SchemaVersion = "1"

// CreateSchema creates all tables and indexes of the snapshot database.
// It is idempotent: existing tables are kept.
//
// Every model table is keyed by run_id; deleting a run cascades to its rows.
// Must be called with SQLite PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"metadata", createMetadataTable},
		{"runs", createRunsTable},
		{"files", createFilesTable},
		{"packages", createPackagesTable},
		{"classes", createClassesTable},
		{"methods", createMethodsTable},
		{"functions", createFunctionsTable},
		{"constants", createConstantsTable},
		{"includes", createIncludesTable},
		{"dependencies", createDependenciesTable},
		{"edges", createEdgesTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`
		INSERT INTO metadata (key, value, updated_at) VALUES ('schema_version', ?, ?)
		ON CONFLICT(key) DO NOTHING`, SchemaVersion, now); err != nil {
		return fmt.Errorf("failed to bootstrap metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

// GetSchemaVersion retrieves the schema version from metadata.
// Returns "0" if the table doesn't exist (new database).
func GetSchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='metadata'").Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check metadata existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("schema_version key not found in metadata")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

// Table DDL constants

const createMetadataTable = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
)
`

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,                     -- UUID
    root_dir TEXT NOT NULL,
    frontend TEXT NOT NULL,                      -- tokens or ast
    file_count INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL                     -- ISO 8601
)
`

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
    run_id TEXT NOT NULL,
    file_path TEXT NOT NULL,
    file_hash TEXT NOT NULL,                     -- SHA-256 of the content
    size_bytes INTEGER NOT NULL DEFAULT 0,
    error TEXT,                                  -- NULL when the file was analyzed
    PRIMARY KEY (run_id, file_path),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

const createPackagesTable = `
CREATE TABLE IF NOT EXISTS packages (
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,                          -- "+global" for the global namespace
    file_path TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    doc_comment TEXT NOT NULL,
    calls INTEGER NOT NULL,
    PRIMARY KEY (run_id, name),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

const createClassesTable = `
CREATE TABLE IF NOT EXISTS classes (
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,                          -- class, interface, trait
    package TEXT NOT NULL,
    file_path TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    parent TEXT NOT NULL,
    is_abstract INTEGER NOT NULL DEFAULT 0,
    is_final INTEGER NOT NULL DEFAULT 0,
    doc_comment TEXT NOT NULL,
    calls INTEGER NOT NULL,
    PRIMARY KEY (run_id, name),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

const createMethodsTable = `
CREATE TABLE IF NOT EXISTS methods (
    run_id TEXT NOT NULL,
    class_name TEXT NOT NULL,
    name TEXT NOT NULL,
    visibility TEXT NOT NULL,
    is_static INTEGER NOT NULL DEFAULT 0,
    is_abstract INTEGER NOT NULL DEFAULT 0,
    param_count INTEGER NOT NULL DEFAULT 0,
    ccn INTEGER NOT NULL DEFAULT 1,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    PRIMARY KEY (run_id, class_name, name),
    FOREIGN KEY (run_id, class_name) REFERENCES classes(run_id, name) ON DELETE CASCADE
)
`

const createFunctionsTable = `
CREATE TABLE IF NOT EXISTS functions (
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,                          -- closures: ns\{closure}#line
    package TEXT NOT NULL,
    file_path TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    is_closure INTEGER NOT NULL DEFAULT 0,
    param_count INTEGER NOT NULL DEFAULT 0,
    ccn INTEGER NOT NULL DEFAULT 1,
    calls INTEGER NOT NULL,
    PRIMARY KEY (run_id, name),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

const createConstantsTable = `
CREATE TABLE IF NOT EXISTS constants (
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,
    package TEXT NOT NULL,
    value TEXT NOT NULL,
    is_magic INTEGER NOT NULL DEFAULT 0,
    line INTEGER NOT NULL,
    PRIMARY KEY (run_id, name),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

const createIncludesTable = `
CREATE TABLE IF NOT EXISTS includes (
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,                          -- include target as written
    kind TEXT NOT NULL,                          -- include, include_once, require, require_once
    package TEXT NOT NULL,
    file_path TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    PRIMARY KEY (run_id, name),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

const createDependenciesTable = `
CREATE TABLE IF NOT EXISTS dependencies (
    run_id TEXT NOT NULL,
    dep_key TEXT NOT NULL,                       -- name, or name#hash for internal calls
    name TEXT NOT NULL,
    package TEXT NOT NULL,
    file_path TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    is_internal INTEGER NOT NULL DEFAULT 0,
    is_conditional INTEGER NOT NULL DEFAULT 0,
    is_instantiation INTEGER NOT NULL DEFAULT 0,
    calls INTEGER NOT NULL,
    PRIMARY KEY (run_id, dep_key),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

const createEdgesTable = `
CREATE TABLE IF NOT EXISTS edges (
    edge_id TEXT PRIMARY KEY,                    -- UUID
    run_id TEXT NOT NULL,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    edge_type TEXT NOT NULL,                     -- extends, implements, imports, depends
    source_file_path TEXT,
    source_line INTEGER,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_classes_package ON classes(run_id, package)",
	"CREATE INDEX IF NOT EXISTS idx_functions_package ON functions(run_id, package)",
	"CREATE INDEX IF NOT EXISTS idx_dependencies_name ON dependencies(run_id, name)",
	"CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(run_id, from_id)",
	"CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(run_id, to_id)",
	"CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)",
}
