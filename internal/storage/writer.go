// Package storage exports analysis snapshots to SQLite. Each export is a
// run identified by a UUID; runs accumulate until pruned.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/php-reflect/internal/graph"
	"github.com/mvp-joe/php-reflect/internal/model"
)

// FileRecord describes one analyzed file of a run.
type FileRecord struct {
	Path  string
	Hash  string
	Size  int64
	Error string // empty when the file was analyzed
}

// Snapshot is everything one export writes.
type Snapshot struct {
	RootDir  string
	Frontend string
	Files    []FileRecord
	Registry *model.Registry
	Graph    *graph.GraphData
}

// timeFormat keeps a fixed width so created_at sorts as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Writer writes snapshots to SQLite.
type Writer struct {
	db     *sql.DB
	ownsDB bool // true if we opened the connection, false if shared
}

// Open opens (creating if needed) the database at dbPath and its schema.
func Open(dbPath string) (*Writer, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // the foreign_keys pragma is per connection
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	version, err := GetSchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if version != SchemaVersion {
		db.Close()
		return nil, fmt.Errorf("database %s has schema version %s, expected %s", dbPath, version, SchemaVersion)
	}
	return &Writer{db: db, ownsDB: true}, nil
}

// NewWriterWithDB creates a Writer using an existing database connection.
// The caller is responsible for the schema and for closing db.
func NewWriterWithDB(db *sql.DB) *Writer {
	return &Writer{db: db, ownsDB: false}
}

// DB returns the underlying connection, e.g. to build a Reader on it.
func (w *Writer) DB() *sql.DB { return w.db }

// Close closes the database connection if owned by this writer.
func (w *Writer) Close() error {
	if !w.ownsDB || w.db == nil {
		return nil
	}
	return w.db.Close()
}

// WriteSnapshot writes a complete snapshot in a single transaction and
// returns the new run ID.
func (w *Writer) WriteSnapshot(snap *Snapshot) (string, error) {
	if snap == nil || snap.Registry == nil {
		return "", fmt.Errorf("snapshot registry cannot be nil")
	}

	tx, err := w.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	runID := uuid.New().String()
	_, err = sq.Insert("runs").
		Columns("run_id", "root_dir", "frontend", "file_count", "created_at").
		Values(runID, snap.RootDir, snap.Frontend, len(snap.Files), time.Now().UTC().Format(timeFormat)).
		RunWith(tx).
		Exec()
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	steps := []struct {
		name  string
		write func(*sql.Tx, string) error
	}{
		{"files", func(tx *sql.Tx, id string) error { return writeFiles(tx, id, snap.Files) }},
		{"packages", func(tx *sql.Tx, id string) error { return writePackages(tx, id, snap.Registry) }},
		{"classes", func(tx *sql.Tx, id string) error { return writeClasses(tx, id, snap.Registry) }},
		{"functions", func(tx *sql.Tx, id string) error { return writeFunctions(tx, id, snap.Registry) }},
		{"constants", func(tx *sql.Tx, id string) error { return writeConstants(tx, id, snap.Registry) }},
		{"includes", func(tx *sql.Tx, id string) error { return writeIncludes(tx, id, snap.Registry) }},
		{"dependencies", func(tx *sql.Tx, id string) error { return writeDependencies(tx, id, snap.Registry) }},
		{"edges", func(tx *sql.Tx, id string) error { return writeEdges(tx, id, snap.Graph) }},
	}
	for _, step := range steps {
		if err := step.write(tx, runID); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", step.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return runID, nil
}

// Prune deletes all but the keep most recent runs and returns how many
// runs were deleted.
func (w *Writer) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := sq.Delete("runs").
		Where("run_id NOT IN (SELECT run_id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?)", keep).
		RunWith(w.db).
		Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}
	return int(n), nil
}

func writeFiles(tx *sql.Tx, runID string, files []FileRecord) error {
	for _, f := range files {
		var errText *string
		if f.Error != "" {
			errText = &f.Error
		}
		_, err := sq.Insert("files").
			Columns("run_id", "file_path", "file_hash", "size_bytes", "error").
			Values(runID, f.Path, f.Hash, f.Size, errText).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert file %s: %w", f.Path, err)
		}
	}
	return nil
}

func writePackages(tx *sql.Tx, runID string, reg *model.Registry) error {
	packages := reg.Packages()
	for _, name := range sortedKeys(packages) {
		p := packages[name]
		_, err := sq.Insert("packages").
			Columns("run_id", "name", "file_path", "start_line", "end_line", "doc_comment", "calls").
			Values(runID, name, p.FileName(), p.StartLine(), p.EndLine(), p.DocComment(), p.Calls()).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert package %s: %w", name, err)
		}
	}
	return nil
}

func writeClasses(tx *sql.Tx, runID string, reg *model.Registry) error {
	var classes []*model.Class
	for _, m := range []map[string]*model.Class{reg.Classes(), reg.Interfaces(), reg.Traits()} {
		for _, c := range m {
			classes = append(classes, c)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name() < classes[j].Name() })

	for _, c := range classes {
		_, err := sq.Insert("classes").
			Columns(
				"run_id", "name", "kind", "package", "file_path", "start_line", "end_line",
				"parent", "is_abstract", "is_final", "doc_comment", "calls",
			).
			Values(
				runID, c.Name(), c.Kind().String(), c.NamespaceName(), c.FileName(), c.StartLine(), c.EndLine(),
				c.ParentClassName(), boolToInt(c.IsAbstract()), boolToInt(c.IsFinal()), c.DocComment(), c.Calls(),
			).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert class %s: %w", c.Name(), err)
		}

		for _, m := range c.Methods() {
			_, err := sq.Insert("methods").
				Columns(
					"run_id", "class_name", "name", "visibility", "is_static", "is_abstract",
					"param_count", "ccn", "start_line", "end_line",
				).
				Values(
					runID, c.Name(), m.ShortName(), m.Modifiers().Visibility(), boolToInt(m.IsStatic()), boolToInt(m.IsAbstract()),
					m.NumberOfParameters(), m.CCN(), m.StartLine(), m.EndLine(),
				).
				RunWith(tx).
				Exec()
			if err != nil {
				return fmt.Errorf("failed to insert method %s: %w", m.Name(), err)
			}
		}
	}
	return nil
}

func writeFunctions(tx *sql.Tx, runID string, reg *model.Registry) error {
	functions := reg.Functions()
	for _, name := range sortedKeys(functions) {
		f := functions[name]
		_, err := sq.Insert("functions").
			Columns(
				"run_id", "name", "package", "file_path", "start_line", "end_line",
				"is_closure", "param_count", "ccn", "calls",
			).
			Values(
				runID, name, f.NamespaceName(), f.FileName(), f.StartLine(), f.EndLine(),
				boolToInt(f.IsClosure()), f.NumberOfParameters(), f.CCN(), f.Calls(),
			).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert function %s: %w", name, err)
		}
	}
	return nil
}

func writeConstants(tx *sql.Tx, runID string, reg *model.Registry) error {
	constants := reg.Constants()
	for _, name := range sortedKeys(constants) {
		c := constants[name]
		_, err := sq.Insert("constants").
			Columns("run_id", "name", "package", "value", "is_magic", "line").
			Values(runID, name, c.NamespaceName(), c.Value(), boolToInt(c.IsMagic()), c.Line()).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert constant %s: %w", name, err)
		}
	}
	return nil
}

func writeIncludes(tx *sql.Tx, runID string, reg *model.Registry) error {
	includes := reg.Includes()
	for _, name := range sortedKeys(includes) {
		i := includes[name]
		_, err := sq.Insert("includes").
			Columns("run_id", "name", "kind", "package", "file_path", "start_line").
			Values(runID, name, i.Kind().String(), i.NamespaceName(), i.FileName(), i.StartLine()).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert include %s: %w", name, err)
		}
	}
	return nil
}

func writeDependencies(tx *sql.Tx, runID string, reg *model.Registry) error {
	deps := reg.Dependencies()
	for _, key := range sortedKeys(deps) {
		d := deps[key]
		_, err := sq.Insert("dependencies").
			Columns(
				"run_id", "dep_key", "name", "package", "file_path", "start_line",
				"is_internal", "is_conditional", "is_instantiation", "calls",
			).
			Values(
				runID, key, d.Name(), d.NamespaceName(), d.FileName(), d.StartLine(),
				boolToInt(d.IsInternal()), boolToInt(d.IsConditional()), boolToInt(d.IsClassInstantiation()), d.Calls(),
			).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert dependency %s: %w", key, err)
		}
	}
	return nil
}

func writeEdges(tx *sql.Tx, runID string, data *graph.GraphData) error {
	if data == nil {
		return nil
	}
	for _, e := range data.Edges {
		var file *string
		var line *int
		if e.Location != nil {
			file, line = &e.Location.File, &e.Location.Line
		}
		_, err := sq.Insert("edges").
			Columns("edge_id", "run_id", "from_id", "to_id", "edge_type", "source_file_path", "source_line").
			Values(uuid.New().String(), runID, e.From, e.To, string(e.Type), file, line).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert edge %s -> %s: %w", e.From, e.To, err)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
