package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mvp-joe/php-reflect/internal/graph"
)

// ErrNoRuns is returned when the database holds no snapshot yet.
var ErrNoRuns = errors.New("no analysis runs stored")

// Run describes one stored snapshot.
type Run struct {
	ID        string
	RootDir   string
	Frontend  string
	FileCount int
	CreatedAt time.Time
}

// Reader queries stored snapshots.
type Reader struct {
	db *sql.DB
}

// NewReader creates a Reader on an open database with the schema created.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Runs lists stored runs, newest first.
func (r *Reader) Runs() ([]Run, error) {
	rows, err := sq.Select("run_id", "root_dir", "frontend", "file_count", "created_at").
		From("runs").
		OrderBy("created_at DESC", "rowid DESC").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var created string
		if err := rows.Scan(&run.ID, &run.RootDir, &run.Frontend, &run.FileCount, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp %q: %w", created, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recent run or ErrNoRuns.
func (r *Reader) LatestRun() (*Run, error) {
	runs, err := r.Runs()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	return &runs[0], nil
}

// countedTables are the per-run tables Counts reports on.
var countedTables = []string{
	"files", "packages", "classes", "methods", "functions",
	"constants", "includes", "dependencies", "edges",
}

// Counts returns the number of rows each table holds for a run.
func (r *Reader) Counts(runID string) (map[string]int, error) {
	counts := make(map[string]int, len(countedTables))
	for _, table := range countedTables {
		var n int
		err := sq.Select("COUNT(*)").
			From(table).
			Where(sq.Eq{"run_id": runID}).
			RunWith(r.db).
			QueryRow().
			Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Edges returns the edges of a run, optionally of one type only.
func (r *Reader) Edges(runID string, edgeType graph.EdgeType) ([]graph.Edge, error) {
	query := sq.Select("from_id", "to_id", "edge_type", "source_file_path", "source_line").
		From("edges").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("from_id", "to_id", "edge_type")
	if edgeType != "" {
		query = query.Where(sq.Eq{"edge_type": string(edgeType)})
	}

	rows, err := query.RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		var typ string
		var file sql.NullString
		var line sql.NullInt64
		if err := rows.Scan(&e.From, &e.To, &typ, &file, &line); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		e.Type = graph.EdgeType(typ)
		if file.Valid {
			e.Location = &graph.Location{File: file.String, Line: int(line.Int64)}
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
