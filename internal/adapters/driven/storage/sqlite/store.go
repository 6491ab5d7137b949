// Package sqlite persists report history and token usage in a local SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/livingcool/researchfirm/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
)

// Store is a SQLite-backed store for reports and token usage.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.researchfirm/data/researchfirm.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".researchfirm", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "researchfirm.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ReportStore returns a ReportStore interface backed by this store.
func (s *Store) ReportStore() driven.ReportStore {
	return &reportStore{store: s}
}

// UsageStore returns a UsageStore interface backed by this store.
func (s *Store) UsageStore() driven.UsageStore {
	return &usageStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Report Store ====================

// reportStore implements driven.ReportStore.
type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

// Save stores a report. CreatedAt is assigned if zero.
func (s *reportStore) Save(ctx context.Context, report domain.Report) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	var chartJSON sql.NullString
	if report.Chart != nil {
		raw, err := json.Marshal(report.Chart)
		if err != nil {
			return fmt.Errorf("marshalling chart data: %w", err)
		}
		chartJSON = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO reports (id, topic, type, content, chart, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			topic = excluded.topic,
			type = excluded.type,
			content = excluded.content,
			chart = excluded.chart
	`, report.ID, report.Topic, string(report.Type), report.Content, chartJSON, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// Get retrieves a report by ID.
func (s *reportStore) Get(ctx context.Context, id string) (*domain.Report, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, topic, type, content, chart, created_at
		FROM reports WHERE id = ?
	`, id)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}
	return report, nil
}

// List returns up to limit reports, newest first. limit <= 0 means all.
func (s *reportStore) List(ctx context.Context, limit int) ([]domain.Report, error) {
	query := `
		SELECT id, topic, type, content, chart, created_at
		FROM reports ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*domain.Report, error) {
	var (
		report    domain.Report
		typ       string
		chartJSON sql.NullString
	)
	if err := row.Scan(&report.ID, &report.Topic, &typ, &report.Content, &chartJSON, &report.CreatedAt); err != nil {
		return nil, err
	}
	report.Type = domain.ReportType(typ)

	if chartJSON.Valid && chartJSON.String != "" {
		var chart domain.ChartData
		if err := json.Unmarshal([]byte(chartJSON.String), &chart); err != nil {
			return nil, fmt.Errorf("unmarshalling chart data: %w", err)
		}
		report.Chart = &chart
	}
	return &report, nil
}

// ==================== Usage Store ====================

// usageStore implements driven.UsageStore.
type usageStore struct {
	store *Store
}

var _ driven.UsageStore = (*usageStore)(nil)

// Log records one model invocation.
func (s *usageStore) Log(ctx context.Context, model string, usage domain.TokenUsage) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO usage_log (model, prompt_tokens, completion_tokens, created_at)
		VALUES (?, ?, ?, ?)
	`, model, usage.PromptTokens, usage.CompletionTokens, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("logging usage: %w", err)
	}
	return nil
}

// Totals returns the accumulated usage across all recorded invocations.
func (s *usageStore) Totals(ctx context.Context) (domain.TokenUsage, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(prompt_tokens), 0), COALESCE(SUM(completion_tokens), 0)
		FROM usage_log
	`)

	var totals domain.TokenUsage
	if err := row.Scan(&totals.PromptTokens, &totals.CompletionTokens); err != nil {
		return domain.TokenUsage{}, fmt.Errorf("summing usage: %w", err)
	}
	return totals, nil
}
