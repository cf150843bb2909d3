package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/chapterforge/chapterforge-server/internal/errors"
	"github.com/chapterforge/chapterforge-server/internal/segments"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed catalog access.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a new SQLite catalog store at the given path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// itemColumns is the ordered list of columns selected in item queries.
// Must match the scan order in scanItem.
const itemColumns = `id, path, runtime_ticks, has_chapters`

// scanItem scans a sql.Row (or sql.Rows via its Scan method) into an Item.
func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		item        Item
		hasChapters int
	)

	err := scanner.Scan(
		&item.ID,
		&item.Path,
		&item.RuntimeTicks,
		&hasChapters,
	)
	if err != nil {
		return nil, err
	}

	item.HasChapters = hasChapters != 0
	return &item, nil
}

// Resolve implements Resolver.
func (s *Store) Resolve(ctx context.Context, itemID string) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, itemID)

	item, err := scanItem(row)
	if apperrors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("item %s not in catalog", itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve item %s: %w", itemID, err)
	}
	return item, nil
}

// UpsertItem inserts or replaces a catalog item.
func (s *Store) UpsertItem(ctx context.Context, item Item) error {
	hasChapters := 0
	if item.HasChapters {
		hasChapters = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, path, runtime_ticks, has_chapters)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			runtime_ticks = excluded.runtime_ticks,
			has_chapters = excluded.has_chapters`,
		item.ID, item.Path, item.RuntimeTicks, hasChapters)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", item.ID, err)
	}
	return nil
}

// AddSegment appends a segment for an item.
func (s *Store) AddSegment(ctx context.Context, seg segments.Segment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO segments (item_id, start_ticks, end_ticks, type)
		VALUES (?, ?, ?, ?)`,
		seg.ItemID, seg.StartTicks, seg.EndTicks, seg.Type.String())
	if err != nil {
		return fmt.Errorf("add segment for %s: %w", seg.ItemID, err)
	}
	return nil
}

// ListSegments implements SegmentSource. Rows come back in insertion order
// so arrival-order tie-breaking is preserved downstream.
func (s *Store) ListSegments(ctx context.Context) ([]segments.Segment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, start_ticks, end_ticks, type FROM segments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	return collectSegments(rows)
}

// ListSegmentsForItem implements SegmentSource.
func (s *Store) ListSegmentsForItem(ctx context.Context, itemID string) ([]segments.Segment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, start_ticks, end_ticks, type FROM segments WHERE item_id = ? ORDER BY id`,
		itemID)
	if err != nil {
		return nil, fmt.Errorf("list segments for %s: %w", itemID, err)
	}
	defer rows.Close()

	return collectSegments(rows)
}

func collectSegments(rows *sql.Rows) ([]segments.Segment, error) {
	var out []segments.Segment
	for rows.Next() {
		var (
			seg     segments.Segment
			typeStr string
		)
		if err := rows.Scan(&seg.ItemID, &seg.StartTicks, &seg.EndTicks, &typeStr); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		seg.Type = segments.ParseType(typeStr)
		out = append(out, seg)
	}
	return out, rows.Err()
}
