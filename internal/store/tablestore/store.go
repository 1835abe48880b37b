// Package tablestore implements the record store on a local CSV table.
//
// The whole table is read on every operation and rewritten through a
// temp-file-plus-rename on every mutation, so a crash mid-write never
// leaves a truncated file. A missing table file is an empty store.
package tablestore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"stockroom/internal/catalog"
	"stockroom/internal/catalog/rowmap"
	"stockroom/internal/fileutil"
	"stockroom/internal/logging"
	"stockroom/internal/slugs"
	"stockroom/internal/store"
)

// Store is the CSV-backed record store.
type Store struct {
	path   string
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// New creates a table store over the CSV file at path.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "tablestore"),
	}
}

// List returns every record with its revision token, keyed by record id
// (slug when the row carries no id).
func (s *Store) List(ctx context.Context) ([]catalog.Record, map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	rows, err := s.readTable()
	if err != nil {
		return nil, nil, err
	}

	records := make([]catalog.Record, 0, len(rows))
	revisions := make(map[string]string, len(rows))
	for _, row := range rows {
		rec := rowmap.FromRow(row)
		records = append(records, rec)
		key := rec.ID
		if key == "" {
			key = slugs.Slugify(rec.Slug)
		}
		revisions[key] = Revision(row)
	}
	return records, revisions, nil
}

// Get returns the record whose normalized slug matches, or nil when absent.
func (s *Store) Get(ctx context.Context, slug string) (*catalog.Record, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	rows, err := s.readTable()
	if err != nil {
		return nil, "", err
	}

	wanted := slugs.Slugify(slug)
	for _, row := range rows {
		if slugs.Slugify(row["slug"]) != wanted {
			continue
		}
		rec := rowmap.FromRow(row)
		return &rec, Revision(row), nil
	}
	return nil, "", nil
}

// Upsert creates or updates one record and rewrites the table atomically.
func (s *Store) Upsert(ctx context.Context, rec catalog.Record, expectedRevision string) (catalog.Record, string, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Record{}, "", err
	}
	normalized, err := catalog.NewRecord(rec)
	if err != nil {
		return catalog.Record{}, "", err
	}

	rows, err := s.readTable()
	if err != nil {
		return catalog.Record{}, "", err
	}

	entries := make([]store.Entry, len(rows))
	for i, row := range rows {
		entries[i] = store.Entry{Index: i, ID: row["id"], Slug: slugs.Slugify(row["slug"])}
	}

	target, err := store.ResolveUpsert(entries, normalized.ID, normalized.Slug)
	if err != nil {
		return catalog.Record{}, "", err
	}

	var existing rowmap.Row
	current := ""
	if !target.IsNew {
		existing = rows[target.Index]
		current = Revision(existing)
		if normalized.ID == "" {
			normalized.ID = existing["id"]
		}
	}
	if err := store.CheckRevision(expectedRevision, current); err != nil {
		return catalog.Record{}, "", err
	}
	if normalized.ID == "" {
		normalized.ID = uuid.NewString()
	}

	row, err := rowmap.ToRow(normalized, existing)
	if err != nil {
		return catalog.Record{}, "", err
	}

	if target.IsNew {
		rows = append(rows, row)
	} else {
		rows[target.Index] = row
	}
	if err := s.writeTable(rows); err != nil {
		return catalog.Record{}, "", err
	}

	revision := Revision(row)
	s.logger.Debug("record written",
		logging.String("slug", normalized.Slug),
		logging.Bool("created", target.IsNew),
		logging.Int("rows", len(rows)))
	return rowmap.FromRow(row), revision, nil
}

// Delete removes every row matching the normalized slug. When nothing
// matched the table file is left byte-identical and false is returned.
func (s *Store) Delete(ctx context.Context, slug string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	rows, err := s.readTable()
	if err != nil {
		return false, err
	}

	wanted := slugs.Slugify(slug)
	kept := rows[:0]
	for _, row := range rows {
		if slugs.Slugify(row["slug"]) == wanted {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) == len(rows) {
		return false, nil
	}

	if err := s.writeTable(kept); err != nil {
		return false, err
	}
	s.logger.Debug("record deleted",
		logging.String("slug", wanted),
		logging.Int("rows", len(kept)))
	return true, nil
}

func (s *Store) readTable() ([]rowmap.Row, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read table header: %w", err)
	}

	var rows []rowmap.Row
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read table row: %w", err)
		}
		row := rowmap.Row{}
		for i, cell := range cells {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) writeTable(rows []rowmap.Row) error {
	header := rowmap.HeaderFor(rows)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	cells := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			cells[i] = row[col]
		}
		if err := writer.Write(cells); err != nil {
			return fmt.Errorf("write table row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}

	return fileutil.WriteAtomic(s.path, buf.Bytes(), 0o644)
}
