package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/cabinet"
)

// Compile-time interface verification.
var _ cabinet.RecordService = (*RecordService)(nil)

// RecordService implements cabinet.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

const recordColumns = "source_url, title, tags, body_html, body_text, fields, images, content_hash, fetched_at"

// SaveRecord inserts or replaces the record with the same source URL.
// It sets rec.ContentHash and reports whether the stored content changed.
// An unchanged record only has its fetch time refreshed.
func (s *RecordService) SaveRecord(ctx context.Context, rec *cabinet.Record) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}
	if rec.FetchedAt.IsZero() {
		rec.FetchedAt = time.Now().UTC()
	}

	tags, err := marshalJSON(nonNil(rec.Tags))
	if err != nil {
		return false, err
	}
	fields, err := marshalJSON(nonNil(rec.Fields))
	if err != nil {
		return false, err
	}
	images, err := marshalJSON(nonNil(rec.Images))
	if err != nil {
		return false, err
	}
	rec.ContentHash = hashContent(rec.Title, tags, rec.BodyHTML, rec.BodyText, fields, images)

	var previous string
	err = s.db.QueryRowContext(ctx, "SELECT content_hash FROM records WHERE source_url = ?", rec.SourceURL).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			title = excluded.title,
			tags = excluded.tags,
			body_html = excluded.body_html,
			body_text = excluded.body_text,
			fields = excluded.fields,
			images = excluded.images,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, rec.SourceURL, rec.Title, tags, rec.BodyHTML, rec.BodyText, fields, images,
		rec.ContentHash, rec.FetchedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, err
	}

	return previous != rec.ContentHash, nil
}

// FindRecordByURL retrieves a record by its source URL.
func (s *RecordService) FindRecordByURL(ctx context.Context, url string) (*cabinet.Record, error) {
	recs, err := s.FindRecords(ctx, cabinet.RecordFilter{SourceURL: &url, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, cabinet.Errorf(cabinet.ENOTFOUND, "record not found: %s", url)
	}
	return recs[0], nil
}

// FindRecords retrieves records matching the filter, ordered by source URL.
func (s *RecordService) FindRecords(ctx context.Context, filter cabinet.RecordFilter) ([]*cabinet.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM records WHERE 1=1")

	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.Tag != nil {
		query.WriteString(" AND EXISTS (SELECT 1 FROM json_each(records.tags) WHERE json_each.value = ?)")
		args = append(args, strings.ToLower(*filter.Tag))
	}

	query.WriteString(" ORDER BY source_url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []*cabinet.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// DeleteRecord permanently removes a record.
func (s *RecordService) DeleteRecord(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE source_url = ?", url)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return cabinet.Errorf(cabinet.ENOTFOUND, "record not found: %s", url)
	}

	return nil
}

func scanRecord(rows *sql.Rows) (*cabinet.Record, error) {
	var (
		rec                  cabinet.Record
		tags, fields, images string
		fetchedAt            string
	)
	if err := rows.Scan(&rec.SourceURL, &rec.Title, &tags, &rec.BodyHTML, &rec.BodyText,
		&fields, &images, &rec.ContentHash, &fetchedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(fields), &rec.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields: %w", err)
	}
	if err := json.Unmarshal([]byte(images), &rec.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}

	var err error
	rec.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
