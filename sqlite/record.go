package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pkobus/gleaner"
)

// Compile-time interface verification.
var _ gleaner.RecordWriter = (*RecordService)(nil)

// RecordService implements gleaner.RecordWriter using SQLite. Each record
// row additionally carries a generated ID and an xxHash of the content; the
// hash is informational and never used to deduplicate.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	b := binary.BigEndian.AppendUint64(nil, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// Append inserts the record. Rows are never updated or deleted afterwards.
func (s *RecordService) Append(ctx context.Context, record *gleaner.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	var siteName sql.NullString
	if record.SiteName != nil {
		siteName = sql.NullString{String: *record.SiteName, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, url, title, content, site_name, content_hash, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), record.URL, record.Title, record.Content, siteName,
		hashContent(record.Content), record.ScrapedAt.UTC().Format(time.RFC3339))

	return err
}

// Close closes the underlying database.
func (s *RecordService) Close() error {
	return s.db.Close()
}

// CountRecords returns the number of persisted records.
func (s *RecordService) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// FindRecordByURL returns the most recently scraped record for a URL.
// Returns ENOTFOUND if no record exists.
func (s *RecordService) FindRecordByURL(ctx context.Context, url string) (*gleaner.Record, error) {
	var rec gleaner.Record
	var siteName sql.NullString
	var scrapedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT url, title, content, site_name, scraped_at
		FROM records
		WHERE url = ?
		ORDER BY scraped_at DESC
		LIMIT 1
	`, url).Scan(&rec.URL, &rec.Title, &rec.Content, &siteName, &scrapedAt)

	if err == sql.ErrNoRows {
		return nil, gleaner.Errorf(gleaner.ENOTFOUND, "record not found for %q", url)
	}
	if err != nil {
		return nil, err
	}

	if siteName.Valid {
		rec.SiteName = &siteName.String
	}
	rec.ScrapedAt, err = time.Parse(time.RFC3339, scrapedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scraped_at: %w", err)
	}

	return &rec, nil
}
