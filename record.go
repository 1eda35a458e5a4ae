package cabinet

import (
	"context"
	"time"
)

// Record is the structured result of extracting one item page.
// It has no identity beyond its source URL.
type Record struct {
	SourceURL string `json:"sourceUrl"`

	// Title is empty when neither a heading nor a document title was found.
	Title string `json:"title,omitempty"`

	// Tags are lowercased and deduplicated in first-seen order.
	Tags []string `json:"tags"`

	// BodyHTML is the sanitized body markup. BodyText is its plain-text
	// projection, or a plain-text rendering of the raw body when there is
	// no markup to project.
	BodyHTML string `json:"bodyHtml,omitempty"`
	BodyText string `json:"bodyText,omitempty"`

	Fields []Field `json:"fields"`

	// Images hold unique canonical URLs in the order they were found.
	Images []Image `json:"images"`

	ContentHash string    `json:"contentHash,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.SourceURL == "" {
		return Errorf(EINVALID, "record source URL required")
	}
	return nil
}

// Field is a labeled group of values on an item page, e.g. "Medium: Oil on canvas".
// Name and Label are nil when the page does not provide them; the stored
// record contract represents those as null.
type Field struct {
	Name   *string  `json:"name"`
	Label  *string  `json:"label"`
	Values []string `json:"values"`
}

// Image is a content image with its canonical URL.
type Image struct {
	URL     string  `json:"url"`
	Caption *string `json:"caption"`
}

// String returns a pointer to s, or nil when s is empty.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RecordService represents a catalog of extracted records keyed by source URL.
type RecordService interface {
	// SaveRecord inserts the record or replaces the one with the same source URL.
	// It reports whether the stored content changed.
	SaveRecord(ctx context.Context, rec *Record) (changed bool, err error)

	// FindRecordByURL retrieves a record by its source URL.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByURL(ctx context.Context, url string) (*Record, error)

	// FindRecords retrieves records matching the filter.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// DeleteRecord removes the record with the given source URL.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, url string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	SourceURL *string `json:"sourceUrl"`
	Tag       *string `json:"tag"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordFileStore reads and writes stored records, the JSON documents that
// extraction results are merged into.
type RecordFileStore interface {
	// List returns the paths of all stored records in a stable order.
	List(ctx context.Context) ([]string, error)

	// Read returns the raw JSON document at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write replaces the document at path. It reports whether the content
	// on disk changed.
	Write(ctx context.Context, path string, data []byte) (changed bool, err error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// RecordMerger applies extracted records to stored record documents.
type RecordMerger interface {
	// SourceURL returns the source URL named by a stored document, or an
	// empty string when it names none. Returns EINVALID for malformed documents.
	SourceURL(stored []byte) (string, error)

	// Merge applies rec to the stored document and returns the new document.
	// It reports false, leaving the document untouched, when the stored
	// document has no source URL.
	Merge(stored []byte, rec *Record) (merged []byte, ok bool, err error)
}
