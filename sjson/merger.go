// Package sjson merges extracted records into stored record documents
// using the tidwall JSON path libraries, so unknown keys and key order of
// the stored document survive the update.
package sjson

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/cabinet"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Stored record keys.
const (
	KeySourceURL   = "cabinetUrl"
	KeyTitle       = "title"
	KeyTags        = "tags"
	KeyDescription = "description"
	KeyCommentary  = "commentary"
	KeyImages      = "images"
	KeyScraped     = "scrapedFromCabinet"
	KeyImageSource = "imageSource"
	KeyMockData    = "isMockData"
	KeyFields      = "cabinetFields"
)

// ImageSourceCabinet marks images that came from the collection site.
const ImageSourceCabinet = "cabinet"

// Ensure Merger implements cabinet.RecordMerger at compile time.
var _ cabinet.RecordMerger = (*Merger)(nil)

// Merger implements cabinet.RecordMerger.
type Merger struct{}

// NewMerger creates a new Merger.
func NewMerger() *Merger {
	return &Merger{}
}

// SourceURL returns the source URL of the stored document.
func (m *Merger) SourceURL(stored []byte) (string, error) {
	if err := validate(stored); err != nil {
		return "", err
	}
	return gjson.GetBytes(stored, KeySourceURL).String(), nil
}

// Merge applies rec to the stored document.
//
// Title, tags and description are only replaced when the record has them.
// Images are always replaced, so an extraction that found none clears
// stale ones. The returned document is indented with two spaces and ends
// with a newline.
func (m *Merger) Merge(stored []byte, rec *cabinet.Record) ([]byte, bool, error) {
	url, err := m.SourceURL(stored)
	if err != nil {
		return nil, false, err
	}
	if url == "" {
		return stored, false, nil
	}

	w := &writer{doc: stored}
	if rec.Title != "" {
		w.set(KeyTitle, rec.Title)
	}
	if len(rec.Tags) > 0 {
		w.set(KeyTags, rec.Tags)
	}
	if desc := description(rec); desc != "" {
		w.set(KeyDescription, desc)
		if gjson.GetBytes(stored, KeyCommentary).Exists() {
			w.set(KeyCommentary, desc)
		}
	}
	w.set(KeyImages, nonNil(rec.Images))
	w.set(KeyScraped, true)
	w.set(KeyImageSource, ImageSourceCabinet)
	if gjson.GetBytes(stored, KeyMockData).Exists() {
		w.set(KeyMockData, false)
	}
	w.set(KeyFields, nonNil(rec.Fields))
	if w.err != nil {
		return nil, false, fmt.Errorf("merge %s: %w", url, w.err)
	}

	return Format(w.doc), true, nil
}

// Format indents doc with two spaces, never joining arrays onto one line,
// and terminates it with a single newline.
func Format(doc []byte) []byte {
	out := pretty.PrettyOptions(doc, &pretty.Options{
		Width:  -1,
		Indent: "  ",
	})
	out = bytes.TrimRight(out, "\n")
	return append(out, '\n')
}

// description prefers sanitized markup over plain text.
func description(rec *cabinet.Record) string {
	if rec.BodyHTML != "" {
		return rec.BodyHTML
	}
	return rec.BodyText
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func validate(stored []byte) error {
	if !gjson.ValidBytes(stored) || !gjson.ParseBytes(stored).IsObject() {
		return cabinet.Errorf(cabinet.EINVALID, "stored record is not a JSON object")
	}
	return nil
}

// writer applies a sequence of sets, stopping at the first error.
type writer struct {
	doc []byte
	err error
}

func (w *writer) set(key string, v any) {
	if w.err != nil {
		return
	}
	raw, err := marshal(v)
	if err != nil {
		w.err = err
		return
	}
	w.doc, w.err = sjson.SetRawBytes(w.doc, key, raw)
}

// marshal encodes v without escaping HTML characters, since descriptions
// hold markup.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
