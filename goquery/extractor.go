// Package goquery implements cabinet.Extractor for item pages of the
// collection CMS using goquery.
package goquery

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cabinet"
)

// CMS page markup.
const (
	tagSelector       = ".field-name-field-source-tags .field-item"
	bodySelector      = ".field-name-body"
	bodyItemSelector  = ".field-name-body .field-item"
	titleSiteSuffix   = "| cabinet"
	headingSelector   = "h1"
	paragraphSelector = "p"
)

// Ensure Extractor implements cabinet.Extractor at compile time.
var _ cabinet.Extractor = (*Extractor)(nil)

// Extractor builds records from item pages.
// It is safe for concurrent use if its Fetcher is; every call owns its
// own deduplication set.
type Extractor struct {
	fetcher    cabinet.Fetcher
	newURLSet  func() cabinet.URLSet
	maxRelated int
	now        func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxRelated sets how many related pages the image fallback visits.
// Defaults to DefaultMaxRelated. Negative values disable the fallback.
func WithMaxRelated(n int) Option {
	return func(e *Extractor) {
		e.maxRelated = max(n, 0)
	}
}

// WithURLSet sets the constructor of the per-extraction image URL set.
// Defaults to cabinet.NewURLSet.
func WithURLSet(fn func() cabinet.URLSet) Option {
	return func(e *Extractor) {
		e.newURLSet = fn
	}
}

// WithClock sets the time source used for Record.FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// NewExtractor creates an Extractor that retrieves pages with fetcher.
func NewExtractor(fetcher cabinet.Fetcher, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher:    fetcher,
		newURLSet:  cabinet.NewURLSet,
		maxRelated: DefaultMaxRelated,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches the page at url and assembles its record.
func (e *Extractor) Extract(ctx context.Context, url string) (*cabinet.Record, error) {
	if url == "" {
		return nil, cabinet.Errorf(cabinet.EINVALID, "URL required")
	}
	origin, err := cabinet.Origin(url)
	if err != nil {
		return nil, err
	}

	raw, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, cabinet.Errorf(cabinet.EINVALID, "failed to parse HTML: %v", err)
	}

	rec := &cabinet.Record{
		SourceURL: url,
		Title:     Title(doc),
		Tags:      Tags(doc),
		Fields:    ExtractFields(doc),
		FetchedAt: e.now().UTC(),
	}

	body := bodyContainer(doc)
	rec.BodyHTML = Sanitize(body, origin)
	if rec.BodyHTML != "" {
		rec.BodyText = PlainText(rec.BodyHTML)
	} else {
		rec.BodyText = rawBodyText(doc.Find(bodySelector).First())
	}

	seen := e.newURLSet()
	rec.Images = CollectImages(doc, origin, seen)
	rec.Images = append(rec.Images, ResolveMediaNodes(ctx, e.fetcher, raw, origin, seen)...)
	if len(rec.Images) == 0 {
		rec.Images = e.relatedImages(ctx, RelatedLinks(doc, origin), seen)
	}

	return rec, nil
}

// Title returns the first heading, or the document title without the
// site suffix.
func Title(doc *goquery.Document) string {
	if h := normalizeSpace(doc.Find(headingSelector).First().Text()); h != "" {
		return h
	}
	title := normalizeSpace(doc.Find("title").First().Text())
	return strings.TrimSpace(strings.ReplaceAll(title, titleSiteSuffix, ""))
}

// Tags returns the item's tags lowercased and deduplicated in first-seen order.
func Tags(doc *goquery.Document) []string {
	tags := []string{}
	seen := make(map[string]bool)
	doc.Find(tagSelector).Each(func(_ int, item *goquery.Selection) {
		tag := strings.ToLower(normalizeSpace(item.Text()))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	})
	return tags
}

func bodyContainer(doc *goquery.Document) *goquery.Selection {
	if item := doc.Find(bodyItemSelector).First(); item.Length() > 0 {
		return item
	}
	return doc.Find(bodySelector).First()
}

// rawBodyText renders the unsanitized body field as paragraphs separated
// by blank lines, or as a single run of text when it has no paragraphs.
func rawBodyText(body *goquery.Selection) string {
	if body.Length() == 0 {
		return ""
	}
	var paragraphs []string
	body.Find(paragraphSelector).Each(func(_ int, p *goquery.Selection) {
		if text := visibleText(p); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n\n")
	}
	return visibleText(body)
}
