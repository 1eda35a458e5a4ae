package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/cabinet"
)

// Ensure LoggingExtractor implements cabinet.Extractor.
var _ cabinet.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with a summary line per record.
type LoggingExtractor struct {
	next   cabinet.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next cabinet.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what it found.
func (e *LoggingExtractor) Extract(ctx context.Context, url string) (rec *cabinet.Record, err error) {
	defer func(begin time.Time) {
		if err != nil {
			e.logger.ErrorContext(ctx, "extract",
				"url", url,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		e.logger.InfoContext(ctx, "extract",
			"url", url,
			"title", rec.Title,
			"tags", len(rec.Tags),
			"fields", len(rec.Fields),
			"images", len(rec.Images),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Extract(ctx, url)
}
