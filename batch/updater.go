// Package batch updates stored records from the collection site.
//
// Records are processed one at a time in the order the file store lists
// them. A record that fails is reported and the run moves on.
package batch

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"

	"github.com/fwojciec/cabinet"
	"github.com/google/uuid"
)

// Updater refreshes every stored record that names a source URL.
type Updater struct {
	Files     cabinet.RecordFileStore
	Extractor cabinet.Extractor
	Merger    cabinet.RecordMerger

	// Records, when set, receives every successfully extracted record.
	Records cabinet.RecordService

	// RateLimiter, when set, is waited on before each extraction.
	RateLimiter cabinet.DomainLimiter

	// DryRun computes merges without writing them back.
	DryRun bool

	Logger *slog.Logger

	// NewRunID overrides run ID generation. Defaults to uuid.NewString.
	NewRunID func() string
}

// Result holds the outcome of an update run.
type Result struct {
	RunID string
	Total int

	// Updated counts records that were merged, including those whose
	// content did not change.
	Updated int

	// Unchanged counts merged records whose stored bytes were already
	// identical to the merge result.
	Unchanged int

	// Skipped counts records without a source URL.
	Skipped int

	Failed   int
	Failures []Failure
}

// Failure records why a single stored record could not be updated.
type Failure struct {
	Path string
	URL  string
	Err  error
}

// ProgressEvent reports progress during an update run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting update progress.
type ProgressFunc func(event ProgressEvent)

type extraction struct {
	rec *cabinet.Record
	err error
}

// run holds the state of a single Run call.
type run struct {
	*Updater
	logger    *slog.Logger
	progress  ProgressFunc
	result    *Result
	extracted map[string]extraction
}

// Run updates every record the file store lists. Failures of individual
// records are collected in the result; only a failure to list records or
// a canceled context ends the run early.
func (u *Updater) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	newID := u.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}
	logger := u.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	runID := newID()
	r := &run{
		Updater:   u,
		logger:    logger.With("run_id", runID),
		progress:  progress,
		result:    &Result{RunID: runID},
		extracted: make(map[string]extraction),
	}

	paths, err := u.Files.List(ctx)
	if err != nil {
		return nil, err
	}
	r.result.Total = len(paths)
	r.logger.Info("update started", "records", len(paths), "dry_run", u.DryRun)
	r.notify(ProgressEvent{Type: ProgressStarted})

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		event := r.update(ctx, path)
		event.Completed = i + 1
		r.notify(event)
	}

	r.logger.Info("update finished",
		"updated", r.result.Updated,
		"unchanged", r.result.Unchanged,
		"skipped", r.result.Skipped,
		"failed", r.result.Failed,
	)
	r.notify(ProgressEvent{Type: ProgressFinished, Completed: len(paths)})

	return r.result, nil
}

// update processes a single stored record and returns the progress event
// describing the outcome.
func (r *run) update(ctx context.Context, path string) ProgressEvent {
	stored, err := r.Files.Read(ctx, path)
	if err != nil {
		return r.fail(path, "", err)
	}

	sourceURL, err := r.Merger.SourceURL(stored)
	if err != nil {
		return r.fail(path, "", err)
	}
	if sourceURL == "" {
		r.result.Skipped++
		r.logger.Debug("record skipped", "path", path)
		return ProgressEvent{Type: ProgressSkipped, Path: path}
	}

	rec, err := r.extract(ctx, sourceURL)
	if err != nil {
		return r.fail(path, sourceURL, err)
	}

	merged, ok, err := r.Merger.Merge(stored, rec)
	if err != nil {
		return r.fail(path, sourceURL, err)
	}
	if !ok {
		r.result.Skipped++
		return ProgressEvent{Type: ProgressSkipped, Path: path, URL: sourceURL}
	}

	changed := !bytes.Equal(merged, stored)
	if !r.DryRun {
		changed, err = r.Files.Write(ctx, path, merged)
		if err != nil {
			return r.fail(path, sourceURL, err)
		}
	}

	r.result.Updated++
	if !changed {
		r.result.Unchanged++
	}
	r.logger.Debug("record updated", "path", path, "url", sourceURL, "changed", changed)
	return ProgressEvent{Type: ProgressCompleted, Path: path, URL: sourceURL}
}

// extract returns the record for sourceURL, extracting it at most once per
// run. Failed extractions are remembered too.
func (r *run) extract(ctx context.Context, sourceURL string) (*cabinet.Record, error) {
	if e, ok := r.extracted[sourceURL]; ok {
		return e.rec, e.err
	}

	if r.RateLimiter != nil {
		if err := r.RateLimiter.Wait(ctx, domain(sourceURL)); err != nil {
			return nil, err
		}
	}

	rec, err := r.Extractor.Extract(ctx, sourceURL)
	r.extracted[sourceURL] = extraction{rec: rec, err: err}
	if err != nil {
		return nil, err
	}

	if r.Records != nil && !r.DryRun {
		if _, err := r.Records.SaveRecord(ctx, rec); err != nil {
			r.logger.Warn("catalog save failed", "url", sourceURL, "err", err)
		}
	}
	return rec, nil
}

func (r *run) fail(path, sourceURL string, err error) ProgressEvent {
	r.result.Failed++
	r.result.Failures = append(r.result.Failures, Failure{Path: path, URL: sourceURL, Err: err})
	r.logger.Warn("record failed", "path", path, "url", sourceURL, "err", err)
	return ProgressEvent{Type: ProgressFailed, Path: path, URL: sourceURL, Error: err}
}

func (r *run) notify(event ProgressEvent) {
	if r.progress == nil {
		return
	}
	event.Total = r.result.Total
	r.progress(event)
}

func domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
