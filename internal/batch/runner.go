// Package batch runs the ingest-analyze pipeline over many recordings in
// parallel. Files are independent, so each gets its own task; a file that
// fails validation or parsing is reported and skipped without aborting the
// rest of the batch.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wcscli/internal/exporter"
	"wcscli/internal/ingest"
	"wcscli/internal/wcs"
)

// DefaultConcurrency bounds the number of files analyzed at once
const DefaultConcurrency = 4

// FileError records one skipped file and why
type FileError struct {
	File string `json:"file"`
	Err  string `json:"error"`
}

// Outcome is the result of one batch run: successful entries in input
// order plus the files that were skipped
type Outcome struct {
	BatchID string           `json:"batch_id"`
	Entries []exporter.Entry `json:"entries"`
	Skipped []FileError      `json:"skipped"`
	Summary Summary          `json:"summary"`
}

// Runner coordinates parallel per-file analysis
type Runner struct {
	params        wcs.Params
	concurrency   int
	logger        *slog.Logger
	captureSeries bool
}

// NewRunner creates a batch runner with the given analysis parameters
func NewRunner(params wcs.Params, concurrency int, logger *slog.Logger) *Runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{params: params, concurrency: concurrency, logger: logger}
}

// WithDerivedSeries makes the runner attach each recording's per-sample
// derived series to its entry, for the series export
func (r *Runner) WithDerivedSeries() *Runner {
	r.captureSeries = true
	return r
}

// Run analyzes every file, at most concurrency at a time. Per-file
// failures are collected, not propagated; only context cancellation stops
// the batch.
func (r *Runner) Run(ctx context.Context, files []string) (*Outcome, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	batchID := uuid.NewString()
	r.logger.InfoContext(ctx, "starting batch analysis",
		"batch_id", batchID,
		"files", len(files),
		"concurrency", r.concurrency,
	)

	entries := make([]*exporter.Entry, len(files))
	var mu sync.Mutex
	var skipped []FileError

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, file := range files {
		g.Go(func() error {
			entry, err := r.analyzeFile(gctx, file)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				r.logger.WarnContext(gctx, "skipping file",
					"batch_id", batchID,
					"file", file,
					"error", err,
				)
				mu.Lock()
				skipped = append(skipped, FileError{File: filepath.Base(file), Err: err.Error()})
				mu.Unlock()
				return nil
			}
			entries[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	outcome := &Outcome{BatchID: batchID}
	for _, entry := range entries {
		if entry != nil {
			outcome.Entries = append(outcome.Entries, *entry)
		}
	}
	outcome.Skipped = skipped
	outcome.Summary = Summarize(outcome.Entries, len(skipped))

	r.logger.InfoContext(ctx, "batch analysis completed",
		"batch_id", batchID,
		"analyzed", len(outcome.Entries),
		"skipped", len(skipped),
	)

	return outcome, nil
}

// analyzeFile runs the ingest-analyze pipeline for a single file
func (r *Runner) analyzeFile(ctx context.Context, file string) (*exporter.Entry, error) {
	rec, err := ingest.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	analyzer := wcs.NewAnalyzer(r.params, r.logger)
	result, err := analyzer.Analyze(ctx, rec.Velocity)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	entry := &exporter.Entry{
		AnalysisID: uuid.NewString(),
		Metadata:   rec.Metadata,
		Result:     result,
	}
	if r.captureSeries {
		series, err := wcs.ComputeDerivedSeries(rec.Velocity, r.params.SamplingRate)
		if err != nil {
			return nil, fmt.Errorf("derive series: %w", err)
		}
		entry.Series = series
	}
	return entry, nil
}

// DiscoverFiles lists the analyzable files in a directory, sorted by name.
// Recognized extensions are .csv and .xlsx.
func DiscoverFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(info.Name())) {
		case ".csv", ".xlsx":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan input directory: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
