package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"wcscli/internal/batch"
	"wcscli/internal/config"
	"wcscli/internal/exporter"
	"wcscli/internal/infrastructure"
)

func main() {
	inPath := flag.String("in", "", "input file (.csv/.xlsx) or directory of recordings")
	outDir := flag.String("out", "", "output directory for reports (defaults to config export.output_dir)")
	configPath := flag.String("config", "", "path to YAML configuration file")
	format := flag.String("format", "", "report format: csv, xlsx or json (defaults to config export.format)")
	series := flag.Bool("series", false, "also write a per-sample derived series CSV per recording")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: wcs-analyzer -in <file-or-dir> [-out dir] [-config file] [-format csv|xlsx|json] [-series]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	if *outDir == "" {
		*outDir = cfg.Export.OutputDir
	}
	if *format == "" {
		*format = cfg.Export.Format
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *inPath, *outDir, *format, *series); err != nil {
		logger.Error("Analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, inPath, outDir, format string, series bool) error {
	files, err := collectInputs(inPath)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Starting WCS analysis run",
		"input", inPath,
		"files", len(files),
		"output_dir", outDir,
		"format", format,
	)

	runner := batch.NewRunner(cfg.AnalysisParams(), cfg.Batch.Concurrency, logger)
	if series {
		runner = runner.WithDerivedSeries()
	}
	outcome, err := runner.Run(ctx, files)
	if err != nil {
		return err
	}
	if len(outcome.Entries) == 0 {
		return fmt.Errorf("no file could be analyzed (%d skipped)", len(outcome.Skipped))
	}
	for _, skip := range outcome.Skipped {
		logger.Warn("File skipped", "file", skip.File, "reason", skip.Err)
	}

	fileName, err := exporter.FileNameForFormat(format, cfg.Export.BaseName)
	if err != nil {
		return err
	}

	writer := exporter.NewReportWriter(outDir)
	switch format {
	case "xlsx":
		err = writer.WriteWorkbook(outcome.Entries, fileName)
	case "json":
		err = writer.WriteJSON(outcome.Entries, fileName)
	default:
		err = writer.WriteCSVReport(outcome.Entries, fileName)
	}
	if err != nil {
		return err
	}

	if series {
		for _, entry := range outcome.Entries {
			if err := writer.WriteSeriesCSV(entry, cfg.Analysis.SamplingRate); err != nil {
				return err
			}
			logger.InfoContext(ctx, "Derived series written",
				"file", entry.Metadata.SourceFile,
				"series", exporter.SeriesFileName(entry.Metadata.SourceFile),
			)
		}
	}

	logger.InfoContext(ctx, "WCS analysis run completed",
		"batch_id", outcome.BatchID,
		"analyzed", outcome.Summary.FilesAnalyzed,
		"skipped", outcome.Summary.FilesSkipped,
		"report", fileName,
	)
	return nil
}

// collectInputs expands a path into the list of recordings to analyze
func collectInputs(inPath string) ([]string, error) {
	info, err := os.Stat(inPath)
	if err != nil {
		return nil, fmt.Errorf("stat input path: %w", err)
	}
	if info.IsDir() {
		files, err := batch.DiscoverFiles(inPath)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .csv or .xlsx files found in %s", inPath)
		}
		return files, nil
	}
	return []string{inPath}, nil
}
