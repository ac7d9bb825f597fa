// Package exporter writes WCS analysis results to CSV, XLSX and JSON files.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers and a
// UTF-8 BOM for Excel compatibility.
//
// ReportWriter: Flattens analysis results into the fixed-order report rows
// (TH0 distance/time/start/end, then TH1, then the epoch duration) and
// writes the CSV report, the two-sheet XLSX workbook and the JSON bundle.
//
// The report column order mirrors what the downstream visualization
// tooling reads positionally; changing it is a breaking change.
package exporter
