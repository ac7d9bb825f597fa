// Package ingest reads vendor GPS export files into the velocity series
// consumed by the analysis engine.
//
// Supported layouts are StatSports CSV exports, Catapult OpenField exports
// with #-prefixed metadata headers, generic Timestamp/Velocity CSV files,
// and XLSX workbooks carrying any of those column layouts. Format
// detection inspects the leading lines of the file; unknown layouts are
// rejected with a parsing error rather than guessed at.
//
// The package normalizes everything to a Recording: a NaN-free velocity
// series in m/s plus athlete metadata, which is the engine's upstream
// contract. Unit conversion beyond column selection is not attempted.
package ingest
