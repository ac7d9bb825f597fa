// Package wcs implements the Worst Case Scenario analysis engine for
// athlete GPS velocity recordings.
//
// The engine locates, for each configured epoch duration, the time window
// that accumulates the greatest in-band distance. Two window modes are
// evaluated side by side: a rolling (centered) window that shrinks at the
// series boundaries, and a contiguous fixed-length window slid across every
// valid start offset. Each mode is evaluated against two velocity threshold
// bands, the effectively unrestricted default band (TH0) and a
// caller-supplied band (TH1).
//
// An optional whole-series preprocessing pass zeroes samples failing a
// velocity or acceleration-magnitude predicate before any windowing work.
//
// All entry points are pure functions over immutable inputs: identical
// inputs always produce identical outputs, no I/O occurs inside the engine,
// and nothing is retained across calls. Window maximization runs in O(N)
// per (epoch, mode, band) using prefix sums over the in-band series.
package wcs
