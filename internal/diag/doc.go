// Package diag defines the diagnostic model shared by every netlist phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by
//     the line joiner, the statement parser, and the hierarchy resolver.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and include the offending
//     netlist line where it helps.
//   - Primary span – the canonical source.Span pointing at the issue, covering
//     every physical line of a continued statement.
//   - Notes – optional secondary spans/messages (e.g. "subckt opened here").
//
// Parsing is best-effort: a malformed card becomes a diagnostic, never an
// error, and the parse continues with the next logical line. Producers use a
// diag.Reporter so emission stays decoupled from storage; diag.BagReporter
// aggregates into a Bag, which supports sorting, deduplication and merging
// across included files.
//
// Rendering lives in internal/report; orchestration in internal/driver.
package diag
