// Package spice is the dialect front end: it turns SPICE/CDL/HSPICE text
// into a netlist.Circuit.
//
// Three stages, in dependency order:
//
//   - LineScanner merges continuation lines into logical lines, dropping
//     `*` comment lines and `$` inline comments, and tracks the physical
//     line numbers and spans a statement came from.
//   - Fields splits one logical line into tokens, keeping single-quoted
//     HSPICE expressions (which may contain spaces) intact.
//   - Parser dispatches each logical line: dot directives manage scope and
//     tables (.SUBCKT/.ENDS/.MODEL/.PARAM/.INCLUDE/.LIB), everything else
//     is a device card keyed by its first letter {R,C,L,M,Q,D,V,I,X}.
//
// Parsing is best-effort. A line that cannot be classified produces one
// diagnostic through the configured diag.Reporter and is skipped; the rest
// of the file still parses. The parser never opens files: .INCLUDE/.LIB
// operands are recorded verbatim and resolved by internal/driver.
package spice
