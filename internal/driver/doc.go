// Package driver orchestrates parsing above the spice core: loading decks
// from disk or memory, resolving .INCLUDE/.LIB targets recursively, caching
// parsed circuits on disk, and fanning out over many files in parallel.
//
// The statement parser itself never touches the filesystem; everything
// path-shaped lives here.
package driver
