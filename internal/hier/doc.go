// Package hier resolves netlist hierarchy: it flattens nested subckt
// instances into a single scoped component list, detects design roots,
// classifies leaf instances that stand in for primitives, and indexes
// model usage.
//
// A Resolver never mutates the circuit it was built over. Flattening
// renames nodes and component names on deep copies, so several resolvers
// may analyze the same circuit concurrently as long as each caller owns
// its resolver.
package hier
