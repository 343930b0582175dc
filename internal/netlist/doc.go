// Package netlist holds the circuit data model produced by the SPICE/CDL
// statement parser and consumed by the hierarchy resolver: Circuit, Subckt,
// Component (a closed variant set tagged by Kind) and Model.
//
// The model is built once per parse and treated as immutable afterwards.
// Analysis passes never modify it; they deep-copy what they need via Clone
// and CloneBody.
package netlist
