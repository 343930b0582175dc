// Package fuzztests houses Go fuzz harnesses for the netlist front end
// (source -> line joiner -> tokenizer -> statement parser). Their job is to
// smoke-test robustness: no panics, no hangs, no invariant breaks on
// arbitrary input.
package fuzztests
