package hier

import (
	"fmt"
	"sort"

	"spinet/internal/netlist"
)

// DefaultMaxDepth bounds hierarchy recursion when Options.MaxDepth is unset.
// Real designs rarely nest past a few dozen levels; anything deeper is
// almost certainly a cycle.
const DefaultMaxDepth = 100

// Options configures a Resolver.
type Options struct {
	// TopCell names the subckt whose body becomes the flattening root.
	// Empty selects the circuit's own top-level components, falling back
	// to auto-detection over the subckt reference graph.
	TopCell string
	// MaxDepth bounds instance nesting. Zero or negative selects
	// DefaultMaxDepth.
	MaxDepth int
}

// Resolver analyzes one circuit. The unresolved-reference set accumulates
// across operations for the resolver's lifetime.
type Resolver struct {
	circuit    *netlist.Circuit
	opts       Options
	unresolved map[string]struct{}
}

// New constructs a Resolver over circuit. A TopCell override that names no
// defined subckt fails here with ErrUnknownTopCell.
func New(circuit *netlist.Circuit, opts Options) (*Resolver, error) {
	if opts.TopCell != "" {
		if _, ok := circuit.Subckt(opts.TopCell); !ok {
			return nil, fmt.Errorf("top cell %q: %w", opts.TopCell, ErrUnknownTopCell)
		}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Resolver{
		circuit:    circuit,
		opts:       opts,
		unresolved: make(map[string]struct{}),
	}, nil
}

// Circuit returns the circuit the resolver was built over.
func (r *Resolver) Circuit() *netlist.Circuit {
	return r.circuit
}

// Flatten expands every structural instance into a brand-new circuit whose
// component names carry full instance paths and whose internal nets are
// uniquely scoped per instance. The source circuit is never mutated.
func (r *Resolver) Flatten() (*netlist.Circuit, error) {
	_, comps, err := r.roots()
	if err != nil {
		return nil, err
	}

	flat := netlist.NewCircuit(r.circuit.Name + "_flat")
	flat.Models = r.circuit.CloneModels()
	if err := r.flattenInto(flat, comps, "", 0); err != nil {
		return nil, err
	}
	return flat, nil
}

// Unresolved returns every subckt name that was referenced but never
// defined, sorted.
func (r *Resolver) Unresolved() []string {
	names := make([]string, 0, len(r.unresolved))
	for name := range r.unresolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// roots picks the flattening entry: the explicit top cell, else the
// circuit's own top-level components, else an auto-detected top cell, else
// nothing. It returns a display label alongside the component list.
func (r *Resolver) roots() (string, []*netlist.Component, error) {
	if r.opts.TopCell != "" {
		sub, ok := r.circuit.Subckt(r.opts.TopCell)
		if !ok {
			return "", nil, fmt.Errorf("top cell %q: %w", r.opts.TopCell, ErrUnknownTopCell)
		}
		return r.opts.TopCell, sub.Components, nil
	}
	if len(r.circuit.Components) > 0 {
		return r.circuit.Name, r.circuit.Components, nil
	}
	if name, ok := FindTopCell(r.circuit); ok {
		sub, _ := r.circuit.Subckt(name)
		return name, sub.Components, nil
	}
	return r.circuit.Name, nil, nil
}

func (r *Resolver) flattenInto(flat *netlist.Circuit, comps []*netlist.Component, path string, depth int) error {
	if depth > r.opts.MaxDepth {
		return &DepthError{Path: path, Limit: r.opts.MaxDepth}
	}

	for _, comp := range comps {
		if comp.Kind != netlist.KindSubckt {
			out := comp.Clone()
			out.Name = joinPath(path, comp.Name)
			appendFlat(flat, out)
			continue
		}

		sub, defined := r.circuit.Subckt(comp.SubcktRef)
		if !defined {
			r.unresolved[comp.SubcktRef] = struct{}{}
		}
		if !defined || sub.IsLeaf() {
			// Opaque leaf: keep the instance as-is, path-prefixed,
			// and never recurse. An empty definition is the
			// black-box idiom and gets the same treatment as a
			// missing one.
			out := comp.Clone()
			out.Name = joinPath(path, comp.Name)
			appendFlat(flat, out)
			continue
		}

		instPath := joinPath(path, comp.Name)
		ports := bindPorts(sub.Ports, comp.Nodes)
		body := sub.CloneBody()
		for _, child := range body {
			for i, node := range child.Nodes {
				child.Nodes[i] = resolveNode(node, ports, instPath)
			}
		}
		if err := r.flattenInto(flat, body, instPath, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// bindPorts zips the template's port list against the instance's bound
// nodes positionally. A length mismatch is tolerated: the shorter side
// wins and the excess is dropped.
func bindPorts(ports, nodes []string) map[string]string {
	n := min(len(ports), len(nodes))
	bound := make(map[string]string, n)
	for i := 0; i < n; i++ {
		bound[ports[i]] = nodes[i]
	}
	return bound
}

// resolveNode maps one node of a copied subckt body into the enclosing
// scope. Ports bind to actual nodes, ground stays global, and everything
// else is an internal net scoped under the instance path.
func resolveNode(node string, ports map[string]string, instPath string) string {
	if actual, ok := ports[node]; ok {
		return actual
	}
	if netlist.IsGround(node) {
		return netlist.GroundNode
	}
	return instPath + "." + node
}

// appendFlat normalizes ground spellings and appends. Components reach
// this point as private copies, so rewriting nodes in place is safe.
func appendFlat(flat *netlist.Circuit, comp *netlist.Component) {
	for i, node := range comp.Nodes {
		if netlist.IsGround(node) {
			comp.Nodes[i] = netlist.GroundNode
		}
	}
	flat.AddComponent(comp)
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
