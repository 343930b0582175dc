package hier

import (
	"strings"

	"spinet/internal/netlist"
)

// Classify resolves a component to its effective device kind. Primitive
// devices keep their own kind. A subckt instance whose definition has a
// body stays a structural instance. Leaf and unresolved instances go
// through name heuristics common in CDL-extracted netlists, where a
// black-box subckt name encodes the device family.
func (r *Resolver) Classify(comp *netlist.Component) netlist.Kind {
	if comp.Kind != netlist.KindSubckt {
		return comp.Kind
	}
	if sub, ok := r.circuit.Subckt(comp.SubcktRef); ok && !sub.IsLeaf() {
		return netlist.KindSubckt
	}

	ref := strings.ToLower(comp.SubcktRef)
	switch {
	case (strings.Contains(ref, "fet") || strings.Contains(ref, "mos")) && hasChannelGeometry(comp.Params):
		return netlist.KindMosfet
	case strings.Contains(ref, "bjt") || strings.Contains(ref, "npn") || strings.Contains(ref, "pnp"):
		return netlist.KindBjt
	case strings.Contains(ref, "diode"):
		return netlist.KindDiode
	default:
		return netlist.KindSubckt
	}
}

// hasChannelGeometry reports whether the parameter keys carry both W and L,
// case-folded. A fet-named black box without channel geometry is left
// unclassified rather than guessed.
func hasChannelGeometry(params map[string]string) bool {
	var w, l bool
	for key := range params {
		switch strings.ToUpper(key) {
		case "W":
			w = true
		case "L":
			l = true
		}
	}
	return w && l
}

// Stats classifies the circuit's own top-level components without
// flattening. Structural instances count as themselves here; Flatten
// expands them away, so this is the only view where they surface.
func (r *Resolver) Stats() netlist.Stats {
	stats := make(netlist.Stats)
	for _, comp := range r.circuit.Components {
		stats[r.Classify(comp)]++
	}
	return stats
}

// HierarchicalStats flattens first and classifies every resulting
// component, giving device totals across the whole hierarchy.
func (r *Resolver) HierarchicalStats() (netlist.Stats, error) {
	flat, err := r.Flatten()
	if err != nil {
		return nil, err
	}
	stats := make(netlist.Stats)
	for _, comp := range flat.Components {
		stats[r.Classify(comp)]++
	}
	return stats, nil
}

// TransistorCount totals Mosfet and Bjt devices across the flattened
// hierarchy, including leaf instances classified as such.
func (r *Resolver) TransistorCount() (int, error) {
	stats, err := r.HierarchicalStats()
	if err != nil {
		return 0, err
	}
	return stats[netlist.KindMosfet] + stats[netlist.KindBjt], nil
}
