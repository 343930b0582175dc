package hier

import (
	"slices"
	"sort"

	"spinet/internal/netlist"
)

// ModelUsage flattens the circuit and counts how often each model is
// referenced. Leaf subckt instances count under their subckt name: in
// CDL-extracted netlists the black-box name is the de facto device model,
// and after flattening every surviving instance is a leaf.
func (r *Resolver) ModelUsage() (map[string]int, error) {
	flat, err := r.Flatten()
	if err != nil {
		return nil, err
	}

	usage := make(map[string]int)
	for _, comp := range flat.Components {
		switch {
		case comp.Model != "":
			usage[comp.Model]++
		case comp.Kind == netlist.KindSubckt:
			usage[comp.SubcktRef]++
		}
	}
	return usage, nil
}

// SubcktsUsingModel scans each subckt's direct body, without flattening,
// for components referencing model. A match among the circuit's own
// top-level components records the circuit's name. The result is sorted
// and duplicate-free.
func (r *Resolver) SubcktsUsingModel(model string) []string {
	var names []string
	for name, sub := range r.circuit.Subckts {
		for _, comp := range sub.Components {
			if comp.Model == model {
				names = append(names, name)
				break
			}
		}
	}
	for _, comp := range r.circuit.Components {
		if comp.Model == model {
			names = append(names, r.circuit.Name)
			break
		}
	}

	sort.Strings(names)
	return slices.Compact(names)
}
