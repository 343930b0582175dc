package hier

import (
	"sort"

	"spinet/internal/netlist"
)

// TopCells returns the defined subckt names that no other subckt body
// instantiates, sorted. The scan is one level deep over the static
// reference graph; instances at the circuit's own top level do not count
// as uses, so a cell placed only there still qualifies as a root.
func TopCells(c *netlist.Circuit) []string {
	instantiated := make(map[string]struct{})
	for _, sub := range c.Subckts {
		for _, comp := range sub.Components {
			if comp.Kind == netlist.KindSubckt {
				instantiated[comp.SubcktRef] = struct{}{}
			}
		}
	}

	roots := make([]string, 0, len(c.Subckts))
	for name := range c.Subckts {
		if _, used := instantiated[name]; !used {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)
	return roots
}

// FindTopCell picks the design root. A single candidate wins outright;
// multiple candidates resolve to the lexicographically smallest, which is
// arbitrary but deterministic. The second result is false when the circuit
// defines no un-instantiated subckt at all.
func FindTopCell(c *netlist.Circuit) (string, bool) {
	roots := TopCells(c)
	if len(roots) == 0 {
		return "", false
	}
	return roots[0], true
}
