package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"spinet/internal/netlist"
)

// WriteComponents lists components one per line in netlist card order:
// name, nodes, the kind-specific field, parameters sorted by key, then any
// trailing tokens. Names are padded into a column.
func WriteComponents(w io.Writer, comps []*netlist.Component) {
	width := 0
	for _, c := range comps {
		if nw := runewidth.StringWidth(c.Name); nw > width {
			width = nw
		}
	}
	for _, c := range comps {
		fmt.Fprintf(w, "%s %s\n", runewidth.FillRight(c.Name, width), strings.Join(cardFields(c), " "))
	}
}

func cardFields(c *netlist.Component) []string {
	fields := make([]string, 0, len(c.Nodes)+len(c.Params)+len(c.Extra)+1)
	fields = append(fields, c.Nodes...)

	switch c.Kind {
	case netlist.KindResistor, netlist.KindCapacitor, netlist.KindInductor:
		fields = append(fields, c.Value)
	case netlist.KindMosfet, netlist.KindBjt, netlist.KindDiode:
		fields = append(fields, c.Model)
	case netlist.KindVoltageSource, netlist.KindCurrentSource:
		fields = append(fields, c.DC)
		if c.AC != "" {
			fields = append(fields, "AC", c.AC)
		}
	case netlist.KindSubckt:
		if c.SubcktRef != "" {
			fields = append(fields, c.SubcktRef)
		}
	}

	for _, k := range slices.Sorted(maps.Keys(c.Params)) {
		fields = append(fields, k+"="+c.Params[k])
	}
	return append(fields, c.Extra...)
}
