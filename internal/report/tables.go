package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/mattn/go-runewidth"

	"spinet/internal/netlist"
)

// WriteStats renders component counts as an aligned two-column table with a
// trailing total, kinds sorted by name.
func WriteStats(w io.Writer, stats netlist.Stats) {
	names := stats.Names()
	keys := make([]string, 0, len(names))
	width := runewidth.StringWidth("total")
	for name := range names {
		keys = append(keys, name)
		if nw := runewidth.StringWidth(name); nw > width {
			width = nw
		}
	}
	sort.Strings(keys)

	total := 0
	for _, name := range keys {
		fmt.Fprintf(w, "  %s %6d\n", runewidth.FillRight(name, width), names[name])
		total += names[name]
	}
	fmt.Fprintf(w, "  %s %6d\n", runewidth.FillRight("total", width), total)
}

// WriteModelUsage renders device counts per model, most used first, ties
// broken by name.
func WriteModelUsage(w io.Writer, usage map[string]int) {
	names := make([]string, 0, len(usage))
	width := 0
	for name := range usage {
		names = append(names, name)
		if nw := runewidth.StringWidth(name); nw > width {
			width = nw
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if usage[names[i]] != usage[names[j]] {
			return usage[names[i]] > usage[names[j]]
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		fmt.Fprintf(w, "  %s %6d\n", runewidth.FillRight(name, width), usage[name])
	}
}
