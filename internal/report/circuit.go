package report

import (
	"encoding/json"
	"io"

	"spinet/internal/netlist"
)

// ComponentJSON is one component in JSON form. Kind-specific fields are
// omitted when empty.
type ComponentJSON struct {
	Name   string            `json:"name"`
	Kind   string            `json:"kind"`
	Nodes  []string          `json:"nodes"`
	Value  string            `json:"value,omitempty"`
	Model  string            `json:"model,omitempty"`
	DC     string            `json:"dc,omitempty"`
	AC     string            `json:"ac,omitempty"`
	Subckt string            `json:"subckt,omitempty"`
	Params map[string]string `json:"params,omitempty"`
	Extra  []string          `json:"extra,omitempty"`
	Line   int               `json:"line,omitempty"`
}

// SubcktJSON is one subcircuit definition in JSON form.
type SubcktJSON struct {
	Name       string            `json:"name"`
	Ports      []string          `json:"ports"`
	Components []ComponentJSON   `json:"components"`
	Params     map[string]string `json:"params,omitempty"`
}

// ModelJSON is one .MODEL statement in JSON form.
type ModelJSON struct {
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	Params map[string]string `json:"params,omitempty"`
}

// CircuitJSON is the full parsed netlist in JSON form. Map-backed tables
// are rendered as name-sorted arrays so output is reproducible.
type CircuitJSON struct {
	Name       string            `json:"name"`
	Components []ComponentJSON   `json:"components"`
	Subckts    []SubcktJSON      `json:"subckts,omitempty"`
	Models     []ModelJSON       `json:"models,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	Includes   []string          `json:"includes,omitempty"`
}

// BuildCircuitJSON converts a circuit for serialization.
func BuildCircuitJSON(c *netlist.Circuit) CircuitJSON {
	out := CircuitJSON{
		Name:       c.Name,
		Components: componentsJSON(c.Components),
		Params:     c.Params,
		Includes:   c.Includes,
	}
	for _, name := range c.SubcktNames() {
		sub := c.Subckts[name]
		out.Subckts = append(out.Subckts, SubcktJSON{
			Name:       sub.Name,
			Ports:      sub.Ports,
			Components: componentsJSON(sub.Components),
			Params:     sub.Params,
		})
	}
	for _, name := range c.ModelNames() {
		m := c.Models[name]
		out.Models = append(out.Models, ModelJSON{Name: m.Name, Type: m.Type, Params: m.Params})
	}
	return out
}

func componentsJSON(comps []*netlist.Component) []ComponentJSON {
	out := make([]ComponentJSON, len(comps))
	for i, c := range comps {
		out[i] = ComponentJSON{
			Name:   c.Name,
			Kind:   c.Kind.String(),
			Nodes:  c.Nodes,
			Value:  c.Value,
			Model:  c.Model,
			DC:     c.DC,
			AC:     c.AC,
			Subckt: c.SubcktRef,
			Params: c.Params,
			Extra:  c.Extra,
			Line:   c.Line,
		}
	}
	return out
}

// WriteCircuitJSON writes the indented JSON dump of a circuit.
func WriteCircuitJSON(w io.Writer, c *netlist.Circuit) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildCircuitJSON(c))
}
