package netlist

import (
	"maps"
	"sort"
)

// Circuit is the root of one parsed netlist.
type Circuit struct {
	Name       string
	Components []*Component
	// Subckts and Models are keyed by name; a later definition with the
	// same name replaces the earlier one.
	Subckts  map[string]*Subckt
	Models   map[string]*Model
	Params   map[string]string
	Includes []string
}

func NewCircuit(name string) *Circuit {
	return &Circuit{
		Name:    name,
		Subckts: make(map[string]*Subckt),
		Models:  make(map[string]*Model),
		Params:  make(map[string]string),
	}
}

func (c *Circuit) AddComponent(comp *Component) {
	c.Components = append(c.Components, comp)
}

func (c *Circuit) AddSubckt(s *Subckt) {
	c.Subckts[s.Name] = s
}

func (c *Circuit) AddModel(m *Model) {
	c.Models[m.Name] = m
}

func (c *Circuit) SetParam(key, value string) {
	c.Params[key] = value
}

// Subckt returns the definition registered under name.
func (c *Circuit) Subckt(name string) (*Subckt, bool) {
	s, ok := c.Subckts[name]
	return s, ok
}

// SubcktNames returns all defined subcircuit names, sorted.
func (c *Circuit) SubcktNames() []string {
	names := make([]string, 0, len(c.Subckts))
	for name := range c.Subckts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModelNames returns all defined model names, sorted.
func (c *Circuit) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for name := range c.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CloneModels deep-copies the model table. The flattened circuit carries
// its own copy so the source circuit stays untouched.
func (c *Circuit) CloneModels() map[string]*Model {
	out := make(map[string]*Model, len(c.Models))
	for name, m := range c.Models {
		out[name] = m.Clone()
	}
	return out
}

// Subckt is a named circuit template. Ports are order-significant: an
// instance binds its nodes to them positionally. A Subckt with an empty
// body is the black-box idiom for a primitive characterized elsewhere;
// the resolver never expands it.
type Subckt struct {
	Name       string
	Ports      []string
	Components []*Component
	Params     map[string]string
}

func NewSubckt(name string, ports []string) *Subckt {
	return &Subckt{
		Name:   name,
		Ports:  ports,
		Params: make(map[string]string),
	}
}

func (s *Subckt) AddComponent(comp *Component) {
	s.Components = append(s.Components, comp)
}

func (s *Subckt) SetParam(key, value string) {
	s.Params[key] = value
}

// IsLeaf reports whether the definition has no body.
func (s *Subckt) IsLeaf() bool {
	return len(s.Components) == 0
}

// CloneBody deep-copies the component list, preserving order.
func (s *Subckt) CloneBody() []*Component {
	out := make([]*Component, len(s.Components))
	for i, comp := range s.Components {
		out[i] = comp.Clone()
	}
	return out
}

// Scope is where device lines and .PARAM entries land during parsing:
// the Circuit itself or the Subckt currently being defined.
type Scope interface {
	AddComponent(*Component)
	SetParam(key, value string)
}

var (
	_ Scope = (*Circuit)(nil)
	_ Scope = (*Subckt)(nil)
)

// Model is a .MODEL statement: purely descriptive, never expanded.
type Model struct {
	Name   string
	Type   string
	Params map[string]string
}

func NewModel(name, typ string) *Model {
	return &Model{
		Name:   name,
		Type:   typ,
		Params: make(map[string]string),
	}
}

func (m *Model) Clone() *Model {
	out := *m
	out.Params = maps.Clone(m.Params)
	return &out
}

// Stats counts components by classified kind. Keys with zero counts are
// absent.
type Stats map[Kind]int

// Names renders the counts keyed by each kind's display name.
func (st Stats) Names() map[string]int {
	out := make(map[string]int, len(st))
	for k, n := range st {
		out[k.String()] = n
	}
	return out
}
