package netlist

import (
	"maps"
	"slices"
)

// Kind tags the closed set of component variants. Classification and
// flattening switch exhaustively over it.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindResistor
	KindCapacitor
	KindInductor
	KindMosfet
	KindBjt
	KindDiode
	KindVoltageSource
	KindCurrentSource
	// KindSubckt marks an X element: an instance of a subcircuit, or the
	// generic "structural instance" bucket when classifying.
	KindSubckt
)

var kindNames = [...]string{
	KindUnknown:       "Unknown",
	KindResistor:      "Resistor",
	KindCapacitor:     "Capacitor",
	KindInductor:      "Inductor",
	KindMosfet:        "Mosfet",
	KindBjt:           "Bjt",
	KindDiode:         "Diode",
	KindVoltageSource: "VoltageSource",
	KindCurrentSource: "CurrentSource",
	KindSubckt:        "SubcktInstance",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Component is one device or instance line. The shared fields are always
// set; Value, Model, DC, AC and SubcktRef are populated per Kind:
//
//	Resistor/Capacitor/Inductor  Value
//	Mosfet/Bjt/Diode             Model
//	VoltageSource/CurrentSource  DC, AC
//	SubcktInstance               SubcktRef
//
// Values stay literal strings, exactly as written in the netlist. Quoted
// HSPICE expressions keep their quotes.
type Component struct {
	Kind      Kind
	Name      string
	Nodes     []string
	Value     string
	Model     string
	DC        string
	AC        string
	SubcktRef string
	Params    map[string]string
	// Extra collects trailing tokens that are not key=value pairs.
	Extra []string
	// Line is the 1-based starting physical line of the statement.
	Line int
}

func newComponent(kind Kind, name string, nodes []string) *Component {
	return &Component{
		Kind:   kind,
		Name:   name,
		Nodes:  nodes,
		Params: make(map[string]string),
	}
}

func NewResistor(name string, nodes []string, value string) *Component {
	c := newComponent(KindResistor, name, nodes)
	c.Value = value
	return c
}

func NewCapacitor(name string, nodes []string, value string) *Component {
	c := newComponent(KindCapacitor, name, nodes)
	c.Value = value
	return c
}

func NewInductor(name string, nodes []string, value string) *Component {
	c := newComponent(KindInductor, name, nodes)
	c.Value = value
	return c
}

func NewMosfet(name string, nodes []string, model string) *Component {
	c := newComponent(KindMosfet, name, nodes)
	c.Model = model
	return c
}

func NewBjt(name string, nodes []string, model string) *Component {
	c := newComponent(KindBjt, name, nodes)
	c.Model = model
	return c
}

func NewDiode(name string, nodes []string, model string) *Component {
	c := newComponent(KindDiode, name, nodes)
	c.Model = model
	return c
}

func NewVoltageSource(name string, nodes []string, dc string) *Component {
	c := newComponent(KindVoltageSource, name, nodes)
	c.DC = dc
	return c
}

func NewCurrentSource(name string, nodes []string, dc string) *Component {
	c := newComponent(KindCurrentSource, name, nodes)
	c.DC = dc
	return c
}

func NewSubcktInstance(name string, nodes []string, ref string) *Component {
	c := newComponent(KindSubckt, name, nodes)
	c.SubcktRef = ref
	return c
}

// Clone returns a structural deep copy. The resolver renames nodes on the
// copy, so sharing slices or maps with the original would corrupt it.
func (c *Component) Clone() *Component {
	out := *c
	out.Nodes = slices.Clone(c.Nodes)
	out.Params = maps.Clone(c.Params)
	out.Extra = slices.Clone(c.Extra)
	return &out
}
