package netlist

import (
	"testing"
)

func TestComponentClone(t *testing.T) {
	orig := NewMosfet("M1", []string{"d", "g", "s", "b"}, "nmos")
	orig.Params["w"] = "1u"
	orig.Extra = append(orig.Extra, "flag")
	orig.Line = 7

	cp := orig.Clone()
	cp.Nodes[0] = "changed"
	cp.Params["w"] = "9u"
	cp.Extra[0] = "other"

	if orig.Nodes[0] != "d" {
		t.Errorf("Expected original nodes untouched, got %v", orig.Nodes)
	}
	if orig.Params["w"] != "1u" {
		t.Errorf("Expected original params untouched, got %v", orig.Params)
	}
	if orig.Extra[0] != "flag" {
		t.Errorf("Expected original extra untouched, got %v", orig.Extra)
	}
	if cp.Kind != KindMosfet || cp.Model != "nmos" || cp.Line != 7 {
		t.Errorf("Expected scalar fields to carry over, got %+v", cp)
	}
}

func TestSubcktCloneBody(t *testing.T) {
	s := NewSubckt("inv", []string{"in", "out"})
	s.AddComponent(NewResistor("R1", []string{"in", "out"}, "1k"))

	body := s.CloneBody()
	body[0].Nodes[0] = "hacked"
	body[0].Name = "R9"

	if s.Components[0].Nodes[0] != "in" || s.Components[0].Name != "R1" {
		t.Errorf("Expected definition untouched after clone mutation, got %+v", s.Components[0])
	}
}

func TestCircuitLastWins(t *testing.T) {
	c := NewCircuit("top")

	first := NewSubckt("inv", []string{"a"})
	second := NewSubckt("inv", []string{"a", "b"})
	c.AddSubckt(first)
	c.AddSubckt(second)

	got, ok := c.Subckt("inv")
	if !ok {
		t.Fatal("Expected subckt to be defined")
	}
	if len(got.Ports) != 2 {
		t.Errorf("Expected the later definition to win, got ports %v", got.Ports)
	}

	c.AddModel(NewModel("nmos", "nmos"))
	repl := NewModel("nmos", "pmos")
	c.AddModel(repl)
	if c.Models["nmos"].Type != "pmos" {
		t.Errorf("Expected the later model to win, got %+v", c.Models["nmos"])
	}
}

func TestSubcktNamesSorted(t *testing.T) {
	c := NewCircuit("top")
	c.AddSubckt(NewSubckt("zeta", nil))
	c.AddSubckt(NewSubckt("alpha", nil))
	c.AddSubckt(NewSubckt("mid", nil))

	names := c.SubcktNames()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected names[%d] = %q, got %q", i, want[i], names[i])
		}
	}
}

func TestCloneModels(t *testing.T) {
	c := NewCircuit("top")
	m := NewModel("nmos_vtg", "nmos")
	m.Params["vth"] = "0.4"
	c.AddModel(m)

	cp := c.CloneModels()
	cp["nmos_vtg"].Params["vth"] = "0.9"

	if c.Models["nmos_vtg"].Params["vth"] != "0.4" {
		t.Errorf("Expected original model params untouched, got %v", c.Models["nmos_vtg"].Params)
	}
}

func TestIsGround(t *testing.T) {
	tests := []struct {
		node string
		want bool
	}{
		{"0", true},
		{"GND", true},
		{"gnd", true},
		{"Gnd", true},
		{"vss", false},
		{"00", false},
		{"ground", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsGround(tt.node); got != tt.want {
			t.Errorf("IsGround(%q) = %v, want %v", tt.node, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindResistor, "Resistor"},
		{KindCapacitor, "Capacitor"},
		{KindInductor, "Inductor"},
		{KindMosfet, "Mosfet"},
		{KindBjt, "Bjt"},
		{KindDiode, "Diode"},
		{KindVoltageSource, "VoltageSource"},
		{KindCurrentSource, "CurrentSource"},
		{KindSubckt, "SubcktInstance"},
		{KindUnknown, "Unknown"},
		{Kind(250), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestStatsNames(t *testing.T) {
	st := Stats{KindMosfet: 3, KindResistor: 1}
	names := st.Names()
	if names["Mosfet"] != 3 || names["Resistor"] != 1 {
		t.Errorf("Unexpected name map %v", names)
	}
}
