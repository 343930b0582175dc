package spice_test

import (
	"slices"
	"strings"
	"testing"

	"spinet/internal/diag"
	"spinet/internal/netlist"
	"spinet/internal/source"
	"spinet/internal/spice"
)

// testReporter collects every diagnostic the parser emits.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) count(code diag.Code) int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Code == code {
			n++
		}
	}
	return n
}

func parseText(t *testing.T, input string) (*netlist.Circuit, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sp", []byte(input))
	reporter := &testReporter{}
	circuit := spice.Parse(fs.Get(id), "test", spice.Options{Reporter: reporter})
	return circuit, reporter
}

func TestParse_Devices(t *testing.T) {
	tests := []struct {
		input string
		kind  netlist.Kind
		name  string
		nodes []string
		value string
		model string
		dc    string
	}{
		{"R1 1 2 1k", netlist.KindResistor, "R1", []string{"1", "2"}, "1k", "", ""},
		{"Cload out 0 10p", netlist.KindCapacitor, "Cload", []string{"out", "0"}, "10p", "", ""},
		{"L1 a b 1n", netlist.KindInductor, "L1", []string{"a", "b"}, "1n", "", ""},
		{"M1 d g s b nmos", netlist.KindMosfet, "M1", []string{"d", "g", "s", "b"}, "", "nmos", ""},
		{"Q1 c b e npn_std", netlist.KindBjt, "Q1", []string{"c", "b", "e"}, "", "npn_std", ""},
		{"D1 a k dmod", netlist.KindDiode, "D1", []string{"a", "k"}, "", "dmod", ""},
		{"V1 vdd 0 1.8", netlist.KindVoltageSource, "V1", []string{"vdd", "0"}, "", "", "1.8"},
		{"Iload out 0 1m", netlist.KindCurrentSource, "Iload", []string{"out", "0"}, "", "", "1m"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			circuit, reporter := parseText(t, tt.input+"\n")
			if len(reporter.diagnostics) != 0 {
				t.Fatalf("Expected no diagnostics, got %v", reporter.diagnostics)
			}
			if len(circuit.Components) != 1 {
				t.Fatalf("Expected 1 component, got %d", len(circuit.Components))
			}

			comp := circuit.Components[0]
			if comp.Kind != tt.kind {
				t.Errorf("Expected kind %v, got %v", tt.kind, comp.Kind)
			}
			if comp.Name != tt.name {
				t.Errorf("Expected name %q, got %q", tt.name, comp.Name)
			}
			if !slices.Equal(comp.Nodes, tt.nodes) {
				t.Errorf("Expected nodes %v, got %v", tt.nodes, comp.Nodes)
			}
			if comp.Value != tt.value {
				t.Errorf("Expected value %q, got %q", tt.value, comp.Value)
			}
			if comp.Model != tt.model {
				t.Errorf("Expected model %q, got %q", tt.model, comp.Model)
			}
			if comp.DC != tt.dc {
				t.Errorf("Expected dc %q, got %q", tt.dc, comp.DC)
			}
		})
	}
}

func TestParse_ValueDefaults(t *testing.T) {
	circuit, _ := parseText(t, "R1 1 2\nV1 vdd 0\n")

	if len(circuit.Components) != 2 {
		t.Fatalf("Expected 2 components, got %d", len(circuit.Components))
	}
	if circuit.Components[0].Value != "0" {
		t.Errorf("Expected default value %q, got %q", "0", circuit.Components[0].Value)
	}
	if circuit.Components[1].DC != "0" {
		t.Errorf("Expected default dc %q, got %q", "0", circuit.Components[1].DC)
	}
}

func TestParse_SourceAnalysisValues(t *testing.T) {
	tests := []struct {
		input string
		dc    string
		ac    string
	}{
		{"V1 in 0 5", "5", ""},
		{"V1 in 0 DC 5", "5", ""},
		{"V1 in 0 dc 5 AC 1", "5", "1"},
		{"V1 in 0 AC 1", "0", "1"},
		{"Ibias out 0 ac 2u", "0", "2u"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			circuit, reporter := parseText(t, tt.input+"\n")
			if len(reporter.diagnostics) != 0 {
				t.Fatalf("Expected no diagnostics, got %v", reporter.diagnostics)
			}
			comp := circuit.Components[0]
			if comp.DC != tt.dc {
				t.Errorf("Expected dc %q, got %q", tt.dc, comp.DC)
			}
			if comp.AC != tt.ac {
				t.Errorf("Expected ac %q, got %q", tt.ac, comp.AC)
			}
		})
	}
}

func TestParse_Params(t *testing.T) {
	circuit, _ := parseText(t, "M1 d g s b nmos W=1u L=0.18u m=4\n")

	comp := circuit.Components[0]
	want := map[string]string{"W": "1u", "L": "0.18u", "m": "4"}
	for key, value := range want {
		if comp.Params[key] != value {
			t.Errorf("Expected params[%q] = %q, got %q", key, value, comp.Params[key])
		}
	}
	if len(comp.Params) != len(want) {
		t.Errorf("Expected %d params, got %d: %v", len(want), len(comp.Params), comp.Params)
	}
}

func TestParse_ExtraTokens(t *testing.T) {
	circuit, _ := parseText(t, "M1 d g s b nmos geomod W=1u\n")

	comp := circuit.Components[0]
	if !slices.Equal(comp.Extra, []string{"geomod"}) {
		t.Errorf("Expected extra [geomod], got %v", comp.Extra)
	}
	if comp.Params["W"] != "1u" {
		t.Errorf("Expected params[W] = 1u, got %q", comp.Params["W"])
	}
}

func TestParse_QuotedValues(t *testing.T) {
	circuit, _ := parseText(t, "R1 1 2 '1k + 2k'\nM1 d g s b nmos w='1u + 2u'\n")

	if got := circuit.Components[0].Value; got != "'1k + 2k'" {
		t.Errorf("Expected quoted value kept verbatim, got %q", got)
	}
	if got := circuit.Components[1].Params["w"]; got != "'1u + 2u'" {
		t.Errorf("Expected quoted param kept verbatim, got %q", got)
	}
}

func TestParse_UnterminatedQuoteWarns(t *testing.T) {
	circuit, reporter := parseText(t, "R1 1 2 'a b\n")

	if reporter.count(diag.LexUnterminatedQuote) != 1 {
		t.Fatalf("Expected one unterminated-quote warning, got %v", reporter.diagnostics)
	}
	// Best effort: the statement still parses with the tail as one token.
	if len(circuit.Components) != 1 {
		t.Fatalf("Expected 1 component, got %d", len(circuit.Components))
	}
	if got := circuit.Components[0].Value; got != "'a b" {
		t.Errorf("Expected value %q, got %q", "'a b", got)
	}
}

func TestParse_NameCasePreserved(t *testing.T) {
	circuit, _ := parseText(t, "rBIAS 1 2 1k\nxinv a b INV\n")

	if got := circuit.Components[0].Name; got != "rBIAS" {
		t.Errorf("Expected name spelling kept, got %q", got)
	}
	if got := circuit.Components[1].Name; got != "xinv" {
		t.Errorf("Expected name spelling kept, got %q", got)
	}
	if got := circuit.Components[1].SubcktRef; got != "INV" {
		t.Errorf("Expected subckt ref spelling kept, got %q", got)
	}
}

func TestParse_Subckt(t *testing.T) {
	input := `.subckt inv in out
M1 out in 0 0 nmos
M2 out in vdd vdd pmos
.ends
X1 a b inv
`
	circuit, reporter := parseText(t, input)

	if len(reporter.diagnostics) != 0 {
		t.Fatalf("Expected no diagnostics, got %v", reporter.diagnostics)
	}
	if len(circuit.Components) != 1 {
		t.Fatalf("Expected 1 top-level component, got %d", len(circuit.Components))
	}

	sub, ok := circuit.Subckt("inv")
	if !ok {
		t.Fatalf("Expected subckt inv to be defined, have %v", circuit.SubcktNames())
	}
	if !slices.Equal(sub.Ports, []string{"in", "out"}) {
		t.Errorf("Expected ports [in out], got %v", sub.Ports)
	}
	if len(sub.Components) != 2 {
		t.Errorf("Expected 2 body components, got %d", len(sub.Components))
	}

	inst := circuit.Components[0]
	if inst.Kind != netlist.KindSubckt {
		t.Errorf("Expected a subckt instance, got %v", inst.Kind)
	}
	if inst.SubcktRef != "inv" {
		t.Errorf("Expected ref inv, got %q", inst.SubcktRef)
	}
	if !slices.Equal(inst.Nodes, []string{"a", "b"}) {
		t.Errorf("Expected nodes [a b], got %v", inst.Nodes)
	}
}

func TestParse_SubcktParamDefaults(t *testing.T) {
	circuit, _ := parseText(t, ".subckt amp in out gain=10 bw=1meg\n.ends\n")

	sub, ok := circuit.Subckt("amp")
	if !ok {
		t.Fatal("Expected subckt amp to be defined")
	}
	if !slices.Equal(sub.Ports, []string{"in", "out"}) {
		t.Errorf("Expected key=value tokens stripped from ports, got %v", sub.Ports)
	}
	if sub.Params["gain"] != "10" || sub.Params["bw"] != "1meg" {
		t.Errorf("Expected subckt param defaults, got %v", sub.Params)
	}
}

func TestParse_NestedSubckts(t *testing.T) {
	input := `.subckt outer a
.subckt inner b
R1 b 0 1k
.ends
R2 a 0 2k
.ends
`
	circuit, reporter := parseText(t, input)

	if len(reporter.diagnostics) != 0 {
		t.Fatalf("Expected no diagnostics, got %v", reporter.diagnostics)
	}

	inner, ok := circuit.Subckt("inner")
	if !ok {
		t.Fatal("Expected nested subckt inner to be registered on the circuit")
	}
	if len(inner.Components) != 1 || inner.Components[0].Name != "R1" {
		t.Errorf("Expected inner body [R1], got %v", inner.Components)
	}

	outer, ok := circuit.Subckt("outer")
	if !ok {
		t.Fatal("Expected subckt outer to be registered")
	}
	if len(outer.Components) != 1 || outer.Components[0].Name != "R2" {
		t.Errorf("Expected outer body [R2] after inner pops, got %v", outer.Components)
	}
}

func TestParse_StrayEnds(t *testing.T) {
	circuit, reporter := parseText(t, ".ends\nR1 1 2 1k\n")

	if len(reporter.diagnostics) != 0 {
		t.Errorf("Expected stray .ENDS to be a silent no-op, got %v", reporter.diagnostics)
	}
	if len(circuit.Components) != 1 {
		t.Errorf("Expected R1 at top level, got %d components", len(circuit.Components))
	}
}

func TestParse_UnclosedSubckt(t *testing.T) {
	circuit, reporter := parseText(t, ".subckt inv in out\nM1 out in 0 0 nmos\n")

	if reporter.count(diag.SynUnclosedSubckt) != 1 {
		t.Fatalf("Expected one unclosed-subckt warning, got %v", reporter.diagnostics)
	}
	sub, ok := circuit.Subckt("inv")
	if !ok {
		t.Fatal("Expected the unclosed subckt to keep its definition")
	}
	if len(sub.Components) != 1 {
		t.Errorf("Expected 1 body component, got %d", len(sub.Components))
	}
}

func TestParse_SubcktMissingName(t *testing.T) {
	circuit, reporter := parseText(t, ".subckt\nR1 1 2 1k\n")

	if reporter.count(diag.SynSubcktMissingName) != 1 {
		t.Fatalf("Expected a missing-name error, got %v", reporter.diagnostics)
	}
	// The broken directive opens no scope, so R1 lands at top level.
	if len(circuit.Components) != 1 {
		t.Errorf("Expected R1 at top level, got %d components", len(circuit.Components))
	}
	if len(circuit.Subckts) != 0 {
		t.Errorf("Expected no subckts, got %v", circuit.SubcktNames())
	}
}

func TestParse_DuplicateSubcktLastWins(t *testing.T) {
	input := `.subckt buf in out
R1 in out 100
.ends
.subckt buf in out
R1 in out 100
R2 out 0 1k
.ends
`
	circuit, reporter := parseText(t, input)

	if reporter.count(diag.SynDuplicateSubckt) != 1 {
		t.Fatalf("Expected one duplicate-subckt note, got %v", reporter.diagnostics)
	}
	for _, d := range reporter.diagnostics {
		if d.Code != diag.SynDuplicateSubckt {
			continue
		}
		if len(d.Notes) != 1 || d.Notes[0].Msg != "previous definition here" {
			t.Errorf("Expected a note at the first definition, got %v", d.Notes)
			continue
		}
		if d.Notes[0].Span.Start >= d.Primary.Start {
			t.Errorf("Expected the note span before the redefinition, note=%v primary=%v",
				d.Notes[0].Span, d.Primary)
		}
	}
	sub, ok := circuit.Subckt("buf")
	if !ok {
		t.Fatal("Expected subckt buf to be defined")
	}
	if len(sub.Components) != 2 {
		t.Errorf("Expected the later definition to win, got %d body components", len(sub.Components))
	}
}

func TestParse_Model(t *testing.T) {
	circuit, _ := parseText(t, ".model nmos_lv nmos vto=(0.7) kp=120u\n")

	model, ok := circuit.Models["nmos_lv"]
	if !ok {
		t.Fatalf("Expected model nmos_lv, have %v", circuit.ModelNames())
	}
	if model.Type != "nmos" {
		t.Errorf("Expected type nmos, got %q", model.Type)
	}
	if model.Params["vto"] != "0.7" {
		t.Errorf("Expected parentheses stripped from value, got %q", model.Params["vto"])
	}
	if model.Params["kp"] != "120u" {
		t.Errorf("Expected params[kp] = 120u, got %q", model.Params["kp"])
	}
}

func TestParse_ModelInsideSubcktAttachesToCircuit(t *testing.T) {
	input := `.subckt cell a b
.model dio_leaf d is=1e-14
.ends
`
	circuit, _ := parseText(t, input)

	if _, ok := circuit.Models["dio_leaf"]; !ok {
		t.Errorf("Expected model declared inside a subckt on the circuit, have %v", circuit.ModelNames())
	}
}

func TestParse_ModelMissingType(t *testing.T) {
	circuit, reporter := parseText(t, ".model lonely\n")

	if reporter.count(diag.SynMalformedDirective) != 1 {
		t.Fatalf("Expected a malformed-directive warning, got %v", reporter.diagnostics)
	}
	if len(circuit.Models) != 0 {
		t.Errorf("Expected no models, got %v", circuit.ModelNames())
	}
}

func TestParse_ParamScopes(t *testing.T) {
	input := `.param vdd=1.8 freq='10meg'
.subckt amp in out
.param gain=20
.ends
`
	circuit, _ := parseText(t, input)

	if circuit.Params["vdd"] != "1.8" {
		t.Errorf("Expected circuit param vdd=1.8, got %q", circuit.Params["vdd"])
	}
	if circuit.Params["freq"] != "10meg" {
		t.Errorf("Expected one quote layer stripped, got %q", circuit.Params["freq"])
	}

	sub, _ := circuit.Subckt("amp")
	if sub == nil || sub.Params["gain"] != "20" {
		t.Errorf("Expected .PARAM inside a subckt to hit the subckt scope, got %v", sub)
	}
	if _, leaked := circuit.Params["gain"]; leaked {
		t.Error("Expected gain to stay out of the circuit scope")
	}
}

func TestParse_Includes(t *testing.T) {
	input := `.include models.sp
.lib 'cmos090.lib' tt
`
	circuit, _ := parseText(t, input)

	want := []string{"models.sp", "'cmos090.lib' tt"}
	if !slices.Equal(circuit.Includes, want) {
		t.Errorf("Expected includes %v, got %v", want, circuit.Includes)
	}
}

func TestParse_IncludeMissingPath(t *testing.T) {
	circuit, reporter := parseText(t, ".include\n")

	if reporter.count(diag.SynMalformedDirective) != 1 {
		t.Fatalf("Expected a malformed-directive warning, got %v", reporter.diagnostics)
	}
	if len(circuit.Includes) != 0 {
		t.Errorf("Expected no includes, got %v", circuit.Includes)
	}
}

func TestParse_UnhandledDirectivesIgnored(t *testing.T) {
	circuit, reporter := parseText(t, ".option post=2\n.temp 27\n.end\nR1 1 2 1k\n")

	if len(reporter.diagnostics) != 0 {
		t.Errorf("Expected control directives to pass silently, got %v", reporter.diagnostics)
	}
	if len(circuit.Components) != 1 {
		t.Errorf("Expected 1 component, got %d", len(circuit.Components))
	}
}

func TestParse_InstanceSlash(t *testing.T) {
	circuit, _ := parseText(t, "XI1 net1 net2 vdd vss / NAND2 m=2\n")

	inst := circuit.Components[0]
	if inst.SubcktRef != "NAND2" {
		t.Errorf("Expected ref NAND2, got %q", inst.SubcktRef)
	}
	if !slices.Equal(inst.Nodes, []string{"net1", "net2", "vdd", "vss"}) {
		t.Errorf("Expected nodes before the slash, got %v", inst.Nodes)
	}
	if inst.Params["m"] != "2" {
		t.Errorf("Expected params[m] = 2, got %q", inst.Params["m"])
	}
}

func TestParse_InstanceSlashMissingRef(t *testing.T) {
	circuit, reporter := parseText(t, "X1 a b /\n")

	if reporter.count(diag.SynMalformedDevice) != 1 {
		t.Fatalf("Expected a malformed-device error, got %v", reporter.diagnostics)
	}
	if len(circuit.Components) != 0 {
		t.Errorf("Expected the statement skipped, got %v", circuit.Components)
	}
}

func TestParse_InstanceEqualsBoundary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		nodes []string
		ref   string
	}{
		{"params after ref", "X1 a b inv m=2", []string{"a", "b"}, "inv"},
		{"no params", "X1 a b inv", []string{"a", "b"}, "inv"},
		{"no nodes", "X1 inv", nil, "inv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			circuit, reporter := parseText(t, tt.input+"\n")
			if len(reporter.diagnostics) != 0 {
				t.Fatalf("Expected no diagnostics, got %v", reporter.diagnostics)
			}
			if len(circuit.Components) != 1 {
				t.Fatalf("Expected 1 component, got %d", len(circuit.Components))
			}

			inst := circuit.Components[0]
			if inst.SubcktRef != tt.ref {
				t.Errorf("Expected ref %q, got %q", tt.ref, inst.SubcktRef)
			}
			if len(inst.Nodes) != len(tt.nodes) || !slices.Equal(inst.Nodes, slices.Clone(tt.nodes)) {
				t.Errorf("Expected nodes %v, got %v", tt.nodes, inst.Nodes)
			}
		})
	}
}

func TestParse_MalformedStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"mosfet too short", "M1 d g s"},
		{"bjt too short", "Q1 c b"},
		{"diode too short", "D1 a"},
		{"resistor too short", "R1 1"},
		{"instance name only", "X1"},
		{"instance params only", "X1 m=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			circuit, reporter := parseText(t, tt.input+"\nR9 1 2 1k\n")
			if reporter.count(diag.SynMalformedDevice) != 1 {
				t.Fatalf("Expected one malformed-device error, got %v", reporter.diagnostics)
			}
			// Parsing continues past the broken line.
			if len(circuit.Components) != 1 || circuit.Components[0].Name != "R9" {
				t.Errorf("Expected only R9 parsed, got %v", circuit.Components)
			}
		})
	}
}

func TestParse_MalformedMessageCarriesLineAndText(t *testing.T) {
	_, reporter := parseText(t, "* header\nM1 d g s\n")

	if len(reporter.diagnostics) != 1 {
		t.Fatalf("Expected one diagnostic, got %v", reporter.diagnostics)
	}
	msg := reporter.diagnostics[0].Message
	if !strings.Contains(msg, "line 2") {
		t.Errorf("Expected message to carry the line number, got %q", msg)
	}
	if !strings.Contains(msg, "M1 d g s") {
		t.Errorf("Expected message to carry the source text, got %q", msg)
	}
}

func TestParse_UnknownCard(t *testing.T) {
	circuit, reporter := parseText(t, "E1 1 2 3 4 10\n")

	if reporter.count(diag.SynUnknownCard) != 1 {
		t.Fatalf("Expected an unknown-statement warning, got %v", reporter.diagnostics)
	}
	if len(circuit.Components) != 0 {
		t.Errorf("Expected no components, got %v", circuit.Components)
	}
}

func TestParse_ComponentLineNumbers(t *testing.T) {
	input := `* header
R1 1 2 1k
M1 d g s b
+ nmos
C1 2 0 1p
`
	circuit, _ := parseText(t, input)

	if len(circuit.Components) != 3 {
		t.Fatalf("Expected 3 components, got %d", len(circuit.Components))
	}
	wantLines := []int{2, 3, 5}
	for i, want := range wantLines {
		if circuit.Components[i].Line != want {
			t.Errorf("Component %s: expected line %d, got %d",
				circuit.Components[i].Name, want, circuit.Components[i].Line)
		}
	}
}

func TestParse_NilReporter(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sp", []byte("M1 d g s\nR1 1 2 1k\n"))

	circuit := spice.Parse(fs.Get(id), "test", spice.Options{})
	if len(circuit.Components) != 1 {
		t.Errorf("Expected parsing to survive a nil reporter, got %d components", len(circuit.Components))
	}
}

func TestParse_FullDeck(t *testing.T) {
	input := `* ring oscillator deck
.param vdd=1.2
.include models/cmos065.sp

.subckt inv in out vdd vss
M1 out in vss vss nmos W=0.3u L=0.06u
M2 out in vdd vdd pmos W=0.6u L=0.06u
.ends

X1 n1 n2 vdd 0 inv
X2 n2 n3 vdd 0 inv
X3 n3 n1 vdd 0 inv
Cload n1 0 5f
Vsup vdd 0 1.2
.end
`
	circuit, reporter := parseText(t, input)

	if len(reporter.diagnostics) != 0 {
		t.Fatalf("Expected a clean parse, got %v", reporter.diagnostics)
	}
	if len(circuit.Components) != 5 {
		t.Errorf("Expected 5 top-level components, got %d", len(circuit.Components))
	}
	if _, ok := circuit.Subckt("inv"); !ok {
		t.Error("Expected subckt inv to be defined")
	}
	if circuit.Params["vdd"] != "1.2" {
		t.Errorf("Expected param vdd=1.2, got %q", circuit.Params["vdd"])
	}
	if !slices.Equal(circuit.Includes, []string{"models/cmos065.sp"}) {
		t.Errorf("Expected one include, got %v", circuit.Includes)
	}
}
