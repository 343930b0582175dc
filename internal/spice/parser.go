package spice

import (
	"fmt"
	"slices"
	"strings"

	"spinet/internal/diag"
	"spinet/internal/netlist"
	"spinet/internal/source"
)

// Options configures a parse pass.
type Options struct {
	// Reporter receives diagnostics. Nil drops them, which is useful for
	// callers that only want the circuit.
	Reporter diag.Reporter
}

// Parse consumes every logical line of file and returns the circuit built
// from it, named circuitName. Parsing is best-effort: a malformed statement
// produces a diagnostic and is skipped, it never aborts the pass.
func Parse(file *source.File, circuitName string, opts Options) *netlist.Circuit {
	p := &parser{
		file:     file,
		circuit:  netlist.NewCircuit(circuitName),
		opts:     opts,
		defSpans: make(map[string]source.Span),
	}
	sc := NewLineScanner(file)
	for {
		ln, ok := sc.Next()
		if !ok {
			break
		}
		p.parseLine(ln)
	}
	p.finish()
	return p.circuit
}

// openScope is one entry of the .SUBCKT nesting stack. The span and line
// point at the .SUBCKT statement so an unclosed-scope diagnostic can anchor
// there.
type openScope struct {
	sub  *netlist.Subckt
	span source.Span
	line uint32
}

type parser struct {
	file    *source.File
	circuit *netlist.Circuit
	opts    Options
	stack   []openScope
	// defSpans remembers each subckt's .SUBCKT header span, for the note
	// attached to redefinition diagnostics.
	defSpans map[string]source.Span
}

// scope returns the container statements currently attach to: the innermost
// open subckt, or the circuit itself.
func (p *parser) scope() netlist.Scope {
	if n := len(p.stack); n > 0 {
		return p.stack[n-1].sub
	}
	return p.circuit
}

func (p *parser) report(sev diag.Severity, code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
}

func (p *parser) parseLine(ln LogicalLine) {
	if hasUnterminatedQuote(ln.Text) {
		p.report(diag.SevWarning, diag.LexUnterminatedQuote, ln.Span,
			fmt.Sprintf("line %d: unterminated quote: %s", ln.Line, ln.Text))
	}
	tokens := Fields(ln.Text)
	if len(tokens) == 0 {
		return
	}
	if tokens[0][0] == '.' {
		p.parseDirective(ln, tokens)
		return
	}
	p.parseDevice(ln, tokens)
}

func (p *parser) parseDirective(ln LogicalLine, tokens []string) {
	switch strings.ToLower(tokens[0]) {
	case ".subckt":
		p.parseSubckt(ln, tokens)
	case ".ends":
		if n := len(p.stack); n > 0 {
			p.stack = p.stack[:n-1]
		}
	case ".model":
		p.parseModel(ln, tokens)
	case ".param":
		p.parseParam(tokens)
	case ".include", ".lib":
		p.parseInclude(ln, tokens)
	default:
		// .END, .OPTION, .TEMP and the rest of the simulator control
		// surface carry nothing the netlist model needs.
	}
}

func (p *parser) parseSubckt(ln LogicalLine, tokens []string) {
	if len(tokens) < 2 {
		p.report(diag.SevError, diag.SynSubcktMissingName, ln.Span,
			fmt.Sprintf("line %d: .SUBCKT missing a name: %s", ln.Line, ln.Text))
		return
	}
	sub := netlist.NewSubckt(tokens[1], nil)
	for _, tok := range tokens[2:] {
		// key=value among the ports declares a subckt parameter default
		// and is not a port.
		if key, value, found := strings.Cut(tok, "="); found {
			sub.SetParam(key, value)
			continue
		}
		sub.Ports = append(sub.Ports, tok)
	}
	if prev, dup := p.defSpans[sub.Name]; dup {
		diag.ReportInfo(p.opts.Reporter, diag.SynDuplicateSubckt, ln.Span,
			fmt.Sprintf("line %d: subckt %s redefined, keeping the new definition", ln.Line, sub.Name)).
			WithNote(prev, "previous definition here").
			Emit()
	}
	p.defSpans[sub.Name] = ln.Span
	p.circuit.AddSubckt(sub)
	p.stack = append(p.stack, openScope{sub: sub, span: ln.Span, line: ln.Line})
}

func (p *parser) parseModel(ln LogicalLine, tokens []string) {
	if len(tokens) < 3 {
		p.report(diag.SevWarning, diag.SynMalformedDirective, ln.Span,
			fmt.Sprintf("line %d: .MODEL needs a name and a type: %s", ln.Line, ln.Text))
		return
	}
	model := netlist.NewModel(tokens[1], tokens[2])
	for _, tok := range tokens[3:] {
		key, value, found := strings.Cut(tok, "=")
		if !found {
			continue
		}
		model.Params[key] = strings.Trim(value, "()")
	}
	// Models always attach to the circuit, even when the .MODEL card sits
	// inside a subckt body.
	p.circuit.AddModel(model)
}

func (p *parser) parseParam(tokens []string) {
	scope := p.scope()
	for _, tok := range tokens[1:] {
		key, value, found := strings.Cut(tok, "=")
		if !found {
			continue
		}
		if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
			value = value[1 : len(value)-1]
		}
		scope.SetParam(key, value)
	}
}

func (p *parser) parseInclude(ln LogicalLine, tokens []string) {
	if len(tokens) < 2 {
		p.report(diag.SevWarning, diag.SynMalformedDirective, ln.Span,
			fmt.Sprintf("line %d: %s missing a path: %s", ln.Line, strings.ToUpper(tokens[0]), ln.Text))
		return
	}
	// Recorded verbatim. Resolving and reading the target is the driver's
	// job, not the parser's.
	p.circuit.Includes = append(p.circuit.Includes, strings.Join(tokens[1:], " "))
}

// parseDevice dispatches on the first letter of the element name. Dispatch
// is case-insensitive but the name itself keeps its source spelling.
func (p *parser) parseDevice(ln LogicalLine, tokens []string) {
	var comp *netlist.Component
	switch tokens[0][0] {
	case 'R', 'r':
		comp = p.parseValued(ln, tokens, "resistor", netlist.NewResistor)
	case 'C', 'c':
		comp = p.parseValued(ln, tokens, "capacitor", netlist.NewCapacitor)
	case 'L', 'l':
		comp = p.parseValued(ln, tokens, "inductor", netlist.NewInductor)
	case 'M', 'm':
		comp = p.parseModeled(ln, tokens, "mosfet", 4, netlist.NewMosfet)
	case 'Q', 'q':
		comp = p.parseModeled(ln, tokens, "bjt", 3, netlist.NewBjt)
	case 'D', 'd':
		comp = p.parseModeled(ln, tokens, "diode", 2, netlist.NewDiode)
	case 'V', 'v':
		comp = p.parseSource(ln, tokens, "voltage source", netlist.NewVoltageSource)
	case 'I', 'i':
		comp = p.parseSource(ln, tokens, "current source", netlist.NewCurrentSource)
	case 'X', 'x':
		comp = p.parseInstance(ln, tokens)
	default:
		p.report(diag.SevWarning, diag.SynUnknownCard, ln.Span,
			fmt.Sprintf("line %d: unknown statement: %s", ln.Line, ln.Text))
		return
	}
	if comp == nil {
		return
	}
	comp.Line = int(ln.Line)
	p.scope().AddComponent(comp)
}

// parseValued handles R, C and L: name, two nodes, then an optional value
// token which defaults to "0" when the card stops after the nodes.
func (p *parser) parseValued(ln LogicalLine, tokens []string, word string, build func(string, []string, string) *netlist.Component) *netlist.Component {
	if len(tokens) < 3 {
		p.malformed(ln, word)
		return nil
	}
	value := "0"
	if len(tokens) > 3 {
		value = tokens[3]
	}
	comp := build(tokens[0], slices.Clone(tokens[1:3]), value)
	p.applyParams(comp, tokens, 4)
	return comp
}

// parseModeled handles M, Q and D: name, a fixed node count, then a
// mandatory model token.
func (p *parser) parseModeled(ln LogicalLine, tokens []string, word string, nodeCount int, build func(string, []string, string) *netlist.Component) *netlist.Component {
	if len(tokens) < nodeCount+2 {
		p.malformed(ln, word)
		return nil
	}
	comp := build(tokens[0], slices.Clone(tokens[1:1+nodeCount]), tokens[1+nodeCount])
	p.applyParams(comp, tokens, nodeCount+2)
	return comp
}

// parseSource handles V and I: name, two nodes, then the analysis values.
// The card shape is "Vname n+ n- [DC value] [AC value]"; a bare fourth
// token is the DC value, and both keywords are case-insensitive. DC
// defaults to "0", AC to empty.
func (p *parser) parseSource(ln LogicalLine, tokens []string, word string, build func(string, []string, string) *netlist.Component) *netlist.Component {
	if len(tokens) < 3 {
		p.malformed(ln, word)
		return nil
	}
	dc := "0"
	ac := ""
	rest := 3
	if rest < len(tokens) && !isSourceKeyword(tokens[rest]) {
		dc = tokens[rest]
		rest++
	}
	for rest+1 < len(tokens) {
		if strings.EqualFold(tokens[rest], "DC") {
			dc = tokens[rest+1]
		} else if strings.EqualFold(tokens[rest], "AC") {
			ac = tokens[rest+1]
		} else {
			break
		}
		rest += 2
	}
	comp := build(tokens[0], slices.Clone(tokens[1:3]), dc)
	comp.AC = ac
	p.applyParams(comp, tokens, rest)
	return comp
}

func isSourceKeyword(tok string) bool {
	return strings.EqualFold(tok, "DC") || strings.EqualFold(tok, "AC")
}

// parseInstance handles X lines under two conventions. CDL separates the
// node list from the subckt name with a standalone "/" token. Plain SPICE
// puts the subckt name last, directly before the first key=value token if
// any parameters follow.
func (p *parser) parseInstance(ln LogicalLine, tokens []string) *netlist.Component {
	if slash := slices.Index(tokens, "/"); slash >= 0 {
		if slash+1 >= len(tokens) {
			p.malformed(ln, "subckt instance")
			return nil
		}
		comp := netlist.NewSubcktInstance(tokens[0], slices.Clone(tokens[1:slash]), tokens[slash+1])
		p.applyParams(comp, tokens, slash+2)
		return comp
	}

	boundary := len(tokens)
	for i, tok := range tokens {
		if strings.Contains(tok, "=") {
			boundary = i
			break
		}
	}
	// The subckt name sits just before the boundary, so anything shorter
	// than name + subckt name cannot be an instance.
	if boundary < 2 {
		p.malformed(ln, "subckt instance")
		return nil
	}
	comp := netlist.NewSubcktInstance(tokens[0], slices.Clone(tokens[1:boundary-1]), tokens[boundary-1])
	p.applyParams(comp, tokens, boundary)
	return comp
}

// applyParams parses tokens[from:] as key=value pairs. Key spelling is
// preserved. Tokens without "=" are kept in Extra rather than dropped.
func (p *parser) applyParams(comp *netlist.Component, tokens []string, from int) {
	if from >= len(tokens) {
		return
	}
	for _, tok := range tokens[from:] {
		key, value, found := strings.Cut(tok, "=")
		if !found {
			comp.Extra = append(comp.Extra, tok)
			continue
		}
		comp.Params[key] = value
	}
}

func (p *parser) malformed(ln LogicalLine, word string) {
	p.report(diag.SevError, diag.SynMalformedDevice, ln.Span,
		fmt.Sprintf("line %d: malformed %s statement: %s", ln.Line, word, ln.Text))
}

// finish reports scopes left open at end of input. Their bodies stay as
// parsed; only the missing .ENDS is diagnosed.
func (p *parser) finish() {
	for i := len(p.stack) - 1; i >= 0; i-- {
		sc := p.stack[i]
		p.report(diag.SevWarning, diag.SynUnclosedSubckt, sc.span,
			fmt.Sprintf("line %d: .SUBCKT %s has no matching .ENDS", sc.line, sc.sub.Name))
	}
	p.stack = p.stack[:0]
}
