package netlist

import "strings"

// GroundNode is the canonical spelling of the global ground net in
// flattened output.
const GroundNode = "0"

// IsGround reports whether a node name denotes the global ground net:
// the literal "0" or any case variant of "GND". Ground is global across
// every hierarchy level and is never scoped by an instance path.
func IsGround(node string) bool {
	return node == GroundNode || strings.EqualFold(node, "GND")
}
