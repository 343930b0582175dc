package report

import (
	"fmt"
	"io"

	"spinet/internal/hier"
)

// WriteTree renders an instantiation tree with box-drawing connectors:
//
//	deck
//	├── Xtop (ring)
//	│   ├── XI1 (inv)
//	│   └── XI2 (inv)
//	└── Xload (cap_bank)
func WriteTree(w io.Writer, root *hier.TreeNode) {
	if root == nil {
		return
	}
	fmt.Fprintln(w, treeLabel(root))
	writeBranches(w, root, "")
}

func writeBranches(w io.Writer, node *hier.TreeNode, prefix string) {
	for i, child := range node.Children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(node.Children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, treeLabel(child))
		writeBranches(w, child, childPrefix)
	}
}

func treeLabel(n *hier.TreeNode) string {
	if n.SubcktRef == "" {
		return n.Name
	}
	return n.Name + " (" + n.SubcktRef + ")"
}
