package hier

import (
	"slices"
	"strings"

	"spinet/internal/netlist"
)

// TreeNode is one node of the instance hierarchy: the root scope at the
// top, a subckt instance everywhere else. Children are sorted by instance
// name per level. Primitive devices never appear; the tree is restricted
// to instance edges.
type TreeNode struct {
	// Name is the instance name, or the root scope's label at the top.
	Name string
	// SubcktRef is the referenced subckt, empty on the root node.
	SubcktRef string
	Children  []*TreeNode
}

// Tree builds the instance hierarchy from the same root Flatten uses,
// under the same depth bound. Leaf and unresolved references become
// childless nodes.
func (r *Resolver) Tree() (*TreeNode, error) {
	label, comps, err := r.roots()
	if err != nil {
		return nil, err
	}
	root := &TreeNode{Name: label}
	if err := r.buildTree(root, comps, "", 0); err != nil {
		return nil, err
	}
	return root, nil
}

func (r *Resolver) buildTree(parent *TreeNode, comps []*netlist.Component, path string, depth int) error {
	if depth > r.opts.MaxDepth {
		return &DepthError{Path: path, Limit: r.opts.MaxDepth}
	}

	for _, comp := range instancesByName(comps) {
		node := &TreeNode{Name: comp.Name, SubcktRef: comp.SubcktRef}
		parent.Children = append(parent.Children, node)

		sub, ok := r.circuit.Subckt(comp.SubcktRef)
		if !ok || sub.IsLeaf() {
			continue
		}
		if err := r.buildTree(node, sub.Components, joinPath(path, comp.Name), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// instancesByName filters a body down to its subckt instances, sorted by
// instance name. The body slice itself is never reordered.
func instancesByName(comps []*netlist.Component) []*netlist.Component {
	instances := make([]*netlist.Component, 0, len(comps))
	for _, comp := range comps {
		if comp.Kind == netlist.KindSubckt {
			instances = append(instances, comp)
		}
	}
	slices.SortFunc(instances, func(a, b *netlist.Component) int {
		return strings.Compare(a.Name, b.Name)
	})
	return instances
}
