package model

import (
	"strconv"

	"github.com/cloudify-tosca/blueprint/pkg/console"
)

// Summary renders a table of the plan's node inventory: id, effective type,
// host id and relationship count. Intended for a host CLI's --debug output,
// not for programmatic consumption.
func (p *Plan) Summary() string {
	rows := make([][]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		rows = append(rows, []string{n.ID, n.Type, n.HostID, strconv.Itoa(len(n.Relationships))})
	}
	return console.RenderTable(console.TableConfig{
		Title:   "Plan summary",
		Headers: []string{"Node", "Type", "Host", "Relationships"},
		Rows:    rows,
	})
}

// TypeHierarchyTree renders the named node's derived_from chain as a tree,
// root type at the top. Returns "" if no node with that id was processed.
func (p *Plan) TypeHierarchyTree(nodeID string) string {
	node := p.NodeByID(nodeID)
	if node == nil || len(node.TypeHierarchy) == 0 {
		return ""
	}
	root := console.TreeNode{Value: node.TypeHierarchy[0]}
	cur := &root
	for _, t := range node.TypeHierarchy[1:] {
		child := console.TreeNode{Value: t}
		cur.Children = append(cur.Children, child)
		cur = &cur.Children[0]
	}
	return console.RenderTree(root)
}
