package latchtree

import (
	"fmt"
	"strings"
)

// ToGraph renders the tree as Graphviz DOT source, for visual debugging.
// It is not safe to call concurrently with mutating operations.
func (t *Tree) ToGraph() string {
	if t.root == nil {
		return "digraph empty_bplus_tree {}"
	}

	type edge struct{ from, to string }

	var b strings.Builder
	var edges, leafEdges []edge

	b.WriteString("digraph bplus_tree {\n")

	queue := []node{t.root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		id := nodeID(cur)

		if cur.Kind() == KindInner {
			in := asInner(cur)
			fmt.Fprintf(&b, "\n%s [ shape=\"plaintext\" label=<%s> fillcolor=\"#F3B664\" style=\"filled\" ]\n",
				id, innerHTMLTable(in))

			edges = append(edges, edge{id + ":low_key", nodeID(in.lowChild)})
			queue = append(queue, in.lowChild)
			for i, s := range in.seps {
				edges = append(edges, edge{fmt.Sprintf("%s:key_%d", id, i), nodeID(s.child) + ":n"})
				queue = append(queue, s.child)
			}
			continue
		}

		leaf := asLeaf(cur)
		fmt.Fprintf(&b, "\n%s [ shape=\"plaintext\" label=<%s> fillcolor=\"#9FBB73\" style=\"filled\" ]\n",
			id, leafHTMLTable(leaf))
		if leaf.next != nil {
			leafEdges = append(leafEdges, edge{id, nodeID(leaf.next)})
		}
	}

	b.WriteString("\n")
	for i := len(edges) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%s -> %s\n", edges[i].from, edges[i].to)
	}
	b.WriteString("\n")

	if len(leafEdges) > 0 {
		b.WriteString("subgraph leaf_nodes {\n")
		var ids []string
		for i := len(leafEdges) - 1; i >= 0; i-- {
			e := leafEdges[i]
			fmt.Fprintf(&b, "%s -> %s\n%s -> %s\n", e.from, e.to, e.to, e.from)
			if len(ids) == 0 || ids[len(ids)-1] != e.from {
				ids = append(ids, e.from)
			}
			ids = append(ids, e.to)
		}
		b.WriteString("\n{\nrank=\"same\"\n")
		for _, id := range ids {
			b.WriteString(id + "\n")
		}
		b.WriteString("}\n}\n")
	}

	b.WriteString("}\n")
	return b.String()
}

func nodeID(n node) string {
	return fmt.Sprintf("Node_%p", n)
}

func innerHTMLTable(in *innerNode) string {
	var b strings.Builder
	b.WriteString("<table cellspacing=\"2\" cellborder=\"2\" border=\"0\">\n")
	fmt.Fprintf(&b, "<tr><td colspan=\"%d\">count: %d</td></tr>\n", in.size()+1, in.size())
	b.WriteString("<tr>\n")
	b.WriteString("<td port=\"low_key\">low key</td>\n")
	for i, s := range in.seps {
		fmt.Fprintf(&b, "<td port=\"key_%d\">%d</td>\n", i, s.key)
	}
	b.WriteString("</tr>\n</table>\n")
	return b.String()
}

func leafHTMLTable(leaf *leafNode) string {
	var b strings.Builder
	b.WriteString("<table cellspacing=\"2\" cellborder=\"2\" border=\"0\">\n")
	fmt.Fprintf(&b, "<tr><td colspan=\"%d\">count: %d</td></tr>\n", leaf.size(), leaf.size())
	b.WriteString("<tr>\n")
	for i, e := range leaf.entries {
		fmt.Fprintf(&b, "<td port=\"key_%d\">%d</td>\n", i, e.key)
	}
	b.WriteString("</tr>\n</table>\n")
	return b.String()
}
