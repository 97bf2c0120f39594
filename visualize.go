package reflexpong

import (
	"bytes"
	"fmt"
)

// ExportDOT renders the transition table as Graphviz DOT source. The current
// state is highlighted; edge labels carry the guard and its rank among the
// state's rows.
func ExportDOT(current State) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph ReflexPong {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	for _, s := range States() {
		style := ""
		if s == current {
			style = ` style="rounded,filled" fillcolor=lightgreen`
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", s.String(), s.String(), style)
	}

	rank := make(map[State]int)
	for _, edge := range Edges() {
		rank[edge.From]++
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n",
			edge.From.String(), edge.To.String(), fmt.Sprintf("%d. %s", rank[edge.From], edge.Label))
	}

	buf.WriteString("}\n")
	return buf.String()
}
