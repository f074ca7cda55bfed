// # internal/output/dot.go
package output

import (
	"fmt"
	"strings"

	"modgraph/internal/query"
)

type DOTGenerator struct {
	title string
}

func NewDOTGenerator(title string) *DOTGenerator {
	return &DOTGenerator{title: title}
}

// Generate renders caller chains as a directed graph. Edges shared by
// more than one chain are emitted once; the shortest chain is highlighted.
func (d *DOTGenerator) Generate(paths []query.PathResult) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph callchains {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	if d.title != "" {
		buf.WriteString(fmt.Sprintf("  label=%q;\n", d.title))
		buf.WriteString("  labelloc=t;\n")
	}
	buf.WriteString("\n")

	shortest := -1
	for i, p := range paths {
		if shortest < 0 || p.Depth < paths[shortest].Depth {
			shortest = i
		}
	}

	// Highlight edges on the shortest chain
	hot := make(map[string]map[string]bool)
	if shortest >= 0 {
		chain := paths[shortest].Chain
		for i := 1; i < len(chain); i++ {
			from, to := chain[i-1], chain[i]
			if hot[from] == nil {
				hot[from] = make(map[string]bool)
			}
			hot[from][to] = true
		}
	}

	seenNode := make(map[string]bool)
	seenEdge := make(map[string]map[string]bool)

	for _, p := range paths {
		for i, name := range p.Chain {
			if !seenNode[name] {
				seenNode[name] = true
				file := ""
				if i < len(p.Files) {
					file = p.Files[i]
				}
				buf.WriteString(fmt.Sprintf("  %q [tooltip=%q];\n", name, file))
			}
		}
		for i := 1; i < len(p.Chain); i++ {
			from, to := p.Chain[i-1], p.Chain[i]
			if seenEdge[from] == nil {
				seenEdge[from] = make(map[string]bool)
			}
			if seenEdge[from][to] {
				continue
			}
			seenEdge[from][to] = true
			if hot[from][to] {
				buf.WriteString(fmt.Sprintf("  %q -> %q [color=red, penwidth=2.0, label=\"SHORTEST\"];\n", from, to))
			} else {
				buf.WriteString(fmt.Sprintf("  %q -> %q;\n", from, to))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}
