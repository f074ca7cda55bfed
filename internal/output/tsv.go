// # internal/output/tsv.go
package output

import (
	"fmt"
	"strings"

	"modgraph/internal/compat"
	"modgraph/internal/query"
)

type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

func (t *TSVGenerator) GenerateConflicts(conflicts []compat.Conflict) (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tSeverity\tTarget\tMods\tResolution\n")
	for _, c := range conflicts {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%s\n",
			c.Kind,
			c.Severity,
			c.Target,
			strings.Join(c.ModsInvolved, ","),
			c.Resolution,
		))
	}

	return buf.String(), nil
}

func (t *TSVGenerator) GenerateCallRefs(refs []query.CallRef) (string, error) {
	var buf strings.Builder

	buf.WriteString("ID\tMethod\tFile\n")
	for _, r := range refs {
		buf.WriteString(fmt.Sprintf("%d\t%s\t%s\n", r.ID, r.Method, r.File))
	}

	return buf.String(), nil
}

func (t *TSVGenerator) GeneratePaths(paths []query.PathResult) (string, error) {
	var buf strings.Builder

	buf.WriteString("Chain\tDepth\tStep\tMethod\tFile\n")
	for chainIdx, p := range paths {
		for i, name := range p.Chain {
			file := ""
			if i < len(p.Files) {
				file = p.Files[i]
			}
			buf.WriteString(fmt.Sprintf("%d\t%d\t%d\t%s\t%s\n", chainIdx, p.Depth, i, name, file))
		}
	}

	return buf.String(), nil
}
