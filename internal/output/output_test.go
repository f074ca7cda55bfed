// # internal/output/output_test.go
package output

import (
	"strings"
	"testing"

	"modgraph/internal/compat"
	"modgraph/internal/query"
)

func TestDOTGenerator(t *testing.T) {
	paths := []query.PathResult{
		{
			Depth: 3,
			Chain: []string{"World.TickEntity(World)", "EntityPlayer.Update()", "EntityZombie.Update()"},
			Files: []string{"World.cs:45", "EntityPlayer.cs:120", "EntityZombie.cs:88"},
		},
		{
			Depth: 2,
			Chain: []string{"World.TickEntity(World)", "EntityZombie.Update()"},
			Files: []string{"World.cs:45", "EntityZombie.cs:88"},
		},
	}

	gen := NewDOTGenerator("TickEntity to Update")
	dot, err := gen.Generate(paths)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(dot, "digraph callchains") {
		t.Error("DOT output missing digraph header")
	}
	if !strings.Contains(dot, "\"World.TickEntity(World)\" -> \"EntityPlayer.Update()\"") {
		t.Error("DOT output missing chain edge")
	}
	if !strings.Contains(dot, "SHORTEST") {
		t.Error("DOT output missing SHORTEST label on shortest chain")
	}
	if strings.Count(dot, "\"World.TickEntity(World)\" [") != 1 {
		t.Error("node emitted more than once across chains")
	}
}

func TestTSVConflicts(t *testing.T) {
	conflicts := []compat.Conflict{
		{
			Kind:         compat.KindDirectPatch,
			Severity:     compat.SeverityHigh,
			Target:       "EntityPlayer.Update",
			ModsInvolved: []string{"ModA", "ModB"},
			Resolution:   "Both mods patch the same method. Test thoroughly for conflicts.",
		},
	}

	gen := NewTSVGenerator()
	tsv, err := gen.GenerateConflicts(conflicts)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(tsv, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Type\tSeverity") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "ModA,ModB") {
		t.Errorf("mods not joined: %q", lines[1])
	}
}

func TestTSVCallRefs(t *testing.T) {
	refs := []query.CallRef{
		{ID: 7, Method: "World.TickEntity(World)", File: "World.cs:45"},
	}

	gen := NewTSVGenerator()
	tsv, err := gen.GenerateCallRefs(refs)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(tsv, "7\tWorld.TickEntity(World)\tWorld.cs:45") {
		t.Errorf("missing call ref row: %q", tsv)
	}
}

func TestTSVPaths(t *testing.T) {
	paths := []query.PathResult{
		{Depth: 2, Chain: []string{"A.f()", "B.g()"}, Files: []string{"A.cs:1", "B.cs:2"}},
	}

	gen := NewTSVGenerator()
	tsv, err := gen.GeneratePaths(paths)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(tsv, "0\t2\t1\tB.g()\tB.cs:2") {
		t.Errorf("missing path row: %q", tsv)
	}
}
