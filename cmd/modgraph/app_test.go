// # cmd/modgraph/app_test.go
package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"modgraph/internal/config"
	"modgraph/internal/store"
)

func fixtureDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "callgraph.db")

	s, err := store.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		`INSERT INTO types (id, full_name) VALUES (1, 'World'), (2, 'EntityPlayer'), (3, 'EntityZombie')`,
		`INSERT INTO methods (id, type_id, name, signature, return_type, file_path, line_number) VALUES
		   (1, 1, 'TickEntity', 'TickEntity(World)', 'void', 'World.cs', 45),
		   (2, 2, 'Update', 'Update()', 'void', 'EntityPlayer.cs', 120),
		   (3, 3, 'Update', 'Update()', 'void', 'EntityZombie.cs', 88)`,
		`INSERT INTO calls (caller_id, callee_id, file_path, line_number) VALUES
		   (1, 2, 'World.cs', 47),
		   (2, 3, 'EntityPlayer.cs', 130),
		   (1, 3, 'World.cs', 52)`,
		`INSERT INTO harmony_patches (mod_name, target_type, target_method, patch_type, file_path) VALUES
		   ('ModA', 'EntityPlayer', 'Update', 'Prefix', 'ModA/Patches.cs'),
		   ('ModB', 'EntityPlayer', 'Update', 'Postfix', 'ModB/Patches.cs')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed %q: %v", stmt, err)
		}
	}
	return path
}

func fixtureApp(t *testing.T, jsonOut bool) *App {
	t.Helper()
	cfg := config.Default()
	cfg.DatabasePath = fixtureDB(t)

	app, err := NewApp(context.Background(), cfg, jsonOut)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestApp_BuildsGraphOnStartup(t *testing.T) {
	app := fixtureApp(t, false)

	g := app.Graphs.Get()
	if g == nil {
		t.Fatal("graph not published after startup")
	}
	if g.VertexCount() != 3 {
		t.Errorf("vertices = %d, want 3", g.VertexCount())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("edges = %d, want 3", g.EdgeCount())
	}
}

func TestApp_ResolveOne(t *testing.T) {
	app := fixtureApp(t, false)
	ctx := context.Background()

	m, err := app.resolveOne(ctx, "World.TickEntity")
	if err != nil {
		t.Fatalf("resolveOne: %v", err)
	}
	if m.ID != 1 {
		t.Errorf("id = %d, want 1", m.ID)
	}

	if _, err := app.resolveOne(ctx, "NoSuchMethod"); err == nil {
		t.Error("expected not-found error")
	}

	// Two types define Update; the reference must not silently pick one.
	if _, err := app.resolveOne(ctx, "Update"); err == nil {
		t.Error("expected ambiguity error")
	}
}

func TestApp_RunChain(t *testing.T) {
	app := fixtureApp(t, false)

	if err := app.Run(context.Background(), "chain", []string{"1", "3"}); err != nil {
		t.Fatalf("chain: %v", err)
	}
}

func TestApp_RunChain_NoPath(t *testing.T) {
	app := fixtureApp(t, false)

	err := app.Run(context.Background(), "chain", []string{"3", "1"})
	if err == nil {
		t.Fatal("expected error for unreachable target")
	}
	if !strings.Contains(err.Error(), "no call chain") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestApp_RunCompat(t *testing.T) {
	app := fixtureApp(t, false)

	if err := app.Run(context.Background(), "compat", []string{"ModA", "ModB"}); err != nil {
		t.Fatalf("compat: %v", err)
	}
}

func TestApp_RunUnknownCommand(t *testing.T) {
	app := fixtureApp(t, false)

	if err := app.Run(context.Background(), "bogus", nil); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestApp_WritesPathOutputs(t *testing.T) {
	app := fixtureApp(t, false)
	tmpDir := t.TempDir()
	app.Config.Output.DOT = filepath.Join(tmpDir, "chains.dot")
	app.Config.Output.TSV = filepath.Join(tmpDir, "chains.tsv")

	if err := app.Run(context.Background(), "paths", []string{"1", "3"}); err != nil {
		t.Fatalf("paths: %v", err)
	}

	dot, err := os.ReadFile(app.Config.Output.DOT)
	if err != nil {
		t.Fatal("DOT file was not generated")
	}
	if !strings.Contains(string(dot), "digraph callchains") {
		t.Errorf("unexpected DOT contents: %s", dot)
	}
	if _, err := os.Stat(app.Config.Output.TSV); os.IsNotExist(err) {
		t.Error("TSV file was not generated")
	}
}

func TestApp_RebuildPicksUpNewEdges(t *testing.T) {
	app := fixtureApp(t, false)

	db, err := sql.Open("sqlite", app.Config.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(`INSERT INTO calls (caller_id, callee_id, file_path, line_number) VALUES (3, 1, 'EntityZombie.cs', 90)`); err != nil {
		t.Fatal(err)
	}

	if err := app.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if got := app.Graphs.Get().EdgeCount(); got != 4 {
		t.Errorf("edges after rebuild = %d, want 4", got)
	}
}
