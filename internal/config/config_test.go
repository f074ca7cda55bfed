// # internal/config/config_test.go
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
database_path = "./testdata/callgraph.db"

[query]
max_depth = 6
search_limit = 25

[output]
dot = "paths.dot"
tsv = "conflicts.tsv"

[watch]
debounce = "1s"
exclude = ["*.tmp"]

[metrics]
addr = "127.0.0.1:9999"

[telemetry]
exporter = "stdout"
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DatabasePath != "./testdata/callgraph.db" {
		t.Errorf("Expected DatabasePath ./testdata/callgraph.db, got %s", cfg.DatabasePath)
	}
	if cfg.Query.MaxDepth != 6 {
		t.Errorf("Expected MaxDepth 6, got %d", cfg.Query.MaxDepth)
	}
	if cfg.Query.SearchLimit != 25 {
		t.Errorf("Expected SearchLimit 25, got %d", cfg.Query.SearchLimit)
	}
	if cfg.Output.DOT != "paths.dot" || cfg.Output.TSV != "conflicts.tsv" {
		t.Errorf("Unexpected output config: %+v", cfg.Output)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Metrics.Addr != "127.0.0.1:9999" {
		t.Errorf("Expected metrics addr override, got %s", cfg.Metrics.Addr)
	}
	if cfg.Telemetry.Exporter != "stdout" {
		t.Errorf("Expected telemetry exporter stdout, got %s", cfg.Telemetry.Exporter)
	}
}

func TestLoad_Defaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Query.MaxDepth != 10 {
		t.Errorf("Expected default MaxDepth 10, got %d", cfg.Query.MaxDepth)
	}
	if cfg.Query.SearchLimit != 50 {
		t.Errorf("Expected default SearchLimit 50, got %d", cfg.Query.SearchLimit)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Telemetry.Exporter != "none" {
		t.Errorf("Expected telemetry disabled by default, got %s", cfg.Telemetry.Exporter)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.toml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.DatabasePath == "" || cfg.Metrics.Addr == "" {
		t.Errorf("Default config incomplete: %+v", cfg)
	}
}
