// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DatabasePath string    `toml:"database_path"`
	Query        Query     `toml:"query"`
	Output       Output    `toml:"output"`
	Watch        Watch     `toml:"watch"`
	Metrics      Metrics   `toml:"metrics"`
	Telemetry    Telemetry `toml:"telemetry"`
}

type Query struct {
	MaxDepth    int `toml:"max_depth"`    // hop budget for all-paths enumeration
	SearchLimit int `toml:"search_limit"` // max FTS hits returned
}

type Output struct {
	DOT string `toml:"dot"`
	TSV string `toml:"tsv"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	Exclude  []string      `toml:"exclude"` // glob patterns for sidecar files to ignore
}

type Metrics struct {
	Addr string `toml:"addr"` // metrics/health listen address for watch mode
}

type Telemetry struct {
	Exporter string `toml:"exporter"` // "otlp", "stdout" or "none"
	Endpoint string `toml:"endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.DatabasePath == "" {
		c.DatabasePath = "./callgraph.db"
	}
	if c.Query.MaxDepth == 0 {
		c.Query.MaxDepth = 10
	}
	if c.Query.SearchLimit == 0 {
		c.Query.SearchLimit = 50
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if len(c.Watch.Exclude) == 0 {
		// SQLite WAL sidecars churn constantly while the extractor writes.
		c.Watch.Exclude = []string{"*-shm"}
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = "127.0.0.1:9190"
	}
	if c.Telemetry.Exporter == "" {
		c.Telemetry.Exporter = "none"
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4317"
	}
}
