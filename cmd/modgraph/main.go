// # cmd/modgraph/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"modgraph/internal/config"
)

var (
	configPath = flag.String("config", "./modgraph.toml", "Path to config file")
	dbPath     = flag.String("db", "", "Path to analysis database (overrides config)")
	depth      = flag.Int("depth", 0, "Hop budget for paths enumeration (overrides config)")
	jsonOut    = flag.Bool("json", false, "Emit JSON instead of text")
	watch      = flag.Bool("watch", false, "Keep running and rebuild the graph when the database changes")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

const usage = `usage: modgraph [flags] <command> [args]

commands:
  callers <method>          direct callers of a method
  callees <method>          methods a method calls
  chain <from> <to>         shortest caller chain between two methods
  paths <from> <to>         all caller chains within the hop budget
  reach <method>            everything reachable from a method
  rdeps <method>            everything that can reach a method
  search <text>             full-text search over method bodies
  compat <mod> <mod> ...    compatibility report for a set of mods

a <method> is a numeric id, a name, "Type.Name", or a glob like "Entity*.Update"
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Printf("modgraph v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath != "./modgraph.toml" {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		// No config file is fine for one-shot queries.
		cfg = config.Default()
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *depth > 0 {
		cfg.Query.MaxDepth = *depth
	}

	if flag.NArg() == 0 && !*watch {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, *jsonOut)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if flag.NArg() > 0 {
		if err := app.Run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	}

	if *watch {
		if err := app.RunWatch(ctx); err != nil {
			slog.Error("watch mode failed", "error", err)
			os.Exit(1)
		}
	}
}
