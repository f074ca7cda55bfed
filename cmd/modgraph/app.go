// # cmd/modgraph/app.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"modgraph/internal/compat"
	"modgraph/internal/config"
	apperr "modgraph/internal/errors"
	"modgraph/internal/graph"
	"modgraph/internal/observability"
	"modgraph/internal/output"
	"modgraph/internal/query"
	"modgraph/internal/store"
	"modgraph/internal/watcher"
)

type App struct {
	Config   *config.Config
	Store    *store.Store
	Graphs   *graph.Holder
	Query    *query.Service
	Reporter *compat.Reporter
	jsonOut  bool
}

func NewApp(ctx context.Context, cfg *config.Config, jsonOut bool) (*App, error) {
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Store:    st,
		Graphs:   graph.NewHolder(nil),
		Reporter: compat.NewReporter(st),
		jsonOut:  jsonOut,
	}
	a.Query = query.NewService(a.Graphs, st, cfg.Query.MaxDepth, cfg.Query.SearchLimit)

	if err := a.Rebuild(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return a, nil
}

// Rebuild loads the edge list and atomically publishes a fresh graph.
// In-flight queries keep the graph they started on.
func (a *App) Rebuild(ctx context.Context) error {
	timer := prometheus.NewTimer(observability.GraphBuildDuration)
	defer timer.ObserveDuration()

	edges, err := a.Store.AllCallEdges(ctx)
	if err != nil {
		return apperr.Wrap(err, apperr.CodeStorage, "load call edges")
	}

	g := graph.Build(edges)
	a.Graphs.Swap(g)

	observability.GraphVertices.Set(float64(g.VertexCount()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))
	observability.GraphRebuildsTotal.Inc()

	slog.Info("call graph built",
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"database", a.Config.DatabasePath,
	)
	return nil
}

func (a *App) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "callers":
		return a.runCallSites(ctx, args, true)
	case "callees":
		return a.runCallSites(ctx, args, false)
	case "chain":
		return a.runChain(ctx, args)
	case "paths":
		return a.runPaths(ctx, args)
	case "reach":
		return a.runReach(ctx, args, false)
	case "rdeps":
		return a.runReach(ctx, args, true)
	case "search":
		return a.runSearch(ctx, args)
	case "compat":
		return a.runCompat(ctx, args)
	default:
		return fmt.Errorf("unknown command %q (run with no arguments for usage)", command)
	}
}

// resolveOne pins a method reference to exactly one id. Zero matches is
// NOT_FOUND; several matches is AMBIGUOUS, with the candidates printed so
// the user can retry with an id.
func (a *App) resolveOne(ctx context.Context, ref string) (query.MethodSummary, error) {
	matches, err := a.Query.ResolveMethod(ctx, ref)
	if err != nil {
		return query.MethodSummary{}, err
	}
	switch len(matches) {
	case 0:
		return query.MethodSummary{}, apperr.New(apperr.CodeNotFound, fmt.Sprintf("no method matches %q", ref))
	case 1:
		return matches[0], nil
	default:
		fmt.Fprintf(os.Stderr, "%q matches %d methods:\n", ref, len(matches))
		for _, m := range matches {
			fmt.Fprintf(os.Stderr, "  %d\t%s\t%s\n", m.ID, m.Method, m.File)
		}
		return query.MethodSummary{}, apperr.New(apperr.CodeAmbiguous, fmt.Sprintf("%q is ambiguous, use a numeric id", ref))
	}
}

func (a *App) runCallSites(ctx context.Context, args []string, callers bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: modgraph %s <method>", map[bool]string{true: "callers", false: "callees"}[callers])
	}
	m, err := a.resolveOne(ctx, args[0])
	if err != nil {
		return err
	}

	var refs []query.CallRef
	if callers {
		refs, err = a.Query.Callers(ctx, m.ID)
	} else {
		refs, err = a.Query.Callees(ctx, m.ID)
	}
	if err != nil {
		return err
	}

	if a.jsonOut {
		return printJSON(refs)
	}
	if len(refs) == 0 {
		fmt.Printf("no results for %s\n", m.Method)
		return nil
	}
	for _, r := range refs {
		fmt.Printf("%d\t%s\t%s\n", r.ID, r.Method, r.File)
	}
	if a.Config.Output.TSV != "" {
		tsv, err := output.NewTSVGenerator().GenerateCallRefs(refs)
		if err != nil {
			return err
		}
		return os.WriteFile(a.Config.Output.TSV, []byte(tsv), 0644)
	}
	return nil
}

func (a *App) runChain(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: modgraph chain <from> <to>")
	}
	from, err := a.resolveOne(ctx, args[0])
	if err != nil {
		return err
	}
	to, err := a.resolveOne(ctx, args[1])
	if err != nil {
		return err
	}

	result, ok, err := a.Query.Chain(ctx, from.ID, to.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no call chain from %s to %s", from.Method, to.Method)
	}

	if a.jsonOut {
		return printJSON(result)
	}
	printPath(result)
	return a.writePathOutputs([]query.PathResult{result}, fmt.Sprintf("%s to %s", from.Method, to.Method))
}

func (a *App) runPaths(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: modgraph paths <from> <to>")
	}
	from, err := a.resolveOne(ctx, args[0])
	if err != nil {
		return err
	}
	to, err := a.resolveOne(ctx, args[1])
	if err != nil {
		return err
	}

	results, err := a.Query.Chains(ctx, from.ID, to.ID, a.Config.Query.MaxDepth)
	if err != nil {
		return err
	}

	if a.jsonOut {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Printf("no call chains from %s to %s within %d hops\n", from.Method, to.Method, a.Config.Query.MaxDepth)
		return nil
	}
	fmt.Printf("%d chains from %s to %s\n", len(results), from.Method, to.Method)
	for i, r := range results {
		fmt.Printf("\n[%d] depth %d\n", i+1, r.Depth)
		printPath(r)
	}
	return a.writePathOutputs(results, fmt.Sprintf("%s to %s", from.Method, to.Method))
}

func (a *App) runReach(ctx context.Context, args []string, backward bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: modgraph %s <method>", map[bool]string{true: "rdeps", false: "reach"}[backward])
	}
	m, err := a.resolveOne(ctx, args[0])
	if err != nil {
		return err
	}

	result, err := a.Query.Reachable(ctx, m.ID, backward)
	if err != nil {
		return err
	}

	if a.jsonOut {
		return printJSON(result)
	}
	direction := "reachable from"
	if backward {
		direction = "able to reach"
	}
	fmt.Printf("%d methods %s %s\n", result.Count, direction, m.Method)
	for _, id := range result.MethodIDs {
		fmt.Println(id)
	}
	return nil
}

func (a *App) runSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: modgraph search <text>")
	}
	text := strings.Join(args, " ")

	hits, err := a.Query.Search(ctx, text)
	if err != nil {
		return err
	}

	if a.jsonOut {
		return printJSON(hits)
	}
	if len(hits) == 0 {
		fmt.Printf("no method bodies match %q\n", text)
		return nil
	}
	for _, h := range hits {
		fmt.Printf("%d\t%s\t%s\n\t%s\n", h.ID, h.Method, h.File, h.Snippet)
	}
	return nil
}

func (a *App) runCompat(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: modgraph compat <mod> <mod> [mod ...]")
	}

	report, err := a.Reporter.CheckCompatibility(ctx, args)
	if err != nil {
		return err
	}
	for _, c := range report.Conflicts {
		observability.ConflictsDetected.WithLabelValues(string(c.Kind)).Inc()
	}

	if a.jsonOut {
		return printJSON(report)
	}
	printCompatReport(report)

	if a.Config.Output.TSV != "" && len(report.Conflicts) > 0 {
		tsv, err := output.NewTSVGenerator().GenerateConflicts(report.Conflicts)
		if err != nil {
			return err
		}
		return os.WriteFile(a.Config.Output.TSV, []byte(tsv), 0644)
	}
	return nil
}

// RunWatch serves metrics and health, and rebuilds the graph whenever the
// extractor rewrites the database. Blocks until the context is cancelled.
func (a *App) RunWatch(ctx context.Context) error {
	shutdown, err := observability.InitTracing(ctx, a.Config.Telemetry.Exporter, a.Config.Telemetry.Endpoint, VERSION)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	srv := observability.NewServer(a.Config.Metrics.Addr, func(ctx context.Context) observability.HealthStatus {
		status := observability.HealthStatus{Status: "up", Database: a.Config.DatabasePath}
		if g := a.Graphs.Get(); g != nil {
			status.GraphVertices = g.VertexCount()
			status.GraphEdges = g.EdgeCount()
		} else {
			status.Status = "degraded"
		}
		return status
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Stop(context.Background())

	w, err := watcher.NewWatcher(a.Config.DatabasePath, a.Config.Watch.Debounce, a.Config.Watch.Exclude, func() {
		if err := a.Rebuild(context.Background()); err != nil {
			slog.Error("graph rebuild failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		return err
	}

	slog.Info("watching database", "path", a.Config.DatabasePath, "metrics", a.Config.Metrics.Addr)
	<-ctx.Done()
	return nil
}

func (a *App) Close() error {
	return a.Store.Close()
}

func (a *App) writePathOutputs(paths []query.PathResult, title string) error {
	if a.Config.Output.DOT != "" {
		dot, err := output.NewDOTGenerator(title).Generate(paths)
		if err != nil {
			return err
		}
		if err := os.WriteFile(a.Config.Output.DOT, []byte(dot), 0644); err != nil {
			return err
		}
	}
	if a.Config.Output.TSV != "" {
		tsv, err := output.NewTSVGenerator().GeneratePaths(paths)
		if err != nil {
			return err
		}
		if err := os.WriteFile(a.Config.Output.TSV, []byte(tsv), 0644); err != nil {
			return err
		}
	}
	return nil
}

func printPath(r query.PathResult) {
	for i, step := range r.Chain {
		file := ""
		if i < len(r.Files) {
			file = r.Files[i]
		}
		indent := strings.Repeat("  ", i)
		fmt.Printf("%s%s  (%s)\n", indent, step, file)
	}
}

func printCompatReport(r compat.Report) {
	fmt.Printf("Compatibility report %s\n", r.ReportID)
	fmt.Printf("Mods: %s\n", strings.Join(r.Mods, ", "))
	fmt.Println(strings.Repeat("-", 40))

	if r.Summary.Compatible {
		fmt.Println("✅ No conflicts detected.")
		return
	}

	fmt.Printf("⚠️  %d conflicts (%d high, %d medium, %d low)\n",
		r.Summary.TotalConflicts, r.Summary.HighSeverity, r.Summary.MediumSeverity, r.Summary.LowSeverity)
	if r.Summary.CompatibleWithCaveats {
		fmt.Println("Compatible with caveats: nothing is high severity.")
	}

	for _, c := range r.Conflicts {
		fmt.Printf("\n[%s/%s] %s\n", c.Kind, c.Severity, c.Target)
		fmt.Printf("  mods: %s\n", strings.Join(c.ModsInvolved, ", "))
		for _, d := range c.Details {
			fmt.Printf("  %s: %s\n", d.Mod, d.Info)
		}
		fmt.Printf("  %s\n", c.Resolution)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
