package query

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"github.com/prometheus/client_golang/prometheus"

	apperr "modgraph/internal/errors"
	"modgraph/internal/graph"
	"modgraph/internal/observability"
	"modgraph/internal/store"
)

const unknownLocation = "unknown"

// methodReader is the slice of the store the service needs; tests stub it.
type methodReader interface {
	MethodInfo(ctx context.Context, id int64) (*store.MethodRow, error)
	MethodsByName(ctx context.Context, name string) ([]store.MethodRow, error)
	MethodSummaries(ctx context.Context) ([]store.MethodRow, error)
	Callers(ctx context.Context, methodID int64) ([]store.CallSiteRow, error)
	Callees(ctx context.Context, methodID int64) ([]store.CallSiteRow, error)
	SearchMethodBodies(ctx context.Context, query string, limit int) ([]store.SearchHit, error)
}

// Service answers graph and store queries against the currently published
// graph. Queries are read-only; any number may run concurrently against the
// same graph instance.
type Service struct {
	graphs      *graph.Holder
	store       methodReader
	maxDepth    int
	searchLimit int
}

func NewService(graphs *graph.Holder, reader methodReader, maxDepth, searchLimit int) *Service {
	if maxDepth <= 0 {
		maxDepth = graph.DefaultMaxDepth
	}
	if searchLimit <= 0 {
		searchLimit = 50
	}
	return &Service{
		graphs:      graphs,
		store:       reader,
		maxDepth:    maxDepth,
		searchLimit: searchLimit,
	}
}

// ResolveMethod maps a method reference to concrete method ids. A reference
// is a numeric id, an exact name (optionally "Type.Name"), or a glob
// pattern over "Type.Name". Ambiguity is the caller's to resolve: every
// match is returned, never a guess.
func (s *Service) ResolveMethod(ctx context.Context, ref string) ([]MethodSummary, error) {
	ctx, span := observability.Tracer.Start(ctx, "query.ResolveMethod")
	defer span.End()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperr.New(apperr.CodeValidationError, "method reference must not be empty")
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		row, err := s.store.MethodInfo(ctx, id)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.CodeStorage, "load method info")
		}
		if row == nil {
			return []MethodSummary{}, nil
		}
		return []MethodSummary{summaryOf(*row)}, nil
	}

	if strings.ContainsAny(ref, "*?[{") {
		return s.resolvePattern(ctx, ref)
	}

	name := ref
	typeName := ""
	if i := strings.LastIndex(ref, "."); i > 0 {
		typeName, name = ref[:i], ref[i+1:]
	}

	rows, err := s.store.MethodsByName(ctx, name)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeStorage, "find methods by name")
	}

	out := make([]MethodSummary, 0, len(rows))
	for _, row := range rows {
		if typeName != "" && row.TypeName != typeName {
			continue
		}
		out = append(out, summaryOf(row))
	}
	return out, nil
}

func (s *Service) resolvePattern(ctx context.Context, pattern string) ([]MethodSummary, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeValidationError, fmt.Sprintf("bad method pattern %q", pattern))
	}

	rows, err := s.store.MethodSummaries(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeStorage, "list method summaries")
	}

	out := make([]MethodSummary, 0)
	for _, row := range rows {
		if g.Match(fmt.Sprintf("%s.%s", row.TypeName, row.Name)) {
			out = append(out, summaryOf(row))
		}
	}
	return out, nil
}

// Chain returns the shortest caller chain between two methods. The second
// result is false when no path exists; an id outside the graph is just
// another way of having no path.
func (s *Service) Chain(ctx context.Context, fromID, toID int64) (PathResult, bool, error) {
	ctx, span := observability.Tracer.Start(ctx, "query.Chain")
	defer span.End()
	timer := queryTimer("chain")
	defer timer.ObserveDuration()
	if err := ctx.Err(); err != nil {
		return PathResult{}, false, err
	}

	g := s.graphs.Get()
	if g == nil {
		return PathResult{}, false, apperr.New(apperr.CodeInternal, "call graph not loaded")
	}

	path, ok := g.ShortestPath(fromID, toID)
	if !ok {
		return PathResult{}, false, nil
	}
	result, err := s.buildPathResult(ctx, path)
	return result, err == nil, err
}

// Chains enumerates every caller chain between two methods within the hop
// budget (the service default when maxDepth <= 0). The enumeration cost
// grows exponentially with depth; keep budgets conservative on dense graphs
// or bound the call with a context deadline.
func (s *Service) Chains(ctx context.Context, fromID, toID int64, maxDepth int) ([]PathResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "query.Chains")
	defer span.End()
	timer := queryTimer("chains")
	defer timer.ObserveDuration()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g := s.graphs.Get()
	if g == nil {
		return nil, apperr.New(apperr.CodeInternal, "call graph not loaded")
	}
	if maxDepth <= 0 {
		maxDepth = s.maxDepth
	}

	paths := g.AllPaths(fromID, toID, maxDepth)
	observability.PathsEnumerated.Observe(float64(len(paths)))

	results := make([]PathResult, 0, len(paths))
	for _, path := range paths {
		r, err := s.buildPathResult(ctx, path)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Reachable computes the forward closure from a method, or the backward
// closure onto it. An id absent from the graph yields an empty result: no
// calls involve that method.
func (s *Service) Reachable(ctx context.Context, id int64, backward bool) (ReachResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "query.Reachable")
	defer span.End()
	timer := queryTimer("reachable")
	defer timer.ObserveDuration()
	if err := ctx.Err(); err != nil {
		return ReachResult{}, err
	}

	g := s.graphs.Get()
	if g == nil {
		return ReachResult{}, apperr.New(apperr.CodeInternal, "call graph not loaded")
	}

	var set map[int64]struct{}
	if backward {
		set = g.BackwardReachable(id)
	} else {
		set = g.ForwardReachable(id)
	}

	ids := make([]int64, 0, len(set))
	for mid := range set {
		ids = append(ids, mid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ReachResult{
		Seed:      id,
		Backward:  backward,
		Count:     len(ids),
		MethodIDs: ids,
	}, nil
}

// Callers lists the direct callers of a method.
func (s *Service) Callers(ctx context.Context, methodID int64) ([]CallRef, error) {
	ctx, span := observability.Tracer.Start(ctx, "query.Callers")
	defer span.End()
	timer := queryTimer("callers")
	defer timer.ObserveDuration()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.store.Callers(ctx, methodID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeStorage, "load callers")
	}
	return callRefs(rows), nil
}

// Callees lists the methods a method calls directly.
func (s *Service) Callees(ctx context.Context, methodID int64) ([]CallRef, error) {
	ctx, span := observability.Tracer.Start(ctx, "query.Callees")
	defer span.End()
	timer := queryTimer("callees")
	defer timer.ObserveDuration()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.store.Callees(ctx, methodID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeStorage, "load callees")
	}
	return callRefs(rows), nil
}

// Search runs a full-text query over indexed method bodies.
func (s *Service) Search(ctx context.Context, text string) ([]SearchResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "query.Search")
	defer span.End()
	timer := queryTimer("search")
	defer timer.ObserveDuration()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperr.New(apperr.CodeValidationError, "search query must not be empty")
	}

	hits, err := s.store.SearchMethodBodies(ctx, text, s.searchLimit)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeStorage, "search method bodies")
	}

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, SearchResult{
			ID:      h.Method.ID,
			Method:  fmt.Sprintf("%s.%s", h.Method.TypeName, h.Method.Signature),
			File:    locationOf(h.Method),
			Snippet: h.Snippet,
		})
	}
	return results, nil
}

// buildPathResult resolves every method id on a path to its display form.
// Missing metadata renders as "unknown" rather than failing the query:
// edges routinely reference methods outside the indexed corpus.
func (s *Service) buildPathResult(ctx context.Context, path []int64) (PathResult, error) {
	chain := make([]string, 0, len(path))
	files := make([]string, 0, len(path))

	for _, id := range path {
		info, err := s.store.MethodInfo(ctx, id)
		if err != nil {
			return PathResult{}, apperr.Wrap(err, apperr.CodeStorage, "load method info")
		}
		if info == nil {
			slog.Debug("method metadata missing for path entry", "method_id", id)
			chain = append(chain, unknownLocation)
			files = append(files, unknownLocation)
			continue
		}
		chain = append(chain, fmt.Sprintf("%s.%s", info.TypeName, info.Signature))
		files = append(files, locationOf(*info))
	}

	return PathResult{
		Depth: len(path),
		Chain: chain,
		Files: files,
	}, nil
}

func callRefs(rows []store.CallSiteRow) []CallRef {
	refs := make([]CallRef, 0, len(rows))
	for _, row := range rows {
		file := unknownLocation
		if row.FilePath != "" {
			file = fmt.Sprintf("%s:%d", row.FilePath, row.LineNumber)
		}
		refs = append(refs, CallRef{
			ID:     row.Method.ID,
			Method: fmt.Sprintf("%s.%s", row.Method.TypeName, row.Method.Signature),
			File:   file,
		})
	}
	return refs
}

func summaryOf(row store.MethodRow) MethodSummary {
	return MethodSummary{
		ID:     row.ID,
		Method: fmt.Sprintf("%s.%s", row.TypeName, row.Signature),
		File:   locationOf(row),
	}
}

func locationOf(row store.MethodRow) string {
	if row.FilePath == "" {
		return unknownLocation
	}
	return fmt.Sprintf("%s:%d", row.FilePath, row.LineNumber)
}

func queryTimer(operation string) *prometheus.Timer {
	return prometheus.NewTimer(observability.QueryDuration.WithLabelValues(operation))
}
