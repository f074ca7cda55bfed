package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"modgraph/internal/compat"
	"modgraph/internal/graph"
)

// MethodRow is the read-only projection of a method used for display.
type MethodRow struct {
	ID         int64
	Name       string
	Signature  string
	ReturnType string
	TypeName   string
	FilePath   string
	LineNumber int
}

// CallSiteRow is one caller/callee relation with its source location.
type CallSiteRow struct {
	Method     MethodRow
	FilePath   string
	LineNumber int
}

// SearchHit is one full-text match inside a method body.
type SearchHit struct {
	Method  MethodRow
	Snippet string
}

// AllCallEdges returns the full edge list for graph construction.
func (s *Store) AllCallEdges(ctx context.Context) ([]graph.CallEdge, error) {
	var rows *sql.Rows
	err := s.withRetry("load call edges", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, `SELECT caller_id, callee_id FROM calls`)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]graph.CallEdge, 0)
	for rows.Next() {
		var e graph.CallEdge
		if err := rows.Scan(&e.CallerID, &e.CalleeID); err != nil {
			return nil, fmt.Errorf("scan call edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate call edges: %w", err)
	}
	return edges, nil
}

// MethodsByName finds methods by exact name or by signature prefix, which
// surfaces every overload of the name.
func (s *Store) MethodsByName(ctx context.Context, name string) ([]MethodRow, error) {
	const q = `
SELECT m.id, m.name, m.signature, m.return_type, t.full_name, m.file_path, m.line_number
FROM methods m
JOIN types t ON m.type_id = t.id
WHERE m.name = ? OR m.signature LIKE ?
ORDER BY t.full_name, m.signature
`
	return s.queryMethods(ctx, "find methods by name", q, name, name+"(%")
}

// MethodSummaries lists every known method. Pattern resolution filters the
// result in memory, which keeps glob semantics out of SQL.
func (s *Store) MethodSummaries(ctx context.Context) ([]MethodRow, error) {
	const q = `
SELECT m.id, m.name, m.signature, m.return_type, t.full_name, m.file_path, m.line_number
FROM methods m
JOIN types t ON m.type_id = t.id
ORDER BY t.full_name, m.signature
`
	return s.queryMethods(ctx, "list method summaries", q)
}

// MethodInfo returns the full projection for one method id, or nil when the
// id is not in the corpus. Absence is expected for framework internals and
// is not an error.
func (s *Store) MethodInfo(ctx context.Context, id int64) (*MethodRow, error) {
	const q = `
SELECT m.id, m.name, m.signature, m.return_type, t.full_name, m.file_path, m.line_number
FROM methods m
JOIN types t ON m.type_id = t.id
WHERE m.id = ?
`
	var row MethodRow
	err := s.withRetry("load method info", func() error {
		return s.db.QueryRowContext(ctx, q, id).Scan(
			&row.ID, &row.Name, &row.Signature, &row.ReturnType,
			&row.TypeName, &row.FilePath, &row.LineNumber,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Callers returns the methods that call the given method.
func (s *Store) Callers(ctx context.Context, methodID int64) ([]CallSiteRow, error) {
	const q = `
SELECT m.id, m.name, m.signature, m.return_type, t.full_name, m.file_path, m.line_number,
       c.file_path, c.line_number
FROM calls c
JOIN methods m ON c.caller_id = m.id
JOIN types t ON m.type_id = t.id
WHERE c.callee_id = ?
ORDER BY t.full_name, m.signature
`
	return s.queryCallSites(ctx, "load callers", q, methodID)
}

// Callees returns the methods called by the given method.
func (s *Store) Callees(ctx context.Context, methodID int64) ([]CallSiteRow, error) {
	const q = `
SELECT m.id, m.name, m.signature, m.return_type, t.full_name, m.file_path, m.line_number,
       c.file_path, c.line_number
FROM calls c
JOIN methods m ON c.callee_id = m.id
JOIN types t ON m.type_id = t.id
WHERE c.caller_id = ?
ORDER BY t.full_name, m.signature
`
	return s.queryCallSites(ctx, "load callees", q, methodID)
}

// SearchMethodBodies runs an FTS5 MATCH over indexed method bodies.
func (s *Store) SearchMethodBodies(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	const q = `
SELECT m.id, m.name, m.signature, m.return_type, t.full_name, m.file_path, m.line_number,
       snippet(method_bodies, 1, '>>>', '<<<', '...', 32)
FROM method_bodies
JOIN methods m ON method_bodies.method_id = m.id
JOIN types t ON m.type_id = t.id
WHERE method_bodies MATCH ?
LIMIT ?
`
	var rows *sql.Rows
	err := s.withRetry("search method bodies", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, q, query, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := make([]SearchHit, 0)
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(
			&h.Method.ID, &h.Method.Name, &h.Method.Signature, &h.Method.ReturnType,
			&h.Method.TypeName, &h.Method.FilePath, &h.Method.LineNumber, &h.Snippet,
		); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search hits: %w", err)
	}
	return hits, nil
}

// PatchCandidates returns methods patched by two or more distinct mods,
// grouped in SQL the way the extractor's consumers expect. Implements
// compat.Source.
func (s *Store) PatchCandidates(ctx context.Context) ([]compat.PatchCandidate, error) {
	const q = `
SELECT target_type, target_method, GROUP_CONCAT(DISTINCT mod_name)
FROM harmony_patches
GROUP BY target_type, target_method
HAVING COUNT(DISTINCT mod_name) > 1
ORDER BY target_type, target_method
`
	var rows *sql.Rows
	err := s.withRetry("load patch candidates", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, q)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]compat.PatchCandidate, 0)
	for rows.Next() {
		var c compat.PatchCandidate
		var mods string
		if err := rows.Scan(&c.TargetType, &c.TargetMethod, &mods); err != nil {
			return nil, fmt.Errorf("scan patch candidate: %w", err)
		}
		c.Mods = splitMods(mods)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patch candidates: %w", err)
	}
	return candidates, nil
}

// XmlCandidates returns XML nodes modified by two or more distinct mods.
// Implements compat.Source.
func (s *Store) XmlCandidates(ctx context.Context) ([]compat.XmlCandidate, error) {
	const q = `
SELECT file_name, xpath, GROUP_CONCAT(DISTINCT mod_name)
FROM xml_changes
GROUP BY file_name, xpath
HAVING COUNT(DISTINCT mod_name) > 1
ORDER BY file_name, xpath
`
	var rows *sql.Rows
	err := s.withRetry("load xml candidates", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, q)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]compat.XmlCandidate, 0)
	for rows.Next() {
		var c compat.XmlCandidate
		var mods string
		if err := rows.Scan(&c.FileName, &c.XPath, &mods); err != nil {
			return nil, fmt.Errorf("scan xml candidate: %w", err)
		}
		c.Mods = splitMods(mods)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate xml candidates: %w", err)
	}
	return candidates, nil
}

// ModPatches returns every patch a mod applies. Implements
// compat.PatchDetailSource.
func (s *Store) ModPatches(ctx context.Context, modName string) ([]compat.PatchRecord, error) {
	const q = `
SELECT mod_name, target_type, target_method, patch_type, file_path
FROM harmony_patches
WHERE mod_name = ?
ORDER BY target_type, target_method, patch_type
`
	var rows *sql.Rows
	err := s.withRetry("load mod patches", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, q, modName)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]compat.PatchRecord, 0)
	for rows.Next() {
		var r compat.PatchRecord
		if err := rows.Scan(&r.ModName, &r.TargetType, &r.TargetMethod, &r.PatchKind, &r.FilePath); err != nil {
			return nil, fmt.Errorf("scan patch record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patch records: %w", err)
	}
	return records, nil
}

// ModXmlChanges returns every XML change a mod applies.
func (s *Store) ModXmlChanges(ctx context.Context, modName string) ([]compat.XmlChangeRecord, error) {
	const q = `
SELECT mod_name, file_name, xpath, change_type
FROM xml_changes
WHERE mod_name = ?
ORDER BY file_name, xpath
`
	var rows *sql.Rows
	err := s.withRetry("load mod xml changes", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, q, modName)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]compat.XmlChangeRecord, 0)
	for rows.Next() {
		var r compat.XmlChangeRecord
		if err := rows.Scan(&r.ModName, &r.FileName, &r.XPath, &r.ChangeKind); err != nil {
			return nil, fmt.Errorf("scan xml change record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate xml change records: %w", err)
	}
	return records, nil
}

func (s *Store) queryMethods(ctx context.Context, op, q string, args ...any) ([]MethodRow, error) {
	var rows *sql.Rows
	err := s.withRetry(op, func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, q, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	methods := make([]MethodRow, 0)
	for rows.Next() {
		var m MethodRow
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Signature, &m.ReturnType,
			&m.TypeName, &m.FilePath, &m.LineNumber,
		); err != nil {
			return nil, fmt.Errorf("scan method row: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate method rows: %w", err)
	}
	return methods, nil
}

func (s *Store) queryCallSites(ctx context.Context, op, q string, args ...any) ([]CallSiteRow, error) {
	var rows *sql.Rows
	err := s.withRetry(op, func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, q, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := make([]CallSiteRow, 0)
	for rows.Next() {
		var c CallSiteRow
		if err := rows.Scan(
			&c.Method.ID, &c.Method.Name, &c.Method.Signature, &c.Method.ReturnType,
			&c.Method.TypeName, &c.Method.FilePath, &c.Method.LineNumber,
			&c.FilePath, &c.LineNumber,
		); err != nil {
			return nil, fmt.Errorf("scan call site: %w", err)
		}
		sites = append(sites, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate call sites: %w", err)
	}
	return sites, nil
}

func splitMods(concat string) []string {
	parts := strings.Split(concat, ",")
	set := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			set[p] = struct{}{}
		}
	}
	mods := make([]string, 0, len(set))
	for m := range set {
		mods = append(mods, m)
	}
	sort.Strings(mods)
	return mods
}
