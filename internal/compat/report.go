// # internal/compat/report.go
package compat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	patchResolution = "Both mods patch the same method. Test thoroughly for conflicts."
	xmlResolution   = "Multiple mods modify the same XML node. Last-loaded wins."
)

// Source supplies conflict candidates across the whole record corpus.
// Detection is global; filtering to a requested mod set happens afterwards
// in the reporter.
type Source interface {
	PatchCandidates(ctx context.Context) ([]PatchCandidate, error)
	XmlCandidates(ctx context.Context) ([]XmlCandidate, error)
}

// PatchDetailSource optionally enriches direct-patch conflicts with
// per-mod patch records. Sources that cannot provide them simply don't
// implement it.
type PatchDetailSource interface {
	ModPatches(ctx context.Context, modName string) ([]PatchRecord, error)
}

type Reporter struct {
	source Source
}

func NewReporter(source Source) *Reporter {
	return &Reporter{source: source}
}

// CheckCompatibility builds the compatibility report for the requested mod
// set. Each globally detected candidate is intersected against the request;
// only targets with two or more surviving mods become conflicts. A single
// requested mod overlapping with untracked third parties is not a conflict.
func (r *Reporter) CheckCompatibility(ctx context.Context, requestedMods []string) (Report, error) {
	requested := make(map[string]struct{}, len(requestedMods))
	for _, m := range requestedMods {
		requested[m] = struct{}{}
	}

	conflicts := make([]Conflict, 0)

	patchCandidates, err := r.source.PatchCandidates(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load patch candidates: %w", err)
	}
	for _, cand := range patchCandidates {
		involved := intersect(cand.Mods, requested)
		if len(involved) < 2 {
			continue
		}
		target := fmt.Sprintf("%s.%s", cand.TargetType, cand.TargetMethod)
		conflicts = append(conflicts, Conflict{
			Kind:         KindDirectPatch,
			Severity:     SeverityOf(KindDirectPatch),
			Target:       target,
			ModsInvolved: involved,
			Details:      r.patchDetails(ctx, cand, involved),
			Resolution:   patchResolution,
		})
	}

	xmlCandidates, err := r.source.XmlCandidates(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load xml candidates: %w", err)
	}
	for _, cand := range xmlCandidates {
		involved := intersect(cand.Mods, requested)
		if len(involved) < 2 {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Kind:         KindXmlCollision,
			Severity:     SeverityOf(KindXmlCollision),
			Target:       fmt.Sprintf("%s:%s", cand.FileName, cand.XPath),
			ModsInvolved: involved,
			Details:      []Detail{},
			Resolution:   xmlResolution,
		})
	}

	// Indirect behavioral conflicts and load-order suggestions are defined
	// in the model but have no detection algorithm yet; the slots stay
	// empty instead of guessing.

	report := Report{
		ReportID:             uuid.NewString(),
		GeneratedAt:          time.Now().UTC().Format(time.RFC3339),
		Mods:                 append([]string(nil), requestedMods...),
		Conflicts:            conflicts,
		LoadOrderSuggestions: []LoadOrderSuggestion{},
	}
	report.Summary = summarize(report)
	return report, nil
}

// patchDetails pulls the individual patch records behind a conflict when
// the source can provide them. Detail lookup failures degrade to an empty
// list; they never fail the report.
func (r *Reporter) patchDetails(ctx context.Context, cand PatchCandidate, involved []string) []Detail {
	src, ok := r.source.(PatchDetailSource)
	if !ok {
		return []Detail{}
	}

	details := make([]Detail, 0, len(involved))
	for _, mod := range involved {
		patches, err := src.ModPatches(ctx, mod)
		if err != nil {
			slog.Debug("patch detail lookup failed", "mod", mod, "error", err)
			continue
		}
		for _, p := range patches {
			if p.TargetType != cand.TargetType || p.TargetMethod != cand.TargetMethod {
				continue
			}
			info := p.PatchKind
			if p.FilePath != "" {
				info = fmt.Sprintf("%s (%s)", info, p.FilePath)
			}
			details = append(details, Detail{Mod: mod, Info: info})
		}
	}
	return details
}

func intersect(mods []string, requested map[string]struct{}) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		if _, ok := requested[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

func summarize(r Report) Summary {
	s := Summary{TotalConflicts: len(r.Conflicts)}
	for _, c := range r.Conflicts {
		switch c.Severity {
		case SeverityHigh:
			s.HighSeverity++
		case SeverityMedium:
			s.MediumSeverity++
		case SeverityLow:
			s.LowSeverity++
		}
	}
	s.Compatible = r.IsCompatible()
	s.CompatibleWithCaveats = r.IsCompatibleWithCaveats()
	return s
}
