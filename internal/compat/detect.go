// # internal/compat/detect.go
package compat

import "sort"

// DetectPatchConflicts groups patch records by their exact (type, method)
// target and keeps the targets patched by at least two distinct mods. Key
// equality is exact case-sensitive string match; groups with a single mod
// are dropped silently. Output ordering is deterministic regardless of the
// input record order: candidates sort by target key, mod lists sort by name.
func DetectPatchConflicts(records []PatchRecord) []PatchCandidate {
	type key struct{ typ, method string }

	groups := make(map[key]map[string]struct{})
	for _, r := range records {
		k := key{r.TargetType, r.TargetMethod}
		if groups[k] == nil {
			groups[k] = make(map[string]struct{})
		}
		groups[k][r.ModName] = struct{}{}
	}

	candidates := make([]PatchCandidate, 0)
	for k, mods := range groups {
		if len(mods) < 2 {
			continue
		}
		candidates = append(candidates, PatchCandidate{
			TargetType:   k.typ,
			TargetMethod: k.method,
			Mods:         sortedMods(mods),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].TargetType == candidates[j].TargetType {
			return candidates[i].TargetMethod < candidates[j].TargetMethod
		}
		return candidates[i].TargetType < candidates[j].TargetType
	})
	return candidates
}

// DetectXmlConflicts is the XML counterpart of DetectPatchConflicts,
// grouping by the exact (file, xpath) node locator.
func DetectXmlConflicts(records []XmlChangeRecord) []XmlCandidate {
	type key struct{ file, xpath string }

	groups := make(map[key]map[string]struct{})
	for _, r := range records {
		k := key{r.FileName, r.XPath}
		if groups[k] == nil {
			groups[k] = make(map[string]struct{})
		}
		groups[k][r.ModName] = struct{}{}
	}

	candidates := make([]XmlCandidate, 0)
	for k, mods := range groups {
		if len(mods) < 2 {
			continue
		}
		candidates = append(candidates, XmlCandidate{
			FileName: k.file,
			XPath:    k.xpath,
			Mods:     sortedMods(mods),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].FileName == candidates[j].FileName {
			return candidates[i].XPath < candidates[j].XPath
		}
		return candidates[i].FileName < candidates[j].FileName
	})
	return candidates
}

func sortedMods(set map[string]struct{}) []string {
	mods := make([]string, 0, len(set))
	for m := range set {
		mods = append(mods, m)
	}
	sort.Strings(mods)
	return mods
}
