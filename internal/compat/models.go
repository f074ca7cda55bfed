// # internal/compat/models.go
package compat

// ConflictKind classifies what two mods are colliding over.
type ConflictKind string

const (
	KindDirectPatch ConflictKind = "direct_patch"
	KindXmlCollision ConflictKind = "xml_collision"
	// KindIndirectBehavioral is reserved for call-graph overlap detection
	// between two mods' patched methods. No detection algorithm exists yet;
	// the kind is defined so reports keep a stable vocabulary.
	KindIndirectBehavioral ConflictKind = "indirect_behavioral"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SeverityOf maps a conflict kind to its severity. Severity is a pure
// function of kind; reserved kinds rank low until they grow real detection.
func SeverityOf(kind ConflictKind) Severity {
	switch kind {
	case KindDirectPatch:
		return SeverityHigh
	case KindXmlCollision:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// PatchRecord is one mod's interception of one method.
type PatchRecord struct {
	ModName      string `json:"mod_name"`
	TargetType   string `json:"target_type"`
	TargetMethod string `json:"target_method"`
	PatchKind    string `json:"patch_kind,omitempty"`
	FilePath     string `json:"file_path,omitempty"`
}

// XmlChangeRecord is one mod's edit of one XML configuration node.
type XmlChangeRecord struct {
	ModName    string `json:"mod_name"`
	FileName   string `json:"file_name"`
	XPath      string `json:"xpath"`
	ChangeKind string `json:"change_kind,omitempty"`
}

// PatchCandidate is a method patched by two or more distinct mods,
// before any filtering to a requested mod set.
type PatchCandidate struct {
	TargetType   string
	TargetMethod string
	Mods         []string
}

// XmlCandidate is an XML node touched by two or more distinct mods.
type XmlCandidate struct {
	FileName string
	XPath    string
	Mods     []string
}

// Detail carries free-form per-mod context attached to a conflict.
type Detail struct {
	Mod  string `json:"mod"`
	Info string `json:"info"`
}

type Conflict struct {
	Kind         ConflictKind `json:"type"`
	Severity     Severity     `json:"severity"`
	Target       string       `json:"target"`
	ModsInvolved []string     `json:"mods_involved"`
	Details      []Detail     `json:"details"`
	Resolution   string       `json:"resolution"`
}

// LoadOrderSuggestion is a reserved output slot: the data model exists but
// no suggestion algorithm is specified, so reports always carry an empty
// list rather than invented ordering advice.
type LoadOrderSuggestion struct {
	Recommendation string `json:"recommendation"`
	Reason         string `json:"reason"`
}

type Summary struct {
	TotalConflicts        int  `json:"total_conflicts"`
	HighSeverity          int  `json:"high_severity"`
	MediumSeverity        int  `json:"medium_severity"`
	LowSeverity           int  `json:"low_severity"`
	Compatible            bool `json:"compatible"`
	CompatibleWithCaveats bool `json:"compatible_with_caveats"`
}

type Report struct {
	ReportID             string                `json:"report_id"`
	GeneratedAt          string                `json:"generated_at"`
	Mods                 []string              `json:"mods"`
	Conflicts            []Conflict            `json:"conflicts"`
	LoadOrderSuggestions []LoadOrderSuggestion `json:"load_order_suggestions"`
	Summary              Summary               `json:"summary"`
}

// IsCompatible reports whether the requested mods have no conflicts at all.
func (r Report) IsCompatible() bool {
	return len(r.Conflicts) == 0
}

// IsCompatibleWithCaveats reports whether no conflict is high severity.
func (r Report) IsCompatibleWithCaveats() bool {
	for _, c := range r.Conflicts {
		if c.Severity == SeverityHigh {
			return false
		}
	}
	return true
}
