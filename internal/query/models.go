package query

// PathResult is one caller chain rendered for display. Depth counts the
// methods on the chain; Files holds "path:line" per hop, or "unknown" when
// the method's metadata is missing from the corpus.
type PathResult struct {
	Depth int      `json:"depth"`
	Chain []string `json:"chain"`
	Files []string `json:"files"`
}

// MethodSummary identifies one method matched by a name or pattern lookup.
type MethodSummary struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	File   string `json:"file"`
}

// CallRef is one direct caller or callee of a method.
type CallRef struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	File   string `json:"file"`
}

// ReachResult is a forward or backward transitive closure.
type ReachResult struct {
	Seed      int64   `json:"seed"`
	Backward  bool    `json:"backward"`
	Count     int     `json:"count"`
	MethodIDs []int64 `json:"method_ids"`
}

// SearchResult is one full-text hit in a method body.
type SearchResult struct {
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	File    string `json:"file"`
	Snippet string `json:"snippet"`
}
