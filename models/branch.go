package models

// SearchBranch holds the result-artifact paths discovered for one geography.
// An empty string means the artifact was not produced for that geography,
// which is expected and common: the upstream pipeline skips stages when no
// candidates are found.
type SearchBranch struct {
	// ParentDir is the raw per-geography results directory.
	ParentDir string
	// Geography is the cleaned display name.
	Geography string

	// Directory paths, one per flagged-sequence metadata category.
	Double   string
	Anachron string
	HighDist string

	// Count files from the early and late pipeline stages.
	EarlyStats string
	LateStats  string
}

// SearchTree maps geographies to their discovered artifact paths. Branches
// keep directory-listing order; the index is for by-name lookups. Built once
// per run and never mutated afterward.
type SearchTree struct {
	Branches []SearchBranch
	byName   map[string]int
}

// NewSearchTree builds a tree from branches in the given order.
func NewSearchTree(branches []SearchBranch) *SearchTree {
	idx := make(map[string]int, len(branches))
	for i, b := range branches {
		idx[b.Geography] = i
	}
	return &SearchTree{Branches: branches, byName: idx}
}

// Branch returns the branch for a geography, if present.
func (t *SearchTree) Branch(geography string) (SearchBranch, bool) {
	i, ok := t.byName[geography]
	if !ok {
		return SearchBranch{}, false
	}
	return t.Branches[i], true
}

// Len returns the number of geographies in the tree.
func (t *SearchTree) Len() int {
	return len(t.Branches)
}
