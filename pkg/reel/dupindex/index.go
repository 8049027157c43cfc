// Package dupindex maintains the digest-to-paths index used for candidate
// duplicate grouping. Paths are appended in discovery order and never
// removed; a group is reportable once it has at least two members.
package dupindex

import (
	"slices"
	"sync"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

// Index accumulates fingerprint groups as hashes are produced.
// It is safe for concurrent use.
type Index struct {
	mu sync.Mutex

	// groups preserves append order per digest.
	groups map[string][]string

	// order records first-seen digests so group enumeration is stable.
	order []string
}

// New returns an empty index.
func New() *Index {
	return &Index{
		groups: make(map[string][]string),
	}
}

// Add appends path to the group for digest.
func (ix *Index) Add(digest, path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.groups[digest]; !ok {
		ix.order = append(ix.order, digest)
	}
	ix.groups[digest] = append(ix.groups[digest], path)
}

// Paths returns the members recorded for digest, in discovery order.
// The returned slice is a copy.
func (ix *Index) Paths(digest string) []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return slices.Clone(ix.groups[digest])
}

// Groups returns every group with at least two members, ordered by the
// first appearance of each digest.
func (ix *Index) Groups() []types.DuplicateGroup {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var out []types.DuplicateGroup
	for _, digest := range ix.order {
		paths := ix.groups[digest]
		if len(paths) < 2 {
			continue
		}
		out = append(out, types.DuplicateGroup{
			Digest: digest,
			Paths:  slices.Clone(paths),
		})
	}
	return out
}

// Len returns the number of distinct digests recorded.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.groups)
}
