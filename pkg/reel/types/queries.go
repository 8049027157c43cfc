package types

import (
	"cmp"
	"slices"
	"time"
)

// LargestFiles returns the n largest files by size, descending.
// Ties are broken by path for reproducible output. If n exceeds the number
// of files, all files are returned.
func (r *ScanResult) LargestFiles(n int) []FileRecord {
	if n <= 0 {
		return nil
	}

	sorted := slices.Clone(r.Files)
	slices.SortStableFunc(sorted, func(a, b FileRecord) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// FilesCreatedBetween returns files whose creation time falls in the
// half-open interval [start, end), preserving the result's sorted order.
func (r *ScanResult) FilesCreatedBetween(start, end time.Time) []FileRecord {
	var out []FileRecord
	for _, f := range r.Files {
		if !f.CreateTime.Before(start) && f.CreateTime.Before(end) {
			out = append(out, f)
		}
	}
	return out
}

// DigestFor returns the fingerprint for the given relative path.
// The second return is false when the file was not hashed.
func (r *ScanResult) DigestFor(path string) (string, bool) {
	rec, ok := r.Hashes[path]
	if !ok {
		return "", false
	}
	return rec.Digest, true
}

// DuplicateGroups returns all groups with two or more members.
func (r *ScanResult) DuplicateGroups() []DuplicateGroup {
	return r.Groups
}

// PathsWithDigest returns every hashed path whose fingerprint equals digest,
// in discovery order when the digest forms a group, otherwise sorted for a
// singleton match.
func (r *ScanResult) PathsWithDigest(digest string) []string {
	for _, g := range r.Groups {
		if g.Digest == digest {
			return slices.Clone(g.Paths)
		}
	}

	var out []string
	for _, rec := range r.Hashes {
		if rec.Digest == digest {
			out = append(out, rec.Path)
		}
	}
	slices.Sort(out)
	return out
}
