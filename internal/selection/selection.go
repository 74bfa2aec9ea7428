// Package selection keeps the ordered list of files picked for the next merge.
package selection

import (
	"fmt"
	"path/filepath"
	"sort"
)

// List is an insertion-ordered set of file paths. Order decides page order
// in the merged output. The zero value is an empty list ready to use.
type List struct {
	paths []string

	// OnChange receives the display projection after every mutation that
	// changed the list.
	OnChange func(entries []string)
}

// New returns an empty list that reports changes to onChange (may be nil).
func New(onChange func(entries []string)) *List {
	return &List{OnChange: onChange}
}

// Add appends every path not already present. Empty strings are skipped.
func (l *List) Add(paths ...string) bool {
	changed := false
	for _, p := range paths {
		if p == "" || l.index(p) >= 0 {
			continue
		}
		l.paths = append(l.paths, p)
		changed = true
	}
	if changed {
		l.notify()
	}
	return changed
}

// Remove deletes the given positions. Indices are applied from the highest
// down so each deletion leaves the remaining positions valid.
func (l *List) Remove(indices ...int) bool {
	if len(indices) == 0 {
		return false
	}
	seen := make(map[int]struct{}, len(indices))
	var valid []int
	for _, i := range indices {
		if i < 0 || i >= len(l.paths) {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		valid = append(valid, i)
	}
	if len(valid) == 0 {
		return false
	}
	sort.Sort(sort.Reverse(sort.IntSlice(valid)))
	for _, i := range valid {
		l.paths = append(l.paths[:i], l.paths[i+1:]...)
	}
	l.notify()
	return true
}

// Clear empties the list.
func (l *List) Clear() bool {
	if len(l.paths) == 0 {
		return false
	}
	l.paths = nil
	l.notify()
	return true
}

// Move relocates the entry at from to position to.
func (l *List) Move(from, to int) bool {
	n := len(l.paths)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	p := l.paths[from]
	l.paths = append(l.paths[:from], l.paths[from+1:]...)
	l.paths = append(l.paths[:to], append([]string{p}, l.paths[to:]...)...)
	l.notify()
	return true
}

// Len returns the number of selected paths.
func (l *List) Len() int { return len(l.paths) }

// Paths returns a snapshot of the selected paths in order.
func (l *List) Paths() []string {
	out := make([]string, len(l.paths))
	copy(out, l.paths)
	return out
}

// Entries is the display projection: "1. a.pdf", "2. b.pdf", ...
func (l *List) Entries() []string {
	return Entries(l.paths)
}

// Entries renders paths as 1-indexed base names.
func Entries(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = fmt.Sprintf("%d. %s", i+1, filepath.Base(p))
	}
	return out
}

func (l *List) index(p string) int {
	for i, q := range l.paths {
		if q == p {
			return i
		}
	}
	return -1
}

func (l *List) notify() {
	if l.OnChange != nil {
		l.OnChange(l.Entries())
	}
}
