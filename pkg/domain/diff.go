package domain

import "slices"

// FrameworkDiff represents the changes between two frameworks.
// It is serialized to JSON for partial updates on connected editors.
type FrameworkDiff struct {
	// Changed holds the full new sequence of every category that differs.
	// Clients replace (never merge) the listed categories.
	Changed map[Category][]string `json:"changed"`
}

// Diff calculates the difference between oldFw and newFw.
// If oldFw is nil, every category of newFw is reported (initial load).
// It returns nil when nothing changed.
func Diff(oldFw, newFw Framework) *FrameworkDiff {
	if newFw == nil {
		return nil
	}

	changed := make(map[Category][]string)
	for _, c := range categoryOrder {
		next := newFw[c]
		if next == nil {
			next = []string{}
		}
		if oldFw != nil {
			if prev, ok := oldFw[c]; ok && slices.Equal(prev, next) {
				continue
			}
		}
		cp := make([]string, len(next))
		copy(cp, next)
		changed[c] = cp
	}

	if len(changed) == 0 {
		return nil
	}
	return &FrameworkDiff{Changed: changed}
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *FrameworkDiff) IsEmpty() bool {
	return d == nil || len(d.Changed) == 0
}
