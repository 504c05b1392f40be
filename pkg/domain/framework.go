package domain

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Framework maps every category to its ordered sequence of templates.
// A resolved Framework always holds all five category keys; a key may map to an
// empty sequence but never to nil once Complete has been applied.
type Framework map[Category][]string

// NewFramework returns a Framework with every category present and empty.
func NewFramework() Framework {
	f := make(Framework, len(categoryOrder))
	for _, c := range categoryOrder {
		f[c] = []string{}
	}
	return f
}

// Clone returns a deep copy of f. Cloning a nil Framework returns nil.
func (f Framework) Clone() Framework {
	if f == nil {
		return nil
	}
	out := make(Framework, len(f))
	for c, templates := range f {
		cp := make([]string, len(templates))
		copy(cp, templates)
		out[c] = cp
	}
	return out
}

// Complete returns a deep copy holding exactly the known categories.
// Missing or nil sequences become empty; keys outside the registry are dropped.
func (f Framework) Complete() Framework {
	out := NewFramework()
	for _, c := range categoryOrder {
		if templates, ok := f[c]; ok && templates != nil {
			cp := make([]string, len(templates))
			copy(cp, templates)
			out[c] = cp
		}
	}
	return out
}

// Missing lists the known categories absent from f, in enumeration order.
func (f Framework) Missing() []Category {
	var missing []Category
	for _, c := range categoryOrder {
		if _, ok := f[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Equal reports whether both frameworks hold the same templates in the same order
// for every known category. A missing key equals an empty sequence.
func (f Framework) Equal(other Framework) bool {
	for _, c := range categoryOrder {
		if !slices.Equal(f[c], other[c]) {
			return false
		}
	}
	return true
}

// Counts returns the number of templates per category, for logging.
func (f Framework) Counts() map[Category]int {
	counts := make(map[Category]int, len(categoryOrder))
	for _, c := range categoryOrder {
		counts[c] = len(f[c])
	}
	return counts
}

// Total returns the number of templates across all categories.
func (f Framework) Total() int {
	n := 0
	for _, templates := range f {
		n += len(templates)
	}
	return n
}

// MarshalJSON writes the known categories in enumeration order so that the
// serialized document is stable. Nil sequences are written as empty arrays.
func (f Framework) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range categoryOrder {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(c))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		templates := f[c]
		if templates == nil {
			templates = []string{}
		}
		val, err := json.Marshal(templates)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
