package ingest

import (
	"sort"
	"strings"
)

// Row is one data row of an export: column header -> cell text. Keys are kept as
// they appear in the file; Get does the forgiving lookup.
type Row map[string]string

var keyMarkers = strings.NewReplacer("\ufeff", "", "\u200b", "")

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(keyMarkers.Replace(key)))
}

// Get returns the trimmed cell for name, or "" when the column is absent.
// An exact key wins; otherwise keys are compared ignoring case, surrounding
// whitespace, byte-order marks and zero-width spaces.
func (r Row) Get(name string) string {
	if v, ok := r[name]; ok {
		return strings.TrimSpace(v)
	}
	if key, ok := r.lookup(name); ok {
		return strings.TrimSpace(r[key])
	}
	return ""
}

// Has reports whether the row carries the column at all, empty or not.
func (r Row) Has(name string) bool {
	if _, ok := r[name]; ok {
		return true
	}
	_, ok := r.lookup(name)
	return ok
}

func (r Row) lookup(name string) (string, bool) {
	target := normalizeKey(name)

	// sorted so that two keys normalizing to the same name resolve the same way every run
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if normalizeKey(k) == target {
			return k, true
		}
	}
	return "", false
}
