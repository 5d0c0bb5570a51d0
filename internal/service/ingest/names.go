package ingest

import (
	"shift-metrics/internal/storage"
	"strings"
)

// NormalizeName turns "Last, First" into "First Last". Anything else is returned
// trimmed. ok is false only for blank input.
func NormalizeName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", false
	}

	if strings.Count(name, ",") == 1 {
		parts := strings.SplitN(name, ",", 2)
		last := strings.TrimSpace(parts[0])
		first := strings.TrimSpace(parts[1])
		if last != "" && first != "" {
			return first + " " + last, true
		}
	}

	return name, true
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RosterIndex is the per-run, read-only lookup of roster employees by name.
type RosterIndex struct {
	byName map[string]storage.RosterEmployee
}

// NewRosterIndex keys employees by trimmed lowercase name; a later duplicate
// replaces an earlier one.
func NewRosterIndex(employees []storage.RosterEmployee) RosterIndex {
	byName := make(map[string]storage.RosterEmployee, len(employees))
	for _, e := range employees {
		key := nameKey(e.Name)
		if key == "" {
			continue
		}
		byName[key] = e
	}
	return RosterIndex{byName: byName}
}

func (idx RosterIndex) Len() int {
	return len(idx.byName)
}

// Match normalizes raw and looks it up by exact case-insensitive equality.
func (idx RosterIndex) Match(raw string) (storage.RosterEmployee, bool) {
	name, ok := NormalizeName(raw)
	if !ok {
		return storage.RosterEmployee{}, false
	}
	e, ok := idx.byName[nameKey(name)]
	return e, ok
}
