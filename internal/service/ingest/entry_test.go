package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-metrics/internal/storage"
)

func managerRow(name string) Row {
	return Row{
		"Loc":                 "1234",
		"Manager Name":        name,
		"Time Slice":          "Lunch",
		"All Net Sales":       "$1,200.50",
		"# of Shifts":         "3",
		"GC":                  "410",
		"DT Pulled Forward %": "12%",
		"KVS Healthy Usage":   "95%",
		"OEPE":                "88",
		"Punch Labor %":       "21.5%",
		"DT GC":               "250",
		"TPPH":                "40.2",
		"Average Check":       "$9.75",
		"Act vs Need":         "-1.5",
		"R2P":                 "45",
	}
}

func TestBuildEntry(t *testing.T) {
	entry := BuildEntry(managerRow("Smith, John"), storage.RosterEmployee{ID: 7, Name: "John Smith"})

	assert.Equal(t, storage.MatchedEntry{
		EmployeeID:         7,
		ManagerName:        "John Smith",
		TimeSlice:          "Lunch",
		AllNetSales:        1200.50,
		NumberOfShifts:     3,
		GC:                 410,
		DtPulledForwardPct: 12,
		KvsHealthyUsage:    95,
		Oepe:               88,
		PunchLaborPct:      21.5,
		DtGC:               250,
		Tpph:               40.2,
		AverageCheck:       9.75,
		ActVsNeed:          -1.5,
		R2P:                45,
	}, entry)
}

func TestMatchManagers(t *testing.T) {
	roster := NewRosterIndex([]storage.RosterEmployee{
		{ID: 1, Name: "John Smith"},
		{ID: 2, Name: "Ana Perez"},
	})

	total := managerRow("")
	total["Loc"] = "Total"

	rows := []Row{
		managerRow("Smith, John"),
		managerRow("ana perez"),
		managerRow("Nobody, Known"),
		managerRow(""),
		total,
	}

	out := MatchManagers(rows, roster)

	require.Len(t, out.Entries, 2)
	assert.Equal(t, int64(1), out.Entries[0].EmployeeID)
	assert.Equal(t, int64(2), out.Entries[1].EmployeeID)
	assert.Equal(t, 4, out.Total)
	assert.Equal(t, 2, out.Unmatched)
	assert.Equal(t, map[Skip]int{SkipUnmatched: 1, SkipNoName: 1, SkipTotal: 1}, out.Skipped)
	assert.Equal(t, []string{
		`line 4: no roster match for "Nobody, Known"`,
		"line 5: missing manager name",
	}, out.Problems)
}

func TestMatchManagers_EmptyRoster(t *testing.T) {
	out := MatchManagers([]Row{managerRow("Smith, John")}, NewRosterIndex(nil))

	assert.Empty(t, out.Entries)
	assert.NotNil(t, out.Entries)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, 1, out.Unmatched)
}
