package ingest

import (
	"fmt"
	"shift-metrics/internal/constants"
	"shift-metrics/internal/storage"
)

// BuildEntry carries a manager-format row through ParseValue, unaggregated.
func BuildEntry(row Row, emp storage.RosterEmployee) storage.MatchedEntry {
	return storage.MatchedEntry{
		EmployeeID:         emp.ID,
		ManagerName:        emp.Name,
		TimeSlice:          row.Get(constants.ColTimeSlice),
		AllNetSales:        ParseValue(row.Get(constants.ColAllNetSales)),
		NumberOfShifts:     ParseValue(row.Get(constants.ColNumberOfShifts)),
		GC:                 ParseValue(row.Get(constants.ColGC)),
		DtPulledForwardPct: ParseValue(row.Get(constants.ColDTPulledForward)),
		KvsHealthyUsage:    ParseValue(row.Get(constants.ColKVSHealthy)),
		Oepe:               ParseValue(row.Get(constants.ColOEPE)),
		PunchLaborPct:      ParseValue(row.Get(constants.ColPunchLaborPct)),
		DtGC:               ParseValue(row.Get(constants.ColDTGC)),
		Tpph:               ParseValue(row.Get(constants.ColTPPH)),
		AverageCheck:       ParseValue(row.Get(constants.ColAverageCheck)),
		ActVsNeed:          ParseValue(row.Get(constants.ColActVsNeed)),
		R2P:                ParseValue(row.Get(constants.ColR2P)),
	}
}

// ManagerOutcome is the result of matching a whole manager-format file.
type ManagerOutcome struct {
	Entries   []storage.MatchedEntry
	Total     int // rows considered, summary rows excluded
	Unmatched int
	Skipped   map[Skip]int
	Problems  []string
}

// MatchManagers resolves each manager row against the roster. Rows that cannot
// be matched are counted and described, never treated as errors.
func MatchManagers(rows []Row, roster RosterIndex) ManagerOutcome {
	out := ManagerOutcome{
		Entries: []storage.MatchedEntry{},
		Skipped: map[Skip]int{},
	}

	for i, row := range rows {
		line := i + 2 // header is line 1

		if IsTotalRow(row) {
			out.Skipped[SkipTotal]++
			continue
		}
		out.Total++

		raw := row.Get(constants.ColManagerName)
		if _, ok := NormalizeName(raw); !ok {
			out.Unmatched++
			out.Skipped[SkipNoName]++
			out.Problems = append(out.Problems, fmt.Sprintf("line %d: %s", line, SkipNoName))
			continue
		}

		emp, ok := roster.Match(raw)
		if !ok {
			out.Unmatched++
			out.Skipped[SkipUnmatched]++
			out.Problems = append(out.Problems, fmt.Sprintf("line %d: %s for %q", line, SkipUnmatched, raw))
			continue
		}

		out.Entries = append(out.Entries, BuildEntry(row, emp))
	}

	return out
}
