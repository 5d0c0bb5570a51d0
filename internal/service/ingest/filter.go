package ingest

import (
	"shift-metrics/internal/constants"
	"strings"
)

// Skip says why a row did not make it into the result. SkipNone means it did.
type Skip int

const (
	SkipNone Skip = iota
	SkipTotal
	SkipZeroMetrics
	SkipNoHour
	SkipNoShift
	SkipNoName
	SkipUnmatched
)

func (s Skip) String() string {
	switch s {
	case SkipTotal:
		return "total row"
	case SkipZeroMetrics:
		return "all metrics zero"
	case SkipNoHour:
		return "unusable end time"
	case SkipNoShift:
		return "hour outside every shift type"
	case SkipNoName:
		return "missing manager name"
	case SkipUnmatched:
		return "no roster match"
	default:
		return "kept"
	}
}

// IsTotalRow reports summary rows: Loc or End Time reads "total" in any case.
func IsTotalRow(row Row) bool {
	return strings.EqualFold(row.Get(constants.ColLoc), constants.TotalMarker) ||
		strings.EqualFold(row.Get(constants.ColEndTime), constants.TotalMarker)
}

// AllMetricsZero reports rows whose nine tracked hourly metrics all parse to 0.
func AllMetricsZero(row Row) bool {
	for _, col := range constants.HourlyMetricColumns {
		if ParseValue(row.Get(col)) != 0 {
			return false
		}
	}
	return true
}

// FilterHourly applies both noise filters to an hourly row.
func FilterHourly(row Row) Skip {
	if IsTotalRow(row) {
		return SkipTotal
	}
	if AllMetricsZero(row) {
		return SkipZeroMetrics
	}
	return SkipNone
}
