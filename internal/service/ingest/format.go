package ingest

import "shift-metrics/internal/constants"

type Format int

const (
	FormatManager Format = iota
	FormatHourly
)

func (f Format) String() string {
	switch f {
	case FormatHourly:
		return "hourly"
	default:
		return "manager"
	}
}

// DetectFormat decides the layout of the whole file from its first data row.
func DetectFormat(first Row) Format {
	hasEndTime := first.Has(constants.ColEndTime)
	hasTimeSlice := first.Has(constants.ColTimeSlice)

	switch {
	case hasEndTime && !hasTimeSlice:
		return FormatHourly
	case hasTimeSlice && first.Has(constants.ColManagerName):
		return FormatManager
	case hasEndTime:
		return FormatHourly
	default:
		return FormatManager
	}
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
