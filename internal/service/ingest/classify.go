package ingest

import (
	"fmt"
	"regexp"
	"shift-metrics/internal/storage"
	"strconv"
	"strings"
)

// H:MM or HH:MM; used for both End Time cells and shift-type boundaries.
var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseEndTimeHour reads "H:MM"/"HH:MM" and folds hours past midnight (24:00,
// 25:00, ...) back into 0-23. It returns -1 when the cell has no usable hour.
func ParseEndTimeHour(endTime string) int {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(endTime))
	if m == nil {
		return -1
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return -1
	}

	if hour >= 24 {
		hour -= 24
	}
	if hour > 23 {
		return -1
	}
	return hour
}

// DataHour maps an end-time hour to the hour the row's numbers describe:
// the row ending at 10:00 is the 9:00 hour, the row ending at midnight is 23:00.
func DataHour(endHour int) int {
	if endHour == 0 {
		return 23
	}
	return endHour - 1
}

// ParseClock reads a shift-type boundary "HH:mm" into minutes since midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(clock string) (int, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(clock))
	if m == nil {
		return 0, false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, false
	}
	return hour*60 + minute, true
}

// inRange checks [start, end); end <= start wraps past midnight.
func inRange(minutes, start, end int) bool {
	if end > start {
		return start <= minutes && minutes < end
	}
	return minutes >= start || minutes < end
}

// Classify returns the first definition, in list order, whose range holds the
// given data hour. Definitions with unreadable boundaries never match.
func Classify(dataHour int, defs []storage.ShiftTypeDefinition) (storage.ShiftTypeDefinition, bool) {
	if dataHour < 0 || dataHour > 23 {
		return storage.ShiftTypeDefinition{}, false
	}
	minutes := dataHour * 60

	for _, def := range defs {
		start, ok := ParseClock(def.RangeStart)
		if !ok {
			continue
		}
		end, ok := ParseClock(def.RangeEnd)
		if !ok {
			continue
		}
		if inRange(minutes, start, end) {
			return def, true
		}
	}
	return storage.ShiftTypeDefinition{}, false
}

// ClassifyEndTime runs the whole End Time -> shift type chain for one cell.
func ClassifyEndTime(endTime string, defs []storage.ShiftTypeDefinition) (storage.ShiftTypeDefinition, Skip) {
	hour := ParseEndTimeHour(endTime)
	if hour < 0 {
		return storage.ShiftTypeDefinition{}, SkipNoHour
	}

	def, ok := Classify(DataHour(hour), defs)
	if !ok {
		return storage.ShiftTypeDefinition{}, SkipNoShift
	}
	return def, SkipNone
}

// ValidateShiftTypes checks what an admin submits before it replaces a
// manager's shift types: non-empty unique keys and parseable ranges. Equal
// bounds are a full-day range, not an empty one.
func ValidateShiftTypes(defs []storage.ShiftTypeDefinition) error {
	seen := make(map[string]struct{}, len(defs))
	for i, def := range defs {
		key := strings.TrimSpace(def.Key)
		if key == "" {
			return fmt.Errorf("shift type %d: empty key", i+1)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("shift type %q: duplicate key", key)
		}
		seen[key] = struct{}{}

		if _, ok := ParseClock(def.RangeStart); !ok {
			return fmt.Errorf("shift type %q: bad range_start %q", key, def.RangeStart)
		}
		if _, ok := ParseClock(def.RangeEnd); !ok {
			return fmt.Errorf("shift type %q: bad range_end %q", key, def.RangeEnd)
		}
	}
	return nil
}
