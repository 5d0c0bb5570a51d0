package ingest

import (
	"math"
	"strconv"
	"strings"
)

var valuePunctuation = strings.NewReplacer("$", "", ",", "", "%", "")

// ParseValue turns a report cell into a number. Currency signs, thousands
// separators and percent signs are dropped; anything unparsable is 0.
func ParseValue(cell string) float64 {
	cleaned := strings.TrimSpace(valuePunctuation.Replace(cell))
	if cleaned == "" {
		return 0
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
