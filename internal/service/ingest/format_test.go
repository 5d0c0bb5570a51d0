package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want Format
	}{
		{"end time only", Row{"Loc": "1", "End Time": "5:00"}, FormatHourly},
		{"time slice and manager", Row{"Time Slice": "AM", "Manager Name": "x"}, FormatManager},
		{"both time columns", Row{"Time Slice": "AM", "End Time": "5:00"}, FormatHourly},
		{"both time columns and manager", Row{"Time Slice": "AM", "End Time": "5:00", "Manager Name": "x"}, FormatManager},
		{"neither", Row{"Loc": "1"}, FormatManager},
		{"case insensitive headers", Row{"end time": "5:00"}, FormatHourly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.row))
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "hourly", FormatHourly.String())
	assert.Equal(t, "manager", FormatManager.String())
}
