package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shift-metrics/internal/storage"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOk bool
	}{
		{"Smith, John", "John Smith", true},
		{"John Smith", "John Smith", true},
		{"  Smith ,  John  ", "John Smith", true},
		{"Cher", "Cher", true},
		{"Smith, John, Jr", "Smith, John, Jr", true},
		{"Smith,", "Smith,", true},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeName(tt.in)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRosterIndexMatch(t *testing.T) {
	idx := NewRosterIndex([]storage.RosterEmployee{
		{ID: 1, Name: "John Smith"},
		{ID: 2, Name: " Ana Perez "},
		{ID: 3, Name: ""},
	})
	assert.Equal(t, 2, idx.Len())

	emp, ok := idx.Match("Smith, John")
	assert.True(t, ok)
	assert.Equal(t, int64(1), emp.ID)

	emp, ok = idx.Match("ANA PEREZ")
	assert.True(t, ok)
	assert.Equal(t, int64(2), emp.ID)

	_, ok = idx.Match("Jon Smith")
	assert.False(t, ok)

	_, ok = idx.Match("")
	assert.False(t, ok)
}

func TestRosterIndex_LaterDuplicateWins(t *testing.T) {
	idx := NewRosterIndex([]storage.RosterEmployee{
		{ID: 1, Name: "John Smith"},
		{ID: 9, Name: "john smith"},
	})

	emp, ok := idx.Match("John Smith")
	assert.True(t, ok)
	assert.Equal(t, int64(9), emp.ID)
}
