// Package leaderboard ranks the managers of one report by a single metric.
package leaderboard

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"shift-metrics/internal/storage"
	"slices"
	"strings"
)

var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrUnknownOrder  = errors.New("order must be asc or desc")
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type metric struct {
	value func(storage.MatchedEntry) float64
	// lowerIsBetter flips the default order to ascending
	lowerIsBetter bool
}

var metrics = map[string]metric{
	"allNetSales":        {value: func(e storage.MatchedEntry) float64 { return e.AllNetSales }},
	"numberOfShifts":     {value: func(e storage.MatchedEntry) float64 { return e.NumberOfShifts }},
	"gc":                 {value: func(e storage.MatchedEntry) float64 { return e.GC }},
	"dtPulledForwardPct": {value: func(e storage.MatchedEntry) float64 { return e.DtPulledForwardPct }},
	"kvsHealthyUsage":    {value: func(e storage.MatchedEntry) float64 { return e.KvsHealthyUsage }},
	"oepe":               {value: func(e storage.MatchedEntry) float64 { return e.Oepe }},
	"punchLaborPct":      {value: func(e storage.MatchedEntry) float64 { return e.PunchLaborPct }, lowerIsBetter: true},
	"dtGc":               {value: func(e storage.MatchedEntry) float64 { return e.DtGC }},
	"tpph":               {value: func(e storage.MatchedEntry) float64 { return e.Tpph }},
	"averageCheck":       {value: func(e storage.MatchedEntry) float64 { return e.AverageCheck }},
	"actVsNeed":          {value: func(e storage.MatchedEntry) float64 { return math.Abs(e.ActVsNeed) }, lowerIsBetter: true},
	"r2p":                {value: func(e storage.MatchedEntry) float64 { return e.R2P }, lowerIsBetter: true},
}

// Metrics lists the accepted metric names, sorted.
func Metrics() []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type Ranked struct {
	Rank  int                  `json:"rank"`
	Value float64              `json:"value"`
	Entry storage.MatchedEntry `json:"entry"`
}

// Rank orders entries by metric. An empty order picks the metric's natural
// direction. Equal values share a rank (1, 2, 2, 4) and are listed by name.
func Rank(entries []storage.MatchedEntry, metricName, order string) ([]Ranked, error) {
	m, ok := metrics[metricName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metricName)
	}

	asc := m.lowerIsBetter
	switch strings.ToLower(order) {
	case "":
	case OrderAsc:
		asc = true
	case OrderDesc:
		asc = false
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrder, order)
	}

	ranked := make([]Ranked, len(entries))
	for i, e := range entries {
		ranked[i] = Ranked{Value: m.value(e), Entry: e}
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		c := cmp.Compare(a.Value, b.Value)
		if !asc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.Entry.ManagerName, b.Entry.ManagerName)
	})

	for i := range ranked {
		if i > 0 && ranked[i].Value == ranked[i-1].Value {
			ranked[i].Rank = ranked[i-1].Rank
			continue
		}
		ranked[i].Rank = i + 1
	}

	return ranked, nil
}
