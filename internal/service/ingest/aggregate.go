package ingest

import (
	"maps"
	"shift-metrics/internal/constants"
	"shift-metrics/internal/storage"
)

// HourlyMetrics are the nine tracked values of one hourly row.
type HourlyMetrics struct {
	Sums  storage.HourlySums
	Rates storage.HourlyAverages
}

func HourlyMetricsFromRow(row Row) HourlyMetrics {
	return HourlyMetrics{
		Sums: storage.HourlySums{
			AllNetSales: ParseValue(row.Get(constants.ColAllNetSales)),
			StwGc:       ParseValue(row.Get(constants.ColSTWGC)),
			R2P:         ParseValue(row.Get(constants.ColR2P)),
		},
		Rates: storage.HourlyAverages{
			Oepe:             ParseValue(row.Get(constants.ColOEPE)),
			KvsTimePerItem:   ParseValue(row.Get(constants.ColKVSTimePerItem)),
			KvsHealthyUsage:  ParseValue(row.Get(constants.ColKVSHealthy)),
			DtPullForwardPct: ParseValue(row.Get(constants.ColDTPullForward)),
			PunchLaborPct:    ParseValue(row.Get(constants.ColPunchLabor)),
			Tpph:             ParseValue(row.Get(constants.ColTPPH)),
		},
	}
}

// Aggregation folds hourly rows into one bucket per shift type. It is a value:
// Add returns a new Aggregation and leaves the receiver untouched.
type Aggregation struct {
	order   []string
	labels  map[string]string
	buckets map[string]storage.HourlyBucket
}

// NewAggregation seeds a zero bucket for every shift type so that types with no
// rows still show up.
func NewAggregation(defs []storage.ShiftTypeDefinition) Aggregation {
	a := Aggregation{
		labels:  make(map[string]string, len(defs)),
		buckets: make(map[string]storage.HourlyBucket, len(defs)),
	}
	for _, def := range defs {
		if _, seen := a.buckets[def.Key]; seen {
			continue
		}
		a.order = append(a.order, def.Key)
		a.labels[def.Key] = def.Label
		a.buckets[def.Key] = storage.HourlyBucket{ShiftType: def.Key, Label: def.Label}
	}
	return a
}

// Add folds one row's metrics into the shiftType bucket. Unknown keys are ignored.
func (a Aggregation) Add(shiftType string, m HourlyMetrics) Aggregation {
	b, ok := a.buckets[shiftType]
	if !ok {
		return a
	}

	b.SumData.AllNetSales += m.Sums.AllNetSales
	b.SumData.StwGc += m.Sums.StwGc
	b.SumData.R2P += m.Sums.R2P

	b.AvgData.Oepe += m.Rates.Oepe
	b.AvgData.KvsTimePerItem += m.Rates.KvsTimePerItem
	b.AvgData.KvsHealthyUsage += m.Rates.KvsHealthyUsage
	b.AvgData.DtPullForwardPct += m.Rates.DtPullForwardPct
	b.AvgData.PunchLaborPct += m.Rates.PunchLaborPct
	b.AvgData.Tpph += m.Rates.Tpph

	b.Count++

	next := Aggregation{
		order:   a.order,
		labels:  a.labels,
		buckets: maps.Clone(a.buckets),
	}
	next.buckets[shiftType] = b
	return next
}

// Count is the number of rows folded in so far.
func (a Aggregation) Count() int {
	n := 0
	for _, b := range a.buckets {
		n += b.Count
	}
	return n
}

// Buckets returns the finished buckets in shift-type order with rate metrics
// divided by Count. Empty buckets keep zero rates.
func (a Aggregation) Buckets() []storage.HourlyBucket {
	out := make([]storage.HourlyBucket, 0, len(a.order))
	for _, key := range a.order {
		b := a.buckets[key]
		if b.Count > 0 {
			n := float64(b.Count)
			b.AvgData = storage.HourlyAverages{
				Oepe:             b.AvgData.Oepe / n,
				KvsTimePerItem:   b.AvgData.KvsTimePerItem / n,
				KvsHealthyUsage:  b.AvgData.KvsHealthyUsage / n,
				DtPullForwardPct: b.AvgData.DtPullForwardPct / n,
				PunchLaborPct:    b.AvgData.PunchLaborPct / n,
				Tpph:             b.AvgData.Tpph / n,
			}
		}
		out = append(out, b)
	}
	return out
}

// HourlyOutcome is the result of folding a whole hourly file.
type HourlyOutcome struct {
	Aggregation Aggregation
	Rows        int
	Skipped     map[Skip]int
}

// FoldHourly filters, classifies and aggregates hourly rows.
func FoldHourly(rows []Row, defs []storage.ShiftTypeDefinition) HourlyOutcome {
	out := HourlyOutcome{
		Aggregation: NewAggregation(defs),
		Rows:        len(rows),
		Skipped:     map[Skip]int{},
	}

	for _, row := range rows {
		if skip := FilterHourly(row); skip != SkipNone {
			out.Skipped[skip]++
			continue
		}

		def, skip := ClassifyEndTime(row.Get(constants.ColEndTime), defs)
		if skip != SkipNone {
			out.Skipped[skip]++
			continue
		}

		out.Aggregation = out.Aggregation.Add(def.Key, HourlyMetricsFromRow(row))
	}

	return out
}

func (o HourlyOutcome) SkippedTotal() int {
	n := 0
	for _, c := range o.Skipped {
		n += c
	}
	return n
}
