package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-metrics/internal/storage"
)

func metrics(sales, oepe float64) HourlyMetrics {
	return HourlyMetrics{
		Sums:  storage.HourlySums{AllNetSales: sales, StwGc: 1},
		Rates: storage.HourlyAverages{Oepe: oepe, Tpph: 10},
	}
}

func TestAggregation_SumsAndAverages(t *testing.T) {
	agg := NewAggregation(standardShifts())
	for i, sales := range []float64{10, 20, 30} {
		agg = agg.Add("open", metrics(sales, float64(2*(i+1))))
	}

	buckets := agg.Buckets()
	require.Len(t, buckets, 3)

	open := buckets[0]
	assert.Equal(t, "open", open.ShiftType)
	assert.Equal(t, "Open", open.Label)
	assert.Equal(t, 3, open.Count)
	assert.InDelta(t, 60, open.SumData.AllNetSales, 1e-9)
	assert.InDelta(t, 3, open.SumData.StwGc, 1e-9)
	assert.InDelta(t, 4, open.AvgData.Oepe, 1e-9)
	assert.InDelta(t, 10, open.AvgData.Tpph, 1e-9)
}

func TestAggregation_EmptyBucketsStayZero(t *testing.T) {
	agg := NewAggregation(standardShifts()).Add("close", metrics(5, 8))

	buckets := agg.Buckets()
	require.Len(t, buckets, 3)

	for _, b := range buckets[:2] {
		assert.Equal(t, 0, b.Count)
		assert.Equal(t, storage.HourlySums{}, b.SumData)
		assert.Equal(t, storage.HourlyAverages{}, b.AvgData)
	}
	assert.Equal(t, 1, buckets[2].Count)
	assert.InDelta(t, 8, buckets[2].AvgData.Oepe, 1e-9)
}

func TestAggregation_AddLeavesReceiverUntouched(t *testing.T) {
	base := NewAggregation(standardShifts())
	next := base.Add("mid", metrics(10, 1))

	assert.Equal(t, 0, base.Count())
	assert.Equal(t, 1, next.Count())
	assert.Equal(t, 0, base.Buckets()[1].Count)
}

func TestAggregation_UnknownKeyIgnored(t *testing.T) {
	agg := NewAggregation(standardShifts()).Add("graveyard", metrics(10, 1))
	assert.Equal(t, 0, agg.Count())
}

func TestAggregation_DuplicateKeysSeedOnce(t *testing.T) {
	defs := append(standardShifts(), storage.ShiftTypeDefinition{Key: "open", Label: "Again"})
	buckets := NewAggregation(defs).Buckets()

	require.Len(t, buckets, 3)
	assert.Equal(t, "Open", buckets[0].Label)
}

func TestFoldHourly_CountMatchesClassifiedRows(t *testing.T) {
	rows := []Row{
		hourlyRow("1234", "7:00", "$100"),
		hourlyRow("1234", "12:00", "$50"),
		hourlyRow("1234", "n/a", "$50"),
		hourlyRow("1234", "9:00", "0"),
		hourlyRow("Total", "", "$200"),
	}
	defs := []storage.ShiftTypeDefinition{
		{Key: "open", RangeStart: "05:00", RangeEnd: "11:00"},
	}

	out := FoldHourly(rows, defs)

	assert.Equal(t, 5, out.Rows)
	assert.Equal(t, 1, out.Aggregation.Count())
	assert.Equal(t, 4, out.SkippedTotal())
	assert.Equal(t, map[Skip]int{
		SkipNoShift:     1,
		SkipNoHour:      1,
		SkipZeroMetrics: 1,
		SkipTotal:       1,
	}, out.Skipped)
}

func TestFoldHourly_FiveRowScenario(t *testing.T) {
	rows := []Row{
		hourlyRow("1234", "7:00", "$100"),
		hourlyRow("1234", "10:00", "$150"),
		hourlyRow("1234", "23:00", "$80"),
		hourlyRow("1234", "25:00", "$20"),
		hourlyRow("Total", "", "$350"),
	}

	buckets := FoldHourly(rows, standardShifts()).Aggregation.Buckets()
	require.Len(t, buckets, 3)

	assert.Equal(t, "open", buckets[0].ShiftType)
	assert.Equal(t, 2, buckets[0].Count)
	assert.InDelta(t, 250, buckets[0].SumData.AllNetSales, 1e-9)

	assert.Equal(t, "mid", buckets[1].ShiftType)
	assert.Equal(t, 0, buckets[1].Count)

	assert.Equal(t, "close", buckets[2].ShiftType)
	assert.Equal(t, 2, buckets[2].Count)
	assert.InDelta(t, 100, buckets[2].SumData.AllNetSales, 1e-9)
}
