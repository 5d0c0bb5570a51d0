package storage

import "time"

// HourlySums holds the additive hourly metrics.
type HourlySums struct {
	AllNetSales float64 `json:"allNetSales"`
	StwGc       float64 `json:"stwGc"`
	R2P         float64 `json:"r2p"`
}

// HourlyAverages holds rate metrics. While folding they carry running sums; the
// finished bucket carries means.
type HourlyAverages struct {
	Oepe             float64 `json:"oepe"`
	KvsTimePerItem   float64 `json:"kvsTimePerItem"`
	KvsHealthyUsage  float64 `json:"kvsHealthyUsage"`
	DtPullForwardPct float64 `json:"dtPullForwardPct"`
	PunchLaborPct    float64 `json:"punchLaborPct"`
	Tpph             float64 `json:"tpph"`
}

type HourlyBucket struct {
	ShiftType string         `json:"shiftType"`
	Label     string         `json:"label"`
	SumData   HourlySums     `json:"sumData"`
	AvgData   HourlyAverages `json:"avgData"`
	Count     int            `json:"count"`
}

// HourlySummary is the hourly-format counterpart of IngestionReport.
type HourlySummary struct {
	ManagerID   int64          `json:"managerId"`
	ImportedAt  time.Time      `json:"importedAt"`
	FileName    string         `json:"fileName"`
	Location    string         `json:"location"`
	ReportDate  string         `json:"reportDate"`
	RowsRead    int            `json:"rowsRead"`
	RowsSkipped int            `json:"rowsSkipped"`
	Buckets     []HourlyBucket `json:"buckets"`
}
