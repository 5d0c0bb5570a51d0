package storage

import "time"

// MatchedEntry is one manager-format CSV row resolved to a roster employee.
type MatchedEntry struct {
	EmployeeID         int64   `json:"employeeId"`
	ManagerName        string  `json:"managerName"`
	TimeSlice          string  `json:"timeSlice"`
	AllNetSales        float64 `json:"allNetSales"`
	NumberOfShifts     float64 `json:"numberOfShifts"`
	GC                 float64 `json:"gc"`
	DtPulledForwardPct float64 `json:"dtPulledForwardPct"`
	KvsHealthyUsage    float64 `json:"kvsHealthyUsage"`
	Oepe               float64 `json:"oepe"`
	PunchLaborPct      float64 `json:"punchLaborPct"`
	DtGC               float64 `json:"dtGc"`
	Tpph               float64 `json:"tpph"`
	AverageCheck       float64 `json:"averageCheck"`
	ActVsNeed          float64 `json:"actVsNeed"`
	R2P                float64 `json:"r2p"`
}

// IngestionReport is persisted per (ManagerID, ReportDate); a later import for the
// same pair replaces it wholesale.
type IngestionReport struct {
	ManagerID        int64          `json:"managerId"`
	ImportedAt       time.Time      `json:"importedAt"`
	FileName         string         `json:"fileName"`
	Location         string         `json:"location"`
	ReportDate       string         `json:"reportDate"`
	TotalEntries     int            `json:"totalEntries"`
	UnmatchedEntries int            `json:"unmatchedEntries"`
	Entries          []MatchedEntry `json:"entries"`
	Errors           []string       `json:"errors"`
}

type ReportListItem struct {
	ManagerID  int64     `json:"managerId"`
	ReportDate string    `json:"reportDate"`
	FileName   string    `json:"fileName"`
	ImportedAt time.Time `json:"importedAt"`
	Kind       string    `json:"kind"` // "manager" or "hourly"
}
