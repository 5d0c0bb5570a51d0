package constants

// Shared columns.
const (
	ColLoc         = "Loc"
	ColAllNetSales = "All Net Sales"
	ColOEPE        = "OEPE"
	ColKVSHealthy  = "KVS Healthy Usage"
	ColTPPH        = "TPPH"
	ColR2P         = "R2P"
)

// Manager format ("Shift Manager Summary" export).
const (
	ColManagerName     = "Manager Name"
	ColTimeSlice       = "Time Slice"
	ColNumberOfShifts  = "# of Shifts"
	ColGC              = "GC"
	ColDTPulledForward = "DT Pulled Forward %"
	ColPunchLaborPct   = "Punch Labor %"
	ColDTGC            = "DT GC"
	ColAverageCheck    = "Average Check"
	ColActVsNeed       = "Act vs Need"
)

// Hourly format.
const (
	ColEndTime        = "End Time"
	ColSTWGC          = "STW GC"
	ColKVSTimePerItem = "KVS Time Per Item"
	ColDTPullForward  = "DT Pull Forward %"
	ColPunchLabor     = "Punch Labor"
)

// HourlyMetricColumns are the nine columns the all-zero row filter looks at.
var HourlyMetricColumns = []string{
	ColAllNetSales,
	ColSTWGC,
	ColR2P,
	ColOEPE,
	ColKVSTimePerItem,
	ColKVSHealthy,
	ColDTPullForward,
	ColPunchLabor,
	ColTPPH,
}

// TotalMarker marks summary rows in the Loc or End Time column.
const TotalMarker = "total"

// DefaultImportPrefix is where the uploader drops exports and the trigger listens.
const DefaultImportPrefix = "shift_manager_imports/"
