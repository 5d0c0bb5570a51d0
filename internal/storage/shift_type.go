package storage

// ShiftTypeDefinition is a configured time-of-day bucket. RangeStart and RangeEnd
// are "HH:mm"; RangeEnd <= RangeStart means the range wraps past midnight.
type ShiftTypeDefinition struct {
	ID         int64  `json:"id" yaml:"id"`
	Key        string `json:"key" yaml:"key"`
	Label      string `json:"label" yaml:"label"`
	RangeStart string `json:"range_start" yaml:"range_start"`
	RangeEnd   string `json:"range_end" yaml:"range_end"`
	SortOrder  int    `json:"sort_order" yaml:"sort_order"`
}
