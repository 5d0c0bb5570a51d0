package ingest

// State is a stage of one pipeline run.
type State int

const (
	StateFetching State = iota
	StateParsing
	StateFormatDetecting
	StateContextResolving
	StateRosterLoading
	StateRowProcessing
	StatePersisting
	StateCleanup
	StateDone
	StateFailed
	// StateAborted ends a run whose store or manager could not be resolved.
	// Nothing is written and the source is left in place.
	StateAborted
)

var stateNames = [...]string{
	StateFetching:         "fetching",
	StateParsing:          "parsing",
	StateFormatDetecting:  "format_detecting",
	StateContextResolving: "context_resolving",
	StateRosterLoading:    "roster_loading",
	StateRowProcessing:    "row_processing",
	StatePersisting:       "persisting",
	StateCleanup:          "cleanup",
	StateDone:             "done",
	StateFailed:           "failed",
	StateAborted:          "aborted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether a run in this state has finished.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateAborted
}
