package pagination

// State is the position of a Sequence in its page-walking lifecycle.
type State int

// Sequence states. StateExhausted and StateFailed are terminal.
const (
	StateFetchingFirstPage State = iota
	StateYieldingBuffered
	StateFetchingNextPage
	StateExhausted
	StateFailed
)

var stateNames = [...]string{
	StateFetchingFirstPage: "fetching_first_page",
	StateYieldingBuffered:  "yielding_buffered",
	StateFetchingNextPage:  "fetching_next_page",
	StateExhausted:         "exhausted",
	StateFailed:            "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no transition out of s exists.
func (s State) Terminal() bool {
	return s == StateExhausted || s == StateFailed
}
