package pagination

// Stats describes how far a Sequence has progressed.
type Stats struct {
	PagesFetched  int    `json:"pages_fetched"`
	EmptyPages    int    `json:"empty_pages"`
	ObjectsMapped int    `json:"objects_mapped"`
	Buffered      int    `json:"buffered"`
	State         string `json:"state"`
}
