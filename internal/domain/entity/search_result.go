package entity

// SearchResult is one hit from the external route lookup. No schema is guaranteed; any
// field may be empty.
type SearchResult struct {
	Title   string
	URL     string
	Content string
}
