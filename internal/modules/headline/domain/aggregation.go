package domain

// SourceFailure records a source that contributed no items in one cycle.
type SourceFailure struct {
	Source string
	Err    error
}

// Aggregation is the outcome of one fan-out cycle. An empty Items slice means no
// fresh data; it is not an error.
type Aggregation struct {
	Items    []Item
	Failures []SourceFailure
}

// IsEmpty reports whether the cycle produced no usable items.
func (a *Aggregation) IsEmpty() bool {
	return a == nil || len(a.Items) == 0
}
