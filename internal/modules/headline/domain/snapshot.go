package domain

import "time"

// Snapshot is the last result served by the cache. It is replaced as a whole and
// never modified once published.
type Snapshot struct {
	Items     []Item    `json:"items"`
	FetchedAt time.Time `json:"fetched_at"`
}

// EmptySnapshot is the state before the first successful refresh.
func EmptySnapshot() *Snapshot {
	return &Snapshot{Items: []Item{}}
}

// IsEmpty reports whether the snapshot holds no items.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Items) == 0
}

// Age returns how long ago the snapshot was populated.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Fresh reports whether the snapshot may be served without a refresh.
func (s *Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return !s.IsEmpty() && s.Age(now) < ttl
}

// Next returns the snapshot that replaces s with items fetched at now. FetchedAt
// never moves backwards, even if the clock does.
func (s *Snapshot) Next(items []Item, now time.Time) *Snapshot {
	fetchedAt := now
	if s != nil && s.FetchedAt.After(now) {
		fetchedAt = s.FetchedAt
	}
	return &Snapshot{Items: items, FetchedAt: fetchedAt}
}
